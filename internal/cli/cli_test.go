package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casemap/internal/paths"
	"github.com/mesh-intelligence/casemap/pkg/casemap"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

// testDirs holds per-test config and data directories.
type testDirs struct {
	config string
	data   string
}

func newTestDirs(t *testing.T) testDirs {
	t.Helper()
	base := t.TempDir()
	return testDirs{
		config: filepath.Join(base, "config"),
		data:   filepath.Join(base, "data"),
	}
}

// run executes the command tree with args and returns stdout.
func (d testDirs) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", d.config, "--data-dir", d.data}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	d := newTestDirs(t)

	out, err := d.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "casemap v"+casemap.Version)
	assert.Contains(t, out, modulePath)

	out, err = d.run(t, "", "--json", "version")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, casemap.Version, got["version"])
}

func TestInitCmd(t *testing.T) {
	d := newTestDirs(t)

	out, err := d.run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "casemap initialized")

	configPath := paths.ConfigFile(d.config)
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: warn")
	assert.Contains(t, string(data), "data_dir: "+d.data)

	_, err = os.Stat(filepath.Join(d.data, paths.CaptureJSONLName))
	assert.NoError(t, err)

	// An existing config.yaml is kept.
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: debug\n"), 0o644))
	_, err = d.run(t, "", "init")
	require.NoError(t, err)
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\n", string(data))
}

func TestEncodeCmd(t *testing.T) {
	d := newTestDirs(t)

	t.Run("fixture file", func(t *testing.T) {
		out, err := d.run(t, "", "encode", filepath.Join("..", "fixture", "testdata", "ticket.yaml"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, `<Ticket id="12">`), out)
		assert.Contains(t, out, `<Cc_Csr>a@example.com,b@example.com</Cc_Csr>`)
	})

	t.Run("stdin", func(t *testing.T) {
		fixtureYAML := "type: Department\nfields:\n  Name: Support\n"
		out, err := d.run(t, fixtureYAML, "encode")
		require.NoError(t, err)
		assert.Equal(t, "<Department><Name>Support</Name></Department>\n", out)
	})

	t.Run("json output", func(t *testing.T) {
		out, err := d.run(t, "type: Department\nid: 3\n", "--json", "encode", "-")
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, `<Department id="3"/>`, got["xml"])
	})

	t.Run("fake entity", func(t *testing.T) {
		out, err := d.run(t, "", "encode", "--fake", types.EntityDownload, "--seed", "7")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "<Download"), out)

		again, err := d.run(t, "", "encode", "--fake", types.EntityDownload, "--seed", "7")
		require.NoError(t, err)
		assert.Equal(t, out, again, "same seed, same document")
	})

	t.Run("unknown fake type", func(t *testing.T) {
		_, err := d.run(t, "", "encode", "--fake", "Spaceship")
		assert.ErrorIs(t, err, types.ErrUnknownEntityType)
	})

	t.Run("invalid fixture", func(t *testing.T) {
		_, err := d.run(t, "fields: [", "encode")
		assert.ErrorIs(t, err, types.ErrInvalidFixture)
	})
}

const ticketXML = `<Ticket id="12"><Hide_From_Customer>true</Hide_From_Customer>` +
	`<Custom_Field id="3" display-name="Region" data-type="option">` +
	`<Option id="30" selected="true"><Value>EU</Value></Option>` +
	`<Option id="31"><Value>US</Value></Option>` +
	`</Custom_Field></Ticket>`

func TestDecodeCmd(t *testing.T) {
	d := newTestDirs(t)

	t.Run("yaml", func(t *testing.T) {
		out, err := d.run(t, ticketXML, "decode")
		require.NoError(t, err)
		assert.Contains(t, out, "type: Ticket")
		assert.Contains(t, out, "id: 12")
		assert.Contains(t, out, "Hide_From_Customer: true")
	})

	t.Run("json", func(t *testing.T) {
		out, err := d.run(t, ticketXML, "decode", "--format", "json")
		require.NoError(t, err)
		var e types.Entity
		require.NoError(t, json.Unmarshal([]byte(out), &e))
		assert.Equal(t, types.EntityTicket, e.Type)
		require.Len(t, e.CustomFields, 1)
		assert.Len(t, e.CustomFields[0].Options, 2)
	})

	t.Run("minimal drops unselected options", func(t *testing.T) {
		out, err := d.run(t, ticketXML, "--json", "decode", "--minimal")
		require.NoError(t, err)
		var e types.Entity
		require.NoError(t, json.Unmarshal([]byte(out), &e))
		require.Len(t, e.CustomFields, 1)
		assert.Len(t, e.CustomFields[0].Options, 1)
		assert.False(t, e.FullyLoaded)
	})

	t.Run("dump", func(t *testing.T) {
		out, err := d.run(t, ticketXML, "decode", "--format", "dump")
		require.NoError(t, err)
		assert.Contains(t, out, "types.Entity")
	})

	t.Run("listing", func(t *testing.T) {
		listing := `<Entities total="2" results="2"><Department id="1"/><Department id="2"/></Entities>`
		out, err := d.run(t, listing, "decode", "--list")
		require.NoError(t, err)
		assert.Contains(t, out, "# total: 2")
		assert.Equal(t, 2, strings.Count(out, "---"))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := d.run(t, ticketXML, "decode", "--format", "toml")
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := d.run(t, "", "decode")
		assert.ErrorIs(t, err, types.ErrEmptyDocument)
	})
}

func TestDecodeMinimalFromConfig(t *testing.T) {
	d := newTestDirs(t)
	require.NoError(t, os.MkdirAll(d.config, 0o755))
	require.NoError(t, os.WriteFile(paths.ConfigFile(d.config), []byte("minimal_load: true\n"), 0o644))

	out, err := d.run(t, ticketXML, "--json", "decode")
	require.NoError(t, err)
	var e types.Entity
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Len(t, e.CustomFields[0].Options, 1)
}

const capturesJSONL = `{"capture_id":"c1","captured_at":"2024-03-01T10:00:00Z","method":"POST","url":"department","entity_type":"Department","status_code":201,"request":"<Department><Name>Support</Name></Department>","response":"<Department id=\"3\"/>"}
{"capture_id":"c2","captured_at":"2024-03-01T10:01:00Z","method":"GET","url":"ticket/1","entity_type":"Ticket","status_code":200,"response":"<Ticket id=\"1\""}
`

func TestCapturesCmd(t *testing.T) {
	d := newTestDirs(t)

	out, err := d.run(t, capturesJSONL, "captures", "import")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 captures")

	out, err = d.run(t, "", "captures", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "ticket/1")

	out, err = d.run(t, "", "--json", "captures", "list", "--type", "department")
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "c1", listed[0]["capture_id"])

	out, err = d.run(t, "", "captures", "show", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "POST department")
	assert.Contains(t, out, "<Department><Name>Support</Name></Department>")

	_, err = d.run(t, "", "captures", "show", "nope")
	assert.Error(t, err)

	out, err = d.run(t, "", "captures", "verify", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = d.run(t, "", "captures", "verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "FAIL")

	exportPath := filepath.Join(t.TempDir(), "out.jsonl")
	_, err = d.run(t, "", "captures", "export", exportPath)
	require.NoError(t, err)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	out, err = d.run(t, "", "captures", "export")
	require.NoError(t, err)
	assert.Equal(t, string(data), out)
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Equal(t, defaultLogLevel, cfg.GetString(cfgKeyLogLevel))
		assert.False(t, cfg.GetBool(cfgKeyMinimalLoad))
	})

	t.Run("file values", func(t *testing.T) {
		dir := t.TempDir()
		content := "data_dir: /tmp/x\nlog_level: debug\nlog_format: json\n"
		require.NoError(t, os.WriteFile(paths.ConfigFile(dir), []byte(content), 0o644))
		cfg, err := loadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/x", cfg.GetString(cfgKeyDataDir))
		assert.Equal(t, "json", cfg.GetString(cfgKeyLogFormat))
	})

	t.Run("env overrides log level", func(t *testing.T) {
		t.Setenv(envLogLevel, "error")
		cfg, err := loadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.GetString(cfgKeyLogLevel))
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(paths.ConfigFile(dir), []byte("log_level: [\n"), 0o644))
		_, err := loadConfig(dir)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "text", level: "info", format: "text"},
		{name: "json", level: "debug", format: "json"},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(t.TempDir())
			require.NoError(t, err)
			cfg.Set(cfgKeyLogLevel, tt.level)
			cfg.Set(cfgKeyLogFormat, tt.format)

			var buf bytes.Buffer
			logger, err := newLogger(cfg, &buf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			logger.Error("hello")
			assert.Contains(t, buf.String(), "hello")
		})
	}
}
