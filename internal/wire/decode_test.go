package wire

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/casemap/pkg/types"
)

func TestDecodeRoot(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantID   int64
		wantErr  error
	}{
		{name: "with id", input: `<Ticket id="12"/>`, wantType: "Ticket", wantID: 12},
		{name: "malformed id", input: `<Ticket id="twelve"/>`, wantType: "Ticket"},
		{name: "declaration is tolerated", input: `<?xml version="1.0" encoding="utf-8"?><Account id="3"/>`, wantType: "Account", wantID: 3},
		{name: "empty input", input: "  \n", wantErr: types.ErrEmptyDocument},
		{name: "truncated", input: `<Ticket id="1"`, wantErr: types.ErrInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Decode([]byte(tt.input), DecodeOptions{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, e.Type)
			assert.Equal(t, tt.wantID, e.ID)
			assert.True(t, e.FullyLoaded)
			assert.False(t, e.IsDirty())
		})
	}
}

func TestDecodeCustomFieldAttributes(t *testing.T) {
	doc := `<Ticket id="1">` +
		`<Custom_Field id="3" display-name="Region" required="yes" EDITABLE="true" max-length="abc" data-type="weird">x</Custom_Field>` +
		`<Custom_Field id="4" display-name="Notes" required="True" max-length="250" data-type="Text" Multi-Value="false" dependent="1">a &amp;lt; b</Custom_Field>` +
		`<Custom_Field id="oops">skipped</Custom_Field>` +
		`<Custom_Field>skipped</Custom_Field>` +
		`<Custom_Field id="3">duplicate</Custom_Field>` +
		`</Ticket>`

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, err := Decode([]byte(doc), DecodeOptions{Logger: logger})
	require.NoError(t, err)
	require.Len(t, e.CustomFields, 2)

	region := e.CustomFields[0]
	assert.Equal(t, int64(3), region.ID)
	assert.Equal(t, "Region", region.Name)
	assert.False(t, region.Required)
	assert.True(t, region.Editable)
	assert.Equal(t, 0, region.MaxLength)
	assert.Equal(t, types.DataTypeUnknown, region.DataType)
	assert.Equal(t, "x", region.Value)

	notes := e.CustomFields[1]
	assert.True(t, notes.Required)
	assert.False(t, notes.Editable)
	assert.Equal(t, 250, notes.MaxLength)
	assert.Equal(t, types.DataTypeString, notes.DataType)
	assert.False(t, notes.MultiValue)
	assert.True(t, notes.Dependent)
	assert.Equal(t, "a < b", notes.Value)

	assert.Contains(t, logs.String(), "skipping custom field")
	assert.Contains(t, logs.String(), "skipping duplicate custom field")
}

func TestDecodeCustomFieldScalars(t *testing.T) {
	tests := []struct {
		dataType string
		text     string
		want     string
	}{
		{"date", "2024-03-04T05:06:07", "2024-03-04T05:06:07Z"},
		{"date", "2024-03-04T05:06:07z", "2024-03-04T05:06:07Z"},
		{"date", "2024-03-04T07:06:07+02:00", "2024-03-04T05:06:07Z"},
		{"date", "soon", "soon"},
		{"boolean", "True", "true"},
		{"boolean", "0", "false"},
		{"boolean", "sometimes", "sometimes"},
		{"int", "0042", "42"},
		{"int", "4.2", "4.2"},
		{"string", " padded ", " padded "},
	}
	for _, tt := range tests {
		t.Run(tt.dataType+"/"+tt.text, func(t *testing.T) {
			doc := `<Asset><Custom_Field id="1" data-type="` + tt.dataType + `">` + tt.text + `</Custom_Field></Asset>`
			e, err := Decode([]byte(doc), DecodeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.CustomFieldValue(types.ByID(1)))
		})
	}
}

const optionDoc = `<Ticket id="1">` +
	`<Custom_Field id="7" display-name="Product" data-type="option" multi-value="false">` +
	`<Option id="1" selected="true"><Value>Widget</Value>` +
	`<Enables>Custom_Field[@id=12]/Option[@id=3 or @id=4]</Enables>` +
	`<Enables>no target here</Enables></Option>` +
	`<Option id="2" Dependent="true"><Value>Gadget</Value><Enables>Custom_Field[@id=13]</Enables></Option>` +
	`<Option id="3" selected="nope"><Value>Gizmo</Value></Option>` +
	`</Custom_Field></Ticket>`

func TestDecodeOptions(t *testing.T) {
	e, err := Decode([]byte(optionDoc), DecodeOptions{})
	require.NoError(t, err)

	cf := e.CustomField(types.ByName("product"))
	require.NotNil(t, cf)
	assert.Equal(t, types.DataTypeOption, cf.DataType)
	require.Len(t, cf.Options, 3)

	widget := cf.Options[0]
	assert.Equal(t, "Widget", widget.Name)
	assert.True(t, widget.Selected)
	assert.Equal(t, []types.DependentField{{
		FieldID:   12,
		OptionIDs: []int64{3, 4},
		Path:      "Custom_Field[@id=12]/Option[@id=3 or @id=4]",
	}}, widget.Dependencies)

	gadget := cf.Options[1]
	assert.True(t, gadget.Dependent)
	assert.False(t, gadget.Selected)
	assert.Equal(t, []types.DependentField{{FieldID: 13, Path: "Custom_Field[@id=13]"}}, gadget.Dependencies)

	assert.False(t, cf.Options[2].Selected)
	assert.Equal(t, "Widget", e.CustomFieldValue(types.ByID(7)))
}

func TestDecodeMinimal(t *testing.T) {
	e, err := Decode([]byte(optionDoc), DecodeOptions{Minimal: true})
	require.NoError(t, err)

	assert.False(t, e.FullyLoaded)
	cf := e.CustomField(types.ByID(7))
	require.NotNil(t, cf)
	require.Len(t, cf.Options, 1)
	assert.Equal(t, int64(1), cf.Options[0].ID)
	assert.Empty(t, cf.Options[0].Dependencies)
}

func TestDecodeStaticFields(t *testing.T) {
	doc := `<Ticket id="5">` +
		`<Ticket_Number>T-100</Ticket_Number>` +
		`<Department><Department id="4"><Name>Support</Name></Department></Department>` +
		`<Ticket_Customer><Customer id="9"/></Ticket_Customer>` +
		`<Ticket_Children><Ticket id="6"/><Ticket id="7"/></Ticket_Children>` +
		`<Hide_From_Customer>TRUE</Hide_From_Customer>` +
		`<Cc_Csr>a@example.com, b@example.com,</Cc_Csr>` +
		`<Date_Created>2024-05-06T07:08:09Z</Date_Created>` +
		`<Date_Updated>whenever</Date_Updated>` +
		`<Ticket_Attachments><Attachment><Guid>g1</Guid><Name>a.txt</Name><URL>https://files/g1</URL></Attachment></Ticket_Attachments>` +
		`<Legacy_Code>xyz</Legacy_Code>` +
		`<Watchers><Csr id="1"/><Csr id="2"/></Watchers>` +
		`<Owner><Csr id="8"/></Owner>` +
		`</Ticket>`

	e, err := Decode([]byte(doc), DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "T-100", e.String("Ticket_Number"))

	dept := e.RefField("Department")
	assert.Equal(t, types.Ref(types.EntityDepartment, 4), types.Ref(dept.Type, dept.ID))
	assert.Equal(t, "Support", dept.Name)
	require.NotNil(t, dept.Snapshot)
	assert.False(t, dept.Snapshot.FullyLoaded)
	assert.Equal(t, "Support", dept.Snapshot.String("Name"))

	customer := e.RefField("Ticket_Customer")
	assert.Equal(t, types.Ref(types.EntityCustomer, 9), customer)

	assert.Equal(t, []types.EntityRef{types.Ref(types.EntityTicket, 6), types.Ref(types.EntityTicket, 7)}, e.Refs("Ticket_Children"))
	assert.True(t, e.Bool("Hide_From_Customer"))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, e.Strings("Cc_Csr"))
	assert.True(t, e.Time(types.FieldDateCreated).Equal(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))
	assert.Equal(t, "whenever", e.Get(types.FieldDateUpdated))
	assert.Equal(t, []types.Attachment{{GUID: "g1", Name: "a.txt", URL: "https://files/g1"}}, e.Attachments("Ticket_Attachments"))

	assert.Equal(t, "xyz", e.String("Legacy_Code"))
	assert.Equal(t, types.DataTypeEntityList, e.Field("Watchers").DataType)
	assert.Len(t, e.Refs("Watchers"), 2)
	assert.Equal(t, types.Ref(types.EntityCsr, 8), e.RefField("Owner"))
}

func TestDecodeSingleFolderWrapper(t *testing.T) {
	e, err := Decode([]byte(`<Download id="3"><Folder><DownloadFolder id="11"/></Folder></Download>`), DecodeOptions{})
	require.NoError(t, err)

	require.Len(t, e.Fields, 1)
	assert.Equal(t, types.FieldFolders, e.Fields[0].Name)
	assert.Equal(t, []types.EntityRef{types.FolderDownload.Ref(11)}, e.Refs(types.FieldFolders))
	assert.False(t, e.MultipleFolders)
}

func TestDecodeMultipleFolders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plural wrapper", input: `<Download id="3"><Folders><DownloadFolder id="11"/><DownloadFolder id="12"/></Folders></Download>`, want: true},
		{name: "plural wrapper with one folder", input: `<Download id="3"><Folders><DownloadFolder id="11"/></Folders></Download>`, want: true},
		{name: "single wrapper", input: `<Download id="3"><Folder><DownloadFolder id="11"/></Folder></Download>`},
		{name: "no folders", input: `<Download id="3"><Title>x</Title></Download>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Decode([]byte(tt.input), DecodeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.MultipleFolders)

			out, err := Encode(e)
			require.NoError(t, err)
			assert.Equal(t, tt.input, string(out))
		})
	}
}

func TestDecodeCDATA(t *testing.T) {
	e, err := Decode([]byte(`<Product><Longdesc><![CDATA[<p>Hi & bye</p>]]></Longdesc></Product>`), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi & bye</p>", e.String("Longdesc"))
}

func TestDecodeRequestCustomFields(t *testing.T) {
	doc := `<Ticket id="9">` +
		`<Custom_Field id="5">hello</Custom_Field>` +
		`<Custom_Field id="6"/>` +
		`<Custom_Field id="7"><Option id="70" selected="true"/><Option id="71"/></Custom_Field>` +
		`</Ticket>`

	e, err := Decode([]byte(doc), DecodeOptions{Request: true})
	require.NoError(t, err)
	require.Len(t, e.CustomFields, 3)

	text := e.CustomField(types.ByID(5))
	assert.Equal(t, types.DataTypeString, text.DataType)
	assert.Equal(t, "hello", text.Value)
	assert.False(t, text.FlagToDelete)

	assert.True(t, e.CustomField(types.ByID(6)).FlagToDelete)
	assert.False(t, e.CustomField(types.ByID(7)).FlagToDelete)

	out, err := Encode(e)
	require.NoError(t, err)
	assert.Equal(t, doc, string(out))

	plain, err := Decode([]byte(doc), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.DataTypeUnknown, plain.CustomField(types.ByID(5)).DataType)
	assert.False(t, plain.CustomField(types.ByID(6)).FlagToDelete)
}

func TestDecodeTicketStatus(t *testing.T) {
	doc := `<Ticket id="4"><Ticket_Status><Status id="7"><Name>Open</Name><Customer_Text>We are on it</Customer_Text></Status></Ticket_Status></Ticket>`
	e, err := Decode([]byte(doc), DecodeOptions{})
	require.NoError(t, err)

	s, ok := e.Status("Ticket_Status")
	require.True(t, ok)
	assert.Equal(t, types.StatusTicket, s.Kind)
	assert.Equal(t, int64(7), s.ID)
	assert.Equal(t, "Open", s.Name)
	assert.Equal(t, "We are on it", s.CustomerText)
}

func TestDecodeAttachmentOutcome(t *testing.T) {
	doc := `<Ticket id="2"><Ticket_Attachments>` +
		`<Attachment><Guid>g1</Guid><Name>a.txt</Name><Success>true</Success></Attachment>` +
		`<Attachment><Guid>g2</Guid><Name>b.exe</Name><Error>file type not allowed</Error><Success>False</Success></Attachment>` +
		`</Ticket_Attachments></Ticket>`
	e, err := Decode([]byte(doc), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []types.Attachment{
		{GUID: "g1", Name: "a.txt", Success: true},
		{GUID: "g2", Name: "b.exe", Error: "file type not allowed"},
	}, e.Attachments("Ticket_Attachments"))
}
