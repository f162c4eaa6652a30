package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/casemap/internal/capture"
	"github.com/mesh-intelligence/casemap/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir     string `yaml:"data_dir,omitempty"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MinimalLoad bool   `yaml:"minimal_load"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize casemap configuration and capture store",
		Long:  "Create the configuration and data directories, write a default config.yaml\nwhen none exists, and initialize the capture store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}
	configPath := paths.ConfigFile(a.configDir)
	if err := writeConfigIfMissing(configPath, a.flags.dataDir); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	store, err := capture.Open(cmd.Context(), dataDir, a.logger)
	if err != nil {
		return sysError(fmt.Errorf("initialize capture store: %w", err))
	}
	if err := store.Close(); err != nil {
		return sysError(fmt.Errorf("close capture store: %w", err))
	}

	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"config_file": configPath,
			"data_dir":    dataDir,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "casemap initialized\nconfig: %s\ndata: %s\n", configPath, dataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left untouched.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		DataDir:   dataDir,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
