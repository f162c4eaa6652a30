// Package paths resolves where casemap keeps its configuration and its
// capture store.
//
// Each location follows a precedence chain: an explicit flag, then the
// config file (data directory only), then an environment variable, then a
// default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under platform locations.
const appName = "casemap"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".casemap"
	DefaultDataDirName   = ".casemap-db"
)

// Environment variables that override directory locations.
const (
	EnvConfigDir = "CASEMAP_CONFIG_DIR"
	EnvDataDir   = "CASEMAP_DATA_DIR"
)

// File names inside the resolved directories.
const (
	ConfigFileName   = "config.yaml"
	CaptureDBName    = "captures.db"
	CaptureJSONLName = "captures.jsonl"
)

// platformDir holds platform lookups; tests replace them.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $env/casemap when env is set, otherwise ~/fallback/casemap.
// Non-Linux platforms use the user config directory for everything.
func xdgDir(env string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, appName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/casemap (fallback ~/.config/casemap)
// macOS:   ~/Library/Application Support/casemap
// Windows: %APPDATA%/casemap
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/casemap (fallback ~/.local/share/casemap)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir returns flag, else $CASEMAP_CONFIG_DIR, else the
// platform default. Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns flag, else the data_dir config value, else
// $CASEMAP_DATA_DIR, else ./.casemap-db in the working directory.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config file path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
