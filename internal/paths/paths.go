package paths

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.udc, or the override when non-empty.
func BaseDir(override string) string {
	if override != "" {
		return override
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".udc")
}

// DBPath returns the local store database path.
func DBPath(base string) string {
	return filepath.Join(base, "udc.db")
}

// LogDir returns the log directory.
func LogDir(base string) string {
	return filepath.Join(base, "logs")
}

// LogPath returns the daemon log file path.
func LogPath(base string) string {
	return filepath.Join(LogDir(base), "udcd.log")
}

// ConfigPath returns the config file path under the default base dir.
func ConfigPath() string {
	return filepath.Join(BaseDir(""), "config.toml")
}

// EnsureDirs creates the data directory tree with private permissions.
func EnsureDirs(base string) error {
	for _, d := range []string{base, LogDir(base)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
