// Package profile resolves per-profile directories under ~/.echochat.
// Each profile owns its own database, log directory and lock file, so
// separate identities never share state.
package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.echochat.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".echochat")
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "profiles", name)
}

// DBPath returns the profile's database path.
func DBPath(name string) string {
	return filepath.Join(Dir(name), "echochat.db")
}

// LockPath returns the lock file path for a profile.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// LogDir returns the log directory for a profile.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the application log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "echochat.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
