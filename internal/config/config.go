package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Country is a dialing prefix entry for the login form.
type Country struct {
	Name string `toml:"name"`
	Code string `toml:"code"`
}

// Config represents the global ~/.echochat/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	// OTPSecret switches login verification from the fixed demo code to
	// real TOTP codes generated from this base32 secret.
	OTPSecret string `toml:"otp_secret"`
	// Countries overrides the built-in dialing prefix list.
	Countries []Country `toml:"countries"`
}

// Load reads config from the given path. Returns zero config and error
// if the file is missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
