package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultRedirectURI is where the local callback server listens during
// interactive authorization. Spotify rejects "localhost", so the default uses
// 127.0.0.1.
const DefaultRedirectURI = "http://127.0.0.1:8888/callback"

// Config holds the Spotify application credentials loaded from config.toml.
//
// Any field can be overridden through its SPORES_* environment variable,
// including from a .env file in the working directory.
type Config struct {
	ClientID     string `toml:"client_id" envconfig:"SPORES_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" envconfig:"SPORES_CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" envconfig:"SPORES_REDIRECT_URI"`
}

// DefaultConfigPath returns <user config dir>/spores/config.toml.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: could not determine config directory: %v", ErrInvalidConfig, err)
	}
	return filepath.Join(base, "spores", "config.toml"), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies SPORES_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, path, err)
	}

	// A .env file is optional.
	_ = godotenv.Load()
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if config.RedirectURI == "" {
		config.RedirectURI = DefaultRedirectURI
	}

	return &config, nil
}

// Validate checks that the fields required for authorization are present.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret must be set", ErrInvalidConfig)
	}
	return nil
}

// SaveConfig writes the config as TOML at the specified path, creating the
// parent directory if needed.
func SaveConfig(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateConfigFile writes the embedded example config to the specified path
// for the user to fill in.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
