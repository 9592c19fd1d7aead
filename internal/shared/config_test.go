package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tu "spores/internal/testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Parses TOML", func(t *testing.T) {
		path := writeConfigFile(t, `
client_id = "abc"
client_secret = "xyz"
redirect_uri = "http://127.0.0.1:9000/callback"
`)

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.ClientID != "abc" {
			t.Errorf("expected client_id 'abc', got %q", config.ClientID)
		}
		if config.ClientSecret != "xyz" {
			t.Errorf("expected client_secret 'xyz', got %q", config.ClientSecret)
		}
		if config.RedirectURI != "http://127.0.0.1:9000/callback" {
			t.Errorf("expected redirect_uri to be set, got %q", config.RedirectURI)
		}
	})

	t.Run("Defaults Redirect URI", func(t *testing.T) {
		path := writeConfigFile(t, `
client_id = "abc"
client_secret = "xyz"
`)

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.RedirectURI != DefaultRedirectURI {
			t.Errorf("expected default redirect URI, got %q", config.RedirectURI)
		}
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		path := writeConfigFile(t, `
client_id = "from-file"
client_secret = "xyz"
`)
		t.Setenv("SPORES_CLIENT_ID", "from-env")

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.ClientID != "from-env" {
			t.Errorf("expected env override, got %q", config.ClientID)
		}
		if config.ClientSecret != "xyz" {
			t.Errorf("expected file value to survive, got %q", config.ClientSecret)
		}
	})

	t.Run("Dotenv File Overrides", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(path, []byte("client_id = \"abc\"\nclient_secret = \"xyz\"\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SPORES_REDIRECT_URI=http://127.0.0.1:9999/callback\n"), 0o600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}

		wd := tu.MustGetwd(t)
		tu.MustChdir(t, dir)
		t.Cleanup(func() {
			tu.MustChdir(t, wd)
			os.Unsetenv("SPORES_REDIRECT_URI")
		})

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.RedirectURI != "http://127.0.0.1:9999/callback" {
			t.Errorf("expected .env override, got %q", config.RedirectURI)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Invalid TOML", func(t *testing.T) {
		path := writeConfigFile(t, "client_id = [broken")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("Complete Credentials", func(t *testing.T) {
		config := &Config{ClientID: "abc", ClientSecret: "xyz"}
		if err := config.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Missing Secret", func(t *testing.T) {
		config := &Config{ClientID: "abc"}
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.toml")
		config := &Config{ClientID: "abc", ClientSecret: "xyz", RedirectURI: DefaultRedirectURI}

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if *loaded != *config {
			t.Errorf("expected %+v, got %+v", config, loaded)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("Writes Template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spores", "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		contents := tu.MustReadFile(t, path)
		if !strings.Contains(contents, "developer.spotify.com/dashboard") {
			t.Error("expected template to point at the developer dashboard")
		}
		if !strings.Contains(contents, `client_id = ""`) {
			t.Error("expected empty client_id placeholder")
		}
	})

	t.Run("Template Is Valid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected template to parse, got %v", err)
		}
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected blank template to fail validation, got %v", err)
		}
	})

	t.Run("Refuses To Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})
}
