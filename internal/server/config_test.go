package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got := cfg.GetString("server.port"); got != "8080" {
		t.Errorf("server.port = %q, want %q", got, "8080")
	}
	if got := cfg.GetString("database.path"); got != "footfall.db" {
		t.Errorf("database.path = %q, want %q", got, "footfall.db")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\ndatabase:\n  path: /tmp/test.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.GetString("server.port"); got != "9090" {
		t.Errorf("server.port = %q, want %q", got, "9090")
	}
	if got := cfg.GetString("database.path"); got != "/tmp/test.db" {
		t.Errorf("database.path = %q, want %q", got, "/tmp/test.db")
	}
	// Keys absent from the file keep their defaults.
	if got := cfg.GetString("server.host"); got != "0.0.0.0" {
		t.Errorf("server.host = %q, want default", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadConfig with missing file = nil error, want failure")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("FOOTFALL_SERVER_PORT", "7070")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.GetString("server.port"); got != "7070" {
		t.Errorf("server.port = %q, want env override %q", got, "7070")
	}
}
