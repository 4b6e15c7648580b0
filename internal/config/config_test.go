package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `server:
  address: 127.0.0.1
  port: 9090
  mode: test

database:
  path: data/test.db

jwt:
  secret: test-secret
  issuer: loantrack
  expire_hours: 2

security:
  bcrypt_cost: 4

app:
  page_size: 25

policy:
  single_active_loan: true
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.JWT.ExpireHours != 2 {
		t.Errorf("expire_hours = %d, want 2", cfg.JWT.ExpireHours)
	}
	if !cfg.Policy.SingleActiveLoan {
		t.Error("single_active_loan should be true")
	}
	if cfg.App.PageSize != 25 {
		t.Errorf("page_size = %d, want 25", cfg.App.PageSize)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	minimal := "server:\n  port: 8080\n"
	if err := os.WriteFile(path, []byte(minimal), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.JWT.ExpireHours != 24 {
		t.Errorf("expire_hours = %d, want default 24", cfg.JWT.ExpireHours)
	}
	if cfg.App.PageSize != 10 {
		t.Errorf("page_size = %d, want default 10", cfg.App.PageSize)
	}
	if cfg.Policy.SingleActiveLoan {
		t.Error("single_active_loan should default to false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
