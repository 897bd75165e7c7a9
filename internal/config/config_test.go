package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: production
server:
  port: "9090"
gateway:
  base_url: https://api.example.com/prod
  api_key: file-key
identity:
  domain: https://auth.example.com
  client_id: client-1
  admin_group: Staff
redis:
  addr: localhost:6379
  ttl: 30m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Gateway.BaseURL != "https://api.example.com/prod" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Identity.AdminGroup != "Staff" {
		t.Fatalf("explicit admin group must win, got %q", cfg.Identity.AdminGroup)
	}
	if cfg.Identity.Scopes != "openid email profile" {
		t.Fatalf("expected default scopes, got %q", cfg.Identity.Scopes)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Identity.AdminGroup != "Admins" {
		t.Fatalf("expected default admin group, got %q", cfg.Identity.AdminGroup)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
gateway:
  api_key: file-key
redis:
  addr: file-addr:6379
`)

	t.Setenv("GATEWAY_API_KEY", "env-key")
	t.Setenv("REDIS_ADDR", "env-addr:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gateway.APIKey != "env-key" {
		t.Fatalf("env must override the file api key, got %q", cfg.Gateway.APIKey)
	}
	if cfg.Redis.Addr != "env-addr:6379" {
		t.Fatalf("env must override the file redis addr, got %q", cfg.Redis.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestTTLDuration(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("empty raw must fall back, got %v", d)
	}
	if d := TTLDuration("45s", time.Minute); d != 45*time.Second {
		t.Fatalf("expected parsed duration, got %v", d)
	}
	if d := TTLDuration("bogus", time.Minute); d != time.Minute {
		t.Fatalf("malformed raw must fall back, got %v", d)
	}
}
