package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalConfig = `
github:
  webhook_secret: shh
  app_id: 1234
  private_key_path: /tmp/key.pem
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadConfigDefaults tests that default values are applied when loading
// a minimal config.
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected default max body bytes 1MiB, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Server.MetricsPath != "/metrics" {
		t.Fatalf("expected default metrics path, got %q", cfg.Server.MetricsPath)
	}
	if cfg.Dispatch.TimeoutMS != 10000 {
		t.Fatalf("expected default dispatch timeout, got %d", cfg.Dispatch.TimeoutMS)
	}
}

// TestLoadConfigExpandsEnv tests that environment variables in the config
// file are expanded.
func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("ALERTBRIDGE_TEST_SECRET", "from-env")

	contents := `
github:
  webhook_secret: ${ALERTBRIDGE_TEST_SECRET}
  app_id: 1234
  private_key_path: /tmp/key.pem
`
	cfg, err := LoadConfig(writeConfig(t, contents))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GitHub.WebhookSecret != "from-env" {
		t.Fatalf("expected expanded secret, got %q", cfg.GitHub.WebhookSecret)
	}
}

// TestLoadConfigMissingSecret tests that a config without a webhook secret
// fails validation.
func TestLoadConfigMissingSecret(t *testing.T) {
	contents := `
github:
  app_id: 1234
  private_key_path: /tmp/key.pem
`
	_, err := LoadConfig(writeConfig(t, contents))
	if err == nil {
		t.Fatalf("expected validation error for missing secret")
	}
	if !strings.Contains(err.Error(), "webhook_secret") {
		t.Fatalf("expected webhook_secret in error, got %v", err)
	}
}

// TestLoadConfigMissingKey tests that a config without any private key
// fails validation.
func TestLoadConfigMissingKey(t *testing.T) {
	contents := `
github:
  webhook_secret: shh
  app_id: 1234
`
	_, err := LoadConfig(writeConfig(t, contents))
	if err == nil {
		t.Fatalf("expected validation error for missing private key")
	}
}

// TestLoadConfigMissingAppID tests that a config without an app id fails
// validation.
func TestLoadConfigMissingAppID(t *testing.T) {
	contents := `
github:
  webhook_secret: shh
  private_key_path: /tmp/key.pem
`
	_, err := LoadConfig(writeConfig(t, contents))
	if err == nil {
		t.Fatalf("expected validation error for missing app id")
	}
}

// TestLoadConfigInvalidPort tests that a negative port fails validation.
func TestLoadConfigInvalidPort(t *testing.T) {
	contents := `
server:
  port: -1
github:
  webhook_secret: shh
  app_id: 1234
  private_key_path: /tmp/key.pem
`
	_, err := LoadConfig(writeConfig(t, contents))
	if err == nil {
		t.Fatalf("expected validation error for negative port")
	}
}
