/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oceanbase-mcp.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.HTTP.Enabled {
		t.Error("Expected HTTP to be disabled by default")
	}
	if cfg.HTTP.Address != ":8080" {
		t.Errorf("Expected default address ':8080', got %s", cfg.HTTP.Address)
	}
	if cfg.Database.Port != 2881 {
		t.Errorf("Expected default port 2881, got %d", cfg.Database.Port)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Expected default log level 'error', got %s", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  hostname: ob.example.com
  port: 2883
  db_name: shop
  username: root@sys
  password: secret
models:
  openai:
    api_key: sk-file
http:
  enabled: true
  address: ":9090"
log_level: info
`)

	cfg, err := LoadConfig(path, CLIFlags{ConfigFileSet: true})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Database.Hostname != "ob.example.com" || cfg.Database.Port != 2883 {
		t.Errorf("Unexpected database config: %+v", cfg.Database)
	}
	if cfg.Models.OpenAI.APIKey != "sk-file" {
		t.Errorf("Expected OpenAI key from file, got %q", cfg.Models.OpenAI.APIKey)
	}
	if cfg.Models.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Expected Ollama default to survive, got %q", cfg.Models.Ollama.BaseURL)
	}
	if !cfg.HTTP.Enabled || cfg.HTTP.Address != ":9090" {
		t.Errorf("Unexpected HTTP config: %+v", cfg.HTTP)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	path := writeConfigFile(t, `
database:
  hostname: from-file
  username: file-user
  db_name: file-db
`)

	t.Setenv("OCEANBASE_HOST", "from-env")
	t.Setenv("OCEANBASE_USER", "env-user")
	t.Setenv("OCEANBASE_PORT", "3306")

	cfg, err := LoadConfig(path, CLIFlags{
		ConfigFileSet: true,
		DBHost:        "from-flag",
		DBHostSet:     true,
	})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Database.Hostname != "from-flag" {
		t.Errorf("Expected flag to win, got %s", cfg.Database.Hostname)
	}
	if cfg.Database.Username != "env-user" {
		t.Errorf("Expected env to beat file, got %s", cfg.Database.Username)
	}
	if cfg.Database.DBName != "file-db" {
		t.Errorf("Expected file value, got %s", cfg.Database.DBName)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Expected env port 3306, got %d", cfg.Database.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("OCEANBASE_HOST", "")
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	if _, err := LoadConfig(missing, CLIFlags{ConfigFileSet: true}); err == nil {
		t.Error("Expected error for explicit missing config file")
	}

	cfg, err := LoadConfig(missing, CLIFlags{})
	if err != nil {
		t.Fatalf("Expected defaults for missing default config file, got %v", err)
	}
	if cfg.Database.Hostname != "127.0.0.1" {
		t.Errorf("Expected default hostname, got %s", cfg.Database.Hostname)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "database: [unterminated"},
		{"port out of range", "database:\n  port: 70000\n"},
		{"unknown log level", "log_level: verbose\n"},
		{"tls without http", "http:\n  tls:\n    enabled: true\n    cert_file: c\n    key_file: k\n"},
		{"tls without cert", "http:\n  enabled: true\n  tls:\n    enabled: true\n    key_file: k\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadConfig(path, CLIFlags{ConfigFileSet: true}); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestAPIKeyFile(t *testing.T) {
	t.Setenv("VOYAGE_API_KEY", "")
	keyFile := filepath.Join(t.TempDir(), "voyage.key")
	if err := os.WriteFile(keyFile, []byte("  vk-123\n"), 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	path := writeConfigFile(t, "models:\n  voyage:\n    api_key_file: "+keyFile+"\n")

	cfg, err := LoadConfig(path, CLIFlags{ConfigFileSet: true})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Models.Voyage.APIKey != "vk-123" {
		t.Errorf("Expected key from file, got %q", cfg.Models.Voyage.APIKey)
	}

	t.Setenv("VOYAGE_API_KEY", "vk-env")
	cfg, err = LoadConfig(path, CLIFlags{ConfigFileSet: true})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Models.Voyage.APIKey != "vk-env" {
		t.Errorf("Expected env key to win over file, got %q", cfg.Models.Voyage.APIKey)
	}
}

func TestReadAPIKeyFromFileMissing(t *testing.T) {
	key, err := readAPIKeyFromFile(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if key != "" {
		t.Errorf("Expected empty key, got %q", key)
	}
}

func TestCredentials(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Username = "root@test"
	cfg.Database.Password = "pw"

	creds := cfg.Credentials()
	if creds.Port != "2881" {
		t.Errorf("Expected port '2881', got %q", creds.Port)
	}
	if !creds.IsValid() {
		t.Errorf("Expected valid credentials, got %s", creds.String())
	}

	cfg.Database.Port = 0
	if cfg.Credentials().Port != "" {
		t.Error("Expected empty port for zero value")
	}
}

func TestModelCredentials(t *testing.T) {
	cfg := defaultConfig()
	cfg.Models.Cohere.APIKey = "co-key"

	creds := cfg.ModelCredentials()
	if len(creds) != 5 {
		t.Errorf("Expected 5 providers, got %d", len(creds))
	}
	if creds["cohere"].APIKey != "co-key" {
		t.Errorf("Expected cohere key, got %q", creds["cohere"].APIKey)
	}
	if creds["ollama"].BaseURL != "http://localhost:11434" {
		t.Errorf("Unexpected ollama base URL %q", creds["ollama"].BaseURL)
	}
}
