/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package database

import (
	"net/url"
	"strings"
	"testing"
)

func TestConnectionConfig_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		config ConnectionConfig
		want   bool
	}{
		{"all fields", ConnectionConfig{"h", "2881", "db", "u", "p"}, true},
		{"no password or db", ConnectionConfig{Hostname: "h", Port: "2881", Username: "u"}, true},
		{"missing hostname", ConnectionConfig{Port: "2881", Username: "u"}, false},
		{"missing port", ConnectionConfig{Hostname: "h", Username: "u"}, false},
		{"missing username", ConnectionConfig{Hostname: "h", Port: "2881"}, false},
		{"empty", ConnectionConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewConnectionConfig(t *testing.T) {
	cfg := NewConnectionConfig(map[string]interface{}{
		"hostname": "127.0.0.1",
		"port":     float64(2881),
		"username": "root@test",
	})

	if cfg.Hostname != "127.0.0.1" {
		t.Errorf("Hostname = %q", cfg.Hostname)
	}
	if cfg.Port != "2881" {
		t.Errorf("Port = %q, want 2881", cfg.Port)
	}
	if cfg.DBName != "" || cfg.Password != "" {
		t.Errorf("expected empty db_name and password, got %q and %q", cfg.DBName, cfg.Password)
	}
	if !cfg.IsValid() {
		t.Error("expected config to be valid")
	}
}

func TestConnectionConfig_URI(t *testing.T) {
	cfg := ConnectionConfig{
		Hostname: "db.example.com",
		Port:     "2881",
		DBName:   "test",
		Username: "root@sys#cluster",
		Password: "p@ss:w/rd?&",
	}

	uri := cfg.URI()
	if !strings.HasPrefix(uri, "mysql+oceanbase://") {
		t.Fatalf("URI() = %q, want mysql+oceanbase scheme", uri)
	}
	if !strings.HasSuffix(uri, "/test?charset=utf8mb4") {
		t.Errorf("URI() = %q, want db and charset suffix", uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		t.Fatalf("URI does not parse: %v", err)
	}
	if got := u.User.Username(); got != cfg.Username {
		t.Errorf("username round trip = %q, want %q", got, cfg.Username)
	}
	if got, _ := u.User.Password(); got != cfg.Password {
		t.Errorf("password round trip = %q, want %q", got, cfg.Password)
	}
	if u.Host != "db.example.com:2881" {
		t.Errorf("host = %q", u.Host)
	}
}

func TestConnectionConfig_StringMasksPassword(t *testing.T) {
	cfg := ConnectionConfig{Hostname: "h", Port: "1", Username: "u", Password: "secret"}
	if strings.Contains(cfg.String(), "secret") {
		t.Errorf("String() leaks password: %s", cfg.String())
	}
}
