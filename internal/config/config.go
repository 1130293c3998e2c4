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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/logging"
	"oceanbase-mcp/internal/models"
)

// Config represents the complete server configuration
type Config struct {
	// Database credentials used by every tool invocation
	Database DatabaseConfig `yaml:"database"`

	// Model provider credentials, keyed by provider
	Models ModelsConfig `yaml:"models"`

	// HTTP server configuration
	HTTP HTTPConfig `yaml:"http"`

	// Log level: debug, info, warn or error
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig holds the OceanBase credentials
type DatabaseConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	DBName   string `yaml:"db_name"`
	Username string `yaml:"username"` // user@tenant for OceanBase
	Password string `yaml:"password"`
}

// ProviderConfig holds the settings of one model provider
type ProviderConfig struct {
	APIKey     string `yaml:"api_key"`      // direct value, discouraged; prefer api_key_file or env var
	APIKeyFile string `yaml:"api_key_file"` // path to a file containing the API key
	BaseURL    string `yaml:"base_url"`
}

// ModelsConfig holds the model provider settings
type ModelsConfig struct {
	OpenAI    ProviderConfig `yaml:"openai"`
	Voyage    ProviderConfig `yaml:"voyage"`
	Anthropic ProviderConfig `yaml:"anthropic"`
	Cohere    ProviderConfig `yaml:"cohere"`
	Ollama    ProviderConfig `yaml:"ollama"`
}

// HTTPConfig holds HTTP/HTTPS server settings
type HTTPConfig struct {
	Enabled bool      `yaml:"enabled"`
	Address string    `yaml:"address"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS/HTTPS settings
type TLSConfig struct {
	Enabled   bool   `yaml:"enabled"`
	CertFile  string `yaml:"cert_file"`
	KeyFile   string `yaml:"key_file"`
	ChainFile string `yaml:"chain_file"`
}

// CLIFlags represents command line flag values and whether they were explicitly set
type CLIFlags struct {
	ConfigFileSet bool

	HTTPEnabled    bool
	HTTPEnabledSet bool
	HTTPAddr       string
	HTTPAddrSet    bool

	DBHost     string
	DBHostSet  bool
	DBPort     int
	DBPortSet  bool
	DBName     string
	DBNameSet  bool
	DBUser     string
	DBUserSet  bool
	DBPassword string
	DBPassSet  bool

	LogLevel    string
	LogLevelSet bool
}

// LoadConfig loads configuration with proper priority:
// 1. Command line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Hard-coded defaults (lowest priority)
func LoadConfig(configPath string, cliFlags CLIFlags) (*Config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			// A missing default file is fine; an explicit one must load
			if cliFlags.ConfigFileSet || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	applyEnvironmentVariables(cfg)
	applyCLIFlags(cfg, cliFlags)
	loadAPIKeyFiles(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns configuration with hard-coded defaults
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Hostname: "127.0.0.1",
			Port:     2881,
			DBName:   "test",
		},
		Models: ModelsConfig{
			Ollama: ProviderConfig{BaseURL: "http://localhost:11434"},
		},
		HTTP: HTTPConfig{
			Address: ":8080",
		},
		LogLevel: "error",
	}
}

// loadConfigFile decodes a YAML file over cfg. Keys absent from the file
// keep their current values.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// applyEnvironmentVariables overrides config with environment variables if they exist
func applyEnvironmentVariables(cfg *Config) {
	setStringFromEnv(&cfg.Database.Hostname, "OCEANBASE_HOST")
	setIntFromEnv(&cfg.Database.Port, "OCEANBASE_PORT")
	setStringFromEnv(&cfg.Database.DBName, "OCEANBASE_DB_NAME")
	setStringFromEnv(&cfg.Database.Username, "OCEANBASE_USER")
	setStringFromEnv(&cfg.Database.Password, "OCEANBASE_PASSWORD")

	setStringFromEnv(&cfg.Models.OpenAI.APIKey, "OPENAI_API_KEY")
	setStringFromEnv(&cfg.Models.Voyage.APIKey, "VOYAGE_API_KEY")
	setStringFromEnv(&cfg.Models.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setStringFromEnv(&cfg.Models.Cohere.APIKey, "COHERE_API_KEY")
	setStringFromEnv(&cfg.Models.Ollama.BaseURL, "OLLAMA_BASE_URL")

	setBoolFromEnv(&cfg.HTTP.Enabled, "OCEANBASE_MCP_HTTP_ENABLED")
	setStringFromEnv(&cfg.HTTP.Address, "OCEANBASE_MCP_HTTP_ADDRESS")

	setStringFromEnv(&cfg.LogLevel, logging.EnvLogLevel)
}

// applyCLIFlags overrides config with CLI flags if they were explicitly set
func applyCLIFlags(cfg *Config, flags CLIFlags) {
	if flags.HTTPEnabledSet {
		cfg.HTTP.Enabled = flags.HTTPEnabled
	}
	if flags.HTTPAddrSet {
		cfg.HTTP.Address = flags.HTTPAddr
	}

	if flags.DBHostSet {
		cfg.Database.Hostname = flags.DBHost
	}
	if flags.DBPortSet {
		cfg.Database.Port = flags.DBPort
	}
	if flags.DBNameSet {
		cfg.Database.DBName = flags.DBName
	}
	if flags.DBUserSet {
		cfg.Database.Username = flags.DBUser
	}
	if flags.DBPassSet {
		cfg.Database.Password = flags.DBPassword
	}

	if flags.LogLevelSet {
		cfg.LogLevel = flags.LogLevel
	}
}

// loadAPIKeyFiles fills API keys that are still empty from their
// api_key_file. Unreadable files are logged and skipped.
func loadAPIKeyFiles(cfg *Config) {
	for name, p := range cfg.Models.providers() {
		if p.APIKey != "" || p.APIKeyFile == "" {
			continue
		}
		key, err := readAPIKeyFromFile(p.APIKeyFile)
		if err != nil {
			logging.Warn("api_key_file_unreadable", "provider", name, "path", p.APIKeyFile, "error", err.Error())
			continue
		}
		p.APIKey = key
	}
}

// validateConfig checks if the configuration is valid. Database
// credentials are not required here; tools validate them per call.
func validateConfig(cfg *Config) error {
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("database port %d is out of range", cfg.Database.Port)
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	if cfg.HTTP.TLS.Enabled && !cfg.HTTP.Enabled {
		return fmt.Errorf("TLS requires HTTP mode to be enabled")
	}
	if cfg.HTTP.TLS.Enabled {
		if cfg.HTTP.TLS.CertFile == "" {
			return fmt.Errorf("TLS certificate file is required when HTTPS is enabled")
		}
		if cfg.HTTP.TLS.KeyFile == "" {
			return fmt.Errorf("TLS key file is required when HTTPS is enabled")
		}
	}

	return nil
}

// Credentials returns the database credentials as a connection config
func (c *Config) Credentials() database.ConnectionConfig {
	port := ""
	if c.Database.Port != 0 {
		port = strconv.Itoa(c.Database.Port)
	}
	return database.ConnectionConfig{
		Hostname: c.Database.Hostname,
		Port:     port,
		DBName:   c.Database.DBName,
		Username: c.Database.Username,
		Password: c.Database.Password,
	}
}

// ModelCredentials returns the provider settings used to build model clients
func (c *Config) ModelCredentials() map[string]models.ProviderCredentials {
	creds := make(map[string]models.ProviderCredentials)
	for name, p := range c.Models.providers() {
		creds[name] = models.ProviderCredentials{
			APIKey:  p.APIKey,
			BaseURL: p.BaseURL,
		}
	}
	return creds
}

func (m *ModelsConfig) providers() map[string]*ProviderConfig {
	return map[string]*ProviderConfig{
		"openai":    &m.OpenAI,
		"voyage":    &m.Voyage,
		"anthropic": &m.Anthropic,
		"cohere":    &m.Cohere,
		"ollama":    &m.Ollama,
	}
}

// readAPIKeyFromFile reads an API key from a file
// Returns the key with whitespace trimmed, or empty string if file doesn't exist
func readAPIKeyFromFile(filePath string) (string, error) {
	if filePath == "" {
		return "", nil
	}

	// Expand tilde to home directory
	if filePath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(homeDir, filePath[1:])
	}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key file %s: %w", filePath, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// GetDefaultConfigPath returns the default config file path
// Searches /etc/oceanbase-mcp/ first, then the binary directory
func GetDefaultConfigPath(binaryPath string) string {
	systemPath := "/etc/oceanbase-mcp/oceanbase-mcp.yaml"
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath
	}

	return filepath.Join(filepath.Dir(binaryPath), "oceanbase-mcp.yaml")
}

// setStringFromEnv sets a string config value from an environment variable if it exists
func setStringFromEnv(dest *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dest = val
	}
}

// setIntFromEnv sets an integer config value from an environment variable if it parses
func setIntFromEnv(dest *int, key string) {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			*dest = intVal
		}
	}
}

// setBoolFromEnv sets a boolean config value from an environment variable if it parses
func setBoolFromEnv(dest *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			*dest = boolVal
		}
	}
}
