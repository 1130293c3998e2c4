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
	"sync"

	"oceanbase-mcp/internal/logging"
)

// ReloadableConfig wraps a Config with thread-safe access and reload capability
type ReloadableConfig struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	cliFlags CLIFlags
	onReload []func(*Config)
}

// NewReloadableConfig creates a new reloadable configuration
func NewReloadableConfig(config *Config, path string, cliFlags CLIFlags) *ReloadableConfig {
	return &ReloadableConfig{
		config:   config,
		path:     path,
		cliFlags: cliFlags,
	}
}

// Get returns the current configuration snapshot. Callers must not modify it.
func (rc *ReloadableConfig) Get() *Config {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.config
}

// Reload reloads the configuration from the file.
// On failure the previous configuration stays in effect.
func (rc *ReloadableConfig) Reload() error {
	rc.mu.Lock()
	if rc.path == "" {
		rc.mu.Unlock()
		return fmt.Errorf("no configuration file path set")
	}

	newConfig, err := LoadConfig(rc.path, rc.cliFlags)
	if err != nil {
		rc.mu.Unlock()
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rc.logRestartRequiredSettings(newConfig)
	rc.config = newConfig
	callbacks := append([]func(*Config){}, rc.onReload...)
	rc.mu.Unlock()

	// Callbacks run outside the lock so they may call Get
	for _, callback := range callbacks {
		callback(newConfig)
	}

	logging.Info("config_reloaded", "path", rc.path, "database", newConfig.Credentials().String())
	return nil
}

// logRestartRequiredSettings logs settings that changed but require a restart
func (rc *ReloadableConfig) logRestartRequiredSettings(newConfig *Config) {
	old := rc.config
	if old == nil {
		return
	}

	if old.HTTP.Enabled != newConfig.HTTP.Enabled {
		logging.Warn("config_restart_required", "setting", "http.enabled")
	}
	if old.HTTP.Address != newConfig.HTTP.Address {
		logging.Warn("config_restart_required", "setting", "http.address")
	}
	if old.HTTP.TLS != newConfig.HTTP.TLS {
		logging.Warn("config_restart_required", "setting", "http.tls")
	}
}

// OnReload registers a callback to be called when configuration is reloaded
func (rc *ReloadableConfig) OnReload(fn func(*Config)) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.onReload = append(rc.onReload, fn)
}

// GetPath returns the configuration file path
func (rc *ReloadableConfig) GetPath() string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.path
}
