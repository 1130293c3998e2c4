/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"oceanbase-mcp/internal/config"
	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/logging"
	"oceanbase-mcp/internal/mcp"
	"oceanbase-mcp/internal/models"
	"oceanbase-mcp/internal/prompts"
	"oceanbase-mcp/internal/tools"
)

const credentialCheckTimeout = 10 * time.Second

var (
	configFile     string
	httpMode       bool
	httpAddr       string
	dbHost         string
	dbPort         int
	dbName         string
	dbUser         string
	dbPassword     string
	promptPassword bool
	logLevel       string
	watchConfig    bool
)

var rootCmd = &cobra.Command{
	Use:   "oceanbase-mcp",
	Short: "OceanBase MCP Server - SQL, schema and hybrid search tools for MCP clients",
	Long: `oceanbase-mcp exposes an OceanBase (MySQL mode) database to MCP clients.

Tools: execute_sql runs read-only statements and renders the rows as JSON,
Markdown, CSV, YAML, XLSX or HTML; get_table_schema describes tables;
hybrid_search combines vector and full-text search with optional reranking;
text2sql turns a question into a SQL statement using an LLM.

The server speaks JSON-RPC over stdio by default, or over HTTP with --http.`,
	RunE: run,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configured database credentials with SELECT 1",
	RunE:  runValidate,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	flags.StringVar(&dbHost, "host", "", "OceanBase host")
	flags.IntVar(&dbPort, "port", 0, "OceanBase port")
	flags.StringVar(&dbName, "db-name", "", "Database name")
	flags.StringVar(&dbUser, "user", "", "Database user (user@tenant)")
	flags.StringVar(&dbPassword, "password", "", "Database password")
	flags.BoolVar(&promptPassword, "prompt-password", false, "Read the database password from the terminal")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().BoolVar(&httpMode, "http", false, "Enable HTTP transport mode (default: stdio)")
	rootCmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP server address")
	rootCmd.Flags().BoolVar(&watchConfig, "watch", true, "Reload the configuration file when it changes")

	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	rc, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg := rc.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := newServer(rc, database.Open)

	rc.OnReload(func(newConfig *config.Config) {
		applyLogLevel(newConfig)
		checkCredentials(ctx, newConfig)
	})
	if watchConfig && rc.GetPath() != "" {
		if _, statErr := os.Stat(rc.GetPath()); statErr == nil {
			watcher, err := rc.Watch()
			if err != nil {
				logging.Warn("config_watch_failed", "path", rc.GetPath(), "error", err.Error())
			} else {
				defer watcher.Stop()
			}
		}
	}

	go checkCredentials(ctx, cfg)

	if cfg.HTTP.Enabled {
		logging.Info("server_starting", "mode", "http", "address", cfg.HTTP.Address, "tls", cfg.HTTP.TLS.Enabled)
		return server.RunHTTP(ctx, &mcp.HTTPConfig{
			Addr:      cfg.HTTP.Address,
			TLSEnable: cfg.HTTP.TLS.Enabled,
			CertFile:  cfg.HTTP.TLS.CertFile,
			KeyFile:   cfg.HTTP.TLS.KeyFile,
			ChainFile: cfg.HTTP.TLS.ChainFile,
		})
	}

	logging.Info("server_starting", "mode", "stdio")
	return server.Run(ctx, os.Stdin, os.Stdout)
}

// newServer builds the MCP server. Every tool call reads the configuration
// snapshot current at call time.
func newServer(rc *config.ReloadableConfig, open database.Opener) *mcp.Server {
	env := &tools.Env{
		Credentials: func() database.ConnectionConfig { return rc.Get().Credentials() },
		Open:        open,
		Models: func() models.Factory {
			return models.NewFactory(rc.Get().ModelCredentials())
		},
	}

	registry := tools.NewRegistry()
	tools.RegisterAll(registry, env)
	server := mcp.NewServer(registry)

	promptRegistry := prompts.NewRegistry()
	prompts.RegisterAll(promptRegistry)
	server.SetPromptProvider(promptRegistry)

	return server
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	rc, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	creds := rc.Get().Credentials()
	if err := tools.ValidateCredentials(cmd.Context(), creds, database.Open); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Credentials OK: %s\n", creds)
	return nil
}

// loadConfig resolves the config path, collects explicitly set flags and
// loads the configuration
func loadConfig(cmd *cobra.Command) (*config.ReloadableConfig, error) {
	database.RegisterDialects()

	cliFlags := collectFlags(cmd)

	path := configFile
	if !cliFlags.ConfigFileSet {
		execPath, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		path = config.GetDefaultConfigPath(execPath)
	}

	if promptPassword {
		password, err := readPassword()
		if err != nil {
			return nil, err
		}
		cliFlags.DBPassword = password
		cliFlags.DBPassSet = true
	}

	cfg, err := config.LoadConfig(path, cliFlags)
	if err != nil {
		return nil, err
	}
	applyLogLevel(cfg)

	return config.NewReloadableConfig(cfg, path, cliFlags), nil
}

func collectFlags(cmd *cobra.Command) config.CLIFlags {
	flags := cmd.Flags()
	return config.CLIFlags{
		ConfigFileSet:  flags.Changed("config"),
		DBHost:         dbHost,
		DBHostSet:      flags.Changed("host"),
		DBPort:         dbPort,
		DBPortSet:      flags.Changed("port"),
		DBName:         dbName,
		DBNameSet:      flags.Changed("db-name"),
		DBUser:         dbUser,
		DBUserSet:      flags.Changed("user"),
		DBPassword:     dbPassword,
		DBPassSet:      flags.Changed("password"),
		LogLevel:       logLevel,
		LogLevelSet:    flags.Changed("log-level"),
		HTTPEnabled:    httpMode,
		HTTPAddr:       httpAddr,
		HTTPEnabledSet: flags.Changed("http"),
		HTTPAddrSet:    flags.Changed("addr"),
	}
}

func readPassword() (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--prompt-password requires a terminal")
	}

	fmt.Fprint(os.Stderr, "Database password: ")
	passwordBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passwordBytes), nil
}

func applyLogLevel(cfg *config.Config) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		logging.Warn("invalid_log_level", "value", cfg.LogLevel)
		return
	}
	logging.SetLevel(level)
}

// checkCredentials probes the configured database and logs the outcome.
// The server keeps running either way; tools report bad credentials per call.
func checkCredentials(ctx context.Context, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(ctx, credentialCheckTimeout)
	defer cancel()
	//nolint:errcheck // ValidateCredentials logs the failure
	tools.ValidateCredentials(ctx, cfg.Credentials(), database.Open)
}
