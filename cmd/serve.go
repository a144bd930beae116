package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wayfarer/internal/config"
	"wayfarer/internal/server"
	"wayfarer/pkg/logging"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory. When empty
// the per-user default (~/.config/wayfarer) is used.
var serveConfigPath string

// serveTransport overrides the transport from the config file.
var serveTransport string

// servePort overrides the listen port from the config file.
var servePort int

// serveCmd starts the MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wayfarer MCP server",
	Long: `Starts the wayfarer MCP server on the configured transport.

Transports:
  streamable-http (default)  MCP on /mcp plus the OAuth endpoints on /auth/*
  sse                        MCP on /sse and /message plus the OAuth endpoints
  stdio                      MCP over stdin/stdout, no OAuth callback endpoint

Configuration is read from config.yaml in the config directory
(default ~/.config/wayfarer); a missing file falls back to defaults.
GitHub OAuth credentials come from GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET
and GITHUB_REDIRECT_URI, which take precedence over the file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	// Stdio transport owns stdout for the protocol; logs go to stderr.
	logging.Init(level, os.Stderr)

	configPath := serveConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if serveTransport != "" {
		cfg.Server.Transport = serveTransport
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	if !cfg.OAuth.IsConfigured() {
		logging.Warn("Serve", "GitHub OAuth is not configured; protected tools will require setup before login works")
	}

	srv := server.New(&cfg, GetVersion())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func init() {
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Directory containing config.yaml (default ~/.config/wayfarer)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Override the transport: streamable-http, sse, or stdio")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the listen port")

	rootCmd.AddCommand(serveCmd)
}
