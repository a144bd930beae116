package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"wayfarer/internal/oauth"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// rootCmd represents the base command for the wayfarer application.
var rootCmd = &cobra.Command{
	Use:   "wayfarer",
	Short: "MCP travel planning server with GitHub login",
	Long: `wayfarer is an MCP server that plans trips to a configured destination:
live weather, forecasts, activity suggestions and day-by-day itineraries,
with the planning tools gated behind a GitHub OAuth login.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main to
// inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "wayfarer version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes for scripting.
func getExitCode(err error) int {
	if errors.Is(err, oauth.ErrAuthenticationRequired) {
		return ExitCodeAuthRequired
	}

	var exchangeErr *oauth.ExchangeError
	if errors.As(err, &exchangeErr) {
		return ExitCodeAuthFailed
	}
	var fetchErr *oauth.FetchError
	if errors.As(err, &fetchErr) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
