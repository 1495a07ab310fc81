// Package cli implements the command-line interface for GraphSeek.
// Commands hold no business logic; they parse flags, call the driving
// ports and render the results.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// Driving ports consumed by the commands. Wired by SetServices before
// Execute; commands guard against nil so partial wiring fails loudly
// instead of panicking.
var (
	searchService  driving.SearchService
	authService    driving.AuthService
	historyService driving.HistoryService
	configService  driving.ConfigService
)

// version is stamped at build time via SetVersion.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "graphseek",
	Short: "Unified workplace search from the terminal",
	Long: `GraphSeek searches files, mail, calendar events, list records, people
and chat messages in your signed-in workplace account from the terminal.

Get started:
  graphseek auth setup     # configure tenant and client id
  graphseek auth login     # sign in via the browser
  graphseek search "quarterly budget" --types file --file-types xlsx`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Services bundles the driving ports the CLI depends on.
type Services struct {
	Search  driving.SearchService
	Auth    driving.AuthService
	History driving.HistoryService
	Config  driving.ConfigService
}

// SetServices wires the driving ports into the commands.
func SetServices(s Services) {
	searchService = s.Search
	authService = s.Auth
	historyService = s.History
	configService = s.Config
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context, so
// long-running commands stop on SIGINT/SIGTERM.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
