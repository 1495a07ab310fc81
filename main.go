// GraphSeek is a unified workplace search CLI and MCP server. It signs
// into a workplace tenant and searches files, mail, calendar events,
// list records, people and chat messages through the tenant's unified
// search API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driven/auth"
	configfile "github.com/meridian-labs/graphseek-cli/internal/adapters/driven/config/file"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driven/graph"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driven/oauth"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driven/storage/sqlite"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/cli"
	"github.com/meridian-labs/graphseek-cli/internal/core/services"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer store.Close()

	oauthClient := oauth.NewFromConfig(configStore)
	apiClient := graph.NewFromConfig(configStore)
	tokens := auth.NewTokenProvider(store.CredentialsStore(), oauthClient)

	searchService := services.NewSearchService(
		tokens,
		apiClient,
		services.TierPolicyFromConfig(configStore),
		store.HistoryStore(),
	)
	authService := services.NewAuthService(configStore, store.CredentialsStore(), oauthClient, apiClient)
	historyService := services.NewHistoryService(store.HistoryStore())
	configService := services.NewConfigService(configStore)

	// Long-running surfaces (mcp serve, tui) pick up edited config
	// defaults without a restart.
	go func() {
		if err := configStore.Watch(ctx, func() {
			logger.Info("Config file reloaded")
		}); err != nil {
			logger.Debug("Config watcher stopped: %v", err)
		}
	}()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Search:  searchService,
		Auth:    authService,
		History: historyService,
		Config:  configService,
	})
	cli.SetTUIConfig(&cli.TUIConfig{
		SearchService:  searchService,
		HistoryService: historyService,
		ConfigService:  configService,
		AuthService:    authService,
	})

	return cli.ExecuteContext(ctx)
}
