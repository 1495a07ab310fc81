package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past searches",
	Long:  `List or clear the local search history.`,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded searches",
	RunE:  runHistoryClear,
}

// historyLimit is a flag for the list command.
var historyLimit int

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	ctx := context.Background()

	entries, err := historyService.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No searches recorded yet.")
		return nil
	}

	for i := range entries {
		entry := &entries[i]
		cmd.Printf("[%s] %q\n", entry.CreatedAt.Format("2006-01-02 15:04"), entry.QueryText)
		if entry.Synthesised != "" && entry.Synthesised != entry.QueryText {
			cmd.Printf("    sent as: %s\n", entry.Synthesised)
		}
		cmd.Printf("    %s tier, %d of %d results, %s",
			entry.Tier, entry.ResultCount, entry.Total, entry.Duration.Round(time.Millisecond))
		if len(entry.EntityTypes) > 0 {
			cmd.Printf(", types: %s", joinEntityTypes(entry.EntityTypes))
		}
		cmd.Println()
		if entry.Advisory != "" {
			cmd.Printf("    note: %s\n", entry.Advisory)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d searches\n", len(entries))
	return nil
}

func joinEntityTypes(types []domain.EntityType) string {
	tags := make([]string, len(types))
	for i, t := range types {
		tags[i] = string(t)
	}
	return strings.Join(tags, ",")
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Search history cleared.")
	return nil
}
