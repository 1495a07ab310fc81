package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// Search flags.
var (
	searchTypes     []string
	searchFileTypes []string
	searchAfter     string
	searchBefore    string
	searchFilter    string
	searchFacets    []string
	searchLimit     int
	searchFrom      int
	searchSortBy    string
	searchDesc      bool
	searchEnrich    bool
	searchRelevance bool
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search your workplace content",
	Long: `Searches files, mail, calendar events, list records, people and chat
messages in the signed-in account.

Free text and structured filters merge into one query. The query text
may be omitted when filters alone specify what you want.

Examples:
  graphseek search "quarterly budget"
  graphseek search "design review" --types mail --after "7 days ago"
  graphseek search budget --file-types xlsx,docx --facets fileType
  graphseek search --types mail --filter "hasAttachments:true"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.StringSliceVarP(&searchTypes, "types", "t", nil,
		"entity types to search (file, mail, event, chat, person, site, listItem)")
	flags.StringSliceVar(&searchFileTypes, "file-types", nil,
		"restrict file results to these extensions")
	flags.StringVar(&searchAfter, "after", "",
		"only items modified after this date (YYYY-MM-DD or e.g. \"7 days ago\")")
	flags.StringVar(&searchBefore, "before", "",
		"only items modified before this date")
	flags.StringVar(&searchFilter, "filter", "",
		"raw backend clause appended to the query verbatim")
	flags.StringSliceVar(&searchFacets, "facets", nil,
		"aggregation dimensions to compute (fileType, lastModifiedTime, modifiedBy, author, contentType)")
	flags.IntVarP(&searchLimit, "limit", "n", domain.DefaultPageSize,
		"maximum number of results")
	flags.IntVar(&searchFrom, "from", 0,
		"result offset for pagination")
	flags.StringVar(&searchSortBy, "sort-by", "",
		"backend field to sort by instead of relevance rank")
	flags.BoolVar(&searchDesc, "desc", false,
		"sort high to low (with --sort-by)")
	flags.BoolVar(&searchEnrich, "enrich", false,
		"fetch per-result detail metadata (best effort)")
	flags.BoolVar(&searchRelevance, "relevance", false,
		"force backend relevance ranking")
	flags.BoolVar(&searchJSON, "json", false,
		"output the full response as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	text := ""
	if len(args) > 0 {
		text = args[0]
	}

	query := domain.Query{
		Text:        text,
		EntityTypes: parseEntityFlags(searchTypes),
		Filters: domain.FilterSet{
			FileTypes: searchFileTypes,
			After:     searchAfter,
			Before:    searchBefore,
			Raw:       searchFilter,
		},
		Facets:    searchFacets,
		Size:      searchLimit,
		From:      searchFrom,
		Relevance: searchRelevance,
		Enrich:    searchEnrich,
	}
	if searchSortBy != "" {
		query.Sort = &domain.SortSpec{Field: searchSortBy, Descending: searchDesc}
	}
	applySearchDefaults(cmd, &query)

	resp, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrAuthExpired) {
			return fmt.Errorf("%w; run 'graphseek auth login'", err)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp)
}

// applySearchDefaults fills unset inputs from the configured defaults.
// Explicit flags always win, including an explicit --limit equal to the
// built-in default.
func applySearchDefaults(cmd *cobra.Command, query *domain.Query) {
	if configService == nil {
		return
	}
	defaults := configService.SearchDefaults()
	flags := cmd.Flags()

	if !flags.Changed("limit") && defaults.Limit > 0 {
		query.Size = defaults.Limit
	}
	if len(query.EntityTypes) == 0 {
		query.EntityTypes = defaults.EntityTypes
	}
	if !flags.Changed("enrich") {
		query.Enrich = defaults.Enrich
	}
	if !flags.Changed("relevance") {
		query.Relevance = defaults.Relevance
	}
}

// parseEntityFlags maps the --types values onto domain entity types.
// Unrecognised tags pass through raw; the resolver drops them with an
// advisory instead of failing the command.
func parseEntityFlags(tags []string) []domain.EntityType {
	if len(tags) == 0 {
		return nil
	}
	types := make([]domain.EntityType, 0, len(tags))
	for _, tag := range tags {
		if et, ok := domain.ParseEntityType(tag); ok {
			types = append(types, et)
			continue
		}
		types = append(types, domain.EntityType(tag))
	}
	return types
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if resp.Advisory != "" {
		cmd.Printf("Note: %s\n\n", resp.Advisory)
	}

	if len(resp.Hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d, %s tier):\n\n", len(resp.Hits), resp.Total, resp.Tier)
	for i := range resp.Hits {
		hit := &resp.Hits[i]

		title := hit.Title()
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  [%d] %s (%s)\n", hit.Rank, title, hit.EntityType)

		if webURL := hit.WebURL(); webURL != "" {
			cmd.Printf("      %s\n", webURL)
		}
		if summary := hit.PlainSummary(); summary != "" {
			cmd.Printf("      %s\n", summary)
		}
		if hit.Enrichment != nil {
			printEnrichment(cmd, hit.Enrichment)
		}
		cmd.Println()
	}

	for _, facet := range resp.Facets {
		cmd.Printf("%s:\n", facet.Dimension)
		for _, bucket := range facet.Buckets {
			cmd.Printf("  %-28s %d\n", bucket.Key, bucket.Count)
		}
		if facet.Truncated {
			cmd.Println("  (more buckets not shown)")
		}
		cmd.Println()
	}

	return nil
}

func printEnrichment(cmd *cobra.Command, e *domain.Enrichment) {
	if !e.Available {
		if e.Err != "" {
			cmd.Printf("      (%s)\n", e.Err)
		}
		return
	}
	for key, value := range e.Detail {
		cmd.Printf("      %s: %v\n", key, value)
	}
}
