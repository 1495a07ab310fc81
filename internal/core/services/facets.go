package services

import (
	"time"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// facetTemplate is one registry entry mapping a caller-facing dimension
// to the backend aggregation that computes it.
type facetTemplate struct {
	field        string
	size         int
	sortBy       string
	descending   bool
	minimumCount int
	ranged       bool
}

// facetRegistry is the closed set of aggregation dimensions the planner
// understands. Requests for anything else are dropped silently.
var facetRegistry = map[string]facetTemplate{
	"fileType":         {field: "fileType", size: 10, sortBy: "count", descending: true, minimumCount: 1},
	"lastModifiedTime": {field: "lastModifiedTime", size: 5, sortBy: "keyAsString", descending: true, minimumCount: 1, ranged: true},
	"modifiedBy":       {field: "lastModifiedBy", size: 10, sortBy: "count", descending: true, minimumCount: 1},
	"author":           {field: "author", size: 10, sortBy: "count", descending: true, minimumCount: 1},
	"contentType":      {field: "contentType", size: 10, sortBy: "count", descending: true, minimumCount: 1},
}

// PlanFacets expands requested dimension names into backend aggregation
// plans. Aggregation is a content-class capability; for any other class
// the plan list is empty regardless of what was asked. Output preserves
// request order, repeated dimensions collapse to one plan, and an empty
// result means no aggregations go on the wire at all.
func PlanFacets(dimensions []string, class domain.CompatibilityClass, now time.Time) []domain.FacetPlan {
	if !class.SupportsAggregation() || len(dimensions) == 0 {
		return nil
	}

	plans := make([]domain.FacetPlan, 0, len(dimensions))
	planned := make(map[string]bool, len(dimensions))
	for _, dim := range dimensions {
		tmpl, ok := facetRegistry[dim]
		if !ok || planned[dim] {
			continue
		}
		planned[dim] = true

		plan := domain.FacetPlan{
			Dimension:    dim,
			Field:        tmpl.field,
			Size:         tmpl.size,
			SortBy:       tmpl.sortBy,
			Descending:   tmpl.descending,
			MinimumCount: tmpl.minimumCount,
		}
		if tmpl.ranged {
			plan.Ranges = recencyRanges(now)
		}
		plans = append(plans, plan)
	}
	if len(plans) == 0 {
		return nil
	}
	return plans
}

// recencyRanges builds the fixed trailing time windows used by the
// lastModifiedTime dimension. Buckets are disjoint: each window's upper
// bound is the next-newer window's lower bound.
func recencyRanges(now time.Time) []domain.FacetRange {
	utc := now.UTC()
	day := utc.Add(-24 * time.Hour).Format(time.RFC3339)
	week := utc.AddDate(0, 0, -7).Format(time.RFC3339)
	month := utc.AddDate(0, -1, 0).Format(time.RFC3339)
	year := utc.AddDate(-1, 0, 0).Format(time.RFC3339)

	return []domain.FacetRange{
		{From: day},
		{From: week, To: day},
		{From: month, To: week},
		{From: year, To: month},
		{To: year},
	}
}
