package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

func TestPlanFacets_KnownDimension(t *testing.T) {
	plans := PlanFacets([]string{"fileType"}, domain.ClassContent, fixedNow)

	require.Len(t, plans, 1)
	assert.Equal(t, "fileType", plans[0].Dimension)
	assert.Equal(t, "fileType", plans[0].Field)
	assert.Equal(t, 10, plans[0].Size)
	assert.Equal(t, "count", plans[0].SortBy)
	assert.True(t, plans[0].Descending)
	assert.Equal(t, 1, plans[0].MinimumCount)
	assert.Empty(t, plans[0].Ranges)
}

func TestPlanFacets_UnknownDroppedSilently(t *testing.T) {
	plans := PlanFacets([]string{"fileType", "sentiment", "author"}, domain.ClassContent, fixedNow)

	require.Len(t, plans, 2)
	assert.Equal(t, "fileType", plans[0].Dimension)
	assert.Equal(t, "author", plans[1].Dimension)
}

func TestPlanFacets_OrderFollowsRequest(t *testing.T) {
	plans := PlanFacets([]string{"author", "fileType", "contentType"}, domain.ClassContent, fixedNow)

	require.Len(t, plans, 3)
	assert.Equal(t, "author", plans[0].Dimension)
	assert.Equal(t, "fileType", plans[1].Dimension)
	assert.Equal(t, "contentType", plans[2].Dimension)
}

func TestPlanFacets_RepeatedDimensionPlannedOnce(t *testing.T) {
	plans := PlanFacets([]string{"fileType", "fileType"}, domain.ClassContent, fixedNow)

	assert.Len(t, plans, 1)
}

func TestPlanFacets_OnlyContentClassAggregates(t *testing.T) {
	for _, class := range []domain.CompatibilityClass{
		domain.ClassMessages,
		domain.ClassEvents,
		domain.ClassPeople,
	} {
		assert.Nil(t, PlanFacets([]string{"fileType"}, class, fixedNow), string(class))
	}
}

func TestPlanFacets_EmptyRequest(t *testing.T) {
	assert.Nil(t, PlanFacets(nil, domain.ClassContent, fixedNow))
	assert.Nil(t, PlanFacets([]string{"sentiment"}, domain.ClassContent, fixedNow))
}

func TestPlanFacets_RecencyRanges(t *testing.T) {
	plans := PlanFacets([]string{"lastModifiedTime"}, domain.ClassContent, fixedNow)

	require.Len(t, plans, 1)
	ranges := plans[0].Ranges
	require.Len(t, ranges, 5)

	day := fixedNow.Add(-24 * time.Hour).Format(time.RFC3339)
	week := fixedNow.AddDate(0, 0, -7).Format(time.RFC3339)
	month := fixedNow.AddDate(0, -1, 0).Format(time.RFC3339)
	year := fixedNow.AddDate(-1, 0, 0).Format(time.RFC3339)

	// Newest window is open-ended above; oldest is open-ended below.
	assert.Equal(t, domain.FacetRange{From: day}, ranges[0])
	assert.Equal(t, domain.FacetRange{From: week, To: day}, ranges[1])
	assert.Equal(t, domain.FacetRange{From: month, To: week}, ranges[2])
	assert.Equal(t, domain.FacetRange{From: year, To: month}, ranges[3])
	assert.Equal(t, domain.FacetRange{To: year}, ranges[4])

	// Adjacent windows share a boundary, so buckets are disjoint.
	for i := 1; i < len(ranges)-1; i++ {
		assert.Equal(t, ranges[i+1].To, ranges[i].From)
	}
}
