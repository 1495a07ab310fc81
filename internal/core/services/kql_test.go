package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// fixedNow anchors relative date resolution in tests.
var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func TestSynthesize_TextOnly(t *testing.T) {
	got, err := Synthesize(domain.Query{Text: "quarterly budget"}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "quarterly budget", got)
}

func TestSynthesize_Empty(t *testing.T) {
	got, err := Synthesize(domain.Query{}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "*", got)
}

func TestSynthesize_WhitespaceTextIsEmpty(t *testing.T) {
	got, err := Synthesize(domain.Query{Text: "  \t "}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "*", got)
}

func TestSynthesize_SingleFileType(t *testing.T) {
	q := domain.Query{
		Text:    "roadmap",
		Filters: domain.FilterSet{FileTypes: []string{"docx"}},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "roadmap AND filetype:docx", got)
}

func TestSynthesize_MultipleFileTypesGrouped(t *testing.T) {
	q := domain.Query{
		Text:    "roadmap",
		Filters: domain.FilterSet{FileTypes: []string{"docx", ".PDF", "xlsx"}},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "roadmap AND (filetype:docx OR filetype:pdf OR filetype:xlsx)", got)
}

func TestSynthesize_ClosedDateRange(t *testing.T) {
	q := domain.Query{
		Text:    "budget",
		Filters: domain.FilterSet{After: "2026-01-05", Before: "2026-03-01"},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "budget AND LastModifiedTime:2026-01-05..2026-03-01", got)
}

func TestSynthesize_OpenEndedRanges(t *testing.T) {
	afterOnly, err := Synthesize(domain.Query{
		Text:    "budget",
		Filters: domain.FilterSet{After: "2026-01-05"},
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "budget AND LastModifiedTime>=2026-01-05", afterOnly)

	beforeOnly, err := Synthesize(domain.Query{
		Text:    "budget",
		Filters: domain.FilterSet{Before: "2026-03-01"},
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "budget AND LastModifiedTime<=2026-03-01", beforeOnly)
}

func TestSynthesize_RelativeDates(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"today", "2026-03-10"},
		{"yesterday", "2026-03-09"},
		{"7 days ago", "2026-03-03"},
		{"1 day ago", "2026-03-09"},
		{"2 weeks ago", "2026-02-24"},
		{"3 months ago", "2025-12-10"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Synthesize(domain.Query{
				Text:    "x",
				Filters: domain.FilterSet{After: tt.token},
			}, fixedNow)

			require.NoError(t, err)
			assert.Equal(t, "x AND LastModifiedTime>="+tt.want, got)
		})
	}
}

func TestSynthesize_AbsoluteDateTimeTruncated(t *testing.T) {
	got, err := Synthesize(domain.Query{
		Text:    "x",
		Filters: domain.FilterSet{After: "2026-02-14T09:30:00Z"},
	}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "x AND LastModifiedTime>=2026-02-14", got)
}

func TestSynthesize_BadDate(t *testing.T) {
	_, err := Synthesize(domain.Query{
		Text:    "x",
		Filters: domain.FilterSet{After: "next tuesday-ish"},
	}, fixedNow)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSynthesize_FieldPredicates(t *testing.T) {
	hasAttachment := true
	isRead := false
	q := domain.Query{
		Text: "launch",
		Filters: domain.FilterSet{
			From:          "dana@contoso.com",
			To:            "finance@contoso.com",
			Subject:       "budget review",
			HasAttachment: &hasAttachment,
			IsRead:        &isRead,
			Importance:    "High",
		},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t,
		`launch AND from:dana@contoso.com AND to:finance@contoso.com AND subject:"budget review" AND hasattachment:true AND isread:false AND importance:high`,
		got)
}

func TestSynthesize_RawClauseLast(t *testing.T) {
	q := domain.Query{
		Text: "budget",
		Filters: domain.FilterSet{
			FileTypes: []string{"xlsx"},
			Raw:       "size>10240",
		},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "budget AND filetype:xlsx AND size>10240", got)
}

func TestSynthesize_FiltersWithoutText(t *testing.T) {
	q := domain.Query{
		Filters: domain.FilterSet{FileTypes: []string{"pdf"}},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, "filetype:pdf", got)
}

func TestSynthesize_ClauseOrderStable(t *testing.T) {
	hasAttachment := true
	q := domain.Query{
		Text: "launch plan",
		Filters: domain.FilterSet{
			FileTypes:     []string{"docx", "pdf"},
			After:         "2026-01-01",
			Before:        "2026-02-01",
			From:          "dana@contoso.com",
			HasAttachment: &hasAttachment,
			Raw:           "author:reyes",
		},
	}

	got, err := Synthesize(q, fixedNow)

	require.NoError(t, err)
	assert.Equal(t,
		"launch plan AND (filetype:docx OR filetype:pdf) AND LastModifiedTime:2026-01-01..2026-02-01 AND from:dana@contoso.com AND hasattachment:true AND author:reyes",
		got)
}

func TestSynthesize_Deterministic(t *testing.T) {
	q := domain.Query{
		Text:    "budget",
		Filters: domain.FilterSet{FileTypes: []string{"docx"}, After: "3 days ago"},
	}

	first, err := Synthesize(q, fixedNow)
	require.NoError(t, err)
	second, err := Synthesize(q, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMeasureComplexity(t *testing.T) {
	tests := []struct {
		name        string
		synthesised string
		filters     domain.FilterSet
		want        Complexity
	}{
		{
			name:        "plain text",
			synthesised: "budget",
			want:        Complexity{},
		},
		{
			name:        "wildcard",
			synthesised: "*",
			want:        Complexity{},
		},
		{
			name:        "two clauses",
			synthesised: "budget AND filetype:docx",
			want:        Complexity{BooleanOps: 1},
		},
		{
			name:        "grouped or plus range",
			synthesised: "budget AND (filetype:docx OR filetype:pdf) AND LastModifiedTime:2026-01-01..2026-02-01",
			want:        Complexity{BooleanOps: 4},
		},
		{
			name:        "field predicates counted from filters",
			synthesised: "budget AND from:dana AND subject:x",
			filters:     domain.FilterSet{From: "dana", Subject: "x"},
			want:        Complexity{BooleanOps: 2, FieldPredicates: 2},
		},
		{
			name:        "open-ended date bound flags a date range",
			synthesised: "budget AND LastModifiedTime>=2024-01-01",
			filters:     domain.FilterSet{After: "2024-01-01"},
			want:        Complexity{BooleanOps: 1, DateRange: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeasureComplexity(tt.synthesised, tt.filters))
		})
	}
}
