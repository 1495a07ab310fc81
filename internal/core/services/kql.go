package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// matchAll is the synthesised query when no text and no filters are
// present. The backend treats it as "everything, newest first".
const matchAll = "*"

const dateLayout = "2006-01-02"

var relativeDatePattern = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks|month|months)\s+ago$`)

// Synthesize builds the backend query string from the query's free text
// and structured filters. Clause order is fixed: text, file types, date
// range, field predicates, raw clause. Clauses are joined with AND; an
// empty clause list yields the match-all wildcard. The only failure
// mode is an unparseable date, which is caller input error.
func Synthesize(q domain.Query, now time.Time) (string, error) {
	clauses := make([]string, 0, 6)

	if text := strings.TrimSpace(q.Text); text != "" {
		clauses = append(clauses, text)
	}

	if clause := fileTypeClause(q.Filters.FileTypes); clause != "" {
		clauses = append(clauses, clause)
	}

	dateClause, err := dateRangeClause(q.Filters, now)
	if err != nil {
		return "", err
	}
	if dateClause != "" {
		clauses = append(clauses, dateClause)
	}

	clauses = append(clauses, fieldPredicateClauses(q.Filters)...)

	if raw := strings.TrimSpace(q.Filters.Raw); raw != "" {
		clauses = append(clauses, raw)
	}

	if len(clauses) == 0 {
		return matchAll, nil
	}
	return strings.Join(clauses, " AND "), nil
}

// fileTypeClause groups extensions into a single OR clause so the AND
// join between clauses never intersects file types with each other.
func fileTypeClause(fileTypes []string) string {
	parts := make([]string, 0, len(fileTypes))
	for _, ft := range fileTypes {
		ft = strings.TrimPrefix(strings.TrimSpace(ft), ".")
		if ft == "" {
			continue
		}
		parts = append(parts, "filetype:"+strings.ToLower(ft))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " OR ") + ")"
	}
}

// dateRangeClause renders the modification-date bounds. A closed range
// uses the backend's range operator; open-ended bounds use comparisons.
func dateRangeClause(f domain.FilterSet, now time.Time) (string, error) {
	if !f.HasDateRange() {
		return "", nil
	}

	var after, before string
	if f.After != "" {
		t, err := resolveDate(f.After, now)
		if err != nil {
			return "", err
		}
		after = t.Format(dateLayout)
	}
	if f.Before != "" {
		t, err := resolveDate(f.Before, now)
		if err != nil {
			return "", err
		}
		before = t.Format(dateLayout)
	}

	switch {
	case after != "" && before != "":
		return fmt.Sprintf("LastModifiedTime:%s..%s", after, before), nil
	case after != "":
		return fmt.Sprintf("LastModifiedTime>=%s", after), nil
	default:
		return fmt.Sprintf("LastModifiedTime<=%s", before), nil
	}
}

// fieldPredicateClauses renders the message-oriented field predicates
// in a fixed order so equal filter sets always synthesise identically.
func fieldPredicateClauses(f domain.FilterSet) []string {
	clauses := make([]string, 0, 6)
	if f.From != "" {
		clauses = append(clauses, "from:"+quoteIfSpaced(f.From))
	}
	if f.To != "" {
		clauses = append(clauses, "to:"+quoteIfSpaced(f.To))
	}
	if f.Subject != "" {
		clauses = append(clauses, "subject:"+quoteIfSpaced(f.Subject))
	}
	if f.HasAttachment != nil {
		clauses = append(clauses, fmt.Sprintf("hasattachment:%t", *f.HasAttachment))
	}
	if f.IsRead != nil {
		clauses = append(clauses, fmt.Sprintf("isread:%t", *f.IsRead))
	}
	if f.Importance != "" {
		clauses = append(clauses, "importance:"+strings.ToLower(f.Importance))
	}
	return clauses
}

func quoteIfSpaced(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}

// resolveDate turns a date token into a concrete date. Relative tokens
// are resolved against the supplied clock; absolute input is date-only,
// with any time of day truncated away.
func resolveDate(token string, now time.Time) (time.Time, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))

	switch normalized {
	case "today":
		return truncateToDate(now), nil
	case "yesterday":
		return truncateToDate(now.AddDate(0, 0, -1)), nil
	}

	if m := relativeDatePattern.FindStringSubmatch(normalized); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case strings.HasPrefix(m[2], "day"):
			return truncateToDate(now.AddDate(0, 0, -n)), nil
		case strings.HasPrefix(m[2], "week"):
			return truncateToDate(now.AddDate(0, 0, -7*n)), nil
		default:
			return truncateToDate(now.AddDate(0, -n, 0)), nil
		}
	}

	if t, err := time.Parse(dateLayout, normalized); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(token)); err == nil {
		return truncateToDate(t), nil
	}

	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", domain.ErrInvalidInput, token)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Complexity measures how much a synthesised query leans on backend
// query-language features. The tier engine compares it against the
// policy thresholds to decide whether the rich tier is required.
type Complexity struct {
	// BooleanOps counts boolean operators and range expressions.
	BooleanOps int

	// FieldPredicates counts field-scoped predicates from the filters.
	FieldPredicates int

	// DateRange is true when the query carries a modification-date
	// clause, open or closed. Date clauses only rank reliably on the
	// rich request shape, so their presence is a trigger of its own.
	DateRange bool
}

// MeasureComplexity inspects a synthesised query string and its source
// filters.
func MeasureComplexity(synthesised string, filters domain.FilterSet) Complexity {
	return Complexity{
		BooleanOps: strings.Count(synthesised, " AND ") +
			strings.Count(synthesised, " OR ") +
			strings.Count(synthesised, " NOT ") +
			strings.Count(synthesised, ".."),
		FieldPredicates: filters.FieldPredicateCount(),
		DateRange:       filters.HasDateRange(),
	}
}
