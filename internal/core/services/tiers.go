package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// TierPolicy sets the complexity thresholds above which the plain text
// tier cannot faithfully express a query, forcing the rich tier into
// the attempt list.
type TierPolicy struct {
	MaxBooleanOps      int
	MaxFieldPredicates int
}

// DefaultTierPolicy returns the thresholds used when none are
// configured.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{MaxBooleanOps: 1, MaxFieldPredicates: 2}
}

// Exceeded reports whether a query's complexity is over either
// threshold. A date-range clause is a trigger on its own regardless of
// the operator count.
func (p TierPolicy) Exceeded(c Complexity) bool {
	return c.DateRange ||
		c.BooleanOps > p.MaxBooleanOps ||
		c.FieldPredicates > p.MaxFieldPredicates
}

// ExecutionPlan carries everything the tier engine needs for one
// search: the resolved entity types, the synthesised query, the
// aggregation plans and the per-invocation auth material.
type ExecutionPlan struct {
	Query       domain.Query
	EntityTypes []domain.EntityType
	Class       domain.CompatibilityClass
	Synthesised string
	Facets      []domain.FacetPlan
	Token       string
	RequestID   string
	Now         time.Time
}

// tierOutcome is the winning tier's parsed response.
type tierOutcome struct {
	tier     domain.Tier
	envelope *searchEnvelope
}

// TierEngine executes a search by walking an ordered list of request
// tiers. The only recoverable failure is a capability rejection, which
// advances to the next tier; everything else propagates untouched.
type TierEngine struct {
	api    driven.APIClient
	policy TierPolicy
}

// NewTierEngine creates a tier engine over the given API client.
func NewTierEngine(api driven.APIClient, policy TierPolicy) *TierEngine {
	return &TierEngine{api: api, policy: policy}
}

// tierList builds the ordered attempt list for a plan.
// Rich is included when the query asks for something only the rich
// request shape can express (relevance, aggregations, collapsing) or
// is too complex for a plain keyword request; a bare wildcard never
// goes rich unless aggregations are planned. Text is always included.
// Filter is included only when literal predicates exist to filter on.
func (e *TierEngine) tierList(plan ExecutionPlan) []domain.Tier {
	complexity := MeasureComplexity(plan.Synthesised, plan.Query.Filters)
	collapse := len(plan.Query.CollapseFields) > 0 && plan.Class.SupportsCollapse()

	richWanted := plan.Query.Relevance ||
		len(plan.Facets) > 0 ||
		collapse ||
		e.policy.Exceeded(complexity)

	tiers := make([]domain.Tier, 0, 3)
	if (richWanted && plan.Synthesised != matchAll) || len(plan.Facets) > 0 {
		tiers = append(tiers, domain.TierRich)
	}
	tiers = append(tiers, domain.TierText)
	if plan.Query.Filters.HasListingPredicates() {
		tiers = append(tiers, domain.TierFilter)
	}
	return tiers
}

// Execute walks the tier list until a tier produces a structurally
// valid response. Context cancellation is checked between attempts.
func (e *TierEngine) Execute(ctx context.Context, plan ExecutionPlan) (*tierOutcome, error) {
	if e.api == nil {
		return nil, domain.ErrSearchUnavailable
	}

	tiers := e.tierList(plan)
	logger.Debug("Tier plan: %s", tierNames(tiers))

	for i, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		envelope, err := e.attempt(ctx, tier, plan)
		if err == nil {
			logger.Info("Tier %s served the query", tier)
			return &tierOutcome{tier: tier, envelope: envelope}, nil
		}

		last := i == len(tiers)-1
		if !driven.IsCapabilityRejection(err) {
			return nil, err
		}
		if last {
			// Every tier was rejected for capability reasons; the final
			// rejection reaches the caller verbatim.
			logger.Info("All %d tiers rejected by backend capability", len(tiers))
			return nil, err
		}
		logger.Info("Tier %s rejected by backend capability, advancing: %v", tier, err)
	}

	return nil, domain.ErrTiersExhausted
}

// attempt issues one tier's request and parses the response.
func (e *TierEngine) attempt(ctx context.Context, tier domain.Tier, plan ExecutionPlan) (*searchEnvelope, error) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+plan.Token)
	headers.Set("client-request-id", plan.RequestID)

	switch tier {
	case domain.TierRich:
		return e.richAttempt(ctx, plan, headers)
	case domain.TierText:
		return e.listingAttempt(ctx, plan, headers, false)
	case domain.TierFilter:
		return e.listingAttempt(ctx, plan, headers, true)
	default:
		return nil, fmt.Errorf("unknown tier %d", tier)
	}
}

// richAttempt POSTs the full search request.
func (e *TierEngine) richAttempt(ctx context.Context, plan ExecutionPlan, headers http.Header) (*searchEnvelope, error) {
	body := searchRequest{
		EntityTypes: entityTypeNames(plan.EntityTypes),
		Query:       searchQuery{QueryString: plan.Synthesised},
		From:        plan.Query.From,
		Size:        plan.Query.Size,
	}

	for _, fp := range plan.Facets {
		body.Aggregations = append(body.Aggregations, wireAggregation{
			Field: fp.Field,
			Size:  fp.Size,
			BucketDefinition: wireBucketDefinition{
				SortBy:       fp.SortBy,
				IsDescending: fp.Descending,
				MinimumCount: fp.MinimumCount,
				Ranges:       wireRanges(fp.Ranges),
			},
		})
	}
	if plan.Query.Sort != nil {
		body.SortProperties = []wireSortProperty{{
			Name:         plan.Query.Sort.Field,
			IsDescending: plan.Query.Sort.Descending,
		}}
	}
	if plan.Class.SupportsCollapse() {
		body.CollapseProperties = plan.Query.CollapseFields
	}
	body.EnableTopResults = plan.Query.Relevance

	raw, err := e.api.Invoke(ctx, http.MethodPost, "/search/query", body, nil, headers)
	if err != nil {
		return nil, err
	}

	var envelope searchEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &envelope, nil
}

// listingAttempt GETs the class listing endpoint, either as a keyword
// search (text tier) or with literal OData predicates only (filter
// tier), and adapts the flat listing into a one-container envelope so
// the normalizer sees a single shape.
func (e *TierEngine) listingAttempt(ctx context.Context, plan ExecutionPlan, headers http.Header, filterOnly bool) (*searchEnvelope, error) {
	path := classListingPath(plan.Class)

	query := url.Values{}
	query.Set("$top", strconv.Itoa(plan.Query.Size))
	query.Set("$skip", strconv.Itoa(plan.Query.From))
	query.Set("$count", "true")

	if filterOnly {
		filter, err := buildODataFilter(plan.Query.Filters, plan.Class, plan.Now)
		if err != nil {
			return nil, err
		}
		if filter != "" {
			query.Set("$filter", filter)
		}
	} else if plan.Class == domain.ClassContent {
		query.Set("q", plan.Synthesised)
	} else {
		query.Set("$search", `"`+plan.Synthesised+`"`)
	}

	if plan.Query.Sort != nil {
		direction := "asc"
		if plan.Query.Sort.Descending {
			direction = "desc"
		}
		query.Set("$orderby", plan.Query.Sort.Field+" "+direction)
	}

	raw, err := e.api.Invoke(ctx, http.MethodGet, path, nil, query, headers)
	if err != nil {
		return nil, err
	}

	var listing listingResponse
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, fmt.Errorf("decode listing response: %w", err)
	}

	hits := make([]wireHit, len(listing.Value))
	for i, resource := range listing.Value {
		hits[i] = wireHit{Rank: i + 1, Resource: resource}
	}
	total := listing.Count
	if total == 0 {
		total = len(hits)
	}

	return &searchEnvelope{Value: []searchResponsePart{{
		HitsContainers: []hitsContainer{{
			EntityType: string(classPrimaryEntity(plan.Class)),
			Hits:       hits,
			Total:      total,
		}},
	}}}, nil
}

// classListingPath maps a compatibility class to its listing endpoint.
func classListingPath(class domain.CompatibilityClass) string {
	switch class {
	case domain.ClassMessages:
		return "/me/messages"
	case domain.ClassEvents:
		return "/me/events"
	case domain.ClassPeople:
		return "/me/people"
	default:
		return "/me/drive/search"
	}
}

// classPrimaryEntity is the entity type a class's listing endpoint
// serves.
func classPrimaryEntity(class domain.CompatibilityClass) domain.EntityType {
	switch class {
	case domain.ClassMessages:
		return domain.EntityMessage
	case domain.ClassEvents:
		return domain.EntityEvent
	case domain.ClassPeople:
		return domain.EntityPerson
	default:
		return domain.EntityDriveItem
	}
}

// buildODataFilter translates the structured filters into literal OData
// predicates for the filter tier. Predicates that do not apply to the
// class are left out rather than guessed at.
func buildODataFilter(f domain.FilterSet, class domain.CompatibilityClass, now time.Time) (string, error) {
	predicates := make([]string, 0, 6)

	addDate := func(field string) error {
		if f.After != "" {
			t, err := resolveDate(f.After, now)
			if err != nil {
				return err
			}
			predicates = append(predicates, fmt.Sprintf("%s ge %s", field, t.UTC().Format(time.RFC3339)))
		}
		if f.Before != "" {
			t, err := resolveDate(f.Before, now)
			if err != nil {
				return err
			}
			predicates = append(predicates, fmt.Sprintf("%s le %s", field, t.UTC().Format(time.RFC3339)))
		}
		return nil
	}

	switch class {
	case domain.ClassMessages:
		if f.Subject != "" {
			predicates = append(predicates, fmt.Sprintf("contains(subject,'%s')", escapeODataLiteral(f.Subject)))
		}
		if f.From != "" {
			predicates = append(predicates, fmt.Sprintf("from/emailAddress/address eq '%s'", escapeODataLiteral(f.From)))
		}
		if f.To != "" {
			predicates = append(predicates, fmt.Sprintf("toRecipients/any(r: r/emailAddress/address eq '%s')", escapeODataLiteral(f.To)))
		}
		if f.HasAttachment != nil {
			predicates = append(predicates, fmt.Sprintf("hasAttachments eq %t", *f.HasAttachment))
		}
		if f.IsRead != nil {
			predicates = append(predicates, fmt.Sprintf("isRead eq %t", *f.IsRead))
		}
		if f.Importance != "" {
			predicates = append(predicates, fmt.Sprintf("importance eq '%s'", escapeODataLiteral(strings.ToLower(f.Importance))))
		}
		if err := addDate("receivedDateTime"); err != nil {
			return "", err
		}

	case domain.ClassEvents:
		if f.Subject != "" {
			predicates = append(predicates, fmt.Sprintf("contains(subject,'%s')", escapeODataLiteral(f.Subject)))
		}
		if f.From != "" {
			predicates = append(predicates, fmt.Sprintf("organizer/emailAddress/address eq '%s'", escapeODataLiteral(f.From)))
		}
		if err := addDate("start/dateTime"); err != nil {
			return "", err
		}

	case domain.ClassPeople:
		if f.Subject != "" {
			predicates = append(predicates, fmt.Sprintf("contains(displayName,'%s')", escapeODataLiteral(f.Subject)))
		}

	default: // content
		if f.Subject != "" {
			predicates = append(predicates, fmt.Sprintf("contains(name,'%s')", escapeODataLiteral(f.Subject)))
		}
		if len(f.FileTypes) > 0 {
			exts := make([]string, 0, len(f.FileTypes))
			for _, ft := range f.FileTypes {
				ft = strings.TrimPrefix(strings.TrimSpace(ft), ".")
				if ft == "" {
					continue
				}
				exts = append(exts, fmt.Sprintf("endswith(name,'.%s')", escapeODataLiteral(strings.ToLower(ft))))
			}
			if len(exts) == 1 {
				predicates = append(predicates, exts[0])
			} else if len(exts) > 1 {
				predicates = append(predicates, "("+strings.Join(exts, " or ")+")")
			}
		}
		if err := addDate("lastModifiedDateTime"); err != nil {
			return "", err
		}
	}

	return strings.Join(predicates, " and "), nil
}

func escapeODataLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

func entityTypeNames(types []domain.EntityType) []string {
	names := make([]string, len(types))
	for i, et := range types {
		names[i] = string(et)
	}
	return names
}

func wireRanges(ranges []domain.FacetRange) []wireRange {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]wireRange, len(ranges))
	for i, r := range ranges {
		out[i] = wireRange{From: r.From, To: r.To}
	}
	return out
}

func tierNames(tiers []domain.Tier) string {
	names := make([]string, len(tiers))
	for i, t := range tiers {
		names[i] = t.String()
	}
	return strings.Join(names, " > ")
}
