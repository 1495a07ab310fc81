package services

// Wire shapes for the tenant search backend. Requests are built by the
// tier engine; envelopes are consumed by the normalizer. These types
// never leave the services package.

// searchRequest is the body of a rich-tier POST /search/query call.
type searchRequest struct {
	EntityTypes        []string           `json:"entityTypes"`
	Query              searchQuery        `json:"query"`
	From               int                `json:"from"`
	Size               int                `json:"size"`
	Aggregations       []wireAggregation  `json:"aggregations,omitempty"`
	SortProperties     []wireSortProperty `json:"sortProperties,omitempty"`
	CollapseProperties []string           `json:"collapseProperties,omitempty"`
	EnableTopResults   bool               `json:"enableTopResults,omitempty"`
}

type searchQuery struct {
	QueryString string `json:"queryString"`
}

type wireAggregation struct {
	Field            string               `json:"field"`
	Size             int                  `json:"size"`
	BucketDefinition wireBucketDefinition `json:"bucketDefinition"`
}

type wireBucketDefinition struct {
	SortBy       string      `json:"sortBy"`
	IsDescending bool        `json:"isDescending"`
	MinimumCount int         `json:"minimumCount"`
	Ranges       []wireRange `json:"ranges,omitempty"`
}

type wireRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type wireSortProperty struct {
	Name         string `json:"name"`
	IsDescending bool   `json:"isDescending"`
}

// searchEnvelope is the response of POST /search/query. Listing-tier
// responses are adapted into the same shape so the normalizer has a
// single input.
type searchEnvelope struct {
	Value []searchResponsePart `json:"value"`
}

type searchResponsePart struct {
	HitsContainers          []hitsContainer         `json:"hitsContainers"`
	Aggregations            []wireAggregationResult `json:"aggregations,omitempty"`
	QueryAlterationResponse *queryAlteration        `json:"queryAlterationResponse,omitempty"`
}

type hitsContainer struct {
	EntityType           string    `json:"entityType"`
	Hits                 []wireHit `json:"hits"`
	Total                int       `json:"total"`
	MoreResultsAvailable bool      `json:"moreResultsAvailable"`
}

type wireHit struct {
	Rank     int            `json:"rank"`
	Summary  string         `json:"summary"`
	Resource map[string]any `json:"resource"`
}

type wireAggregationResult struct {
	Field   string       `json:"field"`
	Buckets []wireBucket `json:"buckets"`
}

type wireBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type queryAlteration struct {
	QueryAlterationType string `json:"queryAlterationType"`
	AlteredQueryString  string `json:"alteredQueryString"`
}

// listingResponse is the shape of the per-class OData listing endpoints
// used by the text and filter tiers.
type listingResponse struct {
	Value []map[string]any `json:"value"`
	Count int              `json:"@odata.count"`
}
