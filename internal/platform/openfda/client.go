// Package openfda is the gateway to the openFDA drug adverse-event API.
// It builds count queries against the event endpoint and classifies every
// call into a three-way outcome: results, no data, or transport error.
// Nothing above this boundary sees a raw transport failure.
package openfda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Search field names understood by the event endpoint.
const (
	FieldReaction    = "patient.reaction.reactionmeddrapt"
	FieldIndication  = "patient.drug.drugindication"
	FieldProduct     = "patient.drug.medicinalproduct"
	FieldReceiveDate = "receivedate"
)

// Count field names for server-side aggregation.
const (
	CountReceiveDate   = "receivedate"
	CountProductExact  = "patient.drug.medicinalproduct.exact"
	CountReactionExact = "patient.reaction.reactionmeddrapt.exact"
)

// DefaultBaseURL is the public openFDA drug event endpoint.
const DefaultBaseURL = "https://api.fda.gov/drug/event.json"

// Exact renders a field:"value" filter expression.
func Exact(field, value string) string {
	return fmt.Sprintf("%s:%q", field, value)
}

// Query is one parameterized call against the event endpoint.
type Query struct {
	Search string
	Count  string
	Limit  int
}

// TermCount is one bucket of a count-by-field aggregation.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// TimeCount is one bucket of a count-by-receivedate aggregation. Time is
// an 8-digit date; its first four characters are the year.
type TimeCount struct {
	Time  string `json:"time"`
	Count int    `json:"count"`
}

// Outcome classifies a gateway call.
type Outcome string

const (
	// OutcomeResults means the service returned a non-empty results set.
	OutcomeResults Outcome = "results"
	// OutcomeNoData means the service answered but has no matching records.
	OutcomeNoData Outcome = "no-data"
	// OutcomeTransportError means the service could not be reached or the
	// response could not be decoded.
	OutcomeTransportError Outcome = "transport-error"
)

// Result is the tagged outcome of one Query. Exactly one of TermCounts and
// TimeCounts is populated on OutcomeResults, depending on the count field.
// Err carries the transport detail on OutcomeTransportError; it is kept
// for logging and tests, never for control flow above the gateway.
type Result struct {
	Outcome    Outcome
	TermCounts []TermCount
	TimeCounts []TimeCount
	Err        error
}

// apiRecord is a raw results entry; the endpoint emits either term or time
// buckets depending on the count field.
type apiRecord struct {
	Term  string `json:"term"`
	Time  string `json:"time"`
	Count int    `json:"count"`
}

type apiResponse struct {
	Error   json.RawMessage `json:"error"`
	Results []apiRecord     `json:"results"`
}

// Client issues queries against the adverse-event endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a gateway client. An empty baseURL selects the public
// openFDA endpoint.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Query runs one call and classifies the outcome. Failures never escape as
// errors: the caller always receives a tagged Result.
func (c *Client) Query(ctx context.Context, q Query) *Result {
	u, err := c.buildURL(q)
	if err != nil {
		return c.transportError(q, fmt.Errorf("build query url: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return c.transportError(q, fmt.Errorf("build request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(q, fmt.Errorf("call adverse-event service: %w", err))
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return c.transportError(q, fmt.Errorf("decode response: %w", err))
	}

	// The service reports "nothing matched" through an error marker in the
	// body (with a 404 status), not through an empty results array alone.
	if len(body.Error) > 0 || len(body.Results) == 0 {
		c.logger.Debug().Str("search", q.Search).Msg("adverse-event query matched no records")
		return &Result{Outcome: OutcomeNoData}
	}

	result := &Result{Outcome: OutcomeResults}
	if q.Count == CountReceiveDate {
		result.TimeCounts = make([]TimeCount, 0, len(body.Results))
		for _, r := range body.Results {
			result.TimeCounts = append(result.TimeCounts, TimeCount{Time: r.Time, Count: r.Count})
		}
	} else {
		result.TermCounts = make([]TermCount, 0, len(body.Results))
		for _, r := range body.Results {
			result.TermCounts = append(result.TermCounts, TermCount{Term: r.Term, Count: r.Count})
		}
	}
	return result
}

func (c *Client) buildURL(q Query) (string, error) {
	if q.Search == "" {
		return "", fmt.Errorf("search expression is required")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	values := url.Values{}
	values.Set("search", q.Search)
	if q.Count != "" {
		values.Set("count", q.Count)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func (c *Client) transportError(q Query, err error) *Result {
	c.logger.Error().Err(err).Str("search", q.Search).Msg("adverse-event query failed")
	return &Result{Outcome: OutcomeTransportError, Err: err}
}
