// Package search resolves a free-text query as either a condition or a
// drug against the adverse-event gateway, with a two-step fallback.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/riskboard/riskboard/internal/domain/trend"
	"github.com/riskboard/riskboard/internal/domain/vocab"
	"github.com/riskboard/riskboard/internal/platform/openfda"
)

// Gateway is the slice of the adverse-event client the dispatcher needs.
type Gateway interface {
	Query(ctx context.Context, q openfda.Query) *openfda.Result
}

// Kind says which interpretation of the query matched.
type Kind string

const (
	KindCondition Kind = "condition"
	KindDrug      Kind = "drug"
)

// Analysis is the finished search view-model handed to the render surface.
type Analysis struct {
	Kind    Kind                `json:"kind"`
	Term    string              `json:"term"`
	Top     []openfda.TermCount `json:"top"`
	Trend   []trend.YearlyCount `json:"trend"`
	Insight string              `json:"insight"`
}

// ErrNotFound means neither the condition nor the drug interpretation
// matched any records.
var ErrNotFound = errors.New("no records found")

// ErrUnavailable means the adverse-event service could not be queried.
var ErrUnavailable = errors.New("adverse-event service unavailable")

// Service is the search dispatcher.
type Service struct {
	gw     Gateway
	topN   int
	logger zerolog.Logger
}

// NewService creates a dispatcher returning at most topN bars per analysis.
func NewService(gw Gateway, topN int, logger zerolog.Logger) *Service {
	if topN <= 0 {
		topN = 5
	}
	return &Service{gw: gw, topN: topN, logger: logger}
}

// Resolve interprets the query first as a condition (drugs indicated for
// it), then as a drug (reactions reported for it). No data on both paths
// is ErrNotFound; a transport failure at any step short-circuits with
// ErrUnavailable so the caller can tell "nothing there" from "could not
// look".
func (s *Service) Resolve(ctx context.Context, query string) (*Analysis, error) {
	term := strings.ToUpper(strings.TrimSpace(query))
	if term == "" {
		return nil, fmt.Errorf("query is required")
	}

	res := s.gw.Query(ctx, openfda.Query{
		Search: openfda.Exact(openfda.FieldIndication, term),
		Count:  openfda.CountProductExact,
		Limit:  s.topN,
	})
	switch res.Outcome {
	case openfda.OutcomeResults:
		return s.buildAnalysis(ctx, KindCondition, term, res.TermCounts), nil
	case openfda.OutcomeTransportError:
		return nil, fmt.Errorf("condition lookup for %q: %w", term, ErrUnavailable)
	}

	res = s.gw.Query(ctx, openfda.Query{
		Search: openfda.Exact(openfda.FieldProduct, term),
		Count:  openfda.CountReactionExact,
		Limit:  s.topN,
	})
	switch res.Outcome {
	case openfda.OutcomeResults:
		return s.buildAnalysis(ctx, KindDrug, term, res.TermCounts), nil
	case openfda.OutcomeTransportError:
		return nil, fmt.Errorf("drug lookup for %q: %w", term, ErrUnavailable)
	}

	s.logger.Info().Str("query", term).Msg("search matched neither condition nor drug")
	return nil, fmt.Errorf("%q: %w", term, ErrNotFound)
}

// Suggest offers a close vocabulary term for a query that found nothing.
func (s *Service) Suggest(query string) (string, bool) {
	return vocab.Suggest(query)
}

func (s *Service) buildAnalysis(ctx context.Context, kind Kind, term string, top []openfda.TermCount) *Analysis {
	a := &Analysis{
		Kind:    kind,
		Term:    term,
		Top:     top,
		Trend:   []trend.YearlyCount{},
		Insight: insight(kind, term, top),
	}

	field := openfda.FieldIndication
	if kind == KindDrug {
		field = openfda.FieldProduct
	}
	res := s.gw.Query(ctx, openfda.Query{
		Search: openfda.Exact(field, term),
		Count:  openfda.CountReceiveDate,
	})
	// A failed or empty trend leaves the bar chart standing on its own.
	if res.Outcome == openfda.OutcomeResults {
		a.Trend = trend.AggregateByYear(res.TimeCounts)
	}
	return a
}

func insight(kind Kind, term string, top []openfda.TermCount) string {
	if len(top) == 0 {
		return ""
	}
	if kind == KindCondition {
		return fmt.Sprintf("Most common treatment for %s: %s.", term, top[0].Term)
	}
	return fmt.Sprintf("Top reported reaction for %s: %s.", term, top[0].Term)
}
