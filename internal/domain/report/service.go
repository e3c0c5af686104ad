// Package report orchestrates health-report generation: scoring the
// survey, holding the per-report render state, and filling each risk
// chart slot from the adverse-event gateway with staggered fetches.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/riskboard/riskboard/internal/domain/risk"
	"github.com/riskboard/riskboard/internal/domain/trend"
	"github.com/riskboard/riskboard/internal/domain/vocab"
	"github.com/riskboard/riskboard/internal/platform/openfda"
)

// Gateway is the slice of the adverse-event client the coordinator needs.
type Gateway interface {
	Query(ctx context.Context, q openfda.Query) *openfda.Result
}

// Coordinator owns the current report's render state. It is a
// discard-and-replace registry: generating a new report drops the old one,
// and late writes from superseded fetches are ignored rather than
// cancelled.
type Coordinator struct {
	gw      Gateway
	stagger time.Duration
	logger  zerolog.Logger

	mu      sync.RWMutex
	current *Report
}

// NewCoordinator creates a report coordinator. stagger is the minimum gap
// between successive outbound fetches within one report batch.
func NewCoordinator(gw Gateway, stagger time.Duration, logger zerolog.Logger) *Coordinator {
	return &Coordinator{gw: gw, stagger: stagger, logger: logger}
}

// Generate validates and scores the survey, installs the new report as the
// current render state with every chart slot loading, and starts the
// background fetch batch. The returned report is a snapshot; poll Get for
// chart completion.
func (c *Coordinator) Generate(ctx context.Context, in risk.SurveyInput) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	bmi := risk.ComputeBMI(in.HeightCm, in.WeightKg)
	risks := risk.Score(in)

	rep := &Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
		BMI:         bmi,
		Charts:      make([]RiskChart, len(risks)),
	}
	for i, r := range risks {
		rep.Charts[i] = RiskChart{
			Rank:       i,
			Condition:  r.Condition,
			Score:      r.Score,
			Severity:   r.Severity(),
			SearchTerm: vocab.SearchTerm(string(r.Condition)),
			Status:     ChartLoading,
		}
	}

	c.mu.Lock()
	if c.current != nil {
		c.logger.Info().
			Str("old_report_id", c.current.ID.String()).
			Str("report_id", rep.ID.String()).
			Msg("discarding superseded report")
	}
	c.current = rep
	snapshot := rep.clone()
	c.mu.Unlock()

	go c.fetchBatch(rep.ID, snapshot.Charts)

	c.logger.Info().
		Str("report_id", rep.ID.String()).
		Float64("bmi", bmi.Value).
		Int("charts", len(snapshot.Charts)).
		Msg("report generated")
	return snapshot, nil
}

// Get returns a snapshot of the report's render state, or false when the
// id is not the current report (unknown or superseded).
func (c *Coordinator) Get(id uuid.UUID) (*Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil || c.current.ID != id {
		return nil, false
	}
	return c.current.clone(), true
}

// fetchBatch issues one trend fetch per chart slot. A shared limiter gates
// issue order so request i starts no earlier than i × stagger after the
// batch begins; completions may land in any order, each writing only its
// own slot.
func (c *Coordinator) fetchBatch(id uuid.UUID, charts []RiskChart) {
	ctx := context.Background()
	limiter := rate.NewLimiter(rate.Every(c.stagger), 1)

	var g errgroup.Group
	for _, ch := range charts {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		ch := ch
		g.Go(func() error {
			c.fetchChart(ctx, id, ch.Rank, ch.SearchTerm)
			return nil
		})
	}
	_ = g.Wait()
	c.logger.Debug().Str("report_id", id.String()).Msg("report fetch batch complete")
}

func (c *Coordinator) fetchChart(ctx context.Context, id uuid.UUID, rank int, term string) {
	res := c.gw.Query(ctx, openfda.Query{
		Search: openfda.Exact(openfda.FieldReaction, term),
		Count:  openfda.CountReceiveDate,
	})

	switch res.Outcome {
	case openfda.OutcomeResults:
		series := trend.AggregateByYear(res.TimeCounts)
		if len(series) == 0 {
			// Every record predates the year floor: confirmed absence.
			c.setChart(id, rank, ChartNoData, nil)
			return
		}
		c.setChart(id, rank, ChartReady, series)
	case openfda.OutcomeNoData:
		c.setChart(id, rank, ChartNoData, nil)
	default:
		c.setChart(id, rank, ChartError, nil)
	}
}

// setChart routes a fetch result to its slot. Writes for a report that is
// no longer current are dropped so a stale fetch can never overwrite a
// newer render state.
func (c *Coordinator) setChart(id uuid.UUID, rank int, status ChartStatus, series []trend.YearlyCount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.ID != id {
		c.logger.Debug().
			Str("report_id", id.String()).
			Int("rank", rank).
			Msg("dropping stale chart result")
		return
	}
	if rank < 0 || rank >= len(c.current.Charts) {
		return
	}
	c.current.Charts[rank].Status = status
	c.current.Charts[rank].Series = series
}
