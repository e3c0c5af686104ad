package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/riskboard/riskboard/internal/domain/risk"
	"github.com/riskboard/riskboard/internal/domain/trend"
)

// ChartStatus is the render state of one risk chart slot.
type ChartStatus string

const (
	// ChartLoading means the fetch for this slot has not completed yet.
	ChartLoading ChartStatus = "loading"
	// ChartReady means the slot has a non-empty yearly series.
	ChartReady ChartStatus = "ready"
	// ChartNoData means the service confirmed there is nothing to plot.
	ChartNoData ChartStatus = "no-data"
	// ChartError means the fetch failed; distinct from ChartNoData so the
	// surface can render each differently.
	ChartError ChartStatus = "error"
)

// RiskChart is one ranked condition with its trend render state. Each slot
// is keyed by rank and updated independently as fetches complete.
type RiskChart struct {
	Rank       int                 `json:"rank"`
	Condition  risk.Condition      `json:"condition"`
	Score      int                 `json:"score"`
	Severity   risk.Severity       `json:"severity"`
	SearchTerm string              `json:"search_term"`
	Status     ChartStatus         `json:"status"`
	Series     []trend.YearlyCount `json:"series,omitempty"`
}

// Report is the per-generation render state: BMI plus the ranked risk
// charts. A new report replaces the previous one wholesale.
type Report struct {
	ID          uuid.UUID       `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	BMI         risk.BMIResult  `json:"bmi"`
	Charts      []RiskChart     `json:"charts"`
}

// clone returns a deep copy safe to hand outside the registry lock.
func (r *Report) clone() *Report {
	cp := *r
	cp.Charts = make([]RiskChart, len(r.Charts))
	copy(cp.Charts, r.Charts)
	for i := range cp.Charts {
		if s := cp.Charts[i].Series; s != nil {
			cp.Charts[i].Series = make([]trend.YearlyCount, len(s))
			copy(cp.Charts[i].Series, s)
		}
	}
	return &cp
}
