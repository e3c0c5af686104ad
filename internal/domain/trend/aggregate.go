// Package trend reshapes dated adverse-event counts into chart-ready
// yearly series.
package trend

import (
	"sort"
	"strconv"

	"github.com/riskboard/riskboard/internal/platform/openfda"
)

// minYear excludes early sparse reporting years; only years strictly after
// it are kept.
const minYear = 2004

// YearlyCount is the total event count for one year. Series are sorted
// ascending by year.
type YearlyCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// AggregateByYear sums dated counts per year, keeping years after minYear.
// Records with an unparseable date are dropped. An empty result is a valid
// "no data" state, not an error; the result is never nil.
func AggregateByYear(records []openfda.TimeCount) []YearlyCount {
	totals := map[string]int{}
	for _, r := range records {
		if len(r.Time) < 4 {
			continue
		}
		year := r.Time[:4]
		n, err := strconv.Atoi(year)
		if err != nil || n <= minYear {
			continue
		}
		totals[year] += r.Count
	}

	out := make([]YearlyCount, 0, len(totals))
	for year, count := range totals {
		out = append(out, YearlyCount{Year: year, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
