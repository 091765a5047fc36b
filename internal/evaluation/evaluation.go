// Package evaluation scores and ranks the strategies' assignments against
// each other. It reads assignments, never mutates them.
package evaluation

import (
	"sort"

	"github.com/spigell/mentor-match/internal/matching"
	"github.com/spigell/mentor-match/internal/scoring"
)

// Metrics holds the derived comparison numbers for one strategy result.
// Blocking pairs are recomputed here with the stable strategy's definition,
// independent of which strategy produced the assignment.
type Metrics struct {
	Strategy      string  `json:"strategy"`
	Failed        bool    `json:"failed,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
	TotalScore    float64 `json:"total_score"`
	Matched       int     `json:"matched"`
	Unmatched     int     `json:"unmatched"`
	BlockingPairs int     `json:"blocking_pairs"`
	MinLoad       int     `json:"min_load"`
	MaxLoad       int     `json:"max_load"`
	AvgPairScore  float64 `json:"avg_pair_score"`
	MinPairScore  float64 `json:"min_pair_score"`
	MaxPairScore  float64 `json:"max_pair_score"`
}

// Report is the ranked comparison of strategy results.
type Report struct {
	Entries []Metrics `json:"entries"`
}

// Evaluate computes metrics for every result and ranks them: total score
// descending, then fewer blocking pairs, then fewer unmatched, then name.
// Failed strategies keep their failure reason and sort last.
func Evaluate(results []*matching.Result, m *scoring.Matrix) *Report {
	report := &Report{Entries: make([]Metrics, 0, len(results))}

	for _, r := range results {
		if r.Failed() {
			report.Entries = append(report.Entries, Metrics{
				Strategy:      r.Strategy,
				Failed:        true,
				FailureReason: r.Err.Error(),
			})
			continue
		}
		report.Entries = append(report.Entries, measure(r, m))
	}

	sort.SliceStable(report.Entries, func(x, y int) bool {
		a, b := report.Entries[x], report.Entries[y]
		if a.Failed != b.Failed {
			return !a.Failed
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.BlockingPairs != b.BlockingPairs {
			return a.BlockingPairs < b.BlockingPairs
		}
		if a.Unmatched != b.Unmatched {
			return a.Unmatched < b.Unmatched
		}
		return a.Strategy < b.Strategy
	})

	return report
}

// Best returns the top-ranked non-failed entry, if any.
func (r *Report) Best() (Metrics, bool) {
	for _, e := range r.Entries {
		if !e.Failed {
			return e, true
		}
	}
	return Metrics{}, false
}

func measure(r *matching.Result, m *scoring.Matrix) Metrics {
	a := r.Assignment

	metrics := Metrics{
		Strategy:      r.Strategy,
		TotalScore:    a.TotalScore(),
		Matched:       a.MatchedCount(),
		Unmatched:     len(a.Unassigned()),
		BlockingPairs: len(matching.BlockingPairs(m, a)),
	}

	loads := make([]int, 0, m.MentorCount())
	for j := 0; j < m.MentorCount(); j++ {
		loads = append(loads, a.Load(m.MentorEmail(j)))
	}
	for i, load := range loads {
		if i == 0 || load < metrics.MinLoad {
			metrics.MinLoad = load
		}
		if load > metrics.MaxLoad {
			metrics.MaxLoad = load
		}
	}

	pairs := a.Pairs()
	for i, p := range pairs {
		metrics.AvgPairScore += p.Score
		if i == 0 || p.Score < metrics.MinPairScore {
			metrics.MinPairScore = p.Score
		}
		if p.Score > metrics.MaxPairScore {
			metrics.MaxPairScore = p.Score
		}
	}
	if len(pairs) > 0 {
		metrics.AvgPairScore /= float64(len(pairs))
	}

	return metrics
}
