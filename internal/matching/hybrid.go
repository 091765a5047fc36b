package matching

import (
	"context"
	"math"

	"github.com/spigell/mentor-match/internal/scoring"
)

const scoreEpsilon = 1e-9

// HybridConfig makes the repair pass's trade-offs explicit rather than
// inferred: Tolerance is how much total score a single stability repair may
// give up, and the priority tags decide score-neutral swaps.
type HybridConfig struct {
	// Tolerance is the maximum total-score decrease a repair may cost.
	Tolerance float64 `mapstructure:"tolerance"`
}

// hybridStrategy starts from the weighted optimum and repairs blocking
// pairs, swapping assignments only when no affected mentor loses capacity
// utilization and the total score stays within the configured tolerance.
// Priority tags (returning mentees) break score-neutral ties. This is a
// heuristic compromise between optimality and stability, not proof-optimal:
// its remaining blocking-pair count is reported by the evaluator.
type hybridStrategy struct {
	cfg HybridConfig
	// priority flags mentees (by matrix row) favored in neutral swaps.
	priority []bool
}

func NewHybrid(cfg HybridConfig, priority []bool) Strategy {
	return &hybridStrategy{cfg: cfg, priority: priority}
}

func (s *hybridStrategy) Name() string { return AlgorithmHybrid }

func (s *hybridStrategy) Run(_ context.Context, m *scoring.Matrix) (*Assignment, error) {
	mentorFor := solveAssignment(m)
	completeZeroScorePairs(m, mentorFor)

	// Bounded repair loop; each round inspects the current blocking pairs
	// once, so the pass always terminates.
	maxRounds := m.MenteeCount() * m.MentorCount()
	for round := 0; round < maxRounds; round++ {
		if !s.repairOne(m, mentorFor) {
			break
		}
	}

	return newAssignment(m, mentorFor), nil
}

// repairOne resolves the first repairable blocking pair and reports whether
// it changed anything.
func (s *hybridStrategy) repairOne(m *scoring.Matrix, mentorFor []int) bool {
	load := make([]int, m.MentorCount())
	for _, j := range mentorFor {
		if j >= 0 {
			load[j]++
		}
	}

	for _, bp := range blockingPairsIdx(m, mentorFor) {
		i, j := bp[0], bp[1]

		// Free slot and a free mentee: plain assignment, utilization only
		// grows.
		if mentorFor[i] < 0 && load[j] < m.Capacity(j) {
			mentorFor[i] = j
			return true
		}

		// Unassigned mentee against a full mentor: replace the weakest held
		// mentee when the score strictly improves. The mentor stays at
		// capacity.
		if mentorFor[i] < 0 {
			if f := s.weakestHeld(m, mentorFor, j); f >= 0 && m.At(i, j)-m.At(f, j) > scoreEpsilon {
				mentorFor[f] = -1
				mentorFor[i] = j
				return true
			}
			continue
		}

		// Assigned mentee: only a swap keeps both mentors' utilization
		// intact. Exchange i with one of j's mentees.
		if s.trySwap(m, mentorFor, i, j) {
			return true
		}
	}

	return false
}

func (s *hybridStrategy) weakestHeld(m *scoring.Matrix, mentorFor []int, j int) int {
	worst := -1
	for i, col := range mentorFor {
		if col != j {
			continue
		}
		if worst < 0 || m.At(i, j) < m.At(worst, j) {
			worst = i
		}
	}
	return worst
}

// trySwap exchanges mentee i (assigned to mentor a) with the best swap
// partner held by mentor j. A swap is taken when the score delta clears the
// tolerance, and a score-neutral swap only when mentee i carries priority
// over its partner.
func (s *hybridStrategy) trySwap(m *scoring.Matrix, mentorFor []int, i, j int) bool {
	a := mentorFor[i]

	bestPartner := -1
	bestDelta := math.Inf(-1)
	for f, col := range mentorFor {
		if col != j || !m.Eligible(f, a) {
			continue
		}
		delta := m.At(i, j) + m.At(f, a) - m.At(i, a) - m.At(f, j)
		if delta > bestDelta {
			bestDelta = delta
			bestPartner = f
		}
	}

	if bestPartner < 0 || bestDelta < -s.cfg.Tolerance {
		return false
	}

	if math.Abs(bestDelta) <= scoreEpsilon && !s.prioritized(i, bestPartner) {
		return false
	}

	mentorFor[i] = j
	mentorFor[bestPartner] = a
	return true
}

func (s *hybridStrategy) prioritized(i, f int) bool {
	if i >= len(s.priority) || f >= len(s.priority) {
		return false
	}
	return s.priority[i] && !s.priority[f]
}
