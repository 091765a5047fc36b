package matching

import (
	"context"
	"sort"

	"github.com/spigell/mentor-match/internal/scoring"
)

// stableStrategy runs a many-to-one Gale-Shapley procedure: mentees propose
// in descending score order, mentors hold their capacity best proposals and
// reject the rest. The result has no blocking pair among eligible pairs: no
// (mentor, mentee) pair both strictly preferring each other over their
// current outcome.
type stableStrategy struct{}

func NewStable() Strategy { return &stableStrategy{} }

func (s *stableStrategy) Name() string { return AlgorithmStable }

func (s *stableStrategy) Run(_ context.Context, m *scoring.Matrix) (*Assignment, error) {
	n := m.MenteeCount()

	// Preference lists, best first. Each mentee walks its list exactly once,
	// which bounds the loop at mentees*mentors proposals.
	prefs := make([][]int, n)
	next := make([]int, n)
	for i := 0; i < n; i++ {
		cols := m.EligibleMentors(i)
		sort.Slice(cols, func(x, y int) bool {
			return pairLess(m.At(i, cols[x]), i, cols[x], m.At(i, cols[y]), i, cols[y])
		})
		prefs[i] = cols
	}

	held := make([][]int, m.MentorCount())
	mentorFor := make([]int, n)
	for i := range mentorFor {
		mentorFor[i] = -1
	}

	// FIFO of free mentees, seeded in matrix order for determinism.
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		queue = append(queue, i)
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		if next[i] >= len(prefs[i]) {
			continue // options exhausted; stays unassigned
		}

		j := prefs[i][next[i]]
		next[i]++

		if len(held[j]) < m.Capacity(j) {
			held[j] = append(held[j], i)
			mentorFor[i] = j
			continue
		}

		// Mentor full: replace the weakest held mentee only on a strictly
		// better proposal.
		worst := 0
		for k := 1; k < len(held[j]); k++ {
			if m.At(held[j][k], j) < m.At(held[j][worst], j) {
				worst = k
			}
		}

		if m.At(i, j) > m.At(held[j][worst], j) {
			rejected := held[j][worst]
			held[j][worst] = i
			mentorFor[i] = j
			mentorFor[rejected] = -1
			queue = append(queue, rejected)
		} else {
			queue = append(queue, i)
		}
	}

	return newAssignment(m, mentorFor), nil
}
