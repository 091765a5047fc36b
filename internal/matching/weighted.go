package matching

import (
	"context"
	"math"

	"github.com/spigell/mentor-match/internal/scoring"
)

// weightedStrategy solves the capacitated assignment exactly as a
// maximum-weight bipartite matching: each mentor expands into capacity many
// slots, and a Hungarian-style shortest augmenting path search with
// potentials finds the assignment of mentees to slots with maximum total
// score. No stability guarantee.
type weightedStrategy struct{}

func NewWeighted() Strategy { return &weightedStrategy{} }

func (s *weightedStrategy) Name() string { return AlgorithmWeighted }

// forbiddenCost keeps ineligible pairs out of the optimum. Dummy slots cost
// 0, so a mentee always has a cheaper fallback than an ineligible mentor.
const forbiddenCost = 1e12

func (s *weightedStrategy) Run(_ context.Context, m *scoring.Matrix) (*Assignment, error) {
	mentorFor := solveAssignment(m)
	completeZeroScorePairs(m, mentorFor)
	return newAssignment(m, mentorFor), nil
}

// solveAssignment returns the score-maximizing mentor column per mentee
// (-1 for unassigned).
func solveAssignment(m *scoring.Matrix) []int {
	rows := m.MenteeCount()

	// Expand mentors into slots, then pad with one dummy slot per mentee so
	// every mentee has a zero-cost way out of the matching.
	slotMentor := make([]int, 0, m.TotalCapacity()+rows)
	for j := 0; j < m.MentorCount(); j++ {
		for k := 0; k < m.Capacity(j); k++ {
			slotMentor = append(slotMentor, j)
		}
	}
	for i := 0; i < rows; i++ {
		slotMentor = append(slotMentor, -1)
	}
	cols := len(slotMentor)

	// Costs are negated scores so the minimization yields maximum weight.
	cost := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for c, j := range slotMentor {
			switch {
			case j < 0:
				row[c] = 0
			case m.Eligible(i, j):
				row[c] = -m.At(i, j)
			default:
				row[c] = forbiddenCost
			}
		}
		cost[i] = row
	}

	slotFor := minCostAssignment(cost, rows, cols)

	mentorFor := make([]int, rows)
	for i := range mentorFor {
		mentorFor[i] = -1
	}
	for c, i := range slotFor {
		if i < 0 {
			continue
		}
		j := slotMentor[c]
		if j < 0 || !m.Eligible(i, j) {
			continue
		}
		mentorFor[i] = j
	}
	return mentorFor
}

// minCostAssignment matches every row to a distinct column minimizing total
// cost (rows <= cols required; dummy columns guarantee that here). Returns
// the matched row per column, -1 for unmatched columns. Ties resolve to the
// lowest column index, keeping the result deterministic.
func minCostAssignment(cost [][]float64, rows, cols int) []int {
	inf := math.Inf(1)

	u := make([]float64, rows+1)
	v := make([]float64, cols+1)
	p := make([]int, cols+1)
	way := make([]int, cols+1)

	for i := 1; i <= rows; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, cols+1)
		used := make([]bool, cols+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0

			for j := 1; j <= cols; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= cols; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	slotFor := make([]int, cols)
	for j := 1; j <= cols; j++ {
		slotFor[j-1] = p[j] - 1
	}
	return slotFor
}

// completeZeroScorePairs assigns leftover mentees to leftover capacity.
// At an optimum only score-neutral additions remain, so this raises
// cardinality without touching the total.
func completeZeroScorePairs(m *scoring.Matrix, mentorFor []int) {
	load := make([]int, m.MentorCount())
	for _, j := range mentorFor {
		if j >= 0 {
			load[j]++
		}
	}

	for i, assigned := range mentorFor {
		if assigned >= 0 {
			continue
		}
		for _, j := range m.EligibleMentors(i) {
			if load[j] < m.Capacity(j) {
				mentorFor[i] = j
				load[j]++
				break
			}
		}
	}
}
