package scoring

import (
	"math"

	"github.com/spigell/mentor-match/internal/profile"
)

// Matrix is the dense compatibility matrix for one run. Rows are mentees and
// columns are mentors, both in store order; ineligible pairs hold -Inf.
// Built once, read-only afterwards, and deterministic for identical profiles
// and weights.
type Matrix struct {
	mentors    []string
	mentees    []string
	capacities []int
	scores     [][]float64
}

// Ineligible is the score value marking an infeasible pair.
var Ineligible = math.Inf(-1)

// BuildMatrix scores every (mentor, mentee) pair under the given weights.
// The weights are normalized and validated first; an invalid override is
// rejected before anything is scored.
func BuildMatrix(store *profile.Store, w Weights) (*Matrix, error) {
	w, err := w.Normalize()
	if err != nil {
		return nil, err
	}

	m := &Matrix{
		mentors:    store.MentorEmails(),
		mentees:    store.MenteeEmails(),
		capacities: make([]int, len(store.Mentors)),
		scores:     make([][]float64, len(store.Mentees)),
	}

	for j, mentor := range store.Mentors {
		m.capacities[j] = mentor.Capacity
	}

	for i, mentee := range store.Mentees {
		row := make([]float64, len(store.Mentors))
		for j, mentor := range store.Mentors {
			score, ok := Score(mentor, mentee, w)
			if !ok {
				row[j] = Ineligible
				continue
			}
			row[j] = score
		}
		m.scores[i] = row
	}

	return m, nil
}

func (m *Matrix) MenteeCount() int { return len(m.mentees) }

func (m *Matrix) MentorCount() int { return len(m.mentors) }

// At returns the score for mentee row i and mentor column j.
func (m *Matrix) At(i, j int) float64 { return m.scores[i][j] }

// Eligible reports whether the pair may be considered by any strategy.
func (m *Matrix) Eligible(i, j int) bool { return !math.IsInf(m.scores[i][j], -1) }

func (m *Matrix) MenteeEmail(i int) string { return m.mentees[i] }

func (m *Matrix) MentorEmail(j int) string { return m.mentors[j] }

// Capacity returns mentor j's maximum number of mentees.
func (m *Matrix) Capacity(j int) int { return m.capacities[j] }

// TotalCapacity sums all mentor capacities.
func (m *Matrix) TotalCapacity() int {
	total := 0
	for _, c := range m.capacities {
		total += c
	}
	return total
}

// EligibleMentors returns mentor columns eligible for mentee i, in column
// order.
func (m *Matrix) EligibleMentors(i int) []int {
	cols := make([]int, 0, len(m.mentors))
	for j := range m.mentors {
		if m.Eligible(i, j) {
			cols = append(cols, j)
		}
	}
	return cols
}

// StrandedMentees returns the emails of mentees with no eligible mentor at
// all. They stay unassigned in every strategy's output.
func (m *Matrix) StrandedMentees() []string {
	var stranded []string
	for i := range m.mentees {
		if len(m.EligibleMentors(i)) == 0 {
			stranded = append(stranded, m.mentees[i])
		}
	}
	return stranded
}
