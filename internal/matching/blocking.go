package matching

import "github.com/spigell/mentor-match/internal/scoring"

// BlockingPairs returns every eligible (mentor, mentee) pair not matched in
// the assignment where both sides strictly prefer each other over their
// current outcome: the mentee is unassigned or scores higher with that
// mentor, and the mentor has spare capacity or holds a mentee scoring lower.
// Ordered by (mentee, mentor) column index.
func BlockingPairs(m *scoring.Matrix, a *Assignment) []Pair {
	mentorFor := mentorColumns(m, a)

	var pairs []Pair
	for _, bp := range blockingPairsIdx(m, mentorFor) {
		pairs = append(pairs, Pair{
			Mentor: m.MentorEmail(bp[1]),
			Mentee: m.MenteeEmail(bp[0]),
			Score:  m.At(bp[0], bp[1]),
		})
	}
	return pairs
}

// mentorColumns rebuilds the per-mentee mentor column from an assignment's
// email mapping.
func mentorColumns(m *scoring.Matrix, a *Assignment) []int {
	colOf := make(map[string]int, m.MentorCount())
	for j := 0; j < m.MentorCount(); j++ {
		colOf[m.MentorEmail(j)] = j
	}

	mentorFor := make([]int, m.MenteeCount())
	for i := range mentorFor {
		mentorFor[i] = -1
		if mentor, ok := a.MentorOf(m.MenteeEmail(i)); ok {
			mentorFor[i] = colOf[mentor]
		}
	}
	return mentorFor
}

func blockingPairsIdx(m *scoring.Matrix, mentorFor []int) [][2]int {
	load := make([]int, m.MentorCount())
	worst := make([]float64, m.MentorCount())
	for j := range worst {
		worst[j] = -1
	}
	for i, j := range mentorFor {
		if j < 0 {
			continue
		}
		load[j]++
		if worst[j] < 0 || m.At(i, j) < worst[j] {
			worst[j] = m.At(i, j)
		}
	}

	var pairs [][2]int
	for i := 0; i < m.MenteeCount(); i++ {
		for _, j := range m.EligibleMentors(i) {
			if mentorFor[i] == j {
				continue
			}

			menteePrefers := mentorFor[i] < 0 || m.At(i, j) > m.At(i, mentorFor[i])
			if !menteePrefers {
				continue
			}

			mentorPrefers := load[j] < m.Capacity(j) || m.At(i, j) > worst[j]
			if mentorPrefers {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
