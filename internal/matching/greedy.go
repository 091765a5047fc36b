package matching

import (
	"context"
	"sort"

	"github.com/spigell/mentor-match/internal/scoring"
)

// greedyStrategy repeatedly takes the best remaining eligible pair. Fast
// baseline with no optimality guarantee.
type greedyStrategy struct{}

func NewGreedy() Strategy { return &greedyStrategy{} }

func (s *greedyStrategy) Name() string { return AlgorithmGreedy }

func (s *greedyStrategy) Run(_ context.Context, m *scoring.Matrix) (*Assignment, error) {
	type edge struct {
		score          float64
		mentee, mentor int
	}

	edges := make([]edge, 0, m.MenteeCount()*m.MentorCount())
	for i := 0; i < m.MenteeCount(); i++ {
		for _, j := range m.EligibleMentors(i) {
			edges = append(edges, edge{score: m.At(i, j), mentee: i, mentor: j})
		}
	}

	sort.Slice(edges, func(x, y int) bool {
		return pairLess(edges[x].score, edges[x].mentee, edges[x].mentor,
			edges[y].score, edges[y].mentee, edges[y].mentor)
	})

	mentorFor := make([]int, m.MenteeCount())
	for i := range mentorFor {
		mentorFor[i] = -1
	}
	load := make([]int, m.MentorCount())

	for _, e := range edges {
		if mentorFor[e.mentee] >= 0 {
			continue
		}
		if load[e.mentor] >= m.Capacity(e.mentor) {
			continue
		}
		mentorFor[e.mentee] = e.mentor
		load[e.mentor]++
	}

	return newAssignment(m, mentorFor), nil
}
