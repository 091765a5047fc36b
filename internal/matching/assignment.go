package matching

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/spigell/mentor-match/internal/scoring"
)

// Pair is one matched (mentor, mentee) edge.
type Pair struct {
	Mentor string `json:"mentor"`
	Mentee string `json:"mentee"`
	Score  float64 `json:"score"`
}

// Assignment maps every mentee to at most one mentor and keeps, per mentor,
// the list of assigned mentees. Each strategy invocation produces a fresh
// Assignment; nothing is shared between strategies.
type Assignment struct {
	mentorOf  map[string]string
	menteesOf map[string][]string
	mentees   []string // all mentee emails, matrix order
	mentors   []string // all mentor emails, matrix order
	total     float64
	pairs     []Pair
}

// newAssignment builds an Assignment from the per-mentee mentor column (-1
// for unassigned). The matrix supplies identities and scores.
func newAssignment(m *scoring.Matrix, mentorFor []int) *Assignment {
	a := &Assignment{
		mentorOf:  make(map[string]string, len(mentorFor)),
		menteesOf: make(map[string][]string, m.MentorCount()),
		mentees:   make([]string, 0, m.MenteeCount()),
		mentors:   make([]string, 0, m.MentorCount()),
	}

	for j := 0; j < m.MentorCount(); j++ {
		a.mentors = append(a.mentors, m.MentorEmail(j))
	}

	for i, j := range mentorFor {
		mentee := m.MenteeEmail(i)
		a.mentees = append(a.mentees, mentee)
		if j < 0 {
			continue
		}

		mentor := m.MentorEmail(j)
		a.mentorOf[mentee] = mentor
		a.menteesOf[mentor] = append(a.menteesOf[mentor], mentee)
		a.total += m.At(i, j)
		a.pairs = append(a.pairs, Pair{Mentor: mentor, Mentee: mentee, Score: m.At(i, j)})
	}

	return a
}

// MentorOf returns the mentor assigned to the mentee, if any.
func (a *Assignment) MentorOf(mentee string) (string, bool) {
	mentor, ok := a.mentorOf[mentee]
	return mentor, ok
}

// Mentees returns the mentees assigned to the mentor, in assignment order.
func (a *Assignment) Mentees(mentor string) []string {
	return a.menteesOf[mentor]
}

// Pairs returns all matched pairs ordered by mentee email.
func (a *Assignment) Pairs() []Pair {
	pairs := make([]Pair, len(a.pairs))
	copy(pairs, a.pairs)
	sort.Slice(pairs, func(x, y int) bool { return pairs[x].Mentee < pairs[y].Mentee })
	return pairs
}

// TotalScore is the sum of scores over all matched pairs.
func (a *Assignment) TotalScore() float64 { return a.total }

// MatchedCount returns the number of matched mentees.
func (a *Assignment) MatchedCount() int { return len(a.mentorOf) }

// Unassigned returns mentees without a mentor, in matrix order.
func (a *Assignment) Unassigned() []string {
	var out []string
	for _, mentee := range a.mentees {
		if _, ok := a.mentorOf[mentee]; !ok {
			out = append(out, mentee)
		}
	}
	return out
}

// Load returns the number of mentees assigned to the mentor.
func (a *Assignment) Load(mentor string) int { return len(a.menteesOf[mentor]) }

// DumpToTmpFile writes the matched pairs as indented JSON to a temp file and
// returns its name.
func (a *Assignment) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "assignment_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Pairs()); err != nil {
		return "", err
	}
	return file.Name(), nil
}
