package scoring

import (
	"github.com/spigell/mentor-match/internal/profile"
)

// Score computes the compatibility score for a (mentor, mentee) pair under
// the given weights. The second return value is false when the pair is
// ineligible: their meeting modes admit no feasible meeting, so no strategy
// may consider it. Pure function over the two profiles and the weights.
func Score(mentor *profile.Mentor, mentee *profile.Mentee, w Weights) (float64, bool) {
	if !feasible(mentor, mentee) {
		return 0, false
	}

	score := meetingScore(mentor, mentee, w)
	score += overlapScore(mentor.Topics, mentee.Topics, w.TopicMatch, w.TopicMode)
	score += overlapScore(mentor.CareerTopics, mentee.CareerTopics, w.CareerTopicMatch, w.TopicMode)

	if mentor.Program != "" && mentor.Program == mentee.Program {
		score += w.ProgramMatch
	}

	if mentor.Graduate() || mentor.TermIndex() > mentee.TermIndex() {
		score += w.SeniorMentor
	}

	return score, true
}

// feasible reports whether the pair has any meeting mode both sides accept.
// In-person requires co-location; online requires neither side insisting on
// in-person.
func feasible(mentor *profile.Mentor, mentee *profile.Mentee) bool {
	mp, ep := mentor.MeetingPreference, mentee.MeetingPreference

	if mp != profile.MeetInPerson && ep != profile.MeetInPerson {
		return true
	}

	// At least one side insists on meeting in person.
	if mp == profile.MeetOnline || ep == profile.MeetOnline {
		return false
	}

	return coLocated(mentor, mentee)
}

func coLocated(mentor *profile.Mentor, mentee *profile.Mentee) bool {
	return mentor.Location != profile.LocationUnknown &&
		mentor.Location == mentee.Location
}

func meetingScore(mentor *profile.Mentor, mentee *profile.Mentee, w Weights) float64 {
	mp, ep := mentor.MeetingPreference, mentee.MeetingPreference

	switch {
	case mp == profile.MeetInPerson && ep == profile.MeetInPerson && coLocated(mentor, mentee):
		return w.InPersonMatch
	case mp == profile.MeetOnline && ep == profile.MeetOnline:
		return w.OnlineMatch
	case mp == profile.MeetNoPreference || ep == profile.MeetNoPreference:
		return w.PreferenceFallback
	default:
		return 0
	}
}

func overlapScore(a, b []string, weight float64, mode string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}

	shared := 0
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if set[t] && !seen[t] {
			shared++
			seen[t] = true
		}
	}

	if mode == TopicModeJaccard {
		union := len(set)
		for _, t := range b {
			if !set[t] {
				set[t] = true
				union++
			}
		}
		return weight * float64(shared) / float64(union)
	}

	return weight * float64(shared)
}
