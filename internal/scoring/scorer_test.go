package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/spigell/mentor-match/internal/profile"
)

func mentor(opts profile.Person, capacity int) *profile.Mentor {
	return &profile.Mentor{Person: opts, Capacity: capacity}
}

func mentee(opts profile.Person) *profile.Mentee {
	return &profile.Mentee{Person: opts}
}

func TestScoreInPersonCoLocated(t *testing.T) {
	m := mentor(profile.Person{
		Email:             "mentor@example.com",
		Location:          "Waterloo",
		MeetingPreference: profile.MeetInPerson,
	}, 1)
	e := mentee(profile.Person{
		Email:             "mentee@example.com",
		Location:          "Waterloo",
		MeetingPreference: profile.MeetInPerson,
	})

	score, ok := Score(m, e, DefaultWeights())
	if !ok {
		t.Fatalf("expected an eligible pair")
	}
	if score != 10 {
		t.Fatalf("expected score 10, got %v", score)
	}
}

func TestScoreInPersonWithoutCoLocationIsIneligible(t *testing.T) {
	m := mentor(profile.Person{
		Location:          "Waterloo",
		MeetingPreference: profile.MeetInPerson,
	}, 1)
	e := mentee(profile.Person{
		Location:          "Toronto",
		MeetingPreference: profile.MeetNoPreference,
	})

	if _, ok := Score(m, e, DefaultWeights()); ok {
		t.Fatalf("expected an ineligible pair")
	}
}

func TestScoreInPersonVersusOnlineIsIneligible(t *testing.T) {
	m := mentor(profile.Person{
		Location:          "Waterloo",
		MeetingPreference: profile.MeetInPerson,
	}, 1)
	e := mentee(profile.Person{
		Location:          "Waterloo",
		MeetingPreference: profile.MeetOnline,
	})

	if _, ok := Score(m, e, DefaultWeights()); ok {
		t.Fatalf("expected an ineligible pair")
	}
}

func TestScoreUnknownLocationNeverCoLocates(t *testing.T) {
	m := mentor(profile.Person{
		Location:          profile.LocationUnknown,
		MeetingPreference: profile.MeetInPerson,
	}, 1)
	e := mentee(profile.Person{
		Location:          profile.LocationUnknown,
		MeetingPreference: profile.MeetNoPreference,
	})

	if _, ok := Score(m, e, DefaultWeights()); ok {
		t.Fatalf("expected an ineligible pair for unknown locations")
	}
}

func TestScoreAdditiveComponents(t *testing.T) {
	m := mentor(profile.Person{
		Program:           "SE",
		Term:              "4B",
		MeetingPreference: profile.MeetOnline,
		Topics:            []string{"Co-op", "Courses"},
		CareerTopics:      []string{"Resumes"},
	}, 1)
	e := mentee(profile.Person{
		Program:           "SE",
		Term:              "1B",
		MeetingPreference: profile.MeetOnline,
		Topics:            []string{"Courses"},
		CareerTopics:      []string{"Resumes", "Interviews"},
	})

	score, ok := Score(m, e, DefaultWeights())
	if !ok {
		t.Fatalf("expected an eligible pair")
	}

	// online 8 + topic 5 + career topic 4 + program 5 + senior 20
	if score != 42 {
		t.Fatalf("expected score 42, got %v", score)
	}
}

func TestScorePreferenceFallback(t *testing.T) {
	m := mentor(profile.Person{MeetingPreference: profile.MeetNoPreference}, 1)
	e := mentee(profile.Person{MeetingPreference: profile.MeetOnline, Term: "2A"})

	score, ok := Score(m, e, DefaultWeights())
	if !ok {
		t.Fatalf("expected an eligible pair")
	}
	if score != 5 {
		t.Fatalf("expected fallback score 5, got %v", score)
	}
}

func TestScoreGraduateMentorIsSenior(t *testing.T) {
	m := mentor(profile.Person{Term: "Graduate", MeetingPreference: profile.MeetNoPreference}, 1)
	e := mentee(profile.Person{Term: "4B", MeetingPreference: profile.MeetNoPreference})

	score, ok := Score(m, e, DefaultWeights())
	if !ok {
		t.Fatalf("expected an eligible pair")
	}
	if score != 25 {
		t.Fatalf("expected fallback 5 + senior 20, got %v", score)
	}
}

func TestScoreJaccardMode(t *testing.T) {
	w := DefaultWeights()
	w.TopicMode = TopicModeJaccard

	m := mentor(profile.Person{
		MeetingPreference: profile.MeetNoPreference,
		Topics:            []string{"A", "B", "C"},
	}, 1)
	e := mentee(profile.Person{
		MeetingPreference: profile.MeetNoPreference,
		Topics:            []string{"B", "C", "D"},
	})

	score, ok := Score(m, e, w)
	if !ok {
		t.Fatalf("expected an eligible pair")
	}

	// fallback 5 + topic weight 5 * (2 shared / 4 in union)
	want := 5 + 5*2.0/4.0
	if math.Abs(score-want) > 1e-9 {
		t.Fatalf("expected score %v, got %v", want, score)
	}
}

func TestScoreDuplicateTopicsCountOnce(t *testing.T) {
	m := mentor(profile.Person{
		MeetingPreference: profile.MeetNoPreference,
		Topics:            []string{"A", "A"},
	}, 1)
	e := mentee(profile.Person{
		MeetingPreference: profile.MeetNoPreference,
		Topics:            []string{"A", "A"},
	})

	score, ok := Score(m, e, DefaultWeights())
	if !ok {
		t.Fatalf("expected an eligible pair")
	}
	if score != 10 { // fallback 5 + one shared topic 5
		t.Fatalf("expected score 10, got %v", score)
	}
}

func TestWeightsValidate(t *testing.T) {
	w := DefaultWeights()
	w.TopicMatch = -1

	err := w.Validate()
	if err == nil {
		t.Fatalf("expected an error for a negative weight")
	}

	var invalid *InvalidConfigurationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigurationError, got %v", err)
	}
	if invalid.Option != "topic-match" {
		t.Fatalf("expected option topic-match, got %q", invalid.Option)
	}

	w = DefaultWeights()
	w.TopicMode = "cosine"
	if err := w.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown topic mode")
	}
}

func TestWeightsNormalizeDefaultsTopicMode(t *testing.T) {
	w, err := Weights{}.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.TopicMode != TopicModeCount {
		t.Fatalf("expected default topic mode, got %q", w.TopicMode)
	}
}

func TestBuildMatrix(t *testing.T) {
	store := &profile.Store{
		Mentors: []*profile.Mentor{
			mentor(profile.Person{
				Email:             "online@example.com",
				MeetingPreference: profile.MeetOnline,
			}, 2),
			mentor(profile.Person{
				Email:             "local@example.com",
				Location:          "Waterloo",
				MeetingPreference: profile.MeetInPerson,
			}, 1),
		},
		Mentees: []*profile.Mentee{
			mentee(profile.Person{
				Email:             "remote@example.com",
				MeetingPreference: profile.MeetOnline,
			}),
			mentee(profile.Person{
				Email:             "stubborn@example.com",
				Location:          "Toronto",
				MeetingPreference: profile.MeetInPerson,
			}),
		},
	}

	m, err := BuildMatrix(store, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.MenteeCount() != 2 || m.MentorCount() != 2 {
		t.Fatalf("unexpected dimensions: %d x %d", m.MenteeCount(), m.MentorCount())
	}
	if m.TotalCapacity() != 3 {
		t.Fatalf("expected total capacity 3, got %d", m.TotalCapacity())
	}

	if !m.Eligible(0, 0) {
		t.Fatalf("expected online pair to be eligible")
	}
	if m.At(0, 0) != 8 {
		t.Fatalf("expected online score 8, got %v", m.At(0, 0))
	}
	if m.Eligible(0, 1) {
		t.Fatalf("expected online mentee x in-person mentor to be ineligible")
	}
	if m.Eligible(1, 0) || m.Eligible(1, 1) {
		t.Fatalf("expected the stubborn mentee to have no eligible mentor")
	}

	stranded := m.StrandedMentees()
	if len(stranded) != 1 || stranded[0] != "stubborn@example.com" {
		t.Fatalf("unexpected stranded mentees: %v", stranded)
	}
}

func TestBuildMatrixRejectsInvalidWeights(t *testing.T) {
	store := &profile.Store{}

	w := DefaultWeights()
	w.SeniorMentor = -5

	if _, err := BuildMatrix(store, w); err == nil {
		t.Fatalf("expected an error for invalid weights")
	}
}
