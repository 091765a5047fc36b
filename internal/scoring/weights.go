package scoring

import "fmt"

// Topic overlap modes.
const (
	// TopicModeCount scores each shared topic with the configured weight.
	TopicModeCount = "count"
	// TopicModeJaccard scales the weight by |intersection| / |union|.
	TopicModeJaccard = "jaccard"
)

// InvalidConfigurationError reports a weight override that is out of range or
// an unknown option. It is rejected before any scoring occurs.
type InvalidConfigurationError struct {
	Option string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration option %q: %s", e.Option, e.Reason)
}

// Weights is the compatibility scoring configuration. It is an explicit
// immutable value threaded into the scorer, never global state. Callers may
// override any subset of DefaultWeights.
type Weights struct {
	// InPersonMatch applies when both prefer in-person and are co-located.
	InPersonMatch float64 `mapstructure:"in-person-match"`
	// OnlineMatch applies when both prefer online.
	OnlineMatch float64 `mapstructure:"online-match"`
	// PreferenceFallback applies when at least one side has no preference.
	PreferenceFallback float64 `mapstructure:"preference-fallback"`
	// TopicMatch is the weight of mentorship topic overlap.
	TopicMatch float64 `mapstructure:"topic-match"`
	// CareerTopicMatch is the weight of career topic overlap.
	CareerTopicMatch float64 `mapstructure:"career-topic-match"`
	// ProgramMatch applies when both are in the same program.
	ProgramMatch float64 `mapstructure:"program-match"`
	// SeniorMentor applies when the mentor's term is above the mentee's, or
	// the mentor is a graduate.
	SeniorMentor float64 `mapstructure:"senior-mentor"`
	// TopicMode selects how topic overlap is scored: "count" (default) or
	// "jaccard".
	TopicMode string `mapstructure:"topic-mode"`
}

// DefaultWeights returns the weights the program has historically used.
func DefaultWeights() Weights {
	return Weights{
		InPersonMatch:      10,
		OnlineMatch:        8,
		PreferenceFallback: 5,
		TopicMatch:         5,
		CareerTopicMatch:   4,
		ProgramMatch:       5,
		SeniorMentor:       20,
		TopicMode:          TopicModeCount,
	}
}

// Normalize fills defaulted fields and validates the result.
func (w Weights) Normalize() (Weights, error) {
	if w.TopicMode == "" {
		w.TopicMode = TopicModeCount
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// Validate rejects negative weights and unknown topic modes.
func (w Weights) Validate() error {
	checks := []struct {
		option string
		value  float64
	}{
		{"in-person-match", w.InPersonMatch},
		{"online-match", w.OnlineMatch},
		{"preference-fallback", w.PreferenceFallback},
		{"topic-match", w.TopicMatch},
		{"career-topic-match", w.CareerTopicMatch},
		{"program-match", w.ProgramMatch},
		{"senior-mentor", w.SeniorMentor},
	}

	for _, c := range checks {
		if c.value < 0 {
			return &InvalidConfigurationError{Option: c.option, Reason: "must not be negative"}
		}
	}

	if w.TopicMode != TopicModeCount && w.TopicMode != TopicModeJaccard {
		return &InvalidConfigurationError{Option: "topic-mode", Reason: fmt.Sprintf("unknown mode %q", w.TopicMode)}
	}

	return nil
}
