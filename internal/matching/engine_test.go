package matching

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/mentor-match/internal/matching/solver"
	"github.com/spigell/mentor-match/internal/profile"
	"github.com/spigell/mentor-match/internal/scoring"
)

func testStore() *profile.Store {
	return &profile.Store{
		Mentors: []*profile.Mentor{
			{Person: profile.Person{
				Email:             "mentor@example.com",
				Name:              "Mentor",
				MeetingPreference: profile.MeetNoPreference,
			}, Capacity: 2},
		},
		Mentees: []*profile.Mentee{
			{Person: profile.Person{
				Email:             "mentee@example.com",
				Name:              "Mentee",
				MeetingPreference: profile.MeetNoPreference,
			}, Returning: true},
		},
	}
}

func TestEngineRun(t *testing.T) {
	engine, err := NewEngine(testStore(), EngineConfig{Weights: scoring.DefaultWeights()}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := engine.Run(context.Background(), AlgorithmGreedy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if result.Strategy != AlgorithmGreedy {
		t.Fatalf("expected strategy %q, got %q", AlgorithmGreedy, result.Strategy)
	}
	if result.Assignment.MatchedCount() != 1 {
		t.Fatalf("expected one matched pair, got %d", result.Assignment.MatchedCount())
	}
}

func TestEngineRunUnknownAlgorithm(t *testing.T) {
	engine, err := NewEngine(testStore(), EngineConfig{Weights: scoring.DefaultWeights()}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := engine.Run(context.Background(), "simulated-annealing"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestEngineRejectsInvalidWeights(t *testing.T) {
	w := scoring.DefaultWeights()
	w.TopicMatch = -1

	if _, err := NewEngine(testStore(), EngineConfig{Weights: w}, zap.NewNop()); err == nil {
		t.Fatalf("expected an error for invalid weights")
	}
}

func TestEngineRunAll(t *testing.T) {
	cfg := EngineConfig{
		Weights: scoring.DefaultWeights(),
		Backend: solver.NewGonum(),
	}
	engine, err := NewEngine(testStore(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := engine.RunAll(context.Background())

	want := []string{AlgorithmGreedy, AlgorithmWeighted, AlgorithmStable, AlgorithmHybrid, AlgorithmILP}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, name := range want {
		if results[i].Strategy != name {
			t.Fatalf("result %d: expected %q, got %q", i, name, results[i].Strategy)
		}
		if results[i].Failed() {
			t.Fatalf("strategy %q failed: %v", name, results[i].Err)
		}
		if results[i].Assignment.MatchedCount() != 1 {
			t.Fatalf("strategy %q: expected one matched pair", name)
		}
	}
}

func TestEngineRunAllWithoutBackend(t *testing.T) {
	engine, err := NewEngine(testStore(), EngineConfig{Weights: scoring.DefaultWeights()}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := engine.RunAll(context.Background())

	for _, r := range results {
		if r.Strategy == AlgorithmILP {
			if !r.Failed() || !errors.Is(r.Err, solver.ErrUnavailable) {
				t.Fatalf("expected the ilp strategy to report ErrUnavailable, got %v", r.Err)
			}
			continue
		}
		if r.Failed() {
			t.Fatalf("strategy %q failed: %v", r.Strategy, r.Err)
		}
	}
}
