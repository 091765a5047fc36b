package matching

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/mentor-match/internal/matching/solver"
	"github.com/spigell/mentor-match/internal/profile"
	"github.com/spigell/mentor-match/internal/scoring"
)

// EngineConfig wires the engine's strategies.
type EngineConfig struct {
	Weights scoring.Weights
	Hybrid  HybridConfig
	ILP     ILPConfig
	// Backend solves the ILP formulation. A nil backend leaves the ilp
	// strategy in the set but every run of it reports unavailability.
	Backend solver.Solver
}

// Engine builds the score matrix once and dispatches matching strategies
// over it. Strategies are pure functions over the immutable matrix, so the
// engine may run them concurrently; correctness does not depend on order.
type Engine struct {
	matrix     *scoring.Matrix
	strategies []Strategy
	logger     *zap.Logger
}

// NewEngine validates the weights, scores every pair, and prepares the
// closed strategy set. An invalid weight override fails here, before any
// scoring output exists.
func NewEngine(store *profile.Store, cfg EngineConfig, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	matrix, err := scoring.BuildMatrix(store, cfg.Weights)
	if err != nil {
		return nil, err
	}

	priority := make([]bool, len(store.Mentees))
	for i, mentee := range store.Mentees {
		priority[i] = mentee.Returning
	}

	return &Engine{
		matrix: matrix,
		strategies: []Strategy{
			NewGreedy(),
			NewWeighted(),
			NewStable(),
			NewHybrid(cfg.Hybrid, priority),
			NewILP(cfg.Backend, cfg.ILP),
		},
		logger: logger,
	}, nil
}

// Matrix exposes the immutable score matrix for evaluation.
func (e *Engine) Matrix() *scoring.Matrix { return e.matrix }

// Run executes one strategy by name. A failing strategy is reported inside
// the result, not as an engine error; only an unknown name is an error.
func (e *Engine) Run(ctx context.Context, name string) (*Result, error) {
	if !validAlgorithm(name) {
		return nil, unknownAlgorithm(name)
	}

	for _, s := range e.strategies {
		if s.Name() == name {
			return e.runStrategy(ctx, s), nil
		}
	}
	return nil, unknownAlgorithm(name)
}

// RunAll executes every strategy concurrently over the shared matrix and
// returns the results in the closed set's fixed order.
func (e *Engine) RunAll(ctx context.Context) []*Result {
	results := make([]*Result, len(e.strategies))

	var wg sync.WaitGroup
	for i, s := range e.strategies {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			results[i] = e.runStrategy(ctx, s)
		}(i, s)
	}
	wg.Wait()

	return results
}

func (e *Engine) runStrategy(ctx context.Context, s Strategy) *Result {
	started := time.Now()

	assignment, err := s.Run(ctx, e.matrix)
	if err != nil {
		e.logger.Warn("strategy failed",
			zap.String("algorithm", s.Name()),
			zap.Error(err),
		)
		return &Result{Strategy: s.Name(), Err: err}
	}

	e.logger.Info("strategy finished",
		zap.String("algorithm", s.Name()),
		zap.Float64("total_score", assignment.TotalScore()),
		zap.Int("matched", assignment.MatchedCount()),
		zap.Int("unmatched", len(assignment.Unassigned())),
		zap.Duration("took", time.Since(started)),
	)

	return &Result{
		Strategy:   s.Name(),
		Assignment: assignment,
		TotalScore: assignment.TotalScore(),
	}
}
