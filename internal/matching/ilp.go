package matching

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/mentor-match/internal/matching/solver"
	"github.com/spigell/mentor-match/internal/scoring"
	"github.com/spigell/mentor-match/internal/utils"
)

const ilpRetryPause = 500 * time.Millisecond

// ILPConfig bounds the solver invocation.
type ILPConfig struct {
	// Timeout caps a single solver invocation. Zero means no bound.
	Timeout time.Duration
	// RetryOnTimeout retries the invocation once after a short pause. The
	// computation is deterministic, so retrying only makes sense for time
	// bounds, never for solver errors.
	RetryOnTimeout bool
}

// ilpStrategy states the capacitated assignment as an integer linear
// program: a binary variable per eligible pair, maximize total score, each
// mentee in at most one pair, each mentor in at most capacity pairs. Used as
// a correctness oracle against the weighted strategy on small inputs.
type ilpStrategy struct {
	backend solver.Solver
	cfg     ILPConfig
}

func NewILP(backend solver.Solver, cfg ILPConfig) Strategy {
	return &ilpStrategy{backend: backend, cfg: cfg}
}

func (s *ilpStrategy) Name() string { return AlgorithmILP }

func (s *ilpStrategy) Run(ctx context.Context, m *scoring.Matrix) (*Assignment, error) {
	if s.backend == nil {
		return nil, solver.ErrUnavailable
	}

	// A pool with no capacity has no feasible program at all.
	if m.TotalCapacity() == 0 {
		return nil, solver.ErrInfeasible
	}

	problem, vars := buildProblem(m)

	sol, err := s.solve(ctx, problem)
	if err != nil {
		return nil, err
	}

	mentorFor := make([]int, m.MenteeCount())
	for i := range mentorFor {
		mentorFor[i] = -1
	}
	for v, value := range sol.Values {
		if value > 0.5 {
			mentorFor[vars[v].mentee] = vars[v].mentor
		}
	}

	return newAssignment(m, mentorFor), nil
}

func (s *ilpStrategy) solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	sol, err := s.solveOnce(ctx, p)
	if err == nil || !errors.Is(err, solver.ErrTimeout) || !s.cfg.RetryOnTimeout {
		return sol, err
	}

	if werr := utils.WaitFor(ctx, ilpRetryPause); werr != nil {
		return nil, err
	}
	return s.solveOnce(ctx, p)
}

func (s *ilpStrategy) solveOnce(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	return s.backend.Solve(ctx, p)
}

type pairVar struct {
	mentee, mentor int
}

// buildProblem creates one binary variable per eligible pair, in (mentee,
// mentor) order, with a row per mentee and a row per mentor.
func buildProblem(m *scoring.Matrix) (*solver.Problem, []pairVar) {
	var (
		vars       []pairVar
		objective  []float64
		menteeVars = make([][]int, m.MenteeCount())
		mentorVars = make([][]int, m.MentorCount())
	)

	for i := 0; i < m.MenteeCount(); i++ {
		for _, j := range m.EligibleMentors(i) {
			v := len(vars)
			vars = append(vars, pairVar{mentee: i, mentor: j})
			objective = append(objective, m.At(i, j))
			menteeVars[i] = append(menteeVars[i], v)
			mentorVars[j] = append(mentorVars[j], v)
		}
	}

	problem := &solver.Problem{Objective: objective}
	for _, vs := range menteeVars {
		if len(vs) == 0 {
			continue
		}
		problem.Constraints = append(problem.Constraints, solver.Constraint{Vars: vs, Bound: 1})
	}
	for j, vs := range mentorVars {
		if len(vs) == 0 {
			continue
		}
		problem.Constraints = append(problem.Constraints, solver.Constraint{Vars: vs, Bound: float64(m.Capacity(j))})
	}

	return problem, vars
}
