package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	simplexTol  = 1e-10
	integralTol = 1e-6
)

// errPruned marks a branch with no feasible solution; it never escapes Solve.
var errPruned = errors.New("branch infeasible")

// gonumSolver solves the binary problem with gonum's simplex on the LP
// relaxation plus a small branch-and-bound loop. The assignment constraint
// matrix is totally unimodular, so the relaxation is integral and branching
// is a correctness guard rather than the normal path. The context deadline
// is checked between branch nodes.
type gonumSolver struct{}

func NewGonum() Solver { return &gonumSolver{} }

func (s *gonumSolver) Name() string { return "gonum" }

func (s *gonumSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if len(p.Objective) == 0 {
		return &Solution{}, nil
	}

	var best *Solution
	if err := s.branch(ctx, p, map[int]float64{}, &best); err != nil && !errors.Is(err, errPruned) {
		return nil, err
	}

	if best == nil {
		return nil, ErrInfeasible
	}
	return best, nil
}

func (s *gonumSolver) branch(ctx context.Context, p *Problem, fixed map[int]float64, best **Solution) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return err
	}

	objective, values, err := s.relax(p, fixed)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return errPruned
		}
		return fmt.Errorf("simplex: %w", err)
	}

	// The relaxation bounds every solution below it; nothing to gain here.
	if *best != nil && objective <= (*best).Objective+simplexTol {
		return nil
	}

	frac := -1
	for i := range p.Objective {
		if values[i] > integralTol && values[i] < 1-integralTol {
			frac = i
			break
		}
	}

	if frac < 0 {
		rounded := make([]float64, len(p.Objective))
		for i := range rounded {
			rounded[i] = math.Round(values[i])
		}
		*best = &Solution{Values: rounded, Objective: objective}
		return nil
	}

	for _, v := range []float64{1, 0} {
		fixed[frac] = v
		err := s.branch(ctx, p, fixed, best)
		delete(fixed, frac)
		if err != nil && !errors.Is(err, errPruned) {
			return err
		}
	}

	return nil
}

// relax solves the LP relaxation with the given variables pinned, returning
// the maximized objective and variable values.
func (s *gonumSolver) relax(p *Problem, fixed map[int]float64) (float64, []float64, error) {
	n := len(p.Objective)

	// Standard form: minimize c.x subject to A.x = b, x >= 0. One slack per
	// inequality row (the problem constraints plus a unit upper bound per
	// variable); pinned variables become slackless equality rows.
	slacks := len(p.Constraints) + n
	rows := len(p.Constraints) + n + len(fixed)
	cols := n + slacks

	c := make([]float64, cols)
	for i, coeff := range p.Objective {
		c[i] = -coeff
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	row := 0
	slack := n
	for _, constraint := range p.Constraints {
		for _, v := range constraint.Vars {
			a.Set(row, v, 1)
		}
		a.Set(row, slack, 1)
		b[row] = constraint.Bound
		row++
		slack++
	}

	for i := 0; i < n; i++ {
		a.Set(row, i, 1)
		a.Set(row, slack, 1)
		b[row] = 1
		row++
		slack++
	}

	// Deterministic order over the pinned variables.
	for i := 0; i < n; i++ {
		v, ok := fixed[i]
		if !ok {
			continue
		}
		a.Set(row, i, 1)
		b[row] = v
		row++
	}

	opt, x, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		return 0, nil, err
	}

	return -opt, x[:n], nil
}
