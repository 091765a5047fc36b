// Package solver isolates the integer-programming backend behind a narrow
// interface so it can be swapped or stubbed in tests.
package solver

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInfeasible means the backend proved no feasible solution exists.
	ErrInfeasible = errors.New("solver: problem is infeasible")
	// ErrUnavailable means the requested backend cannot be invoked.
	ErrUnavailable = errors.New("solver: backend unavailable")
	// ErrTimeout means the backend exceeded its time bound.
	ErrTimeout = errors.New("solver: timed out")
)

// Problem is a binary maximization problem: maximize Objective . x subject
// to every constraint's Coeffs . x <= Bound, with each x in {0, 1}.
type Problem struct {
	// Objective holds one coefficient per variable.
	Objective []float64
	// Constraints are upper-bound rows over the same variables.
	Constraints []Constraint
}

// Constraint is a sparse row: sum over Vars of x[v] <= Bound (all
// coefficients are 1 in the assignment formulation).
type Constraint struct {
	Vars  []int
	Bound float64
}

// Solution carries the resolved variable values and objective.
type Solution struct {
	Values    []float64
	Objective float64
}

// Solver solves a binary problem within the lifetime of ctx.
type Solver interface {
	Name() string
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// New returns the backend with the given name. An unknown name is an
// ErrUnavailable: the caller reports it per strategy, not per run.
func New(name string) (Solver, error) {
	switch name {
	case "", "gonum":
		return NewGonum(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrUnavailable, name)
	}
}
