package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/mentor-match/internal/matching/solver"
)

type stubSolver struct {
	solution *solver.Solution
	errs     []error
	calls    int
	problems []*solver.Problem
}

func (s *stubSolver) Name() string { return "stub" }

func (s *stubSolver) Solve(_ context.Context, p *solver.Problem) (*solver.Solution, error) {
	s.problems = append(s.problems, p)
	call := s.calls
	s.calls++
	if call < len(s.errs) && s.errs[call] != nil {
		return nil, s.errs[call]
	}
	return s.solution, nil
}

func TestILPWithoutBackend(t *testing.T) {
	m := testMatrix(t, [][]int{{5}}, []int{1})

	_, err := NewILP(nil, ILPConfig{}).Run(context.Background(), m)
	if !errors.Is(err, solver.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestILPWithZeroCapacity(t *testing.T) {
	m := testMatrix(t, [][]int{{}}, nil)

	_, err := NewILP(&stubSolver{}, ILPConfig{}).Run(context.Background(), m)
	if !errors.Is(err, solver.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestILPProblemShape(t *testing.T) {
	m := testMatrix(t, [][]int{
		{5, 3},
		{4, 2},
	}, []int{1, 2})

	stub := &stubSolver{solution: &solver.Solution{Values: []float64{0, 1, 1, 0}, Objective: 7}}

	a, err := NewILP(stub, ILPConfig{}).Run(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stub.problems) != 1 {
		t.Fatalf("expected one solver call, got %d", len(stub.problems))
	}
	p := stub.problems[0]

	// One variable per eligible pair in (mentee, mentor) order.
	wantObjective := []float64{5, 3, 4, 2}
	if len(p.Objective) != len(wantObjective) {
		t.Fatalf("expected %d variables, got %d", len(wantObjective), len(p.Objective))
	}
	for i, want := range wantObjective {
		if p.Objective[i] != want {
			t.Fatalf("objective[%d] = %v, want %v", i, p.Objective[i], want)
		}
	}

	// A row per mentee bounded by 1, then a row per mentor bounded by its
	// capacity.
	if len(p.Constraints) != 4 {
		t.Fatalf("expected 4 constraint rows, got %d", len(p.Constraints))
	}
	if p.Constraints[0].Bound != 1 || p.Constraints[1].Bound != 1 {
		t.Fatalf("mentee rows must be bounded by 1: %+v", p.Constraints[:2])
	}
	if p.Constraints[2].Bound != 1 || p.Constraints[3].Bound != 2 {
		t.Fatalf("mentor rows must carry the capacities: %+v", p.Constraints[2:])
	}

	// The stub picked variables 1 and 2: mentee0 -> mentor1, mentee1 -> mentor0.
	if mentor, _ := a.MentorOf("mentee0@example.com"); mentor != "mentor1@example.com" {
		t.Fatalf("expected mentee0 with mentor1, got %q", mentor)
	}
	if mentor, _ := a.MentorOf("mentee1@example.com"); mentor != "mentor0@example.com" {
		t.Fatalf("expected mentee1 with mentor0, got %q", mentor)
	}
	if a.TotalScore() != 7 {
		t.Fatalf("expected total 7, got %v", a.TotalScore())
	}
}

func TestILPRetriesOnTimeout(t *testing.T) {
	m := testMatrix(t, [][]int{{5}}, []int{1})

	stub := &stubSolver{
		solution: &solver.Solution{Values: []float64{1}, Objective: 5},
		errs:     []error{solver.ErrTimeout},
	}

	a, err := NewILP(stub, ILPConfig{RetryOnTimeout: true}).Run(context.Background(), m)
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 solver calls, got %d", stub.calls)
	}
	if a.MatchedCount() != 1 {
		t.Fatalf("expected one matched pair, got %d", a.MatchedCount())
	}
}

func TestILPTimeoutWithoutRetry(t *testing.T) {
	m := testMatrix(t, [][]int{{5}}, []int{1})

	stub := &stubSolver{errs: []error{solver.ErrTimeout}}

	_, err := NewILP(stub, ILPConfig{}).Run(context.Background(), m)
	if !errors.Is(err, solver.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected a single solver call, got %d", stub.calls)
	}
}

func TestILPDoesNotRetrySolverErrors(t *testing.T) {
	m := testMatrix(t, [][]int{{5}}, []int{1})

	stub := &stubSolver{errs: []error{solver.ErrInfeasible}}

	_, err := NewILP(stub, ILPConfig{RetryOnTimeout: true}).Run(context.Background(), m)
	if !errors.Is(err, solver.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected a single solver call, got %d", stub.calls)
	}
}

func TestILPAgreesWithWeighted(t *testing.T) {
	m := testMatrix(t, [][]int{
		{7, 5, 1},
		{8, 6, 2},
		{9, 4, 3},
		{2, 2, 2},
	}, []int{1, 1, 2})

	weighted, err := NewWeighted().Run(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ilp, err := NewILP(solver.NewGonum(), ILPConfig{}).Run(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkValid(t, m, ilp)

	if ilp.TotalScore() != weighted.TotalScore() {
		t.Fatalf("ilp total %v differs from weighted total %v", ilp.TotalScore(), weighted.TotalScore())
	}
}
