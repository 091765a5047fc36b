package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/mentor-match/internal/scoring"
)

// Strategy names accepted on the command line.
const (
	AlgorithmGreedy   = "greedy"
	AlgorithmWeighted = "weighted"
	AlgorithmStable   = "stable"
	AlgorithmHybrid   = "hybrid"
	AlgorithmILP      = "ilp"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Strategy is a single matching algorithm. Implementations are pure
// functions over the immutable score matrix: same matrix in, byte-identical
// Assignment out.
type Strategy interface {
	Name() string
	Run(ctx context.Context, m *scoring.Matrix) (*Assignment, error)
}

// Result is one strategy's outcome. Err is set when the strategy failed
// (solver problems); a failed result carries no assignment and never aborts
// the other strategies.
type Result struct {
	Strategy   string
	Assignment *Assignment
	TotalScore float64
	Err        error
}

func (r *Result) Failed() bool { return r.Err != nil }

// pairKey orders (score desc, mentee asc, mentor asc). The fixed tie-break
// keeps every strategy reproducible.
func pairLess(scoreA float64, menteeA, mentorA int, scoreB float64, menteeB, mentorB int) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	if menteeA != menteeB {
		return menteeA < menteeB
	}
	return mentorA < mentorB
}

func validAlgorithm(name string) bool {
	switch name {
	case AlgorithmGreedy, AlgorithmWeighted, AlgorithmStable, AlgorithmHybrid, AlgorithmILP:
		return true
	}
	return false
}

func unknownAlgorithm(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
