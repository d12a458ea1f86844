package coppersmith

import (
	"context"
	"fmt"
	"iter"
	"math/big"

	"go.uber.org/zap"

	"github.com/mahdiidarabi/partial-key-factor/internal/bruteforce"
	"github.com/mahdiidarabi/partial-key-factor/internal/smallroots"
	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// UnivariateSolver finds small roots of a univariate polynomial modulo an
// unknown large divisor of modulus. Every yielded r satisfies |r| < bound;
// the sequence may be empty. Larger m costs more and succeeds more often.
type UnivariateSolver interface {
	ModularUnivariate(ctx context.Context, f poly.Poly, modulus *big.Int, m, t int, bound *big.Int) iter.Seq[*big.Int]
}

// BivariateSolver finds small integer roots of a bivariate polynomial.
// Every yielded pair satisfies |x| < xbound and |y| < ybound.
type BivariateSolver interface {
	IntegerBivariate(ctx context.Context, f poly.Poly2, k int, xbound, ybound *big.Int) iter.Seq2[*big.Int, *big.Int]
}

// Solver defines the interface for small-root solvers.
// Implement this interface to plug a custom solver into a Client.
type Solver interface {
	UnivariateSolver
	BivariateSolver

	// Name returns a human-readable name for this solver.
	Name() string
}

// ExhaustiveConfig configures the exhaustive solver.
type ExhaustiveConfig = bruteforce.Config

// DefaultExhaustiveConfig returns a sensible default configuration.
func DefaultExhaustiveConfig() ExhaustiveConfig {
	return bruteforce.DefaultConfig()
}

// NewLatticeSolver returns the LLL-based solver: Howgrave-Graham for the
// univariate problem and Coron's method for the bivariate one. The
// bivariate solver needs the polynomial to be linear in one variable,
// which holds for every polynomial built by EncodeBivariate.
func NewLatticeSolver(logger *zap.Logger) Solver {
	return smallroots.New(logger)
}

// NewExhaustiveSolver returns a solver that scans a window of candidates
// that doubles every round. It only finds non-negative roots, which covers
// every root built by PartialKnowledge.
func NewExhaustiveSolver(config ExhaustiveConfig, logger *zap.Logger) Solver {
	return bruteforce.New(config, logger)
}

// SolverByName builds a solver from its name: "lattice" (or "") or
// "exhaustive".
func SolverByName(name string, config ExhaustiveConfig, logger *zap.Logger) (Solver, error) {
	switch name {
	case "", "lattice":
		return NewLatticeSolver(logger), nil
	case "exhaustive":
		return NewExhaustiveSolver(config, logger), nil
	default:
		return nil, fmt.Errorf("unknown solver %q (want lattice or exhaustive)", name)
	}
}

func solverName(s any) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
