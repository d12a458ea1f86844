// Package coppersmith recovers the prime factors of an RSA modulus n = p*q
// from partial knowledge of the bits of one or both factors.
//
// The known bits are encoded as a polynomial whose small root is the
// unknown middle block of a factor. An escalation controller hands that
// polynomial to a small-root solver with a growing lattice parameter and
// verifies every candidate root against n until one reconstructs a factor.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/partial-key-factor/pkg/coppersmith"
//
//	// Top 4 bits of the 7-bit factor 97 of 9991 are 0b1100
//	p, q, err := coppersmith.FactorizeUnivariate(big.NewInt(9991), 7, 4, big.NewInt(12), 0, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("p = %s, q = %s\n", p, q)
//
// FactorizeUnivariate and FactorizeBivariate block until they succeed. If
// too few bits are known they never return.
//
// # Bounded Searches
//
// Use a Client to bound the search by round count or by context:
//
//	client := coppersmith.NewClient().
//	    WithLogger(logger).
//	    WithSearchConfig(coppersmith.SearchConfig{Start: 1, MaxRounds: 6})
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
//	defer cancel()
//
//	result, err := client.RecoverUnivariate(ctx, n, coppersmith.PartialKnowledge{
//	    Bits: 512, MSBKnown: 300, MSB: msb,
//	})
//	if errors.Is(err, coppersmith.ErrBoundExhausted) {
//	    // not enough bits known for six rounds
//	}
//
// # Custom Solvers
//
// Implement the Solver interface to plug in a different small-root solver:
//
//	type MySolver struct{}
//
//	func (s *MySolver) ModularUnivariate(ctx context.Context, f poly.Poly, n *big.Int, m, t int, bound *big.Int) iter.Seq[*big.Int] {
//	    // Your root finding
//	}
//
//	func (s *MySolver) IntegerBivariate(ctx context.Context, f poly.Poly2, k int, xbound, ybound *big.Int) iter.Seq2[*big.Int, *big.Int] {
//	    // Your root finding
//	}
//
//	func (s *MySolver) Name() string {
//	    return "MySolver"
//	}
//
//	client := coppersmith.NewClient().WithSolver(&MySolver{})
package coppersmith
