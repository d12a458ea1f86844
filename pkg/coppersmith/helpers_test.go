package coppersmith

import (
	"context"
	"iter"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// fixturesDir returns the path to the repository fixtures.
func fixturesDir() string {
	return filepath.Join("..", "..", "fixtures")
}

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		t.Fatalf("bad integer literal %q", s)
	}
	return v
}

// call records one solver invocation.
type call struct {
	param, secondary int
}

// fakeSolver yields scripted candidates per round and records every call
// together with how many candidates the controller consumed.
type fakeSolver struct {
	roots    map[int][]int64
	pairs    map[int][][2]int64
	calls    []call
	consumed map[int]int
}

func newFakeSolver() *fakeSolver {
	return &fakeSolver{
		roots:    map[int][]int64{},
		pairs:    map[int][][2]int64{},
		consumed: map[int]int{},
	}
}

func (s *fakeSolver) Name() string { return "fake" }

func (s *fakeSolver) ModularUnivariate(_ context.Context, _ poly.Poly, _ *big.Int, m, t int, _ *big.Int) iter.Seq[*big.Int] {
	s.calls = append(s.calls, call{m, t})
	return func(yield func(*big.Int) bool) {
		for _, r := range s.roots[m] {
			s.consumed[m]++
			if !yield(big.NewInt(r)) {
				return
			}
		}
	}
}

func (s *fakeSolver) IntegerBivariate(_ context.Context, _ poly.Poly2, k int, _, _ *big.Int) iter.Seq2[*big.Int, *big.Int] {
	s.calls = append(s.calls, call{k, 0})
	return func(yield func(*big.Int, *big.Int) bool) {
		for _, p := range s.pairs[k] {
			s.consumed[k]++
			if !yield(big.NewInt(p[0]), big.NewInt(p[1])) {
				return
			}
		}
	}
}
