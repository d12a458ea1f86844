// Package smallroots finds small roots of integer polynomials with lattice
// reduction: Howgrave-Graham's formulation of Coppersmith's method for
// univariate polynomials modulo an unknown divisor, and Coron's
// simplification for bivariate polynomials over the integers.
package smallroots

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/mahdiidarabi/partial-key-factor/internal/lattice"
	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// Lattice is a small-root solver backed by LLL reduction.
type Lattice struct {
	// Delta is the Lovász constant handed to the reduction; nil selects 3/4.
	Delta  *big.Rat
	logger *zap.Logger
}

// New creates a lattice solver. A nil logger disables logging.
func New(logger *zap.Logger) *Lattice {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lattice{logger: logger}
}

// Name returns the name of this solver.
func (s *Lattice) Name() string {
	return "lattice"
}

// monomial is the exponent pair of x^i * y^j.
type monomial struct{ i, j int }

// reduce LLL-reduces the rows and converts each back into a polynomial by
// dividing column (i, j) by X^i * Y^j.
func (s *Lattice) reduce(rows [][]*big.Int, monomials []monomial, X, Y *big.Int) ([]poly.Poly2, error) {
	reduced, err := lattice.Reduce(rows, s.Delta)
	if err != nil {
		return nil, err
	}
	scales := make([]*big.Int, len(monomials))
	for c, m := range monomials {
		scales[c] = scale(m, X, Y)
	}
	out := make([]poly.Poly2, 0, len(reduced))
	for _, row := range reduced {
		h := make(poly.Poly2, 0)
		for c, m := range monomials {
			for len(h) <= m.i {
				h = append(h, nil)
			}
			for len(h[m.i]) <= m.j {
				h[m.i] = append(h[m.i], new(big.Int))
			}
			h[m.i][m.j] = new(big.Int).Quo(row[c], scales[c])
		}
		out = append(out, h)
	}
	return out, nil
}

// fill writes every shift polynomial evaluated at (x*X, y*Y) as a lattice
// row over the given monomials.
func fill(shifts []poly.Poly2, monomials []monomial, X, Y *big.Int) [][]*big.Int {
	rows := make([][]*big.Int, len(shifts))
	for r, g := range shifts {
		rows[r] = make([]*big.Int, len(monomials))
		for c, m := range monomials {
			v := g.Coeff(m.i, m.j)
			rows[r][c] = v.Mul(v, scale(m, X, Y))
		}
	}
	return rows
}

func scale(m monomial, X, Y *big.Int) *big.Int {
	v := new(big.Int).Exp(X, big.NewInt(int64(m.i)), nil)
	if m.j > 0 {
		v.Mul(v, new(big.Int).Exp(Y, big.NewInt(int64(m.j)), nil))
	}
	return v
}

// seen deduplicates yielded roots by their decimal form.
type seen map[string]struct{}

func (s seen) add(vals ...*big.Int) bool {
	key := ""
	for _, v := range vals {
		key += v.String() + ","
	}
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

func absLess(v, bound *big.Int) bool {
	return new(big.Int).Abs(v).Cmp(bound) < 0
}
