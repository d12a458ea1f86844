package smallroots

import (
	"context"
	"iter"
	"math/big"

	"go.uber.org/zap"

	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// ModularUnivariate yields integer roots r with |r| < bound of polynomials
// built so that every small root of f modulo a large divisor of modulus is
// among them.
//
// The lattice is spanned by x^j * N^(m-i) * f^i for i < m, j < deg f, and
// by x^i * f^m for i < t, with f first made monic modulo N.
func (s *Lattice) ModularUnivariate(ctx context.Context, f poly.Poly, modulus *big.Int, m, t int, bound *big.Int) iter.Seq[*big.Int] {
	return func(yield func(*big.Int) bool) {
		if m < 1 || t < 0 {
			return
		}
		g, err := f.MonicMod(modulus)
		if err != nil {
			s.logger.Warn("Cannot normalise polynomial", zap.Error(err))
			return
		}
		d := g.Degree()
		if d < 1 {
			return
		}

		var shifts []poly.Poly2
		gi := poly.FromInt64(1)
		for i := 0; i < m; i++ {
			nPow := new(big.Int).Exp(modulus, big.NewInt(int64(m-i)), nil)
			base := gi.MulScalar(nPow)
			for j := 0; j < d; j++ {
				shifts = append(shifts, lift(base.ShiftX(j)))
			}
			gi = gi.Mul(g)
		}
		for i := 0; i < t; i++ {
			shifts = append(shifts, lift(gi.ShiftX(i)))
		}

		size := d*m + t
		monomials := make([]monomial, size)
		for c := range monomials {
			monomials[c] = monomial{i: c}
		}
		one := big.NewInt(1)

		if ctx.Err() != nil {
			return
		}
		s.logger.Debug("Reducing univariate lattice",
			zap.Int("m", m), zap.Int("t", t), zap.Int("dimension", size))
		polys, err := s.reduce(fill(shifts, monomials, bound, one), monomials, bound, one)
		if err != nil {
			s.logger.Warn("Lattice reduction failed", zap.Error(err))
			return
		}

		lo := new(big.Int).Neg(bound)
		lo.Add(lo, one)
		found := seen{}
		for _, h := range polys {
			if ctx.Err() != nil {
				return
			}
			for _, r := range column(h).IntegerRoots(lo, bound) {
				if !absLess(r, bound) || !found.add(r) {
					continue
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// lift embeds p(x) as a bivariate polynomial without y.
func lift(p poly.Poly) poly.Poly2 {
	return poly.Outer(p, poly.FromInt64(1))
}

// column returns the univariate polynomial h(x, 0).
func column(h poly.Poly2) poly.Poly {
	if cs := h.CoeffsInY(); len(cs) > 0 {
		return cs[0]
	}
	return nil
}
