package smallroots

import (
	"context"
	"iter"
	"math/big"

	"go.uber.org/zap"

	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// IntegerBivariate yields integer pairs (x, y) with |x| < xbound,
// |y| < ybound and f(x, y) == 0.
//
// The lattice follows Coron's simplification of Coppersmith's bivariate
// method. Roots are extracted by eliminating y between f and each reduced
// polynomial, which requires f to have degree one in x or in y; other
// polynomials yield nothing.
func (s *Lattice) IntegerBivariate(ctx context.Context, f poly.Poly2, k int, xbound, ybound *big.Int) iter.Seq2[*big.Int, *big.Int] {
	return func(yield func(*big.Int, *big.Int) bool) {
		if k < 1 {
			return
		}
		dx, dy := f.Degrees()
		switch {
		case dy == 1:
			s.coron(ctx, f, k, xbound, ybound, yield)
		case dx == 1:
			s.coron(ctx, f.Swap(), k, ybound, xbound, func(y, x *big.Int) bool {
				return yield(x, y)
			})
		default:
			s.logger.Warn("Bivariate polynomial is not linear in either variable",
				zap.Int("deg_x", dx), zap.Int("deg_y", dy))
		}
	}
}

// coron runs the search for f linear in y.
func (s *Lattice) coron(ctx context.Context, f poly.Poly2, k int, X, Y *big.Int, yield func(*big.Int, *big.Int) bool) {
	dx, dy := f.Degrees()
	delta := max(dx, dy)

	f00 := f.Coeff(0, 0)
	if f00.Sign() == 0 {
		s.translated(ctx, f, k, X, Y, yield)
		return
	}
	absF00 := new(big.Int).Abs(f00)

	// The lattice modulus must be coprime to f00; widen the working bounds
	// until it is. Roots are still filtered against the caller's bounds.
	xb, yb := X, Y
	X, Y = coprimeBound(X, absF00), coprimeBound(Y, absF00)

	// n = u * (XY)^k with u = W + ((1 - W) mod |f00|), so u = 1 mod |f00|.
	w := f.ScaledMaxNorm(X, Y)
	u := new(big.Int).Sub(big.NewInt(1), w)
	u.Mod(u, absF00)
	u.Add(u, w)
	xy := new(big.Int).Mul(X, Y)
	n := new(big.Int).Exp(xy, big.NewInt(int64(k)), nil)
	n.Mul(n, u)

	inv := new(big.Int).ModInverse(new(big.Int).Mod(f00, n), n)
	if inv == nil {
		s.logger.Warn("Constant term not invertible modulo lattice modulus")
		return
	}
	q := f.MulScalar(inv).Mod(n)

	span := k + delta + 1
	var shifts []poly.Poly2
	var monomials []monomial
	for i := 0; i < span; i++ {
		for j := 0; j < span; j++ {
			monomials = append(monomials, monomial{i: i, j: j})
			if i <= k && j <= k {
				c := new(big.Int).Exp(X, big.NewInt(int64(k-i)), nil)
				c.Mul(c, new(big.Int).Exp(Y, big.NewInt(int64(k-j)), nil))
				shifts = append(shifts, q.ShiftXY(i, j).MulScalar(c))
			} else {
				shifts = append(shifts, poly.Monomial2(i, j, n))
			}
		}
	}

	if ctx.Err() != nil {
		return
	}
	s.logger.Debug("Reducing bivariate lattice", zap.Int("k", k), zap.Int("dimension", len(shifts)))
	polys, err := s.reduce(fill(shifts, monomials, X, Y), monomials, X, Y)
	if err != nil {
		s.logger.Warn("Lattice reduction failed", zap.Error(err))
		return
	}

	fy := f.CoeffsInY()
	a, b := fy[0], fy[1]
	lo := new(big.Int).Neg(xb)
	lo.Add(lo, big.NewInt(1))
	found := seen{}
	for _, h := range polys {
		if ctx.Err() != nil {
			return
		}
		res, ok := f.ResultantLinearY(h)
		if !ok || res.IsZero() {
			continue
		}
		for _, x0 := range res.IntegerRoots(lo, xb) {
			bx := b.Eval(x0)
			if bx.Sign() == 0 {
				continue
			}
			num := new(big.Int).Neg(a.Eval(x0))
			y0, rem := new(big.Int).QuoRem(num, bx, new(big.Int))
			if rem.Sign() != 0 || !absLess(y0, yb) {
				continue
			}
			if f.Eval(x0, y0).Sign() != 0 || !found.add(x0, y0) {
				continue
			}
			if !yield(x0, y0) {
				return
			}
		}
	}
}

// translated handles f(0, 0) == 0. (0, 0) is then a root itself; the
// remaining roots are searched on f(x+a, y+b) for the first small shift
// with a nonzero constant term and mapped back.
func (s *Lattice) translated(ctx context.Context, f poly.Poly2, k int, X, Y *big.Int, yield func(*big.Int, *big.Int) bool) {
	zero := new(big.Int)
	if absLess(zero, X) && absLess(zero, Y) && !yield(zero, new(big.Int)) {
		return
	}
	a, b, ok := constantShift(f)
	if !ok {
		return
	}
	s.logger.Debug("Translating bivariate polynomial",
		zap.Stringer("a", a), zap.Stringer("b", b))

	xb, yb := new(big.Int).Add(X, a), new(big.Int).Add(Y, b)
	s.coron(ctx, f.Translate(a, b), k, xb, yb, func(x, y *big.Int) bool {
		x, y = new(big.Int).Add(x, a), new(big.Int).Add(y, b)
		if (x.Sign() == 0 && y.Sign() == 0) || !absLess(x, X) || !absLess(y, Y) {
			return true
		}
		return yield(x, y)
	})
}

// constantShift returns the first non-negative (a, b) != (0, 0), by
// increasing a+b, with f(a, b) != 0. ok is false only for the zero
// polynomial: a nonzero f cannot vanish on the whole (dx+1) x (dy+1) grid.
func constantShift(f poly.Poly2) (a, b *big.Int, ok bool) {
	dx, dy := f.Degrees()
	if dx < 0 {
		return nil, nil, false
	}
	for sum := 1; sum <= dx+dy+2; sum++ {
		for i := 0; i <= sum; i++ {
			a, b = big.NewInt(int64(i)), big.NewInt(int64(sum-i))
			if f.Eval(a, b).Sign() != 0 {
				return a, b, true
			}
		}
	}
	return nil, nil, false
}

// coprimeBound returns the smallest v >= bound with gcd(v, c) == 1.
func coprimeBound(bound, c *big.Int) *big.Int {
	v := new(big.Int).Set(bound)
	g := new(big.Int)
	for g.GCD(nil, nil, v, c).Cmp(big.NewInt(1)) != 0 {
		v.Add(v, big.NewInt(1))
	}
	return v
}
