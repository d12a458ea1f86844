package poly

import (
	"math/big"
	"sort"
)

var one = big.NewInt(1)

// IntegerRoots returns the distinct integer roots of p in [lo, hi), in
// ascending order. The zero polynomial has no reported roots.
//
// The search splits [lo, hi) at the sign changes of the derivative, which
// leaves segments on which p is monotone, and bisects each segment. Work is
// polynomial in the degree and logarithmic in the width of the range.
func (p Poly) IntegerRoots(lo, hi *big.Int) []*big.Int {
	p = p.trim()
	if len(p) < 2 || lo.Cmp(hi) >= 0 {
		return nil
	}
	last := new(big.Int).Sub(hi, one)
	var roots []*big.Int
	for _, x := range p.crossings(lo, last) {
		if p.Eval(x).Sign() == 0 {
			roots = append(roots, x)
		}
	}
	return dedupe(roots)
}

// crossings returns every integer x in [lo, hi] where p(x) == 0 or where p
// changes sign between x and x+1 (x < hi).
func (p Poly) crossings(lo, hi *big.Int) []*big.Int {
	if len(p) < 2 || lo.Cmp(hi) > 0 {
		return nil
	}

	var cuts []*big.Int
	if len(p) > 2 {
		cuts = p.Derivative().crossings(lo, hi)
	}

	var out []*big.Int
	a := new(big.Int).Set(lo)
	bounds := append(dedupe(cuts), nil)
	for _, c := range bounds {
		b := hi
		if c != nil {
			b = c
		}
		if a.Cmp(b) <= 0 {
			out = append(out, p.segment(a, b)...)
		}
		if c == nil {
			break
		}
		next := new(big.Int).Add(c, one)
		if next.Cmp(hi) <= 0 {
			sc, sn := p.Eval(c).Sign(), p.Eval(next).Sign()
			if sc != 0 && sn != 0 && sc != sn {
				out = append(out, new(big.Int).Set(c))
			}
		}
		a = next
	}
	return dedupe(out)
}

// segment handles [a, b] on which p is monotone.
func (p Poly) segment(a, b *big.Int) []*big.Int {
	var out []*big.Int
	va := p.Eval(a).Sign()
	if va == 0 {
		out = append(out, new(big.Int).Set(a))
	}
	if a.Cmp(b) == 0 {
		return out
	}
	vb := p.Eval(b).Sign()
	switch {
	case vb == 0:
		out = append(out, new(big.Int).Set(b))
	case va != 0 && va != vb:
		out = append(out, p.bisect(a, b, va))
	}
	return out
}

// bisect narrows [l, r] with sign(p(l)) == sl != sign(p(r)), neither zero,
// and returns either a root or the left end of a unit sign change.
func (p Poly) bisect(l, r *big.Int, sl int) *big.Int {
	l, r = new(big.Int).Set(l), new(big.Int).Set(r)
	width := new(big.Int)
	mid := new(big.Int)
	for width.Sub(r, l).Cmp(one) > 0 {
		mid.Add(l, r)
		mid.Div(mid, big.NewInt(2))
		switch s := p.Eval(mid).Sign(); {
		case s == 0:
			return new(big.Int).Set(mid)
		case s == sl:
			l.Set(mid)
		default:
			r.Set(mid)
		}
	}
	return l
}

func dedupe(xs []*big.Int) []*big.Int {
	if len(xs) == 0 {
		return nil
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].Cmp(xs[j]) < 0 })
	out := xs[:1]
	for _, x := range xs[1:] {
		if x.Cmp(out[len(out)-1]) != 0 {
			out = append(out, x)
		}
	}
	return out
}
