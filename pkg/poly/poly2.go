package poly

import (
	"math/big"
	"strings"
)

// Poly2 is a bivariate integer polynomial in x and y. c[i][j] is the
// coefficient of x^i * y^j. Rows may have different lengths.
type Poly2 [][]*big.Int

// Outer returns p(x) * q(y).
func Outer(p, q Poly) Poly2 {
	p, q = p.trim(), q.trim()
	r := make(Poly2, len(p))
	for i, a := range p {
		r[i] = make([]*big.Int, len(q))
		for j, b := range q {
			r[i][j] = new(big.Int).Mul(a, b)
		}
	}
	return r.trim()
}

// Monomial2 returns c * x^i * y^j.
func Monomial2(i, j int, c *big.Int) Poly2 {
	r := make(Poly2, i+1)
	r[i] = make([]*big.Int, j+1)
	for b := range r[i] {
		r[i][b] = new(big.Int)
	}
	r[i][j].Set(c)
	return r.trim()
}

func (f Poly2) clone() Poly2 {
	r := make(Poly2, len(f))
	for i, row := range f {
		r[i] = make([]*big.Int, len(row))
		for j, c := range row {
			r[i][j] = new(big.Int)
			if c != nil {
				r[i][j].Set(c)
			}
		}
	}
	return r
}

func (f Poly2) trim() Poly2 {
	for i, row := range f {
		n := len(row)
		for n > 0 && (row[n-1] == nil || row[n-1].Sign() == 0) {
			n--
		}
		f[i] = row[:n]
	}
	n := len(f)
	for n > 0 && len(f[n-1]) == 0 {
		n--
	}
	return f[:n]
}

// Coeff returns a copy of the coefficient of x^i * y^j.
func (f Poly2) Coeff(i, j int) *big.Int {
	if i < 0 || i >= len(f) || j < 0 || j >= len(f[i]) || f[i][j] == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(f[i][j])
}

// Degrees returns the degree of f in x and in y; both are -1 for zero.
func (f Poly2) Degrees() (dx, dy int) {
	dx, dy = -1, -1
	for i, row := range f {
		for j, c := range row {
			if c != nil && c.Sign() != 0 {
				dx = max(dx, i)
				dy = max(dy, j)
			}
		}
	}
	return dx, dy
}

// IsZero reports whether f is the zero polynomial.
func (f Poly2) IsZero() bool {
	dx, _ := f.Degrees()
	return dx < 0
}

// SubConst returns f - c.
func (f Poly2) SubConst(c *big.Int) Poly2 {
	r := f.clone()
	if len(r) == 0 {
		r = Poly2{{new(big.Int)}}
	}
	if len(r[0]) == 0 {
		r[0] = []*big.Int{new(big.Int)}
	}
	r[0][0].Sub(r[0][0], c)
	return r.trim()
}

// MulScalar returns c * f.
func (f Poly2) MulScalar(c *big.Int) Poly2 {
	r := f.clone()
	for _, row := range r {
		for _, a := range row {
			a.Mul(a, c)
		}
	}
	return r.trim()
}

// ShiftXY returns x^i * y^j * f.
func (f Poly2) ShiftXY(i, j int) Poly2 {
	f = f.clone().trim()
	if len(f) == 0 {
		return Poly2{}
	}
	r := make(Poly2, len(f)+i)
	for a := range r {
		src := a - i
		if src < 0 {
			continue
		}
		row := f[src]
		if len(row) == 0 {
			continue
		}
		r[a] = make([]*big.Int, len(row)+j)
		for b := 0; b < j; b++ {
			r[a][b] = new(big.Int)
		}
		for b, c := range row {
			r[a][b+j] = c
		}
	}
	return r
}

// Translate returns f(x+a, y+b).
func (f Poly2) Translate(a, b *big.Int) Poly2 {
	dx, dy := f.Degrees()
	if dx < 0 {
		return Poly2{}
	}
	one := big.NewInt(1)
	xs, ys := make([]Poly, dx+1), make([]Poly, dy+1)
	for i := range xs {
		xs[i] = New(a, one).Pow(i)
	}
	for j := range ys {
		ys[j] = New(b, one).Pow(j)
	}

	r := make(Poly2, dx+1)
	for u := range r {
		r[u] = make([]*big.Int, dy+1)
		for v := range r[u] {
			r[u][v] = new(big.Int)
		}
	}
	for i, row := range f {
		for j, c := range row {
			if c == nil || c.Sign() == 0 {
				continue
			}
			for u, cu := range xs[i] {
				for v, cv := range ys[j] {
					t := new(big.Int).Mul(cu, cv)
					r[u][v].Add(r[u][v], t.Mul(t, c))
				}
			}
		}
	}
	return r.trim()
}

// Mod reduces every coefficient into [0, n).
func (f Poly2) Mod(n *big.Int) Poly2 {
	r := f.clone()
	for _, row := range r {
		for _, a := range row {
			a.Mod(a, n)
		}
	}
	return r.trim()
}

// Eval returns f(x, y).
func (f Poly2) Eval(x, y *big.Int) *big.Int {
	return f.EvalX(x).Eval(y)
}

// EvalX substitutes x and returns the resulting polynomial in y.
func (f Poly2) EvalX(x *big.Int) Poly {
	var acc Poly
	for i := len(f) - 1; i >= 0; i-- {
		acc = acc.MulScalar(x).Add(New(f[i]...))
	}
	return acc
}

// CoeffsInY views f as a polynomial in y with coefficients in Z[x]:
// the j-th returned polynomial is the coefficient of y^j.
func (f Poly2) CoeffsInY() []Poly {
	_, dy := f.Degrees()
	out := make([]Poly, dy+1)
	for j := range out {
		col := make(Poly, len(f))
		for i := range f {
			col[i] = f.Coeff(i, j)
		}
		out[j] = col.trim()
	}
	return out
}

// Swap exchanges the roles of x and y.
func (f Poly2) Swap() Poly2 {
	dx, dy := f.Degrees()
	r := make(Poly2, dy+1)
	for j := range r {
		r[j] = make([]*big.Int, dx+1)
		for i := range r[j] {
			r[j][i] = f.Coeff(i, j)
		}
	}
	return r.trim()
}

// ScaledMaxNorm returns max |c_ij| * X^i * Y^j, the infinity norm of
// f(x*X, y*Y).
func (f Poly2) ScaledMaxNorm(X, Y *big.Int) *big.Int {
	best := new(big.Int)
	xi := big.NewInt(1)
	for _, row := range f {
		yj := new(big.Int).Set(xi)
		for _, c := range row {
			if c != nil {
				v := new(big.Int).Abs(c)
				v.Mul(v, yj)
				if v.Cmp(best) > 0 {
					best = v
				}
			}
			yj.Mul(yj, Y)
		}
		xi.Mul(xi, X)
	}
	return best
}

// ResultantLinearY eliminates y between f and h, where f = A(x) + B(x)*y
// has degree one in y. The result is h(x, -A/B) * B^deg_y(h), which equals
// the resultant Res_y(f, h) up to sign. ok is false when f is not linear
// in y.
func (f Poly2) ResultantLinearY(h Poly2) (r Poly, ok bool) {
	if _, dy := f.Degrees(); dy != 1 {
		return nil, false
	}
	fc := f.CoeffsInY()
	negA, b := Poly{}.Sub(fc[0]), fc[1]
	hc := h.CoeffsInY()
	d := len(hc) - 1
	for j, hj := range hc {
		if hj.IsZero() {
			continue
		}
		term := hj.Mul(negA.Pow(j)).Mul(b.Pow(d - j))
		r = r.Add(term)
	}
	return r, true
}

// String renders f term by term with the highest x power first.
func (f Poly2) String() string {
	var b strings.Builder
	for i := len(f) - 1; i >= 0; i-- {
		for j := len(f[i]) - 1; j >= 0; j-- {
			c := f[i][j]
			if c == nil || c.Sign() == 0 {
				continue
			}
			switch {
			case b.Len() == 0 && c.Sign() < 0:
				b.WriteString("-")
			case b.Len() > 0 && c.Sign() < 0:
				b.WriteString(" - ")
			case b.Len() > 0:
				b.WriteString(" + ")
			}
			mono := monomial("x", i)
			if y := monomial("y", j); y != "" {
				if mono != "" {
					mono += "*"
				}
				mono += y
			}
			writeTerm(&b, new(big.Int).Abs(c), mono)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
