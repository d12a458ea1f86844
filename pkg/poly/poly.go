// Package poly implements dense polynomials with arbitrary-precision integer
// coefficients in one (Poly) and two (Poly2) variables.
//
// Values are treated as immutable: every operation returns a fresh
// polynomial and never aliases the coefficients of its operands.
package poly

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/remyoudompheng/bigfft"
)

// ErrNotInvertible is returned by MonicMod when the leading coefficient has
// no inverse modulo the requested modulus.
var ErrNotInvertible = errors.New("poly: leading coefficient not invertible")

// Poly is a univariate integer polynomial. p[i] is the coefficient of x^i.
// The zero polynomial is the empty slice.
type Poly []*big.Int

// New returns the polynomial with the given coefficients, lowest degree
// first. Nil coefficients are read as zero.
func New(coeffs ...*big.Int) Poly {
	p := make(Poly, len(coeffs))
	for i, c := range coeffs {
		p[i] = new(big.Int)
		if c != nil {
			p[i].Set(c)
		}
	}
	return p.trim()
}

// FromInt64 is New for small coefficients.
func FromInt64(coeffs ...int64) Poly {
	p := make(Poly, len(coeffs))
	for i, c := range coeffs {
		p[i] = big.NewInt(c)
	}
	return p.trim()
}

// X returns the monomial x.
func X() Poly {
	return Poly{new(big.Int), big.NewInt(1)}
}

// Constant returns the constant polynomial c.
func Constant(c *big.Int) Poly {
	return New(c)
}

func (p Poly) trim() Poly {
	n := len(p)
	for n > 0 && (p[n-1] == nil || p[n-1].Sign() == 0) {
		n--
	}
	return p[:n]
}

func (p Poly) clone() Poly {
	r := make(Poly, len(p))
	for i, c := range p {
		r[i] = new(big.Int)
		if c != nil {
			r[i].Set(c)
		}
	}
	return r
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	return len(p.trim()) - 1
}

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool {
	return p.Degree() < 0
}

// Coeff returns a copy of the coefficient of x^i.
func (p Poly) Coeff(i int) *big.Int {
	if i < 0 || i >= len(p) || p[i] == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p[i])
}

// Lead returns a copy of the leading coefficient (zero for the zero polynomial).
func (p Poly) Lead() *big.Int {
	return p.Coeff(p.Degree())
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	r := make(Poly, max(len(p), len(q)))
	for i := range r {
		r[i] = new(big.Int)
		if i < len(p) && p[i] != nil {
			r[i].Add(r[i], p[i])
		}
		if i < len(q) && q[i] != nil {
			r[i].Add(r[i], q[i])
		}
	}
	return r.trim()
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly {
	r := make(Poly, max(len(p), len(q)))
	for i := range r {
		r[i] = new(big.Int)
		if i < len(p) && p[i] != nil {
			r[i].Add(r[i], p[i])
		}
		if i < len(q) && q[i] != nil {
			r[i].Sub(r[i], q[i])
		}
	}
	return r.trim()
}

// Mul returns p * q. Coefficient products go through bigfft, which switches
// to FFT multiplication for very large operands.
func (p Poly) Mul(q Poly) Poly {
	p, q = p.trim(), q.trim()
	if len(p) == 0 || len(q) == 0 {
		return Poly{}
	}
	r := make(Poly, len(p)+len(q)-1)
	for i := range r {
		r[i] = new(big.Int)
	}
	for i, a := range p {
		if a.Sign() == 0 {
			continue
		}
		for j, b := range q {
			if b.Sign() == 0 {
				continue
			}
			r[i+j].Add(r[i+j], bigfft.Mul(a, b))
		}
	}
	return r.trim()
}

// MulScalar returns c * p.
func (p Poly) MulScalar(c *big.Int) Poly {
	r := p.clone()
	for _, a := range r {
		a.Mul(a, c)
	}
	return r.trim()
}

// Pow returns p^e for e >= 0.
func (p Poly) Pow(e int) Poly {
	result := FromInt64(1)
	base := p.clone().trim()
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		if e > 1 {
			base = base.Mul(base)
		}
	}
	return result
}

// ShiftX returns x^j * p.
func (p Poly) ShiftX(j int) Poly {
	p = p.trim()
	if len(p) == 0 {
		return Poly{}
	}
	r := make(Poly, len(p)+j)
	for i := 0; i < j; i++ {
		r[i] = new(big.Int)
	}
	for i, c := range p {
		r[i+j] = new(big.Int).Set(c)
	}
	return r
}

// Eval returns p(x) using Horner's rule.
func (p Poly) Eval(x *big.Int) *big.Int {
	acc := new(big.Int)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		if p[i] != nil {
			acc.Add(acc, p[i])
		}
	}
	return acc
}

// Derivative returns dp/dx.
func (p Poly) Derivative() Poly {
	p = p.trim()
	if len(p) <= 1 {
		return Poly{}
	}
	r := make(Poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		r[i-1] = new(big.Int).Mul(p[i], big.NewInt(int64(i)))
	}
	return r.trim()
}

// Mod reduces every coefficient into [0, n).
func (p Poly) Mod(n *big.Int) Poly {
	r := p.clone()
	for _, a := range r {
		a.Mod(a, n)
	}
	return r.trim()
}

// MonicMod returns the polynomial with the same roots modulo n whose leading
// coefficient is 1, with every coefficient reduced into [0, n).
func (p Poly) MonicMod(n *big.Int) (Poly, error) {
	q := p.Mod(n)
	if q.IsZero() {
		return nil, fmt.Errorf("%w: polynomial vanishes modulo %s", ErrNotInvertible, n)
	}
	inv := new(big.Int).ModInverse(q.Lead(), n)
	if inv == nil {
		return nil, fmt.Errorf("%w: gcd(%s, n) != 1", ErrNotInvertible, q.Lead())
	}
	return q.MulScalar(inv).Mod(n), nil
}

// String renders p with the highest power first, e.g. "3*x^2 + x - 7".
func (p Poly) String() string {
	p = p.trim()
	if len(p) == 0 {
		return "0"
	}
	var b strings.Builder
	for i := len(p) - 1; i >= 0; i-- {
		c := p[i]
		if c.Sign() == 0 {
			continue
		}
		abs := new(big.Int).Abs(c)
		switch {
		case b.Len() == 0 && c.Sign() < 0:
			b.WriteString("-")
		case b.Len() > 0 && c.Sign() < 0:
			b.WriteString(" - ")
		case b.Len() > 0:
			b.WriteString(" + ")
		}
		writeTerm(&b, abs, monomial("x", i))
	}
	return b.String()
}

func monomial(v string, e int) string {
	switch e {
	case 0:
		return ""
	case 1:
		return v
	default:
		return fmt.Sprintf("%s^%d", v, e)
	}
}

func writeTerm(b *strings.Builder, abs *big.Int, mono string) {
	switch {
	case mono == "":
		b.WriteString(abs.String())
	case abs.Cmp(big.NewInt(1)) == 0:
		b.WriteString(mono)
	default:
		b.WriteString(abs.String())
		b.WriteString("*")
		b.WriteString(mono)
	}
}
