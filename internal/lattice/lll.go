// Package lattice implements LLL basis reduction over exact rationals.
package lattice

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDependent is returned when the input rows are linearly dependent.
var ErrDependent = errors.New("lattice: basis rows are linearly dependent")

// DefaultDelta is the Lovász constant 3/4.
var DefaultDelta = big.NewRat(3, 4)

type gramSchmidt struct {
	mu [][]*big.Rat
	b  []*big.Rat // squared norms of the orthogonalised rows
}

// Reduce returns an LLL-reduced basis of the lattice spanned by the rows of
// basis. The input is not modified. delta must lie in (1/4, 1); nil selects
// DefaultDelta.
func Reduce(basis [][]*big.Int, delta *big.Rat) ([][]*big.Int, error) {
	if delta == nil {
		delta = DefaultDelta
	}
	n := len(basis)
	if n == 0 {
		return nil, nil
	}
	dim := len(basis[0])
	b := make([][]*big.Int, n)
	for i, row := range basis {
		if len(row) != dim {
			return nil, fmt.Errorf("lattice: row %d has %d columns, want %d", i, len(row), dim)
		}
		b[i] = make([]*big.Int, dim)
		for j, v := range row {
			b[i][j] = new(big.Int).Set(v)
		}
	}

	gs := &gramSchmidt{mu: make([][]*big.Rat, n), b: make([]*big.Rat, n)}
	for i := range gs.mu {
		gs.mu[i] = make([]*big.Rat, n)
	}
	if err := gs.init(b); err != nil {
		return nil, err
	}

	k := 1
	for k < n {
		for j := k - 1; j >= 0; j-- {
			q := round(gs.mu[k][j])
			if q.Sign() == 0 {
				continue
			}
			for c := range b[k] {
				b[k][c].Sub(b[k][c], new(big.Int).Mul(q, b[j][c]))
			}
			qr := new(big.Rat).SetInt(q)
			for i := 0; i < j; i++ {
				gs.mu[k][i].Sub(gs.mu[k][i], new(big.Rat).Mul(qr, gs.mu[j][i]))
			}
			gs.mu[k][j].Sub(gs.mu[k][j], qr)
		}

		// Lovász condition: B_k >= (delta - mu_{k,k-1}^2) * B_{k-1}
		mu2 := new(big.Rat).Mul(gs.mu[k][k-1], gs.mu[k][k-1])
		rhs := new(big.Rat).Sub(delta, mu2)
		rhs.Mul(rhs, gs.b[k-1])
		if gs.b[k].Cmp(rhs) >= 0 {
			k++
			continue
		}
		b[k], b[k-1] = b[k-1], b[k]
		gs.swap(k)
		k = max(k-1, 1)
	}
	return b, nil
}

// init computes the Gram-Schmidt decomposition of b from scratch.
func (gs *gramSchmidt) init(b [][]*big.Int) error {
	star := make([][]*big.Rat, len(b))
	for i := range b {
		star[i] = gs.orthogonal(b, star, i)
		if gs.b[i].Sign() == 0 {
			return fmt.Errorf("%w (row %d)", ErrDependent, i)
		}
	}
	return nil
}

// swap updates mu and B after rows k-1 and k were exchanged.
func (gs *gramSchmidt) swap(k int) {
	n := len(gs.b)
	m := gs.mu[k][k-1]

	// B' = B_k + mu^2 * B_{k-1}
	bp := new(big.Rat).Mul(m, m)
	bp.Mul(bp, gs.b[k-1])
	bp.Add(bp, gs.b[k])

	gs.mu[k][k-1] = new(big.Rat).Quo(new(big.Rat).Mul(m, gs.b[k-1]), bp)
	gs.b[k] = new(big.Rat).Quo(new(big.Rat).Mul(gs.b[k-1], gs.b[k]), bp)
	gs.b[k-1] = bp

	for j := 0; j < k-1; j++ {
		gs.mu[k-1][j], gs.mu[k][j] = gs.mu[k][j], gs.mu[k-1][j]
	}
	for i := k + 1; i < n; i++ {
		t := gs.mu[i][k]
		gs.mu[i][k] = new(big.Rat).Sub(gs.mu[i][k-1], new(big.Rat).Mul(m, t))
		gs.mu[i][k-1] = new(big.Rat).Add(t, new(big.Rat).Mul(gs.mu[k][k-1], gs.mu[i][k]))
	}
}

// orthogonal computes b*_i and fills mu[i][*] and B_i given b*_0..b*_{i-1}.
func (gs *gramSchmidt) orthogonal(b [][]*big.Int, star [][]*big.Rat, i int) []*big.Rat {
	v := make([]*big.Rat, len(b[i]))
	for c, x := range b[i] {
		v[c] = new(big.Rat).SetInt(x)
	}
	for j := 0; j < i; j++ {
		num := dotIntRat(b[i], star[j])
		mu := new(big.Rat).Quo(num, gs.b[j])
		gs.mu[i][j] = mu
		for c := range v {
			v[c].Sub(v[c], new(big.Rat).Mul(mu, star[j][c]))
		}
	}
	gs.mu[i][i] = big.NewRat(1, 1)
	gs.b[i] = dotRat(v, v)
	return v
}

func dotIntRat(a []*big.Int, b []*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for c := range a {
		if a[c].Sign() == 0 || b[c].Sign() == 0 {
			continue
		}
		sum.Add(sum, new(big.Rat).Mul(new(big.Rat).SetInt(a[c]), b[c]))
	}
	return sum
}

func dotRat(a, b []*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for c := range a {
		sum.Add(sum, new(big.Rat).Mul(a[c], b[c]))
	}
	return sum
}

// round returns the integer nearest to r, halves rounded up.
func round(r *big.Rat) *big.Int {
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	// floor((2*num + den) / (2*den))
	return num.Div(num, den)
}
