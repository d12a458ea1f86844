package poly

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rsa9991 returns (96 + x)(96 + y) - 9991.
func rsa9991() Poly2 {
	return Outer(FromInt64(96, 1), FromInt64(96, 1)).SubConst(big.NewInt(9991))
}

func TestPoly2_Basics(t *testing.T) {
	f := rsa9991()
	assert.Equal(t, "x*y + 96*x + 96*y - 775", f.String())

	dx, dy := f.Degrees()
	assert.Equal(t, 1, dx)
	assert.Equal(t, 1, dy)
	assert.Zero(t, f.Eval(big.NewInt(1), big.NewInt(7)).Sign())
	assert.Equal(t, "97*x - 679", f.EvalX(big.NewInt(1)).String()) // polynomial in y
	assert.Equal(t, int64(-775), f.Coeff(0, 0).Int64())
	assert.Equal(t, int64(0), f.Coeff(5, 5).Int64())

	g := Monomial2(2, 3, big.NewInt(5))
	assert.Equal(t, "5*x^2*y^3", g.String())
	assert.Equal(t, "5*x^3*y^2", g.Swap().String())
	assert.Equal(t, "5*x^3*y^5", g.ShiftXY(1, 2).String())
	assert.Equal(t, "10*x^2*y^3", g.MulScalar(big.NewInt(2)).String())
	assert.Equal(t, "2*x^2*y^3", g.Mod(big.NewInt(3)).String())
	assert.True(t, g.MulScalar(big.NewInt(0)).IsZero())
	assert.Equal(t, "0", Poly2{}.String())
}

func TestPoly2_CoeffsInY(t *testing.T) {
	f := rsa9991()
	cs := f.CoeffsInY()
	require.Len(t, cs, 2)
	assert.Equal(t, "96*x - 775", cs[0].String())
	assert.Equal(t, "x + 96", cs[1].String())
}

func TestPoly2_ScaledMaxNorm(t *testing.T) {
	f := rsa9991()
	// max(775, 96*16, 96*16, 16*16)
	assert.Equal(t, int64(1536), f.ScaledMaxNorm(big.NewInt(16), big.NewInt(16)).Int64())
	assert.Equal(t, int64(9600), f.ScaledMaxNorm(big.NewInt(100), big.NewInt(1)).Int64())
}

func TestPoly2_ResultantLinearY(t *testing.T) {
	f := rsa9991()
	// h shares the root (1, 7) with f.
	h := Outer(FromInt64(-1, 1), FromInt64(0, 1)) // (x - 1) * y

	r, ok := f.ResultantLinearY(h)
	require.True(t, ok)
	assert.Zero(t, r.Eval(big.NewInt(1)).Sign())

	// Without y the resultant is h itself.
	g := Outer(FromInt64(-7, 1), FromInt64(1)) // x - 7
	r, ok = f.ResultantLinearY(g)
	require.True(t, ok)
	assert.Equal(t, "x - 7", r.String())

	_, ok = Outer(FromInt64(0, 1), FromInt64(0, 0, 1)).ResultantLinearY(h)
	assert.False(t, ok)
}

func TestPoly2_Translate(t *testing.T) {
	f := rsa9991()
	for _, shift := range [][2]int64{{0, 0}, {1, 0}, {0, 1}, {2, -3}, {-5, 7}} {
		a, b := big.NewInt(shift[0]), big.NewInt(shift[1])
		g := f.Translate(a, b)
		for x := int64(-3); x <= 3; x++ {
			for y := int64(-3); y <= 3; y++ {
				want := f.Eval(big.NewInt(x+shift[0]), big.NewInt(y+shift[1]))
				got := g.Eval(big.NewInt(x), big.NewInt(y))
				if got.Cmp(want) != 0 {
					t.Fatalf("shift %v at (%d, %d): got %s, want %s", shift, x, y, got, want)
				}
			}
		}
	}

	// (x+1)(y+1) + 96(x+1) + 96(y+1) - 775 = x*y + 97*x + 97*y - 582
	assert.Equal(t, "x*y + 97*x + 97*y - 582", f.Translate(big.NewInt(1), big.NewInt(1)).String())
	assert.True(t, Poly2{}.Translate(big.NewInt(1), big.NewInt(1)).IsZero())
}
