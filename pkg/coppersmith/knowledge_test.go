package coppersmith

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestPartialKnowledge_Bound(t *testing.T) {
	tests := []struct {
		bits, msb, lsb int
		want           int64
	}{
		{7, 4, 0, 8},
		{7, 3, 0, 16},
		{7, 0, 0, 128},
		{10, 2, 3, 32},
		{61, 59, 0, 4},
		{64, 0, 63, 2},
	}
	for _, tt := range tests {
		k := PartialKnowledge{Bits: tt.bits, MSBKnown: tt.msb, LSBKnown: tt.lsb}
		assert.Equal(t, big.NewInt(tt.want).String(), k.Bound().String(),
			"bits=%d msb=%d lsb=%d", tt.bits, tt.msb, tt.lsb)
	}

	big1024 := PartialKnowledge{Bits: 1024, MSBKnown: 500, LSBKnown: 4}
	assert.Equal(t, new(big.Int).Lsh(big.NewInt(1), 520), big1024.Bound())
}

func TestPartialKnowledge_Polynomial(t *testing.T) {
	// 97 = 0b1100001: top four bits 0b1100, bottom bit 1.
	k := PartialKnowledge{Bits: 7, MSBKnown: 4, MSB: big.NewInt(12), LSBKnown: 1, LSB: big.NewInt(1)}

	f := k.Polynomial()
	assert.Equal(t, "2*x + 97", f.String())
	assert.Equal(t, "97", k.Reconstruct(big.NewInt(0)).String())
	assert.Equal(t, "103", k.Reconstruct(big.NewInt(3)).String())

	for x := int64(0); x < k.Bound().Int64(); x++ {
		assert.Equal(t, k.Reconstruct(big.NewInt(x)), f.Eval(big.NewInt(x)))
	}
}

func TestPartialKnowledge_PolynomialEdgeCases(t *testing.T) {
	// No known MSBs: constant term is the LSB block only.
	k := PartialKnowledge{Bits: 8, LSBKnown: 2, LSB: big.NewInt(3)}
	assert.Equal(t, "4*x + 3", k.Polynomial().String())

	// No known LSBs: x has coefficient one.
	k = PartialKnowledge{Bits: 8, MSBKnown: 2, MSB: big.NewInt(2)}
	assert.Equal(t, "x + 128", k.Polynomial().String())

	// Nothing known.
	k = PartialKnowledge{Bits: 8}
	assert.Equal(t, "x", k.Polynomial().String())
}

func TestEncodeBivariate(t *testing.T) {
	n := big.NewInt(9991)
	kp := PartialKnowledge{Bits: 7, MSBKnown: 3, MSB: big.NewInt(6)}
	kq := PartialKnowledge{Bits: 7, MSBKnown: 3, MSB: big.NewInt(6)}

	f := EncodeBivariate(n, kp, kq)
	assert.Equal(t, "x*y + 96*x + 96*y - 775", f.String())
	assert.Zero(t, f.Eval(big.NewInt(1), big.NewInt(7)).Sign())
	assert.Zero(t, f.Eval(big.NewInt(7), big.NewInt(1)).Sign())
	assert.NotZero(t, f.Eval(big.NewInt(2), big.NewInt(7)).Sign())
}

func TestPartialKnowledge_Validate(t *testing.T) {
	valid := []PartialKnowledge{
		{Bits: 7, MSBKnown: 4, MSB: big.NewInt(12)},
		{Bits: 7, MSBKnown: 3, MSB: big.NewInt(6), LSBKnown: 3, LSB: big.NewInt(7)},
		{Bits: 7},
		{Bits: 1024, MSBKnown: 600},
	}
	for _, k := range valid {
		assert.NoError(t, k.Validate(), "%+v", k)
	}

	invalid := []struct {
		name string
		k    PartialKnowledge
		errs int
	}{
		{"no bits", PartialKnowledge{}, 2},
		{"all known", PartialKnowledge{Bits: 7, MSBKnown: 4, LSBKnown: 3}, 1},
		{"negative counts", PartialKnowledge{Bits: 7, MSBKnown: -1, LSBKnown: -1}, 2},
		{"msb too wide", PartialKnowledge{Bits: 7, MSBKnown: 3, MSB: big.NewInt(8)}, 1},
		{"negative lsb", PartialKnowledge{Bits: 7, LSBKnown: 2, LSB: big.NewInt(-1)}, 1},
		{"lsb without count", PartialKnowledge{Bits: 7, LSB: big.NewInt(1)}, 1},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.k.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidKnowledge))
			assert.Len(t, multierr.Errors(tt.k.violations()), tt.errs, err.Error())
		})
	}
}
