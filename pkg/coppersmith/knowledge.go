package coppersmith

import (
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/multierr"

	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// ErrInvalidKnowledge is returned when a modulus or a PartialKnowledge
// cannot describe a factor search.
var ErrInvalidKnowledge = errors.New("invalid partial knowledge")

// PartialKnowledge describes what is known about one prime factor: its bit
// length, a block of its most significant bits and a block of its least
// significant bits. The bits in between are unknown.
type PartialKnowledge struct {
	Bits     int      // Bit length of the factor
	MSBKnown int      // Number of known most significant bits
	MSB      *big.Int // Value of the known most significant bits (nil = 0)
	LSBKnown int      // Number of known least significant bits
	LSB      *big.Int // Value of the known least significant bits (nil = 0)
}

// Validate reports every violated constraint at once. The returned error
// wraps ErrInvalidKnowledge.
func (k PartialKnowledge) Validate() error {
	if errs := k.violations(); errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledge, errs)
	}
	return nil
}

// violations combines every violated constraint with multierr.
func (k PartialKnowledge) violations() error {
	var errs error
	if k.Bits <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("bit length must be positive, got %d", k.Bits))
	}
	if k.MSBKnown < 0 {
		errs = multierr.Append(errs, fmt.Errorf("msb_known must be non-negative, got %d", k.MSBKnown))
	}
	if k.LSBKnown < 0 {
		errs = multierr.Append(errs, fmt.Errorf("lsb_known must be non-negative, got %d", k.LSBKnown))
	}
	if k.MSBKnown+k.LSBKnown >= k.Bits {
		errs = multierr.Append(errs, fmt.Errorf("msb_known + lsb_known = %d leaves no unknown bits in a %d-bit factor",
			k.MSBKnown+k.LSBKnown, k.Bits))
	}
	if err := fitsBits("msb", k.MSB, k.MSBKnown); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := fitsBits("lsb", k.LSB, k.LSBKnown); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func fitsBits(name string, v *big.Int, bits int) error {
	if v == nil || bits < 0 {
		return nil
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%s must be non-negative, got %s", name, v)
	}
	if v.BitLen() > bits {
		return fmt.Errorf("%s = %s does not fit in %d bits", name, v, bits)
	}
	return nil
}

func validateModulus(n *big.Int) error {
	if n == nil || n.Cmp(big.NewInt(3)) <= 0 {
		return fmt.Errorf("%w: modulus must be greater than 3, got %v", ErrInvalidKnowledge, n)
	}
	return nil
}

// validateUnivariate checks the inputs of the univariate pipeline.
func validateUnivariate(n *big.Int, k PartialKnowledge) error {
	if err := validateModulus(n); err != nil {
		return err
	}
	return k.Validate()
}

// validateBivariate checks the inputs of the bivariate pipeline.
func validateBivariate(n *big.Int, kp, kq PartialKnowledge) error {
	if err := validateModulus(n); err != nil {
		return err
	}
	if err := kp.Validate(); err != nil {
		return fmt.Errorf("p: %w", err)
	}
	if err := kq.Validate(); err != nil {
		return fmt.Errorf("q: %w", err)
	}
	return nil
}

// Unknown returns the number of unknown middle bits.
func (k PartialKnowledge) Unknown() int {
	return k.Bits - k.MSBKnown - k.LSBKnown
}

// Bound returns 2^(Bits - MSBKnown - LSBKnown), the exclusive upper bound
// on the unknown middle block.
func (k PartialKnowledge) Bound() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(k.Unknown()))
}

// Polynomial returns MSB * 2^(Bits-MSBKnown) + x * 2^LSBKnown + LSB, whose
// value at the unknown middle block is the factor itself.
func (k PartialKnowledge) Polynomial() poly.Poly {
	return poly.New(k.known(), new(big.Int).Lsh(big.NewInt(1), uint(k.LSBKnown)))
}

// Reconstruct returns the factor whose unknown middle block is x.
func (k PartialKnowledge) Reconstruct(x *big.Int) *big.Int {
	p := new(big.Int).Lsh(x, uint(k.LSBKnown))
	return p.Add(p, k.known())
}

// known returns the factor with every unknown bit cleared.
func (k PartialKnowledge) known() *big.Int {
	c := new(big.Int)
	if k.MSB != nil && k.MSBKnown > 0 {
		c.Lsh(k.MSB, uint(k.Bits-k.MSBKnown))
	}
	if k.LSB != nil && k.LSBKnown > 0 {
		c.Add(c, k.LSB)
	}
	return c
}

// EncodeBivariate returns P(x) * Q(y) - n, where P and Q are the
// polynomials of the two factors. Its small integer roots are exactly the
// pairs of unknown middle blocks.
func EncodeBivariate(n *big.Int, p, q PartialKnowledge) poly.Poly2 {
	return poly.Outer(p.Polynomial(), q.Polynomial()).SubConst(n)
}
