package coppersmith

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Leak returns what is known about factor p when its top msbKnown and
// bottom lsbKnown bits of a bits-bit representation have leaked.
func Leak(p *big.Int, bits, msbKnown, lsbKnown int) PartialKnowledge {
	k := PartialKnowledge{Bits: bits, MSBKnown: msbKnown, LSBKnown: lsbKnown}
	if msbKnown > 0 {
		k.MSB = new(big.Int).Rsh(p, uint(bits-msbKnown))
	}
	if lsbKnown > 0 {
		mask := new(big.Int).Lsh(one, uint(lsbKnown))
		mask.Sub(mask, one)
		k.LSB = new(big.Int).And(p, mask)
	}
	return k
}

// Instance is a generated recovery problem together with its solution.
type Instance struct {
	N  *big.Int
	P  *big.Int
	Q  *big.Int
	KP PartialKnowledge // Leaked bits of P
	KQ PartialKnowledge // Leaked bits of Q
}

// GenerateInstance draws two distinct bits-bit primes from random (nil
// selects crypto/rand) and leaks msbKnown top and lsbKnown bottom bits of
// each.
func GenerateInstance(random io.Reader, bits, msbKnown, lsbKnown int) (*Instance, error) {
	if random == nil {
		random = rand.Reader
	}
	if bits < 3 {
		return nil, fmt.Errorf("%w: factors need at least 3 bits, got %d", ErrInvalidKnowledge, bits)
	}

	p, err := rand.Prime(random, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate p: %w", err)
	}
	var q *big.Int
	for q == nil || q.Cmp(p) == 0 {
		if q, err = rand.Prime(random, bits); err != nil {
			return nil, fmt.Errorf("failed to generate q: %w", err)
		}
	}

	inst := &Instance{
		N:  new(big.Int).Mul(p, q),
		P:  p,
		Q:  q,
		KP: Leak(p, bits, msbKnown, lsbKnown),
		KQ: Leak(q, bits, msbKnown, lsbKnown),
	}
	if err := inst.KP.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
