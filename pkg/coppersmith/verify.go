package coppersmith

import "math/big"

var one = big.NewInt(1)

// VerifyUnivariate reconstructs p from a candidate root and accepts it when
// it is a non-trivial divisor of n. A zero reconstruction is never accepted.
func VerifyUnivariate(n *big.Int, k PartialKnowledge, root *big.Int) (FactorPair, bool) {
	p := k.Reconstruct(root)
	if p.Sign() == 0 {
		return FactorPair{}, false
	}
	if p.Cmp(one) <= 0 || p.Cmp(n) >= 0 {
		return FactorPair{}, false
	}
	q, r := new(big.Int).QuoRem(n, p, new(big.Int))
	if r.Sign() != 0 {
		return FactorPair{}, false
	}
	return FactorPair{P: p, Q: q}, true
}

// VerifyBivariate reconstructs both factors from a candidate pair and
// accepts them when their product is exactly n and both exceed one.
func VerifyBivariate(n *big.Int, kp, kq PartialKnowledge, x, y *big.Int) (FactorPair, bool) {
	p, q := kp.Reconstruct(x), kq.Reconstruct(y)
	if p.Cmp(one) <= 0 || q.Cmp(one) <= 0 {
		return FactorPair{}, false
	}
	if new(big.Int).Mul(p, q).Cmp(n) != 0 {
		return FactorPair{}, false
	}
	return FactorPair{P: p, Q: q}, true
}
