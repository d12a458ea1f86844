package coppersmith

import "math/big"

// Pipeline names the recovery pipeline that produced a result.
type Pipeline string

const (
	// PipelineUnivariate recovers one partially known factor; the other is
	// obtained by division.
	PipelineUnivariate Pipeline = "univariate"

	// PipelineBivariate recovers both partially known factors jointly.
	PipelineBivariate Pipeline = "bivariate"
)

// FactorPair is a factorization n = P * Q with both factors greater than one.
type FactorPair struct {
	P *big.Int
	Q *big.Int
}

// RecoveryResult contains the result of a factor recovery operation.
type RecoveryResult struct {
	Factors   FactorPair // Recovered factors
	Pipeline  Pipeline   // Pipeline that produced the factors
	Round     int        // Search parameter (m or k) of the successful round
	Secondary int        // Secondary parameter t (univariate only)
	Roots     []*big.Int // Accepted root(s): x, or x and y
	Solver    string     // Name of the solver that yielded the root
}
