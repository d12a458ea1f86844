package coppersmith

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mersennePair returns 2^61 - 1, 2^89 - 1 and their product.
func mersennePair() (p, q, n *big.Int) {
	p = new(big.Int).Sub(new(big.Int).Lsh(one, 61), one)
	q = new(big.Int).Sub(new(big.Int).Lsh(one, 89), one)
	return p, q, new(big.Int).Mul(p, q)
}

// twinPair returns 2^61 - 1, the prime 2^61 - 31 and their product.
func twinPair(t *testing.T) (p, q, n *big.Int) {
	p = new(big.Int).Sub(new(big.Int).Lsh(one, 61), one)
	q = mustInt(t, "2305843009213693921")
	return p, q, new(big.Int).Mul(p, q)
}

func TestFactorizeUnivariate(t *testing.T) {
	// 97 = 0b1100001; its top four bits are 0b1100.
	p, q, err := FactorizeUnivariate(big.NewInt(9991), 7, 4, big.NewInt(12), 0, big.NewInt(0))
	if err != nil {
		t.Fatalf("Failed to factorize: %v", err)
	}
	if p.Int64() != 97 || q.Int64() != 103 {
		t.Errorf("Expected (97, 103), got (%s, %s)", p, q)
	}
}

func TestFactorizeBivariate(t *testing.T) {
	// Both 97 and 103 start with 0b110.
	p, q, err := FactorizeBivariate(big.NewInt(9991),
		7, 3, big.NewInt(6), 0, big.NewInt(0),
		7, 3, big.NewInt(6), 0, big.NewInt(0))
	if err != nil {
		t.Fatalf("Failed to factorize: %v", err)
	}
	if p.Int64() != 97 || q.Int64() != 103 {
		t.Errorf("Expected (97, 103), got (%s, %s)", p, q)
	}
}

func TestFactorize_InvalidInput(t *testing.T) {
	_, _, err := FactorizeUnivariate(big.NewInt(9991), 7, 4, big.NewInt(12), 3, big.NewInt(1))
	assert.True(t, errors.Is(err, ErrInvalidKnowledge), "got %v", err)

	_, _, err = FactorizeBivariate(big.NewInt(9991),
		7, 3, big.NewInt(6), 0, nil,
		7, 3, big.NewInt(9), 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidKnowledge), "got %v", err)

	_, _, err = FactorizeUnivariate(nil, 7, 4, big.NewInt(12), 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidKnowledge), "got %v", err)
}

func TestClient_RecoverUnivariate_Solvers(t *testing.T) {
	n := big.NewInt(9991)
	k := PartialKnowledge{Bits: 7, MSBKnown: 4, MSB: big.NewInt(12)}

	solvers := []Solver{
		NewLatticeSolver(nil),
		NewExhaustiveSolver(ExhaustiveConfig{WindowBits: 2, Workers: 2}, nil),
	}
	for _, s := range solvers {
		t.Run(s.Name(), func(t *testing.T) {
			client := NewClient().
				WithSolver(s).
				WithLogger(zaptest.NewLogger(t)).
				WithSearchConfig(SearchConfig{MaxRounds: 4})

			result, err := client.RecoverUnivariate(context.Background(), n, k)
			require.NoError(t, err)
			assert.Equal(t, "97", result.Factors.P.String())
			assert.Equal(t, "103", result.Factors.Q.String())
			assert.Equal(t, s.Name(), result.Solver)
			assert.Equal(t, 1, result.Round)
			assert.Equal(t, "1", result.Roots[0].String())
		})
	}
}

func TestClient_RecoverBivariate_Solvers(t *testing.T) {
	n := big.NewInt(9991)
	k := PartialKnowledge{Bits: 7, MSBKnown: 3, MSB: big.NewInt(6)}

	solvers := []Solver{
		NewLatticeSolver(nil),
		NewExhaustiveSolver(DefaultExhaustiveConfig(), nil),
	}
	for _, s := range solvers {
		t.Run(s.Name(), func(t *testing.T) {
			client := NewClient().WithSolver(s).WithSearchConfig(SearchConfig{MaxRounds: 3})

			result, err := client.RecoverBivariate(context.Background(), n, k, k)
			require.NoError(t, err)
			assert.Equal(t, "97", result.Factors.P.String())
			assert.Equal(t, "103", result.Factors.Q.String())
			assert.Equal(t, PipelineBivariate, result.Pipeline)
		})
	}
}

func TestClient_RecoverUnivariate_RoundTrip(t *testing.T) {
	p, q, n := mersennePair()

	tests := []struct {
		name               string
		msbKnown, lsbKnown int
	}{
		{"msb only", 59, 0},
		{"msb and lsb", 57, 2},
		{"lsb only", 0, 59},
		{"lsb only three bits", 0, 58},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rounds []int
			client := NewClient().
				WithSearchConfig(SearchConfig{MaxRounds: 3}).
				WithObserver(RoundObserverFunc(func(r Round) { rounds = append(rounds, r.Param) }))

			result, err := client.RecoverUnivariate(context.Background(), n, Leak(p, 61, tt.msbKnown, tt.lsbKnown))
			require.NoError(t, err)
			assert.Equal(t, p, result.Factors.P)
			assert.Equal(t, q, result.Factors.Q)
			assert.Equal(t, 2, result.Round)
			assert.Equal(t, []int{1, 2}, rounds)
		})
	}
}

func TestClient_RecoverBivariate_RoundTrip(t *testing.T) {
	p, q, n := twinPair(t)

	tests := []struct {
		name               string
		msbKnown, lsbKnown int
	}{
		{"four low bits", 57, 0},
		{"eight low bits", 53, 0},
		{"middle block", 50, 4},
		{"lsb only", 0, 57},
		{"lsb only five bits", 0, 56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kp, kq := Leak(p, 61, tt.msbKnown, tt.lsbKnown), Leak(q, 61, tt.msbKnown, tt.lsbKnown)

			result, err := NewClient().
				WithSearchConfig(SearchConfig{MaxRounds: 2}).
				RecoverBivariate(context.Background(), n, kp, kq)
			require.NoError(t, err)

			got := []string{result.Factors.P.String(), result.Factors.Q.String()}
			assert.ElementsMatch(t, []string{p.String(), q.String()}, got)
			assert.Equal(t, n, new(big.Int).Mul(result.Factors.P, result.Factors.Q))
			assert.Equal(t, 1, result.Round)
		})
	}
}

func TestClient_RecoverBivariate_ZeroMiddle(t *testing.T) {
	// 97 = 0b110_000_1 and 113 = 0b111_000_1: both unknown blocks are zero.
	n := big.NewInt(97 * 113)
	kp := PartialKnowledge{Bits: 7, MSBKnown: 3, MSB: big.NewInt(6), LSBKnown: 1, LSB: big.NewInt(1)}
	kq := PartialKnowledge{Bits: 7, MSBKnown: 3, MSB: big.NewInt(7), LSBKnown: 1, LSB: big.NewInt(1)}

	p, q, err := FactorizeBivariate(n, 7, 3, big.NewInt(6), 1, big.NewInt(1), 7, 3, big.NewInt(7), 1, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "97", p.String())
	assert.Equal(t, "113", q.String())

	result, err := NewClient().
		WithSearchConfig(SearchConfig{MaxRounds: 1}).
		RecoverBivariate(context.Background(), n, kp, kq)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Round)
	assert.Equal(t, "0", result.Roots[0].String())
	assert.Equal(t, "0", result.Roots[1].String())
}

func TestClient_BoundExhausted(t *testing.T) {
	// msb = 6 describes 48..55, none of which divides 9991.
	n := big.NewInt(9991)
	k := PartialKnowledge{Bits: 7, MSBKnown: 4, MSB: big.NewInt(6)}

	var rounds int
	client := NewClient().
		WithSearchConfig(SearchConfig{MaxRounds: 3}).
		WithObserver(RoundObserverFunc(func(Round) { rounds++ }))

	_, err := client.RecoverUnivariate(context.Background(), n, k)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBoundExhausted))
	assert.Equal(t, 3, rounds)
}

func TestClient_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	k := PartialKnowledge{Bits: 7, MSBKnown: 4, MSB: big.NewInt(6)}
	_, err := NewClient().RecoverUnivariate(ctx, big.NewInt(9991), k)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_WithSolver(t *testing.T) {
	s := newFakeSolver()
	s.roots[1] = []int64{1}

	client := NewClient().WithSolver(s)
	result, err := client.RecoverUnivariate(context.Background(), big.NewInt(9991),
		PartialKnowledge{Bits: 7, MSBKnown: 4, MSB: big.NewInt(12)})
	require.NoError(t, err)
	assert.Equal(t, "fake", result.Solver)
	assert.Len(t, s.calls, 1)
}

func TestClient_WithParser(t *testing.T) {
	// A YAML parser handed a .json path still reads it: JSON is valid YAML.
	client := NewClient().WithParser(&YAMLParser{})
	result, err := client.RecoverFromFile(context.Background(), filepath.Join(fixturesDir(), "problem_univariate.json"))
	require.NoError(t, err)
	assert.Equal(t, "97", result.Factors.P.String())
}

func TestClient_RecoverFromFile(t *testing.T) {
	tests := []struct {
		file     string
		pipeline Pipeline
		solver   string
		p, q     string
	}{
		{"problem_univariate.json", PipelineUnivariate, "lattice", "97", "103"},
		{"problem_bivariate.yaml", PipelineBivariate, "exhaustive", "97", "103"},
		{"problem_mersenne.yaml", PipelineUnivariate, "lattice", "2305843009213693951", "618970019642690137449562111"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := NewClient().RecoverFromFile(context.Background(), filepath.Join(fixturesDir(), tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.pipeline, result.Pipeline)
			assert.Equal(t, tt.solver, result.Solver)
			assert.Equal(t, tt.p, result.Factors.P.String())
			assert.Equal(t, tt.q, result.Factors.Q.String())
		})
	}
}

func TestClient_RecoverFromFile_Invalid(t *testing.T) {
	_, err := NewClient().RecoverFromFile(context.Background(), filepath.Join(fixturesDir(), "problem_invalid.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidKnowledge))

	_, err = NewClient().RecoverFromFile(context.Background(), filepath.Join(fixturesDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = NewClient().RecoverFromFile(context.Background(), filepath.Join(fixturesDir(), "problem.txt"))
	assert.Error(t, err)
}
