// Package bruteforce implements an exhaustive small-root solver. It scans the
// candidate range directly instead of reducing a lattice, which makes it the
// reference solver for small gaps and for tests.
package bruteforce

import (
	"context"
	"iter"
	"math/big"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mahdiidarabi/partial-key-factor/pkg/poly"
)

// Config configures the exhaustive scan.
type Config struct {
	// WindowBits sets the first window to [0, 2^WindowBits). Every later
	// round doubles the scanned range.
	WindowBits int

	// Workers controls parallelization (0 = runtime.NumCPU()).
	Workers int

	// ChunkSize is the number of candidates handed to a worker at once.
	ChunkSize int64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		WindowBits: 16,
		Workers:    0, // Auto-detect
		ChunkSize:  1024,
	}
}

// Exhaustive scans a growing window of candidate values each round.
// Round 1 covers [0, 2^w); round m > 1 covers [2^(w+m-2), 2^(w+m-1)).
// Windows are clipped to the bound, so once the bound is covered later
// rounds yield nothing. Only non-negative candidates are scanned.
type Exhaustive struct {
	config Config
	logger *zap.Logger
}

// New creates an exhaustive solver. A nil logger disables logging.
func New(config Config, logger *zap.Logger) *Exhaustive {
	def := DefaultConfig()
	if config.WindowBits <= 0 {
		config.WindowBits = def.WindowBits
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = def.ChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exhaustive{config: config, logger: logger}
}

// Name returns the name of this solver.
func (e *Exhaustive) Name() string {
	return "exhaustive"
}

// Window returns the half-open range scanned in the given round, clipped to
// bound. ok is false when the round lies entirely beyond the bound.
func (e *Exhaustive) Window(round int, bound *big.Int) (lo, hi *big.Int, ok bool) {
	if round < 1 {
		return nil, nil, false
	}
	w := uint(e.config.WindowBits)
	lo = new(big.Int)
	if round > 1 {
		lo.Lsh(big.NewInt(1), w+uint(round)-2)
	}
	hi = new(big.Int).Lsh(big.NewInt(1), w+uint(round)-1)
	if hi.Cmp(bound) > 0 {
		hi.Set(bound)
	}
	return lo, hi, lo.Cmp(hi) < 0
}

// ModularUnivariate yields every x in this round's window for which f(x)
// shares a factor with the modulus, i.e. x is a root of f modulo some
// divisor of the modulus. The parameter t does not affect the scan.
func (e *Exhaustive) ModularUnivariate(ctx context.Context, f poly.Poly, modulus *big.Int, m, t int, bound *big.Int) iter.Seq[*big.Int] {
	return func(yield func(*big.Int) bool) {
		lo, hi, ok := e.Window(m, bound)
		if !ok {
			return
		}
		e.logger.Debug("Scanning univariate window",
			zap.Int("m", m), zap.Stringer("from", lo), zap.Stringer("to", hi))

		one := big.NewInt(1)
		test := func(x *big.Int) [][2]*big.Int {
			v := f.Eval(x)
			v.Mod(v, modulus)
			if new(big.Int).GCD(nil, nil, v, modulus).Cmp(one) == 0 {
				return nil
			}
			return [][2]*big.Int{{x, nil}}
		}
		for hit := range e.scan(ctx, lo, hi, test) {
			if !yield(hit[0]) {
				return
			}
		}
	}
}

// IntegerBivariate yields every pair (x, y) with x in this round's window of
// xbound, 0 <= y < ybound and f(x, y) == 0, ordered by x then y.
func (e *Exhaustive) IntegerBivariate(ctx context.Context, f poly.Poly2, k int, xbound, ybound *big.Int) iter.Seq2[*big.Int, *big.Int] {
	return func(yield func(*big.Int, *big.Int) bool) {
		lo, hi, ok := e.Window(k, xbound)
		if !ok {
			return
		}
		e.logger.Debug("Scanning bivariate window",
			zap.Int("k", k), zap.Stringer("from", lo), zap.Stringer("to", hi))

		zero := new(big.Int)
		test := func(x *big.Int) [][2]*big.Int {
			var hits [][2]*big.Int
			for _, y := range f.EvalX(x).IntegerRoots(zero, ybound) {
				hits = append(hits, [2]*big.Int{x, y})
			}
			return hits
		}
		for hit := range e.scan(ctx, lo, hi, test) {
			if !yield(hit[0], hit[1]) {
				return
			}
		}
	}
}

// scan evaluates test on every integer in [lo, hi) and yields the hits in
// ascending order of the candidate. Chunks are evaluated in batches of
// Workers chunks; a batch is fully evaluated before any of its hits are
// yielded, so no worker outlives an early stop by the consumer.
func (e *Exhaustive) scan(ctx context.Context, lo, hi *big.Int, test func(*big.Int) [][2]*big.Int) iter.Seq[[2]*big.Int] {
	return func(yield func([2]*big.Int) bool) {
		chunk := big.NewInt(e.config.ChunkSize)
		start := new(big.Int).Set(lo)
		for start.Cmp(hi) < 0 {
			if ctx.Err() != nil {
				return
			}

			results := make([][][2]*big.Int, e.config.Workers)
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(e.config.Workers)
			for w := 0; w < e.config.Workers && start.Cmp(hi) < 0; w++ {
				from := new(big.Int).Set(start)
				to := new(big.Int).Add(start, chunk)
				if to.Cmp(hi) > 0 {
					to.Set(hi)
				}
				start.Set(to)

				g.Go(func() error {
					var hits [][2]*big.Int
					for x := from; x.Cmp(to) < 0; x = new(big.Int).Add(x, big.NewInt(1)) {
						if gctx.Err() != nil {
							return gctx.Err()
						}
						hits = append(hits, test(x)...)
					}
					results[w] = hits
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				e.logger.Debug("Scan interrupted", zap.Error(err))
				return
			}

			for _, hits := range results {
				for _, hit := range hits {
					if !yield(hit) {
						return
					}
				}
			}
		}
	}
}
