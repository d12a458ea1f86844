package coppersmith

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

// ErrBoundExhausted is returned when SearchConfig.MaxRounds rounds ran
// without a verified candidate.
var ErrBoundExhausted = errors.New("search bound exhausted")

// NextParam returns the search parameter of the round after m.
func NextParam(m int) int {
	return m + 1
}

// SearchConfig configures the escalation controller.
type SearchConfig struct {
	// Start is the parameter of the first round (values below 1 read as 1).
	Start int

	// MaxRounds stops the search with ErrBoundExhausted after that many
	// rounds. Zero searches until success or context cancellation.
	MaxRounds int

	// Secondary derives the univariate parameter t from m. Nil means t = m.
	Secondary func(m int) int
}

// DefaultSearchConfig returns an unbounded search starting at 1 with t = m.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Start:     1,
		MaxRounds: 0,
	}
}

// FixedSecondary returns a Secondary function that pins t.
func FixedSecondary(t int) func(int) int {
	return func(int) int { return t }
}

func (c SearchConfig) start() int {
	return max(c.Start, 1)
}

func (c SearchConfig) secondary(m int) int {
	if c.Secondary == nil {
		return m
	}
	return c.Secondary(m)
}

// Controller drives the escalating search. It holds configuration only;
// every search owns its own round counter, so a Controller may be shared.
type Controller struct {
	config   SearchConfig
	observer RoundObserver
	logger   *zap.Logger
}

// NewController creates a controller. Nil observer and logger are allowed.
func NewController(config SearchConfig, observer RoundObserver, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{config: config, observer: observer, logger: logger}
}

// Univariate searches for the unknown middle block of one factor of n.
//
// Each round m hands (f, n, m, t, bound) to the solver and verifies every
// yielded root in turn. The first verified root ends the search; a round
// whose sequence is exhausted advances m by NextParam. Invalid input is
// reported as ErrInvalidKnowledge before any round runs.
func (c *Controller) Univariate(ctx context.Context, s UnivariateSolver, n *big.Int, k PartialKnowledge) (*RecoveryResult, error) {
	if err := validateUnivariate(n, k); err != nil {
		return nil, err
	}
	f := k.Polynomial()
	bound := k.Bound()
	name := solverName(s)

	return c.run(ctx, PipelineUnivariate, func(r Round) *RecoveryResult {
		for root := range s.ModularUnivariate(ctx, f, n, r.Param, r.Secondary, bound) {
			pair, ok := VerifyUnivariate(n, k, root)
			if !ok {
				c.logger.Debug("Rejected candidate root", zap.Stringer("root", root))
				continue
			}
			return &RecoveryResult{
				Factors:   pair,
				Pipeline:  PipelineUnivariate,
				Round:     r.Param,
				Secondary: r.Secondary,
				Roots:     []*big.Int{root},
				Solver:    name,
			}
		}
		return nil
	})
}

// Bivariate searches for the unknown middle blocks of both factors of n.
// Each round k hands (f, k, xbound, ybound) to the solver and verifies
// every yielded pair.
func (c *Controller) Bivariate(ctx context.Context, s BivariateSolver, n *big.Int, kp, kq PartialKnowledge) (*RecoveryResult, error) {
	if err := validateBivariate(n, kp, kq); err != nil {
		return nil, err
	}
	f := EncodeBivariate(n, kp, kq)
	xbound, ybound := kp.Bound(), kq.Bound()
	name := solverName(s)

	return c.run(ctx, PipelineBivariate, func(r Round) *RecoveryResult {
		for x, y := range s.IntegerBivariate(ctx, f, r.Param, xbound, ybound) {
			pair, ok := VerifyBivariate(n, kp, kq, x, y)
			if !ok {
				c.logger.Debug("Rejected candidate pair", zap.Stringer("x", x), zap.Stringer("y", y))
				continue
			}
			return &RecoveryResult{
				Factors:  pair,
				Pipeline: PipelineBivariate,
				Round:    r.Param,
				Roots:    []*big.Int{x, y},
				Solver:   name,
			}
		}
		return nil
	})
}

// run owns the round counter. attempt consumes one round and returns a
// verified result or nil.
func (c *Controller) run(ctx context.Context, pipeline Pipeline, attempt func(Round) *RecoveryResult) (*RecoveryResult, error) {
	param := c.config.start()
	for rounds := 0; ; rounds++ {
		if c.config.MaxRounds > 0 && rounds >= c.config.MaxRounds {
			return nil, fmt.Errorf("%w: no factor found in %d rounds (last parameter %d)",
				ErrBoundExhausted, rounds, param-1)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("search stopped before round %d: %w", param, ctx.Err())
		default:
		}

		r := Round{Pipeline: pipeline, Param: param}
		if pipeline == PipelineUnivariate {
			r.Secondary = c.config.secondary(param)
		}
		if c.observer != nil {
			c.observer.ObserveRound(r)
		}

		if result := attempt(r); result != nil {
			c.logger.Debug("Verified factor",
				zap.String("pipeline", string(pipeline)),
				zap.Int("param", param),
				zap.Stringer("p", result.Factors.P))
			return result, nil
		}
		param = NextParam(param)
	}
}
