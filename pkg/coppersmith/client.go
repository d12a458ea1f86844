package coppersmith

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

// Client provides a high-level API for factor recovery operations.
type Client struct {
	solver   Solver
	parser   ProblemParser
	logger   *zap.Logger
	observer RoundObserver
	search   SearchConfig
}

// NewClient creates a new client with default settings: the lattice
// solver, an unbounded search and no logging.
func NewClient() *Client {
	return &Client{
		solver: NewLatticeSolver(nil),
		logger: zap.NewNop(),
		search: DefaultSearchConfig(),
	}
}

// WithSolver sets a custom small-root solver.
func (c *Client) WithSolver(solver Solver) *Client {
	c.solver = solver
	return c
}

// WithParser sets the problem file parser. Without one, the parser is
// chosen from the file extension.
func (c *Client) WithParser(parser ProblemParser) *Client {
	c.parser = parser
	return c
}

// WithLogger sets the logger used by the client and by solvers it builds
// from problem files.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
	return c
}

// WithObserver sets the observer notified before every search round.
func (c *Client) WithObserver(observer RoundObserver) *Client {
	c.observer = observer
	return c
}

// WithSearchConfig sets the escalation settings.
func (c *Client) WithSearchConfig(config SearchConfig) *Client {
	c.search = config
	return c
}

func (c *Client) controller(config SearchConfig) *Controller {
	observer := MultiObserver(LogObserver(c.logger), c.observer)
	return NewController(config, observer, c.logger)
}

// RecoverUnivariate recovers the factors of n from partial knowledge of one
// factor.
//
// Args:
//   - ctx: Context for cancellation, checked between rounds.
//   - n: The modulus.
//   - k: What is known about one factor.
//
// Returns:
//   - RecoveryResult with the verified factors, or an error wrapping
//     ErrInvalidKnowledge, ErrBoundExhausted or the context error.
func (c *Client) RecoverUnivariate(ctx context.Context, n *big.Int, k PartialKnowledge) (*RecoveryResult, error) {
	return c.recoverUnivariate(ctx, c.solver, c.search, n, k)
}

// RecoverBivariate recovers the factors of n from partial knowledge of
// both factors.
//
// Args:
//   - ctx: Context for cancellation, checked between rounds.
//   - n: The modulus.
//   - kp, kq: What is known about each factor.
//
// Returns:
//   - RecoveryResult with P built from kp and Q from kq, or an error.
func (c *Client) RecoverBivariate(ctx context.Context, n *big.Int, kp, kq PartialKnowledge) (*RecoveryResult, error) {
	return c.recoverBivariate(ctx, c.solver, c.search, n, kp, kq)
}

// RecoverFromFile parses a problem file and runs the matching pipeline:
// bivariate when the file describes q, univariate otherwise. Settings in
// the file's search section override the client's.
func (c *Client) RecoverFromFile(ctx context.Context, path string) (*RecoveryResult, error) {
	parser := c.parser
	if parser == nil {
		var err error
		if parser, err = ParserFor(path); err != nil {
			return nil, err
		}
	}
	problem, err := parser.ParseProblem(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse problem: %w", err)
	}
	return c.RecoverProblem(ctx, problem)
}

// RecoverProblem runs the pipeline described by a parsed problem.
func (c *Client) RecoverProblem(ctx context.Context, problem *Problem) (*RecoveryResult, error) {
	solver := c.solver
	if problem.Search.Solver != "" {
		config := DefaultExhaustiveConfig()
		config.Workers = problem.Search.Workers
		if problem.Search.WindowBits > 0 {
			config.WindowBits = problem.Search.WindowBits
		}
		var err error
		if solver, err = SolverByName(problem.Search.Solver, config, c.logger); err != nil {
			return nil, err
		}
	}
	search := problem.Search.apply(c.search)

	if problem.Q != nil {
		return c.recoverBivariate(ctx, solver, search, problem.Modulus, problem.P, *problem.Q)
	}
	return c.recoverUnivariate(ctx, solver, search, problem.Modulus, problem.P)
}

func (c *Client) recoverUnivariate(ctx context.Context, solver Solver, search SearchConfig, n *big.Int, k PartialKnowledge) (*RecoveryResult, error) {
	if err := validateUnivariate(n, k); err != nil {
		return nil, err
	}

	c.logger.Info("Starting univariate recovery",
		zap.Int("modulus_bits", n.BitLen()),
		zap.Int("unknown_bits", k.Unknown()),
		zap.String("solver", solver.Name()))

	result, err := c.controller(search).Univariate(ctx, solver, n, k)
	if err != nil {
		return nil, fmt.Errorf("failed to recover factors: %w", err)
	}
	return result, nil
}

func (c *Client) recoverBivariate(ctx context.Context, solver Solver, search SearchConfig, n *big.Int, kp, kq PartialKnowledge) (*RecoveryResult, error) {
	if err := validateBivariate(n, kp, kq); err != nil {
		return nil, err
	}

	c.logger.Info("Starting bivariate recovery",
		zap.Int("modulus_bits", n.BitLen()),
		zap.Int("p_unknown_bits", kp.Unknown()),
		zap.Int("q_unknown_bits", kq.Unknown()),
		zap.String("solver", solver.Name()))

	result, err := c.controller(search).Bivariate(ctx, solver, n, kp, kq)
	if err != nil {
		return nil, fmt.Errorf("failed to recover factors: %w", err)
	}
	return result, nil
}

// FactorizeUnivariate recovers (p, n/p) from the known bits of p. It blocks
// until a factor is found and only returns an error for invalid input.
func FactorizeUnivariate(n *big.Int, bits, msbKnown int, msb *big.Int, lsbKnown int, lsb *big.Int) (p, q *big.Int, err error) {
	k := PartialKnowledge{Bits: bits, MSBKnown: msbKnown, MSB: msb, LSBKnown: lsbKnown, LSB: lsb}
	result, err := NewClient().RecoverUnivariate(context.Background(), n, k)
	if err != nil {
		return nil, nil, err
	}
	return result.Factors.P, result.Factors.Q, nil
}

// FactorizeBivariate recovers (p, q) from the known bits of both factors.
// It blocks until the factors are found and only returns an error for
// invalid input.
func FactorizeBivariate(n *big.Int,
	pBits, pMSBKnown int, pMSB *big.Int, pLSBKnown int, pLSB *big.Int,
	qBits, qMSBKnown int, qMSB *big.Int, qLSBKnown int, qLSB *big.Int,
) (p, q *big.Int, err error) {
	kp := PartialKnowledge{Bits: pBits, MSBKnown: pMSBKnown, MSB: pMSB, LSBKnown: pLSBKnown, LSB: pLSB}
	kq := PartialKnowledge{Bits: qBits, MSBKnown: qMSBKnown, MSB: qMSB, LSBKnown: qLSBKnown, LSB: qLSB}
	result, err := NewClient().RecoverBivariate(context.Background(), n, kp, kq)
	if err != nil {
		return nil, nil, err
	}
	return result.Factors.P, result.Factors.Q, nil
}
