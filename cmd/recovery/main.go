// Command recovery factors RSA moduli from partially known prime factors.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mahdiidarabi/partial-key-factor/pkg/coppersmith"
)

// options holds the global flags and the logger built from them.
type options struct {
	verbose    bool
	solverName string
	maxRounds  int
	start      int
	secondary  int
	workers    int
	windowBits int
	timeout    time.Duration
	noProgress bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "recovery",
		Short: "Recover RSA prime factors from partially known bits",
		Long: `recovery factors an RSA modulus n = p*q when a block of the most
significant bits and/or least significant bits of one or both factors is
known, using Coppersmith's method.

The search raises the lattice parameter one round at a time until a candidate
factor verifies. Without --max-rounds or --timeout it never gives up.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			opts.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.solverName, "solver", "lattice", "Small-root solver (lattice or exhaustive)")
	flags.IntVar(&opts.maxRounds, "max-rounds", 0, "Give up after this many rounds (0 = never)")
	flags.IntVar(&opts.start, "start", 1, "Parameter of the first round")
	flags.IntVar(&opts.secondary, "secondary", 0, "Pin the univariate parameter t (0 = t follows m)")
	flags.IntVar(&opts.workers, "workers", 0, "Exhaustive solver workers (0 = auto-detect based on CPU cores)")
	flags.IntVar(&opts.windowBits, "window-bits", 16, "Exhaustive solver first-round window in bits")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Give up after this long (0 = never)")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Hide the round spinner")

	rootCmd.AddCommand(
		newUnivariateCmd(opts),
		newBivariateCmd(opts),
		newSolveCmd(opts),
		newGenerateCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds a client from the global flags.
func (o *options) newClient() (*coppersmith.Client, error) {
	config := coppersmith.DefaultExhaustiveConfig()
	config.Workers = o.workers
	config.WindowBits = o.windowBits
	solver, err := coppersmith.SolverByName(o.solverName, config, o.logger)
	if err != nil {
		return nil, err
	}

	search := coppersmith.DefaultSearchConfig()
	search.Start = o.start
	search.MaxRounds = o.maxRounds
	if o.secondary > 0 {
		search.Secondary = coppersmith.FixedSecondary(o.secondary)
	}

	return coppersmith.NewClient().
		WithSolver(solver).
		WithLogger(o.logger).
		WithSearchConfig(search), nil
}
