package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/partial-key-factor/internal/parser"
	"github.com/mahdiidarabi/partial-key-factor/pkg/coppersmith"
)

// knowledgeFlags binds the flags describing one factor.
type knowledgeFlags struct {
	bits, msbKnown, lsbKnown int
	msb, lsb                 string
}

func (k *knowledgeFlags) register(cmd *cobra.Command, prefix, factor string) {
	flags := cmd.Flags()
	flags.IntVar(&k.bits, prefix+"bits", 0, "Bit length of "+factor)
	flags.IntVar(&k.msbKnown, prefix+"msb-known", 0, "Number of known most significant bits of "+factor)
	flags.StringVar(&k.msb, prefix+"msb", "0", "Known most significant bits of "+factor+" (decimal, 0x or 0b)")
	flags.IntVar(&k.lsbKnown, prefix+"lsb-known", 0, "Number of known least significant bits of "+factor)
	flags.StringVar(&k.lsb, prefix+"lsb", "0", "Known least significant bits of "+factor+" (decimal, 0x or 0b)")
	_ = cmd.MarkFlagRequired(prefix + "bits")
}

func (k *knowledgeFlags) knowledge(factor string) (coppersmith.PartialKnowledge, error) {
	msb, err := parser.ParseBigInt(k.msb)
	if err != nil {
		return coppersmith.PartialKnowledge{}, fmt.Errorf("failed to parse %s msb: %w", factor, err)
	}
	lsb, err := parser.ParseBigInt(k.lsb)
	if err != nil {
		return coppersmith.PartialKnowledge{}, fmt.Errorf("failed to parse %s lsb: %w", factor, err)
	}
	return coppersmith.PartialKnowledge{
		Bits:     k.bits,
		MSBKnown: k.msbKnown,
		MSB:      msb,
		LSBKnown: k.lsbKnown,
		LSB:      lsb,
	}, nil
}

func modulusFlag(cmd *cobra.Command, modulus *string) {
	cmd.Flags().StringVarP(modulus, "modulus", "n", "", "RSA modulus n (decimal, 0x or 0b)")
	_ = cmd.MarkFlagRequired("modulus")
}

func newUnivariateCmd(opts *options) *cobra.Command {
	var (
		modulus string
		single  knowledgeFlags
	)
	cmd := &cobra.Command{
		Use:   "univariate",
		Short: "Recover n = p*q from known bits of one factor",
		Example: `  # 97 = 0b1100001 is a factor of 9991; its top four bits are 0b1100
  recovery univariate --modulus 9991 --bits 7 --msb-known 4 --msb 0b1100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parser.ParseBigInt(modulus)
			if err != nil {
				return fmt.Errorf("failed to parse modulus: %w", err)
			}
			k, err := single.knowledge("p")
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, client *coppersmith.Client) (*coppersmith.RecoveryResult, error) {
				return client.RecoverUnivariate(ctx, n, k)
			})
		},
	}
	modulusFlag(cmd, &modulus)
	single.register(cmd, "", "p")
	return cmd
}

func newBivariateCmd(opts *options) *cobra.Command {
	var (
		modulus        string
		pFlags, qFlags knowledgeFlags
	)
	cmd := &cobra.Command{
		Use:   "bivariate",
		Short: "Recover n = p*q from known bits of both factors",
		Example: `  recovery bivariate --modulus 9991 \
    --p-bits 7 --p-msb-known 3 --p-msb 6 \
    --q-bits 7 --q-msb-known 3 --q-msb 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parser.ParseBigInt(modulus)
			if err != nil {
				return fmt.Errorf("failed to parse modulus: %w", err)
			}
			kp, err := pFlags.knowledge("p")
			if err != nil {
				return err
			}
			kq, err := qFlags.knowledge("q")
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, client *coppersmith.Client) (*coppersmith.RecoveryResult, error) {
				return client.RecoverBivariate(ctx, n, kp, kq)
			})
		},
	}
	modulusFlag(cmd, &modulus)
	pFlags.register(cmd, "p-", "p")
	qFlags.register(cmd, "q-", "q")
	return cmd
}

func newSolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <problem.yaml|problem.json>",
		Short: "Recover the factors described by a problem file",
		Long: `Reads a problem file and runs the bivariate pipeline when it describes q,
the univariate pipeline otherwise. The file's search section overrides the
command line flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, client *coppersmith.Client) (*coppersmith.RecoveryResult, error) {
				return client.RecoverFromFile(ctx, args[0])
			})
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		bits, msbKnown, lsbKnown int
		bivariate                bool
		output                   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random problem with leaked factor bits",
		Example: `  recovery generate --bits 256 --msb-known 150 --output problem.yaml
  recovery solve problem.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := coppersmith.GenerateInstance(nil, bits, msbKnown, lsbKnown)
			if err != nil {
				return err
			}
			problem := &coppersmith.Problem{Modulus: inst.N, P: inst.KP}
			if bivariate {
				problem.Q = &inst.KQ
			}

			if output == "" {
				err = encodeProblem(cmd.OutOrStdout(), problem, false)
			} else {
				err = writeProblem(output, problem)
			}
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			fmt.Fprintln(stderr, color.YellowString("[*] Secret factors (keep for checking):"))
			fmt.Fprintf(stderr, "    p = %s\n    q = %s\n", inst.P, inst.Q)
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 128, "Bit length of each factor")
	cmd.Flags().IntVar(&msbKnown, "msb-known", 80, "Number of leaked most significant bits")
	cmd.Flags().IntVar(&lsbKnown, "lsb-known", 0, "Number of leaked least significant bits")
	cmd.Flags().BoolVar(&bivariate, "bivariate", false, "Leak bits of both factors")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the problem to this file (.yaml or .json) instead of stdout")
	return cmd
}

// writeProblem writes problem to path, as JSON for a .json path and YAML
// otherwise.
func writeProblem(path string, problem *coppersmith.Problem) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encodeProblem(file, problem, isJSON(path)); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func encodeProblem(w io.Writer, problem *coppersmith.Problem, asJSON bool) error {
	if asJSON {
		return problem.EncodeJSON(w)
	}
	return problem.EncodeYAML(w)
}

// recoverFunc runs one recovery with a configured client.
type recoverFunc func(ctx context.Context, client *coppersmith.Client) (*coppersmith.RecoveryResult, error)

func (o *options) run(cmd *cobra.Command, fn recoverFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	client, err := o.newClient()
	if err != nil {
		return err
	}
	spinner := newRoundSpinner(o.noProgress)
	client = client.WithObserver(spinner)

	result, err := fn(ctx, client)
	spinner.finish()
	if err != nil {
		color.Red("[-] %v", err)
		return err
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, result *coppersmith.RecoveryResult) {
	fmt.Fprintln(w, color.GreenString("[+] Recovered factors (%s pipeline, round %d, %s solver):",
		result.Pipeline, result.Round, result.Solver))
	fmt.Fprintf(w, "    p = %s\n", result.Factors.P)
	fmt.Fprintf(w, "    q = %s\n", result.Factors.Q)

	check := new(big.Int).Mul(result.Factors.P, result.Factors.Q)
	fmt.Fprintf(w, "    p*q = %s\n", check)
}
