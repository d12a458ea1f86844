package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/partial-key-factor/pkg/coppersmith"
)

// execute runs a freshly built command tree and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-progress"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestUnivariateCommand(t *testing.T) {
	out, err := execute(t, "--max-rounds", "4",
		"univariate", "--modulus", "9991", "--bits", "7", "--msb-known", "4", "--msb", "0b1100")
	require.NoError(t, err)
	assert.Contains(t, out, "p = 97")
	assert.Contains(t, out, "q = 103")
	assert.Contains(t, out, "lattice solver")
}

func TestBivariateCommand(t *testing.T) {
	out, err := execute(t, "--solver", "exhaustive", "--max-rounds", "2", "--window-bits", "4",
		"bivariate", "--modulus", "9991",
		"--p-bits", "7", "--p-msb-known", "3", "--p-msb", "6",
		"--q-bits", "7", "--q-msb-known", "3", "--q-msb", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "exhaustive solver")
	assert.Contains(t, out, "p*q = 9991")
}

func TestUnivariateCommand_Exhausted(t *testing.T) {
	_, err := execute(t, "--max-rounds", "2",
		"univariate", "--modulus", "9991", "--bits", "7", "--msb-known", "4", "--msb", "6")
	require.Error(t, err)
	assert.ErrorIs(t, err, coppersmith.ErrBoundExhausted)
}

func TestCommandsDoNotShareFlags(t *testing.T) {
	_, err := execute(t, "--solver", "quantum", "--max-rounds", "1",
		"univariate", "--modulus", "9991", "--bits", "7", "--msb-known", "4", "--msb", "12")
	require.Error(t, err)

	// Defaults are back on the next invocation.
	out, err := execute(t, "--max-rounds", "2",
		"univariate", "--modulus", "9991", "--bits", "7", "--msb-known", "4", "--msb", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "lattice solver")
}

func TestGenerateAndSolve(t *testing.T) {
	for _, name := range []string{"problem.yaml", "problem.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			_, err := execute(t, "generate", "--bits", "24", "--msb-known", "16", "--output", path)
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "modulus")

			out, err := execute(t, "--solver", "exhaustive", "--max-rounds", "2", "solve", path)
			require.NoError(t, err)
			assert.Contains(t, out, "univariate pipeline")
		})
	}
}

func TestGenerateToStdout(t *testing.T) {
	out, err := execute(t, "generate", "--bits", "16", "--msb-known", "8", "--bivariate")
	require.NoError(t, err)
	assert.Contains(t, out, "modulus:")
	assert.Contains(t, out, "q:")
}

func TestWriteProblem_CreateFails(t *testing.T) {
	problem := &coppersmith.Problem{}
	err := writeProblem(filepath.Join(t.TempDir(), "missing", "problem.yaml"), problem)
	assert.Error(t, err)
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("a/b.JSON"))
	assert.False(t, isJSON("a/b.yaml"))
}
