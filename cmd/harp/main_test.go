package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnclabs/harp/internal/matio"
)

func writeGraph(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "g.edges")
	require.NoError(t, os.WriteFile(input, []byte("a b\nb c\nc d\nd e\ne a\na c\n"), 0o600))
	return dir, input
}

func TestRunDeepWalkEdgeList(t *testing.T) {
	dir, input := writeGraph(t)
	output := filepath.Join(dir, "out.mat")
	workers := 2
	if runtime.NumCPU() < workers {
		workers = runtime.NumCPU()
	}

	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{
		"--format", "edgelist",
		"--input", input,
		"--model", "deepwalk",
		"--workers", strconv.Itoa(workers),
		"--number-walks", "5",
		"--output", output,
	})
	require.Equal(t, 0, code, errOut.String())

	v, err := matio.ReadVariable(output, "embs")
	require.NoError(t, err)
	assert.Equal(t, 5, v.Rows)
	assert.Equal(t, 128, v.Cols)
	assert.Contains(t, errOut.String(), "Number of nodes")
	assert.Contains(t, out.String(), "Model Setting:")
}

func TestRunLineToNpy(t *testing.T) {
	dir, input := writeGraph(t)

	var out, errOut bytes.Buffer
	code := run(&out, &errOut, []string{
		"--format", "edgelist",
		"--input", input,
		"--model", "line",
		"--representation-size", "8",
		"--output", filepath.Join(dir, "line"),
	})
	require.Equal(t, 0, code, errOut.String())
	assert.FileExists(t, filepath.Join(dir, "line.npy"))
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{"negative workers", []string{"--workers", "-2"}, 1, "invalid worker count -2"},
		{"unsupported format", []string{"--format", "xml"}, 1, "valid options are mat, adjlist, edgelist"},
		{"unknown model", []string{"--model", "unknown_model"}, 1, `unknown model "unknown_model"`},
		{"bad flag", []string{"--walkers", "3"}, 2, "unknown flag"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir, input := writeGraph(t)
			output := filepath.Join(dir, "out.mat")
			args := append([]string{"--format", "edgelist", "--input", input, "--output", output}, tc.args...)

			var out, errOut bytes.Buffer
			code := run(&out, &errOut, args)
			assert.Equal(t, tc.code, code)
			assert.Contains(t, errOut.String(), tc.message)
			assert.NoFileExists(t, output)
		})
	}
}
