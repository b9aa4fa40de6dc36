package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() Options {
	o := DefaultOptions()
	o.Input = "graph.mat"
	o.Output = "out.mat"
	return o
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	assert.Equal(t, "mat", o.Format)
	assert.Equal(t, "./bin/sfdp_osx", o.SFDPPath)
	assert.Equal(t, "deepwalk", o.Model)
	assert.Equal(t, "network", o.MatVariable)
	assert.Equal(t, 40, o.NumberWalks)
	assert.Equal(t, 128, o.RepresentationSize)
	assert.Equal(t, 10, o.WalkLength)
	assert.Equal(t, 10, o.WindowSize)
	assert.Equal(t, 1, o.Workers)
	assert.Empty(t, o.Input)
	assert.Empty(t, o.Output)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(validOptions())
	require.NoError(t, err)
	assert.Equal(t, Config{
		Input:              "graph.mat",
		Format:             "mat",
		Output:             "out.mat",
		Model:              "deepwalk",
		SFDPPath:           "./bin/sfdp_osx",
		MatVariable:        "network",
		NumberWalks:        40,
		WalkLength:         10,
		WindowSize:         10,
		RepresentationSize: 128,
		Workers:            1,
	}, cfg)
}

func TestResolveRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		field  string
		mutate func(*Options)
	}{
		{"missing input", "input", func(o *Options) { o.Input = "" }},
		{"blank output", "output", func(o *Options) { o.Output = "  " }},
		{"missing model", "model", func(o *Options) { o.Model = "" }},
		{"zero walks", "number-walks", func(o *Options) { o.NumberWalks = 0 }},
		{"negative walk length", "walk-length", func(o *Options) { o.WalkLength = -3 }},
		{"zero window", "window-size", func(o *Options) { o.WindowSize = 0 }},
		{"zero dimension", "representation-size", func(o *Options) { o.RepresentationSize = 0 }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			o := validOptions()
			tc.mutate(&o)

			_, err := Resolve(o)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestResolveLeavesWorkersToLaterStages(t *testing.T) {
	t.Parallel()

	for _, w := range []int{-1, 0, -2, 1 << 20} {
		o := validOptions()
		o.Workers = w
		cfg, err := Resolve(o)
		require.NoError(t, err)
		assert.Equal(t, w, cfg.Workers)
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	require.NoError(t, o.Set("sfdp-path", "/opt/sfdp"))
	require.NoError(t, o.Set("workers", "-1"))
	require.NoError(t, o.Set("window-size", " 3 "))
	assert.Equal(t, "/opt/sfdp", o.SFDPPath)
	assert.Equal(t, -1, o.Workers)
	assert.Equal(t, 3, o.WindowSize)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, o.Set("workers", "many"), &cfgErr)
	assert.Equal(t, "workers", cfgErr.Field)
	require.ErrorAs(t, o.Set("colour", "red"), &cfgErr)
	assert.Equal(t, "unknown option", cfgErr.Reason)

	for _, key := range Keys {
		fresh := DefaultOptions()
		assert.NoError(t, fresh.Set(key, "7"), key)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"HARP_INPUT":                 "g.edges",
		"HARP_FORMAT":                "edgelist",
		"HARP_MATFILE_VARIABLE_NAME": "A",
		"HARP_NUMBER_WALKS":          "5",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	o := DefaultOptions()
	require.NoError(t, ApplyEnv(&o, lookup))
	assert.Equal(t, "g.edges", o.Input)
	assert.Equal(t, "edgelist", o.Format)
	assert.Equal(t, "A", o.MatVariable)
	assert.Equal(t, 5, o.NumberWalks)
	assert.Equal(t, 10, o.WalkLength, "unset variables keep their value")

	env["HARP_WORKERS"] = "all"
	require.Error(t, ApplyEnv(&o, lookup))
}

func TestEnvName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HARP_SFDP_PATH", EnvName("sfdp-path"))
	assert.Equal(t, "HARP_WORKERS", EnvName("workers"))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "harp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: line\nwindow_size: 4\nsfdp_path: /usr/bin/sfdp\n"), 0o600))

	o := DefaultOptions()
	require.NoError(t, LoadFile(path, &o))
	assert.Equal(t, "line", o.Model)
	assert.Equal(t, 4, o.WindowSize)
	assert.Equal(t, "/usr/bin/sfdp", o.SFDPPath)
	assert.Equal(t, 40, o.NumberWalks)

	require.Error(t, LoadFile(filepath.Join(dir, "missing.yaml"), &o))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	o := DefaultOptions()
	require.NoError(t, Decode(strings.NewReader(""), &o), "empty document")
	assert.Equal(t, DefaultOptions(), o)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, Decode(strings.NewReader("walkers: 3\n"), &o), &cfgErr)
	assert.Equal(t, "config", cfgErr.Field)
	require.Error(t, Decode(strings.NewReader("workers: lots\n"), &o))
}
