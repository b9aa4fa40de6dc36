package models

import (
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cnclabs/harp/internal/coarsening"
	"github.com/cnclabs/harp/internal/config"
	"github.com/cnclabs/harp/pkg/pronet"
)

// Embedder is the embedding backend. *coarsening.Embedder implements it.
type Embedder interface {
	Embed(g *pronet.ProNet, p coarsening.Params) (*mat.Dense, error)
}

// OutputStem strips the extension from an output path.
func OutputStem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Params assembles the backend arguments from a bundle, the configuration
// and the resolved worker count.
func Params(b Bundle, cfg config.Config, workers int) coarsening.Params {
	window := cfg.WindowSize
	if b.WindowSize > 0 {
		window = b.WindowSize
	}

	return coarsening.Params{
		Workers:            workers,
		Output:             OutputStem(cfg.Output),
		SFDPPath:           cfg.SFDPPath,
		NumPaths:           cfg.NumberWalks,
		PathLength:         cfg.WalkLength,
		RepresentationSize: cfg.RepresentationSize,
		WindowSize:         window,
		Scale:              b.Scale,
		IterCount:          b.IterCount,
		LRScheme:           b.LRScheme,
		Alpha:              b.Alpha,
		MinAlpha:           b.MinAlpha,
		SG:                 b.SG,
		HS:                 b.HS,
		Negative:           b.Negative,
		CoarseningScheme:   b.CoarseningScheme,
		Sample:             b.Sample,
		Corpus:             b.Corpus,
		P:                  b.P,
		Q:                  b.Q,
	}
}

// BuildAndRun embeds g with the named model. The backend is called exactly
// once and its error is returned as is.
func BuildAndRun(name string, g *pronet.ProNet, cfg config.Config, workers int, e Embedder) (*mat.Dense, error) {
	m, err := Parse(name)
	if err != nil {
		return nil, err
	}
	b, err := Lookup(m)
	if err != nil {
		return nil, err
	}
	return e.Embed(g, Params(b, cfg, workers))
}
