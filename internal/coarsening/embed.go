// Package coarsening learns vertex embeddings hierarchically: the graph is
// repeatedly collapsed into smaller graphs, the coarsest one is embedded
// first and every finer level starts from the embedding of its
// super-vertices.
package coarsening

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cnclabs/harp/pkg/pronet"
)

// ErrEmptyGraph is returned when there is nothing to embed.
var ErrEmptyGraph = errors.New("coarsening: graph has no vertices")

// Embedder runs skip-gram training over coarsening hierarchies of every
// connected component of a graph.
type Embedder struct {
	// Progress receives training progress; nil discards it.
	Progress io.Writer
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64
	// MinCoarseSize overrides DefaultMinCoarseSize when positive.
	MinCoarseSize int
}

// Embed returns a NumVertices x RepresentationSize matrix whose row i is the
// embedding of vertex i.
func (e *Embedder) Embed(g *pronet.ProNet, p Params) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if g.NumVertices() == 0 {
		return nil, ErrEmptyGraph
	}

	out := e.Progress
	if out == nil {
		out = io.Discard
	}
	outMu := &sync.Mutex{}
	seed := e.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	minSize := e.MinCoarseSize
	if minSize <= 0 {
		minSize = DefaultMinCoarseSize
	}

	fmt.Fprintln(out, "Model Setting:")
	fmt.Fprintf(out, "\tdimension:\t\t%d\n", p.RepresentationSize)
	fmt.Fprintf(out, "\tcorpus:\t\t\t%s\n", p.Corpus)
	fmt.Fprintf(out, "\tskip-gram:\t\t%t\n", p.SG)
	fmt.Fprintf(out, "\thierarchical softmax:\t%t\n", p.HS)
	fmt.Fprintf(out, "\tcoarsening scheme:\t%d\n", p.scheme())
	fmt.Fprintln(out, "Learning Parameters:")
	fmt.Fprintf(out, "\tnumber_walks:\t\t%d\n", p.NumPaths)
	fmt.Fprintf(out, "\twalk_length:\t\t%d\n", p.PathLength)
	fmt.Fprintf(out, "\twindow_size:\t\t%d\n", p.WindowSize)
	fmt.Fprintf(out, "\titerations:\t\t%d\n", p.IterCount)
	fmt.Fprintf(out, "\talpha:\t\t\t%.6f\n", p.Alpha)
	fmt.Fprintf(out, "\tworkers:\t\t%d\n", p.workers())

	rng := rand.New(rand.NewSource(seed))
	embs := mat.NewDense(g.NumVertices(), p.RepresentationSize, nil)

	comps := components(g)
	for ci, members := range comps {
		sub, err := subgraph(g, members)
		if err != nil {
			return nil, err
		}

		var levels []Level
		if p.scheme() == SchemeExternal && sub.NumVertices() > minSize {
			levels, err = externalHierarchy(sub, p.SFDPPath, fmt.Sprintf("%s.c%d", p.Output, ci))
		} else {
			scheme := p.scheme()
			if scheme == SchemeExternal {
				scheme = SchemeStarEdge
			}
			levels, err = buildHierarchy(sub, scheme, minSize, rng)
		}
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(out, "Component %d/%d: %d vertices, %d levels\n", ci+1, len(comps), sub.NumVertices(), len(levels))

		var coarser *trainer
		for li := len(levels) - 1; li >= 0; li-- {
			level := levels[li]
			t := newTrainer(level.Graph, p, out, outMu, rng)
			if coarser != nil {
				t.prolong(coarser, level.Parent)
			}

			fmt.Fprintf(out, "Level %d: %d vertices, %d edges\n", li, level.Graph.NumVertices(), level.Graph.NumEdges())
			t.train(rng.Int63())
			coarser = t
		}

		for local, vid := range members {
			embs.SetRow(int(vid), coarser.wVertex[local])
		}
	}

	if p.Scale == 1 {
		rows, _ := embs.Dims()
		for i := 0; i < rows; i++ {
			row := embs.RawRowView(i)
			if norm := floats.Norm(row, 2); norm > 0 {
				floats.Scale(1/norm, row)
			}
		}
	}

	return embs, nil
}
