package coarsening

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/cnclabs/harp/pkg/pronet"
)

func deepWalkParams() Params {
	return Params{
		Workers:            2,
		Output:             "out",
		NumPaths:           10,
		PathLength:         10,
		RepresentationSize: 16,
		WindowSize:         5,
		Scale:              -1,
		IterCount:          1,
		LRScheme:           LRSchemeDefault,
		Alpha:              0.025,
		MinAlpha:           0.001,
		SG:                 true,
		HS:                 true,
		CoarseningScheme:   SchemeStarEdge,
		Sample:             0.1,
	}
}

func loadGraph(t *testing.T, edges string) *pronet.ProNet {
	t.Helper()
	g := pronet.NewProNet(true)
	require.NoError(t, g.ReadEdgeList(strings.NewReader(edges)))
	return g
}

func ring(t *testing.T, n int) *pronet.ProNet {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d %d\n", i, (i+1)%n)
	}
	return loadGraph(t, b.String())
}

func requireFinite(t *testing.T, values []float64) {
	t.Helper()
	for _, v := range values {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestEmbedShape(t *testing.T) {
	t.Parallel()

	g := loadGraph(t, "a b\nb c\nc d\nd e\ne a\na c\n")
	p := deepWalkParams()
	p.RepresentationSize = 128

	embs, err := (&Embedder{Seed: 1}).Embed(g, p)
	require.NoError(t, err)

	rows, cols := embs.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 128, cols)
	requireFinite(t, embs.RawMatrix().Data)
}

func TestEmbedModelVariants(t *testing.T) {
	t.Parallel()

	g := ring(t, 30)
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative sampling", func(p *Params) { p.HS = false; p.Negative = 5 }},
		{"biased walks", func(p *Params) { p.HS = false; p.Negative = 5; p.P = 0.5; p.Q = 2 }},
		{"cbow softmax", func(p *Params) { p.SG = false }},
		{"cbow negative", func(p *Params) { p.SG = false; p.HS = false; p.Negative = 3 }},
		{"edge corpus", func(p *Params) {
			p.Corpus = Edges
			p.WindowSize = 1
			p.IterCount = 5
			p.HS = false
			p.Negative = 5
			p.Sample = 0.001
			p.CoarseningScheme = SchemeUnset
		}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := deepWalkParams()
			tc.mutate(&p)

			embs, err := (&Embedder{Seed: 3, MinCoarseSize: 8}).Embed(g, p)
			require.NoError(t, err)
			rows, cols := embs.Dims()
			assert.Equal(t, 30, rows)
			assert.Equal(t, 16, cols)
			requireFinite(t, embs.RawMatrix().Data)
		})
	}
}

func TestEmbedDisconnectedKeepsRowOrder(t *testing.T) {
	t.Parallel()

	// Two triangles and an isolated pair; ids interleave across components.
	g := loadGraph(t, "0 2\n2 4\n4 0\n1 3\n3 5\n5 1\n6 7\n")
	p := deepWalkParams()
	p.Scale = 1

	var progress strings.Builder
	embs, err := (&Embedder{Seed: 5, Progress: &progress}).Embed(g, p)
	require.NoError(t, err)

	rows, _ := embs.Dims()
	require.Equal(t, 8, rows)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, floats.Norm(embs.RawRowView(i), 2), 1e-9, "row %d", i)
	}
	assert.Contains(t, progress.String(), "Component 3/3")
	assert.Contains(t, progress.String(), "Progress: 100.00 %")
}

func TestEmbedRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := (&Embedder{}).Embed(pronet.NewProNet(true), deepWalkParams())
	require.ErrorIs(t, err, ErrEmptyGraph)

	bad := deepWalkParams()
	bad.LRScheme = "step"
	_, err = (&Embedder{}).Embed(ring(t, 4), bad)
	require.Error(t, err)
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"dimension", func(p *Params) { p.RepresentationSize = 0 }},
		{"window", func(p *Params) { p.WindowSize = 0 }},
		{"iterations", func(p *Params) { p.IterCount = 0 }},
		{"walks", func(p *Params) { p.NumPaths = 0 }},
		{"alpha range", func(p *Params) { p.MinAlpha = 1 }},
		{"negative", func(p *Params) { p.HS = false }},
		{"sample", func(p *Params) { p.Sample = -1 }},
		{"scale", func(p *Params) { p.Scale = 0 }},
		{"scheme", func(p *Params) { p.CoarseningScheme = 9 }},
	}

	require.NoError(t, deepWalkParams().Validate())
	for _, tc := range tests {
		p := deepWalkParams()
		tc.mutate(&p)
		assert.Error(t, p.Validate(), tc.name)
	}

	edges := deepWalkParams()
	edges.Corpus = Edges
	edges.NumPaths = 0
	assert.NoError(t, edges.Validate(), "edge corpus ignores walk settings")
}

func TestKeepProbabilities(t *testing.T) {
	t.Parallel()

	keep := keepProbabilities([]int64{1000, 1, 0}, 0.001)
	assert.Less(t, keep[0], 1.0)
	assert.Equal(t, 1.0, keep[1])
	assert.Equal(t, 1.0, keep[2])

	for _, k := range keepProbabilities([]int64{5, 5}, 0) {
		assert.Equal(t, 1.0, k)
	}
}
