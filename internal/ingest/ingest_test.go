package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnclabs/harp/internal/matio"
	"github.com/cnclabs/harp/pkg/pronet"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeMat(t *testing.T, vars ...*matio.Variable) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, matio.WriteCompressed(&buf, vars...))
	return writeFile(t, "graph.mat", buf.Bytes())
}

func requireContiguous(t *testing.T, g *pronet.ProNet) {
	t.Helper()
	n := g.NumVertices()
	require.Len(t, g.VertexKeys, n)
	require.Len(t, g.Graph, n)
	for name, vid := range g.VertexHash {
		require.GreaterOrEqual(t, vid, int64(0))
		require.Less(t, vid, int64(n))
		require.Equal(t, name, g.VertexKeys[vid])
	}
	for _, neighbors := range g.Graph {
		for _, nid := range neighbors {
			require.Less(t, nid, int64(n))
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("xml")
	var formatErr *UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "xml", formatErr.Format)
	for _, name := range []string{`"xml"`, "mat", "adjlist", "edgelist"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestLoadEdgeList(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "g.edges", []byte("a b\nb c\nc d\nd e\ne a\na c 2.5\n"))
	g, err := Load(path, EdgeList, "")
	require.NoError(t, err)

	requireContiguous(t, g)
	assert.Equal(t, 5, g.NumVertices())
	assert.Equal(t, 6, g.NumEdges())
	assert.True(t, g.Undirected)

	a, c := g.VertexHash["a"], g.VertexHash["c"]
	assert.True(t, g.HasArc(a, c))
	assert.True(t, g.HasArc(c, a))
}

func TestLoadAdjList(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "g.adj", []byte("# comment\n10 20 30\n20 30\n40\n"))
	g, err := Load(path, AdjList, "ignored")
	require.NoError(t, err)

	requireContiguous(t, g)
	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, 0, g.Degree(g.VertexHash["40"]))
}

func TestLoadMatSparse(t *testing.T) {
	t.Parallel()

	// Symmetric 4x4 with an isolated last row and a self loop on row 0.
	ri := []int{0, 1, 0, 2, 1, 0}
	ci := []int{1, 0, 2, 1, 2, 0}
	vals := []float64{1, 1, 3, 3, 1, 9}
	v, err := matio.NewSparse("network", 4, 4, ri, ci, vals)
	require.NoError(t, err)
	path := writeMat(t, v)

	g, err := Load(path, Mat, "network")
	require.NoError(t, err)

	requireContiguous(t, g)
	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, []string{"0", "1", "2", "3"}, g.VertexKeys)
	assert.Equal(t, 0, g.Degree(3))
	assert.Equal(t, []int64{1, 2}, g.Graph[0])
	assert.Equal(t, []float64{1, 3}, g.EdgeWeights[0])
}

func TestLoadMatDense(t *testing.T) {
	t.Parallel()

	v, err := matio.NewDense("A", 3, 3, []float64{
		0, 2, 0,
		2, 0, 1,
		0, 1, 0,
	})
	require.NoError(t, err)
	path := writeMat(t, v)

	g, err := Load(path, Mat, "A")
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []float64{2}, g.EdgeWeights[0])
}

func TestLoadMatErrors(t *testing.T) {
	t.Parallel()

	v, err := matio.NewDense("network", 2, 3, make([]float64, 6))
	require.NoError(t, err)
	path := writeMat(t, v)

	_, err = Load(path, Mat, "network")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "square")

	_, err = Load(path, Mat, "other")
	require.ErrorIs(t, err, matio.ErrNotFound)

	neg, err := matio.NewDense("network", 2, 2, []float64{0, -1, -1, 0})
	require.NoError(t, err)
	_, err = Load(writeMat(t, neg), Mat, "network")
	require.Error(t, err)

	bad, err := matio.NewSparse("network", 3, 3, []int{0, 1}, []int{1, 0}, []float64{1, 1})
	require.NoError(t, err)
	bad.ColPtr = []int{0, 5, 1, 2}
	_, err = Load(writeMat(t, bad), Mat, "network")
	require.ErrorIs(t, err, matio.ErrFormat)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.edges"), EdgeList, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeFile(t, "bad.edges", []byte("a b\nlonely\n"))
	_, err = Load(path, EdgeList, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Load(path, Format("xml"), "")
	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
}
