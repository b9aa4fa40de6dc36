// Package ingest loads a graph file in one of the supported formats into an
// undirected, weighted network with contiguous vertex ids.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cnclabs/harp/internal/matio"
	"github.com/cnclabs/harp/pkg/pronet"
)

// Format names a graph file format.
type Format string

const (
	// Mat is a MAT-file holding a square adjacency matrix.
	Mat Format = "mat"
	// AdjList holds one "<vertex> <neighbor>..." record per line.
	AdjList Format = "adjlist"
	// EdgeList holds one "<from> <to> [weight]" record per line.
	EdgeList Format = "edgelist"
)

// Formats lists the supported formats.
var Formats = []Format{Mat, AdjList, EdgeList}

// UnsupportedFormatError reports a format outside Formats.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	valid := make([]string, len(Formats))
	for i, f := range Formats {
		valid[i] = string(f)
	}
	return fmt.Sprintf("unsupported format %q: valid options are %s", e.Format, strings.Join(valid, ", "))
}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: s}
}

// Load reads the graph at path. variable names the adjacency matrix inside
// a MAT-file and is ignored by the text formats.
func Load(path string, format Format, variable string) (*pronet.ProNet, error) {
	g := pronet.NewProNet(true)

	var err error
	switch format {
	case Mat:
		err = loadMat(g, path, variable)
	case AdjList:
		err = g.LoadAdjacencyList(path)
	case EdgeList:
		err = g.LoadEdgeList(path)
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	return g, nil
}

// loadMat adds one vertex per matrix row, named by its index, so row i of the
// embedding always belongs to row i of the matrix.
func loadMat(g *pronet.ProNet, path, variable string) error {
	v, err := matio.ReadVariable(path, variable)
	if err != nil {
		return err
	}
	if v.Rows != v.Cols {
		return fmt.Errorf("%s: variable %q is %dx%d, want a square adjacency matrix", path, variable, v.Rows, v.Cols)
	}

	for i := 0; i < v.Rows; i++ {
		g.AddVertex(strconv.Itoa(i))
	}
	err = v.NonZero(func(i, j int, w float64) error {
		if err := g.AddEdge(int64(i), int64(j), w); err != nil {
			return fmt.Errorf("%s: entry (%d,%d): %w", path, i, j, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.Build()
	return nil
}
