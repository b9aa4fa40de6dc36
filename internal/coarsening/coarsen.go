package coarsening

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/cnclabs/harp/pkg/pronet"
)

const (
	// DefaultMinCoarseSize stops coarsening once a level is this small.
	DefaultMinCoarseSize = 100
	// A level that keeps more than this share of vertices ends coarsening.
	minShrink = 0.95
)

// Level is one graph of a coarsening hierarchy. Parent maps every vertex to
// its super-vertex in the next coarser level and is nil on the coarsest one.
type Level struct {
	Graph  *pronet.ProNet
	Parent []int64
}

// buildHierarchy coarsens g with star and/or edge collapsing until the graph
// is at most minSize vertices or stops shrinking. levels[0] is g itself.
func buildHierarchy(g *pronet.ProNet, scheme, minSize int, rng *rand.Rand) ([]Level, error) {
	levels := []Level{{Graph: g}}
	for {
		cur := levels[len(levels)-1].Graph
		n := cur.NumVertices()
		if n <= minSize {
			break
		}

		mapping, size := collapse(cur, scheme, rng)
		if float64(size) > minShrink*float64(n) {
			break
		}

		coarse, err := contract(cur, mapping, size)
		if err != nil {
			return nil, err
		}
		levels[len(levels)-1].Parent = mapping
		levels = append(levels, Level{Graph: coarse})
	}
	return levels, nil
}

// collapse groups the vertices of g into super-vertices and returns the
// group of every vertex together with the number of groups.
func collapse(g *pronet.ProNet, scheme int, rng *rand.Rand) ([]int64, int64) {
	group := make([]int64, g.NumVertices())
	for i := range group {
		group[i] = -1
	}

	next := int64(0)
	if scheme == SchemeStarEdge {
		next = starCollapse(g, group, next)
	}
	next = edgeCollapse(g, group, next, rng)

	for vid := range group {
		if group[vid] == -1 {
			group[vid] = next
			next++
		}
	}
	return group, next
}

// starCollapse visits hubs in descending degree and merges their still
// unmatched neighbors two by two. Hubs themselves are left unmatched.
func starCollapse(g *pronet.ProNet, group []int64, next int64) int64 {
	order := make([]int64, g.NumVertices())
	for i := range order {
		order[i] = int64(i)
	}
	sort.SliceStable(order, func(a, b int) bool { return g.Degree(order[a]) > g.Degree(order[b]) })

	hub := make([]bool, len(group))
	for _, vid := range order {
		if group[vid] != -1 || g.Degree(vid) < 2 {
			continue
		}
		hub[vid] = true

		var spokes []int64
		for _, nid := range g.Graph[vid] {
			if group[nid] == -1 && !hub[nid] {
				spokes = append(spokes, nid)
			}
		}
		for i := 0; i+1 < len(spokes); i += 2 {
			group[spokes[i]] = next
			group[spokes[i+1]] = next
			next++
		}
	}
	return next
}

// edgeCollapse matches every unmatched vertex, visited in random order, with
// its unmatched neighbor of lowest degree.
func edgeCollapse(g *pronet.ProNet, group []int64, next int64, rng *rand.Rand) int64 {
	for _, i := range rng.Perm(len(group)) {
		vid := int64(i)
		if group[vid] != -1 {
			continue
		}

		mate := int64(-1)
		for _, nid := range g.Graph[vid] {
			if group[nid] != -1 {
				continue
			}
			if mate == -1 || g.Degree(nid) < g.Degree(mate) {
				mate = nid
			}
		}
		if mate == -1 {
			continue
		}
		group[vid] = next
		group[mate] = next
		next++
	}
	return next
}

// contract builds the graph over size super-vertices. Arcs between the same
// pair of super-vertices are merged by summing their weights and arcs inside
// a super-vertex disappear.
func contract(g *pronet.ProNet, mapping []int64, size int64) (*pronet.ProNet, error) {
	if len(mapping) != g.NumVertices() {
		return nil, fmt.Errorf("coarsening: mapping covers %d of %d vertices", len(mapping), g.NumVertices())
	}

	coarse := pronet.NewProNet(g.Undirected)
	for i := int64(0); i < size; i++ {
		coarse.AddVertex(strconv.FormatInt(i, 10))
	}

	type key struct{ from, to int64 }
	weights := make(map[key]float64)
	var order []key

	for vid := range g.Graph {
		from := mapping[vid]
		if from < 0 || from >= size {
			return nil, fmt.Errorf("coarsening: vertex %d mapped to %d outside [0,%d)", vid, from, size)
		}
		for i, nid := range g.Graph[vid] {
			to := mapping[nid]
			if to == from {
				continue
			}
			k := key{from, to}
			if _, seen := weights[k]; !seen {
				order = append(order, k)
			}
			weights[k] += g.EdgeWeights[vid][i]
		}
	}

	for _, k := range order {
		if err := coarse.AddArc(k.from, k.to, weights[k]); err != nil {
			return nil, err
		}
	}
	coarse.Build()
	return coarse, nil
}
