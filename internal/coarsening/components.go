package coarsening

import (
	"sort"
	"strconv"

	"github.com/cnclabs/harp/pkg/pronet"
)

// components returns the vertex sets of the weakly connected components of
// g, each in ascending id order, ordered by their smallest vertex.
func components(g *pronet.ProNet) [][]int64 {
	n := g.NumVertices()

	// Reverse arcs so directed inputs are split on weak connectivity.
	reverse := make([][]int64, n)
	for vid := 0; vid < n; vid++ {
		for _, nid := range g.Graph[vid] {
			reverse[nid] = append(reverse[nid], int64(vid))
		}
	}

	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}

	var result [][]int64
	queue := make([]int64, 0, n)
	for start := 0; start < n; start++ {
		if comp[start] != -1 {
			continue
		}
		id := len(result)
		comp[start] = id
		queue = append(queue[:0], int64(start))
		members := []int64{}

		for len(queue) > 0 {
			vid := queue[0]
			queue = queue[1:]
			members = append(members, vid)

			for _, adj := range [][]int64{g.Graph[vid], reverse[vid]} {
				for _, nid := range adj {
					if comp[nid] == -1 {
						comp[nid] = id
						queue = append(queue, nid)
					}
				}
			}
		}

		sortIDs(members)
		result = append(result, members)
	}
	return result
}

// subgraph extracts the graph induced by members, renumbered so that
// members[i] becomes vertex i.
func subgraph(g *pronet.ProNet, members []int64) (*pronet.ProNet, error) {
	local := make(map[int64]int64, len(members))
	sub := pronet.NewProNet(g.Undirected)
	for _, vid := range members {
		local[vid] = sub.AddVertex(strconv.Itoa(len(local)))
	}

	for _, vid := range members {
		for i, nid := range g.Graph[vid] {
			to, ok := local[nid]
			if !ok {
				continue
			}
			if err := sub.AddArc(local[vid], to, g.EdgeWeights[vid][i]); err != nil {
				return nil, err
			}
		}
	}
	sub.Build()
	return sub, nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
