package pronet

import (
	"math"
	"sort"
)

// HuffmanTree encodes every vertex as a path through the inner nodes of a
// binary tree built over vertex frequencies, for hierarchical softmax.
// Points[v][d] is the inner node visited at depth d and Codes[v][d] the
// branch taken there. Inner nodes are numbered [0, n-1) with the root at n-2.
type HuffmanTree struct {
	Codes  [][]uint8
	Points [][]int64
}

// InnerNodes returns the number of inner nodes.
func (t *HuffmanTree) InnerNodes() int {
	if len(t.Codes) < 2 {
		return 0
	}
	return len(t.Codes) - 1
}

// BuildHuffmanTree builds the tree for the given per-vertex counts.
func BuildHuffmanTree(counts []int64) *HuffmanTree {
	n := len(counts)
	tree := &HuffmanTree{
		Codes:  make([][]uint8, n),
		Points: make([][]int64, n),
	}
	if n < 2 {
		return tree
	}

	// Leaves sorted by descending count
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] > counts[order[b]] })

	count := make([]int64, 2*n)
	for i, v := range order {
		count[i] = counts[v]
	}
	for i := n; i < 2*n; i++ {
		count[i] = math.MaxInt64
	}
	binary := make([]uint8, 2*n)
	parent := make([]int, 2*n)

	pos1, pos2 := n-1, n
	pick := func() int {
		if pos1 >= 0 && count[pos1] < count[pos2] {
			pos1--
			return pos1 + 1
		}
		pos2++
		return pos2 - 1
	}
	for a := 0; a < n-1; a++ {
		min1 := pick()
		min2 := pick()
		count[n+a] = count[min1] + count[min2]
		parent[min1] = n + a
		parent[min2] = n + a
		binary[min2] = 1
	}

	root := 2*n - 2
	path := make([]int, 0, 64)
	for leaf, v := range order {
		path = path[:0]
		for b := leaf; b != root; b = parent[b] {
			path = append(path, b)
		}

		depth := len(path)
		codes := make([]uint8, depth)
		points := make([]int64, depth)
		for d := 0; d < depth; d++ {
			node := path[depth-1-d]
			codes[d] = binary[node]
			points[d] = int64(parent[node] - n)
		}
		tree.Codes[v] = codes
		tree.Points[v] = points
	}

	return tree
}
