package pronet

import (
	"math/rand"
)

// RandomWalk performs a weighted random walk of at most steps hops from vid.
func (pn *ProNet) RandomWalk(vid int64, steps int, rng *rand.Rand) []int64 {
	walk := make([]int64, 0, steps+1)
	walk = append(walk, vid)

	current := vid
	for i := 0; i < steps; i++ {
		next := pn.TargetSample(current, rng)
		if next == -1 {
			break
		}
		walk = append(walk, next)
		current = next
	}

	return walk
}

// BiasedRandomWalk performs a second-order (node2vec) walk. p is the return
// parameter and q the in-out parameter; p = q = 1 reduces to RandomWalk.
func (pn *ProNet) BiasedRandomWalk(start int64, steps int, p, q float64, rng *rand.Rand) []int64 {
	walk := make([]int64, 0, steps+1)
	walk = append(walk, start)

	if steps == 0 {
		return walk
	}

	// First step is unbiased
	first := pn.TargetSample(start, rng)
	if first == -1 {
		return walk
	}
	walk = append(walk, first)

	for i := 1; i < steps; i++ {
		current := walk[len(walk)-1]
		previous := walk[len(walk)-2]

		next := pn.biasedTargetSample(previous, current, p, q, rng)
		if next == -1 {
			break
		}
		walk = append(walk, next)
	}

	return walk
}

// biasedTargetSample samples the next vertex of a second-order walk that
// arrived at current from prev.
func (pn *ProNet) biasedTargetSample(prev, current int64, p, q float64, rng *rand.Rand) int64 {
	neighbors := pn.Graph[current]
	if len(neighbors) == 0 {
		return -1
	}

	weights := pn.EdgeWeights[current]
	biasedWeights := make([]float64, len(neighbors))
	totalWeight := 0.0

	for i, neighbor := range neighbors {
		var bias float64
		switch {
		case neighbor == prev:
			bias = 1.0 / p
		case pn.HasArc(prev, neighbor):
			bias = 1.0
		default:
			bias = 1.0 / q
		}

		biasedWeights[i] = weights[i] * bias
		totalWeight += biasedWeights[i]
	}

	if totalWeight == 0 {
		return neighbors[rng.Intn(len(neighbors))]
	}

	r := rng.Float64() * totalWeight
	cumWeight := 0.0
	for i, w := range biasedWeights {
		cumWeight += w
		if r <= cumWeight {
			return neighbors[i]
		}
	}

	return neighbors[len(neighbors)-1]
}

// SkipGrams generates skip-gram training pairs from a walk
func (pn *ProNet) SkipGrams(walk []int64, windowSize int) ([]int64, []int64) {
	vertices := make([]int64, 0)
	contexts := make([]int64, 0)

	for i := 0; i < len(walk); i++ {
		start := i - windowSize
		if start < 0 {
			start = 0
		}
		end := i + windowSize + 1
		if end > len(walk) {
			end = len(walk)
		}

		for j := start; j < end; j++ {
			if i != j {
				vertices = append(vertices, walk[i])
				contexts = append(contexts, walk[j])
			}
		}
	}

	return vertices, contexts
}

// Window returns the vertices around position i of walk within windowSize,
// excluding walk[i] itself.
func Window(walk []int64, i, windowSize int) []int64 {
	start := i - windowSize
	if start < 0 {
		start = 0
	}
	end := i + windowSize + 1
	if end > len(walk) {
		end = len(walk)
	}

	ctx := make([]int64, 0, end-start)
	for j := start; j < end; j++ {
		if j != i {
			ctx = append(ctx, walk[j])
		}
	}
	return ctx
}
