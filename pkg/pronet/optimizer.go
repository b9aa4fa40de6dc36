package pronet

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// UpdatePairs updates embeddings for a batch of vertex-context pairs using SGD
func (pn *ProNet) UpdatePairs(
	wVertex, wContext [][]float64,
	vertices, contexts []int64,
	dim, negativeSamples int,
	alpha float64,
	rng *rand.Rand,
) {
	for i := 0; i < len(vertices); i++ {
		pn.UpdatePair(wVertex, wContext, vertices[i], contexts[i], dim, negativeSamples, alpha, rng)
	}
}

// UpdatePair updates embeddings for a single vertex-context pair with
// negative sampling.
func (pn *ProNet) UpdatePair(
	wVertex, wContext [][]float64,
	vertex, context int64,
	dim, negativeSamples int,
	alpha float64,
	rng *rand.Rand,
) {
	vertexGrad := make([]float64, dim)
	contextGrad := make([]float64, dim)

	// Positive sample
	pn.sgdUpdate(wVertex[vertex], wContext[context], 1.0, alpha, vertexGrad, contextGrad)

	// Negative samples
	negGrad := make([]float64, dim)
	for i := 0; i < negativeSamples; i++ {
		negSample := pn.NegativeSample(rng)
		if negSample == context || negSample < 0 {
			continue
		}

		for d := range negGrad {
			negGrad[d] = 0
		}
		pn.sgdUpdate(wVertex[vertex], wContext[negSample], 0.0, alpha, vertexGrad, negGrad)
		floats.Add(wContext[negSample], negGrad)
	}

	floats.Add(wVertex[vertex], vertexGrad)
	floats.Add(wContext[context], contextGrad)
}

// UpdatePairHS updates the embedding of vertex to predict context through
// the hierarchical softmax tree. wInner holds one vector per inner node.
func (pn *ProNet) UpdatePairHS(
	wVertex, wInner [][]float64,
	vertex, context int64,
	tree *HuffmanTree,
	alpha float64,
) {
	vertexEmb := wVertex[vertex]
	vertexGrad := make([]float64, len(vertexEmb))

	codes := tree.Codes[context]
	for d, point := range tree.Points[context] {
		inner := wInner[point]
		label := 1.0 - float64(codes[d])
		g := alpha * (label - pn.FastSigmoid(floats.Dot(vertexEmb, inner)))

		floats.AddScaled(vertexGrad, g, inner)
		floats.AddScaled(inner, g, vertexEmb)
	}

	floats.Add(vertexEmb, vertexGrad)
}

// sgdUpdate performs SGD update for a single pair
func (pn *ProNet) sgdUpdate(
	vertexEmb, contextEmb []float64,
	label, alpha float64,
	vertexGrad, contextGrad []float64,
) {
	pred := pn.FastSigmoid(floats.Dot(vertexEmb, contextEmb))
	grad := alpha * (label - pred)

	floats.AddScaled(vertexGrad, grad, contextEmb)
	floats.AddScaled(contextGrad, grad, vertexEmb)
}

// averageContext returns the mean of the context vectors.
func averageContext(wContext [][]float64, contexts []int64, dim int) []float64 {
	avg := make([]float64, dim)
	for _, ctx := range contexts {
		floats.Add(avg, wContext[ctx])
	}
	floats.Scale(1.0/float64(len(contexts)), avg)
	return avg
}

// UpdateCBOW updates embeddings using Continuous Bag of Words
func (pn *ProNet) UpdateCBOW(
	wVertex, wContext [][]float64,
	contexts []int64,
	target int64,
	dim, negativeSamples int,
	alpha float64,
	rng *rand.Rand,
) {
	if len(contexts) == 0 {
		return
	}

	avgContext := averageContext(wContext, contexts, dim)
	vertexGrad := make([]float64, dim)
	contextGrad := make([]float64, dim)

	// Positive sample
	pn.sgdUpdate(wVertex[target], avgContext, 1.0, alpha, vertexGrad, contextGrad)

	// Negative samples
	negGrad := make([]float64, dim)
	for i := 0; i < negativeSamples; i++ {
		negSample := pn.NegativeSample(rng)
		if negSample == target || negSample < 0 {
			continue
		}

		for d := range negGrad {
			negGrad[d] = 0
		}
		pn.sgdUpdate(wVertex[negSample], avgContext, 0.0, alpha, negGrad, contextGrad)
		floats.Add(wVertex[negSample], negGrad)
	}

	floats.Add(wVertex[target], vertexGrad)
	distributeContext(wContext, contexts, contextGrad)
}

// UpdateCBOWHS updates the averaged context to predict target through the
// hierarchical softmax tree.
func (pn *ProNet) UpdateCBOWHS(
	wContext, wInner [][]float64,
	contexts []int64,
	target int64,
	tree *HuffmanTree,
	dim int,
	alpha float64,
) {
	if len(contexts) == 0 {
		return
	}

	avgContext := averageContext(wContext, contexts, dim)
	contextGrad := make([]float64, dim)

	codes := tree.Codes[target]
	for d, point := range tree.Points[target] {
		inner := wInner[point]
		label := 1.0 - float64(codes[d])
		g := alpha * (label - pn.FastSigmoid(floats.Dot(avgContext, inner)))

		floats.AddScaled(contextGrad, g, inner)
		floats.AddScaled(inner, g, avgContext)
	}

	distributeContext(wContext, contexts, contextGrad)
}

// distributeContext spreads an averaged-context gradient back over contexts.
func distributeContext(wContext [][]float64, contexts []int64, grad []float64) {
	share := 1.0 / float64(len(contexts))
	for _, ctx := range contexts {
		floats.AddScaled(wContext[ctx], share, grad)
	}
}
