package coarsening

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/cnclabs/harp/pkg/pronet"
)

// trainer learns the embeddings of a single hierarchy level.
type trainer struct {
	pnet     *pronet.ProNet
	p        Params
	dim      int
	wVertex  [][]float64
	wContext [][]float64
	wInner   [][]float64
	tree     *pronet.HuffmanTree
	out      io.Writer
	outMu    *sync.Mutex
}

func newTrainer(g *pronet.ProNet, p Params, out io.Writer, outMu *sync.Mutex, rng *rand.Rand) *trainer {
	t := &trainer{
		pnet:  g,
		p:     p,
		dim:   p.RepresentationSize,
		out:   out,
		outMu: outMu,
	}

	maxVid := g.MaxVid
	t.wVertex = make([][]float64, maxVid)
	t.wContext = make([][]float64, maxVid)
	for vid := int64(0); vid < maxVid; vid++ {
		t.wVertex[vid] = make([]float64, t.dim)
		t.wContext[vid] = make([]float64, t.dim)
		for d := 0; d < t.dim; d++ {
			t.wVertex[vid][d] = (rng.Float64() - 0.5) / float64(t.dim)
			t.wContext[vid][d] = (rng.Float64() - 0.5) / float64(t.dim)
		}
	}
	return t
}

// prolong initializes every vertex from its super-vertex in coarse.
func (t *trainer) prolong(coarse *trainer, parent []int64) {
	for vid := range t.wVertex {
		copy(t.wVertex[vid], coarse.wVertex[parent[vid]])
		copy(t.wContext[vid], coarse.wContext[parent[vid]])
	}
}

// corpus generates the training sentences of this level.
func (t *trainer) corpus(rng *rand.Rand) [][]int64 {
	var sentences [][]int64

	if t.p.Corpus == Edges {
		// One epoch draws as many arcs as the level has, each with
		// probability proportional to its weight.
		for i := 0; i < t.pnet.NumArcs(); i++ {
			source := t.pnet.SourceSample(rng)
			target := t.pnet.TargetSample(source, rng)
			if target < 0 {
				continue
			}
			sentences = append(sentences, []int64{source, target})
		}
		return sentences
	}

	bp, bq := t.p.bias()
	unbiased := bp == 1 && bq == 1
	steps := t.p.PathLength - 1
	for path := 0; path < t.p.NumPaths; path++ {
		for _, vid := range rng.Perm(int(t.pnet.MaxVid)) {
			if unbiased {
				sentences = append(sentences, t.pnet.RandomWalk(int64(vid), steps, rng))
			} else {
				sentences = append(sentences, t.pnet.BiasedRandomWalk(int64(vid), steps, bp, bq, rng))
			}
		}
	}
	return sentences
}

// keepProbabilities returns the word2vec downsampling keep probability of
// every vertex given its corpus frequency.
func keepProbabilities(counts []int64, sample float64) []float64 {
	keep := make([]float64, len(counts))
	total := int64(0)
	for _, c := range counts {
		total += c
	}

	threshold := sample * float64(total)
	for vid, c := range counts {
		if sample <= 0 || c == 0 {
			keep[vid] = 1
			continue
		}
		f := float64(c)
		keep[vid] = math.Min(1, (math.Sqrt(f/threshold)+1)*threshold/f)
	}
	return keep
}

func subsample(sentence []int64, keep []float64, rng *rand.Rand) []int64 {
	kept := make([]int64, 0, len(sentence))
	for _, vid := range sentence {
		if keep[vid] >= 1 || rng.Float64() < keep[vid] {
			kept = append(kept, vid)
		}
	}
	return kept
}

func (t *trainer) alpha(done, total int64) float64 {
	a := t.p.Alpha - (t.p.Alpha-t.p.MinAlpha)*float64(done)/float64(total)
	if a < t.p.MinAlpha {
		a = t.p.MinAlpha
	}
	return a
}

func (t *trainer) printf(format string, args ...interface{}) {
	t.outMu.Lock()
	fmt.Fprintf(t.out, format, args...)
	t.outMu.Unlock()
}

// train runs IterCount epochs over a fresh corpus with the configured number
// of workers. Workers update the shared weights without locking.
func (t *trainer) train(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	sentences := t.corpus(rng)

	counts := make([]int64, t.pnet.MaxVid)
	for _, sentence := range sentences {
		for _, vid := range sentence {
			counts[vid]++
		}
	}
	if t.p.HS {
		for vid := range counts {
			if counts[vid] == 0 {
				counts[vid] = 1
			}
		}
		t.tree = pronet.BuildHuffmanTree(counts)
		t.wInner = make([][]float64, t.tree.InnerNodes())
		for i := range t.wInner {
			t.wInner[i] = make([]float64, t.dim)
		}
	}
	keep := keepProbabilities(counts, t.p.Sample)

	total := int64(t.p.IterCount) * int64(len(sentences))
	if total == 0 {
		return
	}

	workers := t.p.workers()
	chunkSize := (len(sentences) + workers - 1) / workers
	count := int64(0)

	for iter := 0; iter < t.p.IterCount; iter++ {
		var wg sync.WaitGroup

		for w := 0; w < workers; w++ {
			start := w * chunkSize
			end := start + chunkSize
			if end > len(sentences) {
				end = len(sentences)
			}
			if start >= end {
				continue
			}

			wg.Add(1)
			// Each worker has its own RNG for thread safety
			workerRng := rand.New(rand.NewSource(seed + int64(iter*workers+w) + 1))

			go func(start, end int, rng *rand.Rand) {
				defer wg.Done()

				for _, sentence := range sentences[start:end] {
					done := atomic.AddInt64(&count, 1)
					alpha := t.alpha(done, total)
					t.trainSentence(subsample(sentence, keep, rng), alpha, rng)

					if done%pronet.Monitor == 0 {
						t.printf("\tAlpha: %.6f\tProgress: %.3f %%\r", alpha, float64(done)/float64(total)*100)
					}
				}
			}(start, end, workerRng)
		}

		wg.Wait()
	}

	t.printf("\tAlpha: %.6f\tProgress: 100.00 %%\n", t.alpha(total, total))
}

func (t *trainer) trainSentence(sentence []int64, alpha float64, rng *rand.Rand) {
	if t.p.SG && !t.p.HS {
		vertices, contexts := t.pnet.SkipGrams(sentence, t.p.WindowSize)
		t.pnet.UpdatePairs(t.wVertex, t.wContext, vertices, contexts, t.dim, t.p.Negative, alpha, rng)
		return
	}

	for i, vid := range sentence {
		ctx := pronet.Window(sentence, i, t.p.WindowSize)
		if len(ctx) == 0 {
			continue
		}

		switch {
		case t.p.SG:
			for _, c := range ctx {
				t.pnet.UpdatePairHS(t.wVertex, t.wInner, vid, c, t.tree, alpha)
			}
		case t.p.HS:
			t.pnet.UpdateCBOWHS(t.wVertex, t.wInner, ctx, vid, t.tree, t.dim, alpha)
		default:
			t.pnet.UpdateCBOW(t.wContext, t.wVertex, ctx, vid, t.dim, t.p.Negative, alpha, rng)
		}
	}
}
