package coarsening

import "fmt"

// Corpus selects how training sentences are generated on every level.
type Corpus int

const (
	// Walks generates NumPaths truncated random walks per vertex.
	Walks Corpus = iota
	// Edges emits every arc as a two-vertex sentence.
	Edges
)

func (c Corpus) String() string {
	switch c {
	case Walks:
		return "walks"
	case Edges:
		return "edges"
	}
	return fmt.Sprintf("Corpus(%d)", int(c))
}

// MarshalText encodes the corpus by name.
func (c Corpus) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Coarsening schemes.
const (
	SchemeUnset    = 0
	SchemeExternal = 1
	SchemeStarEdge = 2
	SchemeEdge     = 3
)

// LRSchemeDefault decays the learning rate linearly from Alpha to MinAlpha.
const LRSchemeDefault = "default"

// Params is the full argument bundle of one embedding run.
type Params struct {
	Workers int
	// Output is the output path stem used to name intermediate artifacts.
	Output   string
	SFDPPath string

	NumPaths           int
	PathLength         int
	RepresentationSize int
	WindowSize         int

	Scale            int
	IterCount        int
	LRScheme         string
	Alpha            float64
	MinAlpha         float64
	SG               bool
	HS               bool
	Negative         int
	CoarseningScheme int
	Sample           float64

	Corpus Corpus
	// P and Q bias walks as in node2vec; zero means 1.
	P float64
	Q float64
}

// Validate checks the values the trainer cannot run without.
func (p Params) Validate() error {
	switch {
	case p.RepresentationSize <= 0:
		return fmt.Errorf("coarsening: representation size must be positive, got %d", p.RepresentationSize)
	case p.WindowSize <= 0:
		return fmt.Errorf("coarsening: window size must be positive, got %d", p.WindowSize)
	case p.IterCount <= 0:
		return fmt.Errorf("coarsening: iteration count must be positive, got %d", p.IterCount)
	case p.Corpus == Walks && (p.NumPaths <= 0 || p.PathLength <= 0):
		return fmt.Errorf("coarsening: walks need positive count and length, got %d x %d", p.NumPaths, p.PathLength)
	case p.LRScheme != LRSchemeDefault:
		return fmt.Errorf("coarsening: unsupported learning rate scheme %q", p.LRScheme)
	case p.Alpha <= 0 || p.MinAlpha < 0 || p.MinAlpha > p.Alpha:
		return fmt.Errorf("coarsening: invalid learning rate range %g..%g", p.Alpha, p.MinAlpha)
	case !p.HS && p.Negative <= 0:
		return fmt.Errorf("coarsening: negative sampling needs a positive sample count")
	case p.Sample < 0:
		return fmt.Errorf("coarsening: subsampling rate must not be negative, got %g", p.Sample)
	case p.Scale != -1 && p.Scale != 1:
		return fmt.Errorf("coarsening: scale must be -1 or 1, got %d", p.Scale)
	}

	switch p.scheme() {
	case SchemeExternal, SchemeStarEdge, SchemeEdge:
	default:
		return fmt.Errorf("coarsening: unknown coarsening scheme %d", p.CoarseningScheme)
	}
	return nil
}

func (p Params) scheme() int {
	if p.CoarseningScheme == SchemeUnset {
		return SchemeStarEdge
	}
	return p.CoarseningScheme
}

func (p Params) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func (p Params) bias() (float64, float64) {
	bp, bq := p.P, p.Q
	if bp == 0 {
		bp = 1
	}
	if bq == 0 {
		bq = 1
	}
	return bp, bq
}
