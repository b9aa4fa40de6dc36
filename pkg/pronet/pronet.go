package pronet

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	Monitor          = 10000
	PowerSample      = 0.75
	SigmoidTableSize = 1000
	MaxSigmoid       = 8.0
)

// Vertex holds the weighted degrees of a vertex
type Vertex struct {
	OutDegree float64
	InDegree  float64
}

// AliasTable for efficient weighted sampling
type AliasTable struct {
	Alias int64
	Prob  float64
}

// ProNet is a weighted directed graph whose vertices carry contiguous ids
// in [0, MaxVid). Undirected graphs store every edge as two arcs.
type ProNet struct {
	Vertices   []Vertex
	VertexAT   []AliasTable
	NegativeAT []AliasTable

	// Hash tables for vertex name mapping
	VertexHash map[string]int64
	VertexKeys []string

	// Cached sigmoid table for performance
	CachedSigmoid []float64

	// Adjacency lists indexed by vertex id, sorted by neighbor id
	Graph       [][]int64
	EdgeWeights [][]float64

	// Statistics
	MaxVid  int64
	MaxLine int64

	Undirected bool

	pending map[arc]float64
	order   []arc
	built   bool
}

type arc struct {
	from, to int64
}

// NewProNet creates an empty graph.
func NewProNet(undirected bool) *ProNet {
	pn := &ProNet{
		VertexHash:    make(map[string]int64),
		VertexKeys:    make([]string, 0),
		CachedSigmoid: make([]float64, SigmoidTableSize+1),
		Undirected:    undirected,
		pending:       make(map[arc]float64),
	}
	pn.initSigmoid()
	return pn
}

// initSigmoid initializes the sigmoid lookup table
func (pn *ProNet) initSigmoid() {
	for i := 0; i <= SigmoidTableSize; i++ {
		x := float64(i)*2.0*MaxSigmoid/float64(SigmoidTableSize) - MaxSigmoid
		pn.CachedSigmoid[i] = 1.0 / (1.0 + math.Exp(-x))
	}
}

// FastSigmoid returns sigmoid using lookup table for performance
func (pn *ProNet) FastSigmoid(x float64) float64 {
	if x < -MaxSigmoid {
		return 0.0
	} else if x > MaxSigmoid {
		return 1.0
	}
	idx := int((x + MaxSigmoid) * float64(SigmoidTableSize) / MaxSigmoid / 2.0)
	if idx >= len(pn.CachedSigmoid) {
		idx = len(pn.CachedSigmoid) - 1
	}
	return pn.CachedSigmoid[idx]
}

// AddVertex returns the id of the named vertex, assigning the next free id
// when the name is new.
func (pn *ProNet) AddVertex(name string) int64 {
	if vid, exists := pn.VertexHash[name]; exists {
		return vid
	}

	vid := int64(len(pn.VertexKeys))
	pn.VertexHash[name] = vid
	pn.VertexKeys = append(pn.VertexKeys, name)
	pn.MaxVid = vid + 1

	return vid
}

// AddArc records a single directed arc. Self loops are dropped and a
// repeated arc keeps the weight it was first added with.
func (pn *ProNet) AddArc(from, to int64, weight float64) error {
	if pn.built {
		return fmt.Errorf("pronet: graph already built")
	}
	if from < 0 || from >= pn.MaxVid || to < 0 || to >= pn.MaxVid {
		return fmt.Errorf("pronet: arc %d->%d outside vertex range [0,%d)", from, to, pn.MaxVid)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("pronet: arc %d->%d has invalid weight %v", from, to, weight)
	}
	if from == to || weight == 0 {
		return nil
	}
	a := arc{from, to}
	if _, exists := pn.pending[a]; exists {
		return nil
	}
	pn.pending[a] = weight
	pn.order = append(pn.order, a)
	return nil
}

// AddEdge records an edge, mirrored when the graph is undirected.
func (pn *ProNet) AddEdge(from, to int64, weight float64) error {
	if err := pn.AddArc(from, to, weight); err != nil {
		return err
	}
	if pn.Undirected {
		return pn.AddArc(to, from, weight)
	}
	return nil
}

// Build freezes the graph: adjacency lists are sorted, degrees computed and
// the sampling tables prepared. No arcs can be added afterwards.
func (pn *ProNet) Build() {
	if pn.built {
		return
	}
	pn.Graph = make([][]int64, pn.MaxVid)
	pn.EdgeWeights = make([][]float64, pn.MaxVid)
	for _, a := range pn.order {
		pn.Graph[a.from] = append(pn.Graph[a.from], a.to)
		pn.EdgeWeights[a.from] = append(pn.EdgeWeights[a.from], pn.pending[a])
	}
	for vid := range pn.Graph {
		sort.Sort(byNeighbor{pn.Graph[vid], pn.EdgeWeights[vid]})
	}
	pn.MaxLine = int64(len(pn.order))
	pn.pending = nil
	pn.order = nil
	pn.built = true

	// Calculate degrees
	pn.Vertices = make([]Vertex, pn.MaxVid)
	for vid := int64(0); vid < pn.MaxVid; vid++ {
		for i, nid := range pn.Graph[vid] {
			w := pn.EdgeWeights[vid][i]
			pn.Vertices[vid].OutDegree += w
			pn.Vertices[nid].InDegree += w
		}
	}

	pn.buildVertexAliasTable()
	pn.buildNegativeAliasTable()
}

type byNeighbor struct {
	ids     []int64
	weights []float64
}

func (b byNeighbor) Len() int           { return len(b.ids) }
func (b byNeighbor) Less(i, j int) bool { return b.ids[i] < b.ids[j] }
func (b byNeighbor) Swap(i, j int) {
	b.ids[i], b.ids[j] = b.ids[j], b.ids[i]
	b.weights[i], b.weights[j] = b.weights[j], b.weights[i]
}

// buildVertexAliasTable builds alias table for vertex sampling
func (pn *ProNet) buildVertexAliasTable() {
	distribution := make([]float64, pn.MaxVid)
	for i := int64(0); i < pn.MaxVid; i++ {
		distribution[i] = pn.Vertices[i].OutDegree
	}
	pn.VertexAT = BuildAliasMethod(distribution, 1.0)
}

// buildNegativeAliasTable builds alias table for negative sampling
func (pn *ProNet) buildNegativeAliasTable() {
	distribution := make([]float64, pn.MaxVid)
	for i := int64(0); i < pn.MaxVid; i++ {
		distribution[i] = pn.Vertices[i].InDegree + pn.Vertices[i].OutDegree
	}
	pn.NegativeAT = BuildAliasMethod(distribution, PowerSample)
}

// NumVertices reports the number of vertices.
func (pn *ProNet) NumVertices() int {
	return int(pn.MaxVid)
}

// NumArcs reports the number of stored directed arcs.
func (pn *ProNet) NumArcs() int {
	if !pn.built {
		return len(pn.order)
	}
	return int(pn.MaxLine)
}

// NumEdges reports the number of edges; an undirected edge counts once.
func (pn *ProNet) NumEdges() int {
	if pn.Undirected {
		return pn.NumArcs() / 2
	}
	return pn.NumArcs()
}

// Degree returns the number of out-neighbors of vid.
func (pn *ProNet) Degree(vid int64) int {
	return len(pn.Graph[vid])
}

// HasArc reports whether from->to exists.
func (pn *ProNet) HasArc(from, to int64) bool {
	neighbors := pn.Graph[from]
	i := sort.Search(len(neighbors), func(i int) bool { return neighbors[i] >= to })
	return i < len(neighbors) && neighbors[i] == to
}

// SourceSample samples a source vertex
func (pn *ProNet) SourceSample(rng *rand.Rand) int64 {
	return AliasSample(pn.VertexAT, rng)
}

// TargetSample samples a target vertex from a source vertex's neighbors
func (pn *ProNet) TargetSample(vid int64, rng *rand.Rand) int64 {
	neighbors := pn.Graph[vid]
	if len(neighbors) == 0 {
		return -1
	}

	weights := pn.EdgeWeights[vid]

	// Weighted sampling
	totalWeight := 0.0
	for _, w := range weights {
		totalWeight += w
	}

	r := rng.Float64() * totalWeight
	cumWeight := 0.0
	for i, w := range weights {
		cumWeight += w
		if r <= cumWeight {
			return neighbors[i]
		}
	}

	return neighbors[len(neighbors)-1]
}

// NegativeSample samples a negative vertex
func (pn *ProNet) NegativeSample(rng *rand.Rand) int64 {
	return AliasSample(pn.NegativeAT, rng)
}

// GetVertexName returns the name of a vertex by ID
func (pn *ProNet) GetVertexName(vid int64) string {
	if vid < 0 || vid >= int64(len(pn.VertexKeys)) {
		return ""
	}
	return pn.VertexKeys[vid]
}
