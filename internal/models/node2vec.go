package models

import "github.com/cnclabs/harp/internal/coarsening"

// node2Vec trains skip-gram with negative sampling on walks with return and
// in-out parameters of 1.
var node2Vec = Bundle{
	Scale:            -1,
	IterCount:        1,
	LRScheme:         coarsening.LRSchemeDefault,
	Alpha:            0.025,
	MinAlpha:         0.001,
	SG:               true,
	HS:               false,
	Negative:         5,
	CoarseningScheme: coarsening.SchemeStarEdge,
	Sample:           0.1,
	Corpus:           coarsening.Walks,
	P:                1,
	Q:                1,
}
