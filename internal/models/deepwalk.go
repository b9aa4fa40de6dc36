package models

import "github.com/cnclabs/harp/internal/coarsening"

// deepWalk trains skip-gram with hierarchical softmax on uniform walks.
var deepWalk = Bundle{
	Scale:            -1,
	IterCount:        1,
	LRScheme:         coarsening.LRSchemeDefault,
	Alpha:            0.025,
	MinAlpha:         0.001,
	SG:               true,
	HS:               true,
	Negative:         0,
	CoarseningScheme: coarsening.SchemeStarEdge,
	Sample:           0.1,
	Corpus:           coarsening.Walks,
}
