package models

import "github.com/cnclabs/harp/internal/coarsening"

// line trains on single edges with a window of one and normalized output.
var line = Bundle{
	Scale:            1,
	IterCount:        50,
	LRScheme:         coarsening.LRSchemeDefault,
	Alpha:            0.025,
	MinAlpha:         0.001,
	SG:               true,
	HS:               false,
	Negative:         5,
	CoarseningScheme: coarsening.SchemeUnset,
	Sample:           0.001,
	WindowSize:       1,
	Corpus:           coarsening.Edges,
}
