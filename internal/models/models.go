// Package models maps every supported embedding model to its fixed
// hyperparameter bundle and runs the embedding backend with it.
package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cnclabs/harp/internal/coarsening"
)

// Model names an embedding model.
type Model string

const (
	// DeepWalk trains on truncated uniform random walks.
	DeepWalk Model = "deepwalk"
	// Node2Vec trains on second-order biased random walks.
	Node2Vec Model = "node2vec"
	// LINE trains on edges sampled by weight.
	LINE Model = "line"
)

// Models lists the supported models.
var Models = []Model{DeepWalk, Node2Vec, LINE}

// UnknownModelError reports a model name outside Models.
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	valid := make([]string, len(Models))
	for i, m := range Models {
		valid[i] = string(m)
	}
	return fmt.Sprintf("unknown model %q: valid options are %s", e.Name, strings.Join(valid, ", "))
}

// Parse returns the Model named name.
func Parse(name string) (Model, error) {
	if _, ok := bundles[Model(name)]; !ok {
		return "", &UnknownModelError{Name: name}
	}
	return Model(name), nil
}

// Bundle is the fixed set of training hyperparameters of a model.
type Bundle struct {
	// Scale is 1 to L2-normalize the output rows and -1 to leave them.
	Scale            int     `yaml:"scale"`
	IterCount        int     `yaml:"iter_count"`
	LRScheme         string  `yaml:"lr_scheme"`
	Alpha            float64 `yaml:"alpha"`
	MinAlpha         float64 `yaml:"min_alpha"`
	SG               bool    `yaml:"sg"`
	HS               bool    `yaml:"hs"`
	Negative         int     `yaml:"negative"`
	CoarseningScheme int     `yaml:"coarsening_scheme"`
	Sample           float64 `yaml:"sample"`
	// WindowSize overrides the configured window when positive.
	WindowSize int               `yaml:"window_size"`
	Corpus     coarsening.Corpus `yaml:"corpus"`
	P          float64           `yaml:"p,omitempty"`
	Q          float64           `yaml:"q,omitempty"`
}

var bundles = map[Model]Bundle{
	DeepWalk: deepWalk,
	Node2Vec: node2Vec,
	LINE:     line,
}

// Lookup returns a copy of the bundle of m.
func Lookup(m Model) (Bundle, error) {
	b, ok := bundles[m]
	if !ok {
		return Bundle{}, &UnknownModelError{Name: string(m)}
	}
	return b, nil
}

// YAML renders the bundle as a YAML document.
func (b Bundle) YAML() ([]byte, error) {
	return yaml.Marshal(b)
}
