package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or malformed option.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Config is the validated configuration of a run. It is passed by value and
// never changed after Resolve.
type Config struct {
	Input              string
	Format             string
	Output             string
	Model              string
	SFDPPath           string
	MatVariable        string
	NumberWalks        int
	WalkLength         int
	WindowSize         int
	RepresentationSize int
	// Workers is the raw request; -1 asks for every CPU.
	Workers int
}

// Resolve validates o. Format and model names are checked against their
// closed sets by the stages that own them; the worker count is resolved
// against the host later.
func Resolve(o Options) (Config, error) {
	cfg := Config{
		Input:              strings.TrimSpace(o.Input),
		Format:             strings.TrimSpace(o.Format),
		Output:             strings.TrimSpace(o.Output),
		Model:              strings.TrimSpace(o.Model),
		SFDPPath:           o.SFDPPath,
		MatVariable:        o.MatVariable,
		NumberWalks:        o.NumberWalks,
		WalkLength:         o.WalkLength,
		WindowSize:         o.WindowSize,
		RepresentationSize: o.RepresentationSize,
		Workers:            o.Workers,
	}

	required := []struct {
		field, value string
	}{
		{"input", cfg.Input},
		{"output", cfg.Output},
		{"format", cfg.Format},
		{"model", cfg.Model},
		{"matfile-variable-name", cfg.MatVariable},
	}
	for _, r := range required {
		if r.value == "" {
			return Config{}, &ConfigurationError{Field: r.field, Reason: "required"}
		}
	}

	positive := []struct {
		field string
		value int
	}{
		{"number-walks", cfg.NumberWalks},
		{"walk-length", cfg.WalkLength},
		{"window-size", cfg.WindowSize},
		{"representation-size", cfg.RepresentationSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return Config{}, &ConfigurationError{Field: p.field, Reason: fmt.Sprintf("must be a positive integer, got %d", p.value)}
		}
	}

	return cfg, nil
}
