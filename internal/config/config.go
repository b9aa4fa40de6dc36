// Package config turns raw option values from defaults, an optional YAML
// file, the environment and command-line flags into a validated Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options holds raw, unvalidated option values. YAML keys use snake_case and
// flag names use the same words joined by dashes.
type Options struct {
	Format             string `yaml:"format"`
	Input              string `yaml:"input"`
	SFDPPath           string `yaml:"sfdp_path"`
	Model              string `yaml:"model"`
	MatVariable        string `yaml:"matfile_variable_name"`
	NumberWalks        int    `yaml:"number_walks"`
	Output             string `yaml:"output"`
	RepresentationSize int    `yaml:"representation_size"`
	WalkLength         int    `yaml:"walk_length"`
	WindowSize         int    `yaml:"window_size"`
	Workers            int    `yaml:"workers"`
}

// DefaultOptions returns the command-line defaults.
func DefaultOptions() Options {
	return Options{
		Format:             "mat",
		SFDPPath:           "./bin/sfdp_osx",
		Model:              "deepwalk",
		MatVariable:        "network",
		NumberWalks:        40,
		RepresentationSize: 128,
		WalkLength:         10,
		WindowSize:         10,
		Workers:            1,
	}
}

// Keys lists every option by its flag name.
var Keys = []string{
	"format",
	"input",
	"sfdp-path",
	"model",
	"matfile-variable-name",
	"number-walks",
	"output",
	"representation-size",
	"walk-length",
	"window-size",
	"workers",
}

// Set assigns the option named by its flag name from its string form.
func (o *Options) Set(key, value string) error {
	text := map[string]*string{
		"format":                &o.Format,
		"input":                 &o.Input,
		"sfdp-path":             &o.SFDPPath,
		"model":                 &o.Model,
		"matfile-variable-name": &o.MatVariable,
		"output":                &o.Output,
	}
	if dst, ok := text[key]; ok {
		*dst = value
		return nil
	}

	ints := map[string]*int{
		"number-walks":        &o.NumberWalks,
		"representation-size": &o.RepresentationSize,
		"walk-length":         &o.WalkLength,
		"window-size":         &o.WindowSize,
		"workers":             &o.Workers,
	}
	dst, ok := ints[key]
	if !ok {
		return &ConfigurationError{Field: key, Reason: "unknown option"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return &ConfigurationError{Field: key, Reason: fmt.Sprintf("invalid integer %q", value)}
	}
	*dst = n
	return nil
}

// LoadFile overlays the YAML document at path onto o. Keys absent from the
// document keep their current values; unknown keys are rejected.
func LoadFile(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return Decode(bytes.NewReader(data), o)
}

// Decode overlays a YAML document read from r onto o.
func Decode(r io.Reader, o *Options) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigurationError{Field: "config", Reason: err.Error()}
	}
	return nil
}
