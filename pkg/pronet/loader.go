package pronet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadEdgeList loads the network from an edge list file. Each line holds
// "<from> <to> [weight]"; a missing weight defaults to 1. Blank lines and
// lines starting with '#' or '%' are skipped.
func (pn *ProNet) LoadEdgeList(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	if err := pn.ReadEdgeList(file); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// ReadEdgeList reads edge list records from r and builds the graph.
func (pn *ProNet) ReadEdgeList(r io.Reader) error {
	err := scanRecords(r, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return fmt.Errorf("line %d: expected at least 2 fields, got %d", lineNo, len(fields))
		}

		weight := 1.0
		if len(fields) >= 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return fmt.Errorf("line %d: invalid weight %q", lineNo, fields[2])
			}
			weight = w
		}

		vid1 := pn.AddVertex(fields[0])
		vid2 := pn.AddVertex(fields[1])
		if err := pn.AddEdge(vid1, vid2, weight); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	pn.Build()
	return nil
}

// LoadAdjacencyList loads the network from an adjacency list file. Each line
// holds "<vertex> <neighbor> <neighbor> ..."; every edge has weight 1.
func (pn *ProNet) LoadAdjacencyList(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	if err := pn.ReadAdjacencyList(file); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// ReadAdjacencyList reads adjacency list records from r and builds the graph.
func (pn *ProNet) ReadAdjacencyList(r io.Reader) error {
	err := scanRecords(r, func(_ int, fields []string) error {
		vid := pn.AddVertex(fields[0])
		for _, name := range fields[1:] {
			if err := pn.AddEdge(vid, pn.AddVertex(name), 1.0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	pn.Build()
	return nil
}

// scanRecords calls fn with the line number and whitespace separated fields
// of every non-empty, non-comment line.
func scanRecords(r io.Reader, fn func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}
		if err := fn(lineNo, strings.Fields(line)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	return nil
}
