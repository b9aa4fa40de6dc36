package coarsening

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/cnclabs/harp/pkg/pronet"
)

// externalHierarchy coarsens g with the external layout binary. The graph is
// written as a Matrix Market file next to the output stem and the binary
// prints one "<level> <fine> <coarse>" prolongation entry per line.
func externalHierarchy(g *pronet.ProNet, sfdpPath, stem string) ([]Level, error) {
	input := stem + ".coarsen.mtx"
	if err := writeMatrixMarket(input, g); err != nil {
		return nil, err
	}
	defer os.Remove(input)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(sfdpPath, "-g1", "-v", "-u", "-Tc", input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("coarsening: %s: %w: %s", sfdpPath, err, strings.TrimSpace(stderr.String()))
	}

	maps, err := parseProlongation(&stdout, g.NumVertices())
	if err != nil {
		return nil, fmt.Errorf("coarsening: %s output: %w", sfdpPath, err)
	}

	levels := []Level{{Graph: g}}
	for _, m := range maps {
		cur := levels[len(levels)-1].Graph
		size := int64(0)
		for _, c := range m {
			if c+1 > size {
				size = c + 1
			}
		}
		coarse, err := contract(cur, m, size)
		if err != nil {
			return nil, err
		}
		levels[len(levels)-1].Parent = m
		levels = append(levels, Level{Graph: coarse})
	}
	return levels, nil
}

// parseProlongation reads prolongation entries into one mapping per level.
// Level 0 covers n vertices and every following level covers the
// super-vertices produced by the one before.
func parseProlongation(r io.Reader, n int) ([][]int64, error) {
	entries := make(map[int]map[int64]int64)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		var nums [3]int64
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("line %d: invalid number %q", lineNo, f)
			}
			nums[i] = v
		}
		level := int(nums[0])
		if entries[level] == nil {
			entries[level] = make(map[int64]int64)
		}
		entries[level][nums[1]] = nums[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	levels := make([]int, 0, len(entries))
	for l := range entries {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var maps [][]int64
	size := int64(n)
	for i, l := range levels {
		if l != i {
			return nil, fmt.Errorf("missing level %d", i)
		}
		m := make([]int64, size)
		next := int64(0)
		for fine := int64(0); fine < size; fine++ {
			coarse, ok := entries[l][fine]
			if !ok {
				return nil, fmt.Errorf("level %d: vertex %d has no super-vertex", l, fine)
			}
			m[fine] = coarse
			if coarse+1 > next {
				next = coarse + 1
			}
		}
		if len(entries[l]) != int(size) {
			return nil, fmt.Errorf("level %d: %d entries for %d vertices", l, len(entries[l]), size)
		}
		maps = append(maps, m)
		size = next
	}
	return maps, nil
}

// writeMatrixMarket writes g as a 1-based coordinate Matrix Market file.
func writeMatrixMarket(path string, g *pronet.ProNet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("coarsening: %w", err)
	}

	w := bufio.NewWriter(f)
	w.WriteString("%%MatrixMarket matrix coordinate real general\n")
	fmt.Fprintf(w, "%d %d %d\n", g.NumVertices(), g.NumVertices(), g.NumArcs())
	for vid, neighbors := range g.Graph {
		for i, nid := range neighbors {
			fmt.Fprintf(w, "%d %d %g\n", vid+1, nid+1, g.EdgeWeights[vid][i])
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("coarsening: %w", err)
	}
	return f.Close()
}
