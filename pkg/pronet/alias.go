package pronet

import (
	"math"
	"math/rand"
)

// BuildAliasMethod builds an alias table for O(1) weighted sampling over
// distribution raised to power (Vose's alias method). Non-positive entries
// get zero probability; an all-zero distribution samples uniformly.
func BuildAliasMethod(distribution []float64, power float64) []AliasTable {
	if len(distribution) == 0 {
		return nil
	}

	table := make([]AliasTable, len(distribution))
	scaled, ok := scaleToMean(distribution, power)
	if !ok {
		for i := range table {
			table[i] = AliasTable{Prob: 1, Alias: int64(i)}
		}
		return table
	}

	// Split slots into underfull and overfull stacks, then pair them off.
	var under, over []int
	for i, p := range scaled {
		if p < 1 {
			under = append(under, i)
		} else {
			over = append(over, i)
		}
	}

	for len(under) > 0 && len(over) > 0 {
		u := under[len(under)-1]
		under = under[:len(under)-1]
		o := over[len(over)-1]
		over = over[:len(over)-1]

		table[u] = AliasTable{Prob: scaled[u], Alias: int64(o)}

		// o donates the rest of u's slot.
		scaled[o] -= 1 - scaled[u]
		if scaled[o] < 1 {
			under = append(under, o)
		} else {
			over = append(over, o)
		}
	}

	// Whatever remains is full up to rounding error.
	for _, stack := range [][]int{over, under} {
		for _, i := range stack {
			table[i] = AliasTable{Prob: 1, Alias: int64(i)}
		}
	}
	return table
}

// scaleToMean raises the positive entries of distribution to power and
// rescales them to average 1. It reports false when nothing is positive.
func scaleToMean(distribution []float64, power float64) ([]float64, bool) {
	scaled := make([]float64, len(distribution))
	var sum float64
	for i, w := range distribution {
		if w > 0 {
			scaled[i] = math.Pow(w, power)
			sum += scaled[i]
		}
	}
	if sum == 0 {
		return nil, false
	}

	n := float64(len(scaled))
	for i := range scaled {
		scaled[i] *= n / sum
	}
	return scaled, true
}

// AliasSample draws an index from aliasTable, or -1 when it is empty.
func AliasSample(aliasTable []AliasTable, rng *rand.Rand) int64 {
	if len(aliasTable) == 0 {
		return -1
	}

	i := rng.Intn(len(aliasTable))
	if rng.Float64() < aliasTable[i].Prob {
		return int64(i)
	}
	return aliasTable[i].Alias
}
