// This file provides the SampleSet type in which all solvers and
// composites report their results.

package composites

import "sort"

// A SampleSet represents a solver's output: an ordered sequence of
// candidate solutions, each annotated with its energy under the problem
// it was drawn from and a tally of how many reads produced it.  The
// three slices always have equal length.  Components that transform a
// SampleSet return a new one and never modify their input in place.
type SampleSet struct {
	Solutions   [][]int8  // Solutions found (±1 or 0/1, with Unused for absent variables)
	Energies    []float64 // Energy of each solution
	Occurrences []int     // Tally of occurrences of each solution
}

// Len returns the number of samples in a SampleSet.
func (ss SampleSet) Len() int {
	return len(ss.Solutions)
}

// Copy returns a deep copy of a SampleSet.
func (ss SampleSet) Copy() SampleSet {
	cp := SampleSet{
		Solutions:   make([][]int8, len(ss.Solutions)),
		Energies:    make([]float64, len(ss.Energies)),
		Occurrences: make([]int, len(ss.Occurrences)),
	}
	for i, s := range ss.Solutions {
		cp.Solutions[i] = make([]int8, len(s))
		copy(cp.Solutions[i], s)
	}
	copy(cp.Energies, ss.Energies)
	copy(cp.Occurrences, ss.Occurrences)
	return cp
}

// appendSample appends one solution to a SampleSet, taking ownership of
// the solution slice.
func (ss *SampleSet) appendSample(soln []int8, energy float64, occurrences int) {
	ss.Solutions = append(ss.Solutions, soln)
	ss.Energies = append(ss.Energies, energy)
	ss.Occurrences = append(ss.Occurrences, occurrences)
}

// SortByEnergy returns a copy of a SampleSet ordered by ascending
// energy.  The sort is stable: samples of equal energy keep their
// original relative order.
func (ss SampleSet) SortByEnergy() SampleSet {
	cp := ss.Copy()
	idx := make([]int, cp.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return cp.Energies[idx[i]] < cp.Energies[idx[j]]
	})
	out := SampleSet{
		Solutions:   make([][]int8, cp.Len()),
		Energies:    make([]float64, cp.Len()),
		Occurrences: make([]int, cp.Len()),
	}
	for i, k := range idx {
		out.Solutions[i] = cp.Solutions[k]
		out.Energies[i] = cp.Energies[k]
		out.Occurrences[i] = cp.Occurrences[k]
	}
	return out
}

// Aggregate returns a copy of a SampleSet in which identical solutions
// have been merged by summing their occurrence tallies.  The first
// appearance of each solution determines its position in the result.
// This is the histogram answer mode; raw mode skips aggregation.
func (ss SampleSet) Aggregate() SampleSet {
	var out SampleSet
	index := make(map[string]int, ss.Len())
	for i, s := range ss.Solutions {
		key := string(solutionKey(s))
		if at, seen := index[key]; seen {
			out.Occurrences[at] += ss.Occurrences[i]
			continue
		}
		index[key] = out.Len()
		soln := make([]int8, len(s))
		copy(soln, s)
		out.appendSample(soln, ss.Energies[i], ss.Occurrences[i])
	}
	return out
}

// solutionKey encodes a solution as a byte string usable as a map key.
func solutionKey(s []int8) []byte {
	k := make([]byte, len(s))
	for i, v := range s {
		k[i] = byte(v)
	}
	return k
}
