// This file provides sample-set truncation: reducing a SampleSet to its
// best few entries.

package composites

import "github.com/pkg/errors"

// Truncate returns a new SampleSet containing at most n samples.  When
// sortedByEnergy is true the input is first stably sorted by ascending
// energy, so ties keep their original order and every retained energy
// is less than or equal to every discarded one; when false the first n
// samples are kept in their original order.  A negative n fails with an
// ErrInvalidCount error; an n of at least Len() returns the full set.
// The receiver is never modified.
func (ss SampleSet) Truncate(n int, sortedByEnergy bool) (SampleSet, error) {
	if n < 0 {
		return SampleSet{}, newErrorf(ErrInvalidCount, "Cannot truncate to %d samples", n)
	}
	work := ss.Copy()
	if sortedByEnergy {
		work = ss.SortByEnergy()
	}
	if n >= work.Len() {
		return work, nil
	}
	return SampleSet{
		Solutions:   work.Solutions[:n],
		Energies:    work.Energies[:n],
		Occurrences: work.Occurrences[:n],
	}, nil
}

// A TruncateComposite reduces the inner sampler's output to at most N
// samples.
type TruncateComposite struct {
	Sampler        Sampler // Inner sampler
	N              int     // Maximum number of samples to return
	SortedByEnergy bool    // Keep the lowest-energy samples rather than the first N
}

// NewTruncateComposite wraps a sampler in a truncation step that keeps
// the n lowest-energy samples.  It fails with an ErrInvalidCount error
// if n is negative.
func NewTruncateComposite(inner Sampler, n int) (*TruncateComposite, error) {
	if n < 0 {
		return nil, newErrorf(ErrInvalidCount, "Cannot truncate to %d samples", n)
	}
	return &TruncateComposite{
		Sampler:        inner,
		N:              n,
		SortedByEnergy: true,
	}, nil
}

// Sample delegates to the inner sampler and truncates its output.
func (c *TruncateComposite) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	inner, err := c.Sampler.Sample(p, pt, sp)
	if err != nil {
		return SampleSet{}, errors.Wrap(err, "inner sampler failed")
	}
	return inner.Truncate(c.N, c.SortedByEnergy)
}
