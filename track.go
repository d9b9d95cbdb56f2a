// This file provides the tracking composite, a pass-through layer that
// records the most recent call's inputs and output for debugging.

package composites

import (
	"sync"

	"github.com/rs/zerolog"
)

// A TrackingComposite passes every call through to its inner sampler
// unchanged while recording the most recent call's exact input
// arguments and output SampleSet.  When Copy is set, the recorded
// values are deep copies, insulating the record from later in-place
// mutation by other components.  The recorded values are exposed
// read-only; callers must not modify what the accessors return.
type TrackingComposite struct {
	Sampler Sampler // Inner sampler
	Copy    bool    // Deep-copy the recorded values

	mu      sync.Mutex
	seen    bool
	problem Problem
	ptype   ProblemType
	params  *SolverParameters
	output  SampleSet
	log     zerolog.Logger
}

// NewTrackingComposite wraps a sampler in a tracking layer.
func NewTrackingComposite(inner Sampler, deepCopy bool) *TrackingComposite {
	return &TrackingComposite{
		Sampler: inner,
		Copy:    deepCopy,
		log:     zerolog.Nop(),
	}
}

// SetLogger directs the composite's per-call debug output to the given
// logger.
func (c *TrackingComposite) SetLogger(l zerolog.Logger) {
	c.mu.Lock()
	c.log = l
	c.mu.Unlock()
}

// Sample delegates to the inner sampler and records the call.
func (c *TrackingComposite) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	out, err := c.Sampler.Sample(p, pt, sp)
	if err != nil {
		return SampleSet{}, err
	}

	recProb, recParams, recOut := p, sp, out
	if c.Copy {
		recProb = make(Problem, len(p))
		copy(recProb, p)
		if sp != nil {
			cp := *sp
			recParams = &cp
		}
		recOut = out.Copy()
	}

	c.mu.Lock()
	c.seen = true
	c.problem = recProb
	c.ptype = pt
	c.params = recParams
	c.output = recOut
	c.log.Debug().
		Str("type", pt.String()).
		Int("entries", len(p)).
		Int("samples", out.Len()).
		Msg("tracked sampler call")
	c.mu.Unlock()
	return out, nil
}

// LastInput returns the arguments of the most recent successful call.
// The boolean result is false if no call has completed yet.
func (c *TrackingComposite) LastInput() (Problem, ProblemType, *SolverParameters, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.problem, c.ptype, c.params, c.seen
}

// LastOutput returns the SampleSet of the most recent successful call.
// The boolean result is false if no call has completed yet.
func (c *TrackingComposite) LastOutput() (SampleSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output, c.seen
}
