// This file presents the Sampler interface that solvers and composites
// share, along with the parameters a sampling run accepts.

package composites

import (
	"math/rand"
	"time"
)

// A Sampler is anything that can draw scored candidate solutions from
// an Ising-model or QUBO problem.  Composites implement Sampler by
// wrapping an inner Sampler, so a processing chain is built by ordinary
// value composition rather than by dynamic delegation.  A nil sp is
// treated as NewSolverParameters().
type Sampler interface {
	Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error)
}

// A SolverParameterAnswerMode indicates the format in which we want the solver
// to return solutions.
type SolverParameterAnswerMode int

// These are answer modes a solver can accept.
const (
	AnswerModeHistogram SolverParameterAnswerMode = iota // Merge identical solutions and tally occurrences
	AnswerModeRaw                                        // Report one solution per read
)

// A SolverParameters bundles the tuning parameters a solver can accept.
// Individual solvers ignore the parameters that do not apply to them,
// the same way the hardware solvers ignore software-solver knobs.
type SolverParameters struct {
	NumReads         int                       // Number of independent solve attempts to request
	AnswerMode       SolverParameterAnswerMode // Raw or histogram output
	Beta             float64                   // Boltzmann distribution parameter (sampling solvers)
	AnnealingTime    int                       // Sweeps per read (sampling solvers)
	AutoScale        bool                      // Automatically scale coefficients (unused by the local solvers)
	NumSpinReversals int                       // Spin-reversal transformations to perform (unused by the local solvers)
	UseRandomSeed    bool                      // Honor the RandomSeed field (below)
	RandomSeed       uint64                    // Seed for the random number generator
}

// NewSolverParameters returns a SolverParameters initialized with
// default values.
func NewSolverParameters() *SolverParameters {
	return &SolverParameters{
		NumReads:      1,
		AnswerMode:    AnswerModeHistogram,
		Beta:          3.0,
		AnnealingTime: 100,
	}
}

// validate checks a SolverParameters for values no solver can accept.
func (sp *SolverParameters) validate() error {
	if sp.NumReads < 1 {
		return newErrorf(ErrInvalidParameter, "NumReads must be positive (got %d)", sp.NumReads)
	}
	if sp.AnnealingTime < 0 {
		return newErrorf(ErrInvalidParameter, "AnnealingTime must be non-negative (got %d)", sp.AnnealingTime)
	}
	return nil
}

// orDefaults replaces a nil SolverParameters with the defaults.
func (sp *SolverParameters) orDefaults() *SolverParameters {
	if sp == nil {
		return NewSolverParameters()
	}
	return sp
}

// rng returns a random-number generator for one sampling run, seeded
// from the parameters when requested so runs are reproducible.
func (sp *SolverParameters) rng() *rand.Rand {
	if sp.UseRandomSeed {
		return rand.New(rand.NewSource(int64(sp.RandomSeed)))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
