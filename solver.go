// This file implements the local software solvers bundled with the
// package.  They stand in for the remote hardware so that composites
// can be exercised and tested without a quantum annealer: an exhaustive
// enumerator, a steepest-descent optimizer, and a Boltzmann sampler.

package composites

import (
	"math"
	"math/rand"
)

// MaxExactVariables is the largest number of variables the exhaustive
// methods (ExactSolver, BruteForceRoofDuality) will enumerate.
const MaxExactVariables = 20

// An ExactSolver enumerates every assignment of a problem's variables
// and reports all of them, lowest energy first.  It accepts problems of
// at most MaxExactVariables variables and ignores NumReads: the answer
// to an exhaustive solve does not depend on how often it is repeated.
type ExactSolver struct{}

// Sample enumerates all solutions of a problem.
func (ExactSolver) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	sp = sp.orDefaults()
	if err := sp.validate(); err != nil {
		return SampleSet{}, err
	}
	lo, hi := domainValues(pt)
	vars := p.Variables()
	n := len(vars)
	if n > MaxExactVariables {
		return SampleSet{}, newErrorf(ErrProblemTooLarge, "Cannot enumerate %d variables (limit %d)", n, MaxExactVariables)
	}
	if n == 0 {
		var ss SampleSet
		ss.appendSample([]int8{}, 0.0, 1)
		return ss, nil
	}

	// Enumerate every assignment in ascending binary order.
	size := p.maxVariable() + 1
	var ss SampleSet
	for mask := 0; mask < 1<<n; mask++ {
		soln := newSolution(size)
		for b, v := range vars {
			if mask&(1<<b) == 0 {
				soln[v] = lo
			} else {
				soln[v] = hi
			}
		}
		ss.appendSample(soln, p.Energy(soln), 1)
	}
	return ss.SortByEnergy(), nil
}

// An OptimizeSolver performs multi-start steepest-descent local search:
// each read starts from a uniformly random assignment and repeatedly
// applies the single-variable flip that lowers the energy the most
// until no flip improves.  It is the software analogue of the
// hardware's optimizing mode.
type OptimizeSolver struct{}

// Sample runs NumReads descents and reports the local minima found.
func (OptimizeSolver) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	sp = sp.orDefaults()
	if err := sp.validate(); err != nil {
		return SampleSet{}, err
	}
	return runOnIsing(p, pt, sp, optimizeIsing)
}

// optimizeIsing is OptimizeSolver's Ising-convention core.
func optimizeIsing(p Problem, sp *SolverParameters) (SampleSet, error) {
	vars := p.Variables()
	if len(vars) == 0 {
		var ss SampleSet
		ss.appendSample([]int8{}, 0.0, sp.NumReads)
		return ss, nil
	}
	h, cMap := fieldsAndCouplers(p)
	size := p.maxVariable() + 1
	rng := sp.rng()

	var ss SampleSet
	for read := 0; read < sp.NumReads; read++ {
		soln := randomSpins(size, vars, rng)
		for {
			// Find the steepest single-spin flip.
			bestVar := -1
			bestDelta := 0.0
			for _, v := range vars {
				d := flipDelta(soln, v, h, cMap)
				if d < bestDelta {
					bestVar, bestDelta = v, d
				}
			}
			if bestVar < 0 {
				break
			}
			soln[bestVar] = -soln[bestVar]
		}
		ss.appendSample(soln, p.Energy(soln), 1)
	}
	return finishReads(ss, sp), nil
}

// A SampleSolver draws solutions from the Boltzmann distribution of a
// problem by Metropolis sampling: each read performs AnnealingTime
// sweeps at inverse temperature Beta and reports the final state.
type SampleSolver struct{}

// Sample runs NumReads independent Metropolis chains.
func (SampleSolver) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	sp = sp.orDefaults()
	if err := sp.validate(); err != nil {
		return SampleSet{}, err
	}
	return runOnIsing(p, pt, sp, sampleIsing)
}

// sampleIsing is SampleSolver's Ising-convention core.
func sampleIsing(p Problem, sp *SolverParameters) (SampleSet, error) {
	vars := p.Variables()
	if len(vars) == 0 {
		var ss SampleSet
		ss.appendSample([]int8{}, 0.0, sp.NumReads)
		return ss, nil
	}
	h, cMap := fieldsAndCouplers(p)
	size := p.maxVariable() + 1
	rng := sp.rng()

	var ss SampleSet
	for read := 0; read < sp.NumReads; read++ {
		soln := randomSpins(size, vars, rng)
		for sweep := 0; sweep < sp.AnnealingTime; sweep++ {
			for _, v := range vars {
				d := flipDelta(soln, v, h, cMap)
				if d <= 0 || rng.Float64() < math.Exp(-sp.Beta*d) {
					soln[v] = -soln[v]
				}
			}
		}
		ss.appendSample(soln, p.Energy(soln), 1)
	}
	return finishReads(ss, sp), nil
}

// domainValues returns the low and high domain values of a convention.
func domainValues(pt ProblemType) (lo, hi int8) {
	if pt == ProblemTypeQubo {
		return 0, 1
	}
	return -1, 1
}

// newSolution allocates a solution vector with every position marked
// Unused.
func newSolution(size int) []int8 {
	soln := make([]int8, size)
	for i := range soln {
		soln[i] = Unused
	}
	return soln
}

// randomSpins assigns a uniformly random spin to each variable.
func randomSpins(size int, vars []int, rng *rand.Rand) []int8 {
	soln := newSolution(size)
	for _, v := range vars {
		if rng.Intn(2) == 0 {
			soln[v] = -1
		} else {
			soln[v] = 1
		}
	}
	return soln
}

// fieldsAndCouplers splits a problem into its field weights and its
// coupler map.
func fieldsAndCouplers(p Problem) (map[int]float64, map[int][]ProblemEntry) {
	cp := p.Canonicalize()
	h := make(map[int]float64, len(cp))
	for _, pe := range cp {
		if pe.I == pe.J {
			h[pe.I] += pe.Value
		}
	}
	return h, cp.couplerMap()
}

// flipDelta returns the energy change incurred by flipping spin v.
func flipDelta(soln []int8, v int, h map[int]float64, cMap map[int][]ProblemEntry) float64 {
	field := h[v]
	for _, pe := range cMap[v] {
		field += pe.Value * float64(soln[pe.J])
	}
	return -2.0 * float64(soln[v]) * field
}

// runOnIsing runs an Ising-convention solver core on a problem of
// either convention, converting the problem on the way in and the
// solutions and energies on the way back out.
func runOnIsing(p Problem, pt ProblemType, sp *SolverParameters,
	core func(Problem, *SolverParameters) (SampleSet, error)) (SampleSet, error) {
	if pt == ProblemTypeIsing {
		return core(p, sp)
	}
	ip, _ := p.ToIsing()
	ss, err := core(ip, sp)
	if err != nil {
		return SampleSet{}, err
	}
	for i, s := range ss.Solutions {
		for j, v := range s {
			if v == -1 {
				s[j] = 0
			}
		}
		ss.Energies[i] = p.Energy(ss.Solutions[i])
	}
	return ss, nil
}

// finishReads applies the requested answer mode to a set of raw reads.
// Histogram mode aggregates identical solutions and orders the result
// by ascending energy; raw mode reports the reads as they occurred.
func finishReads(ss SampleSet, sp *SolverParameters) SampleSet {
	if sp.AnswerMode == AnswerModeRaw {
		return ss
	}
	return ss.Aggregate().SortByEnergy()
}
