// This file provides functions for simplifying optimization problems by
// fixing variables whose values can be predicted before invoking an
// expensive solver, and the composite that applies the simplification
// around an inner sampler.

package composites

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// FixVariablesMethod specifies how to identify variables with a fixed
// value.
type FixVariablesMethod int

// These are the values a FixVariablesMethod accepts.
const (
	FixVariablesMethodRoofDuality FixVariablesMethod = iota // Fix variables a roof-duality bound proves optimal
	FixVariablesMethodExplicit                              // Fix exactly the caller-specified variables
)

// A ForcedVariable reports one variable's provably optimal value.
// InAllOptima distinguishes values forced in every optimal assignment
// from values merely consistent with at least one optimal assignment.
type ForcedVariable struct {
	Var         int  // Variable index
	Value       int8 // Optimal value
	InAllOptima bool // Whether the value is the same in every optimal assignment
}

// A RoofDuality computes, for each variable of a problem, a provably
// optimal value where one exists.  The bundled implementation is
// BruteForceRoofDuality; a max-flow-based bound solver can be plugged
// in through this interface without touching the rest of the package.
type RoofDuality interface {
	ForcedVariables(p Problem, pt ProblemType) ([]ForcedVariable, error)
}

// energyEpsilon is the tolerance within which two energies are
// considered degenerate when identifying ground states.
const energyEpsilon = 1e-9

// A BruteForceRoofDuality identifies forced variables by enumerating
// every assignment of a problem's variables and inspecting the set of
// ground states.  It accepts problems of at most MaxExactVariables
// variables.  Under degeneracy, the reported per-variable values come
// from the first ground state in ascending binary enumeration order.
type BruteForceRoofDuality struct{}

// ForcedVariables reports each variable's value in some ground state,
// flagging the variables that take the same value in every ground
// state.
func (BruteForceRoofDuality) ForcedVariables(p Problem, pt ProblemType) ([]ForcedVariable, error) {
	lo, hi := domainValues(pt)
	vars := p.Variables()
	n := len(vars)
	if n > MaxExactVariables {
		return nil, newErrorf(ErrProblemTooLarge, "Cannot enumerate %d variables (limit %d)", n, MaxExactVariables)
	}
	if n == 0 {
		return nil, nil
	}

	// Walk every assignment, maintaining the set of values seen across
	// all ground states found so far.
	best := math.Inf(1)
	first := make([]int8, n)    // Values in the first ground state
	constant := make([]bool, n) // Whether each variable is constant across ground states
	soln := make([]int8, n)
	for mask := 0; mask < 1<<n; mask++ {
		for b := range vars {
			if mask&(1<<b) == 0 {
				soln[b] = lo
			} else {
				soln[b] = hi
			}
		}
		e := 0.0
		for _, pe := range p {
			vi := soln[sort.SearchInts(vars, pe.I)]
			if pe.I == pe.J {
				e += pe.Value * float64(vi)
			} else {
				e += pe.Value * float64(vi) * float64(soln[sort.SearchInts(vars, pe.J)])
			}
		}
		switch {
		case e < best-energyEpsilon:
			// Strictly better: this is the new sole ground state.
			best = e
			copy(first, soln)
			for b := range constant {
				constant[b] = true
			}
		case e <= best+energyEpsilon:
			// Degenerate: variables that differ are not forced.
			for b := range soln {
				if soln[b] != first[b] {
					constant[b] = false
				}
			}
		}
	}

	forced := make([]ForcedVariable, n)
	for b, v := range vars {
		forced[b] = ForcedVariable{
			Var:         v,
			Value:       first[b],
			InAllOptima: constant[b],
		}
	}
	return forced, nil
}

// FixVariablesParams bundles the inputs that control variable fixing.
type FixVariablesParams struct {
	Method      FixVariablesMethod // Fixing policy
	Fixed       map[int]int8       // Assignment to apply under the explicit method
	Strict      bool               // Under roof duality, fix only values forced in every optimal assignment
	RoofDuality RoofDuality        // Bound computation; nil selects BruteForceRoofDuality
}

// NewFixVariablesParams returns a FixVariablesParams initialized with
// default values: the roof-duality method in strict mode.
func NewFixVariablesParams() *FixVariablesParams {
	return &FixVariablesParams{
		Method: FixVariablesMethodRoofDuality,
		Strict: true,
	}
}

// A FixVariablesResult identifies variables that can be removed from a problem
// because their value is known a priori.
type FixVariablesResult struct {
	FixedVars  map[int]int8 // Map from a variable to its value
	Offset     float64      // Energy difference between the new and original problems
	NewProblem Problem      // Simplified problem, containing no fixed variables
}

// FixVariables identifies variables in a problem whose value can be
// predicted without full optimization and can therefore be elided from
// the problem that gets submitted to the solver.  An empty FixedVars in
// the result is an expected outcome, not a failure: it means nothing
// could be fixed and NewProblem equals the original problem.
func (p Problem) FixVariables(pt ProblemType, fp *FixVariablesParams) (FixVariablesResult, error) {
	if fp == nil {
		fp = NewFixVariablesParams()
	}
	var fixed map[int]int8
	switch fp.Method {
	case FixVariablesMethodExplicit:
		var err error
		fixed, err = p.explicitFixing(pt, fp.Fixed)
		if err != nil {
			return FixVariablesResult{}, err
		}
	case FixVariablesMethodRoofDuality:
		rd := fp.RoofDuality
		if rd == nil {
			rd = BruteForceRoofDuality{}
		}
		forced, err := rd.ForcedVariables(p, pt)
		if err != nil {
			return FixVariablesResult{}, err
		}
		fixed = make(map[int]int8, len(forced))
		for _, fv := range forced {
			if fp.Strict && !fv.InAllOptima {
				continue
			}
			fixed[fv.Var] = fv.Value
		}
	default:
		return FixVariablesResult{}, newErrorf(ErrInvalidParameter, "Unrecognized fix-variables method %d", fp.Method)
	}
	newProb, offset := p.reduce(fixed)
	return FixVariablesResult{
		FixedVars:  fixed,
		Offset:     offset,
		NewProblem: newProb,
	}, nil
}

// explicitFixing validates a caller-supplied fixed-variable assignment.
func (p Problem) explicitFixing(pt ProblemType, fixed map[int]int8) (map[int]int8, error) {
	if fixed == nil {
		return nil, newErrorf(ErrInvalidFixing, "The explicit method requires a fixed-variable assignment")
	}
	known := make(map[int]struct{})
	for _, v := range p.Variables() {
		known[v] = struct{}{}
	}
	out := make(map[int]int8, len(fixed))
	for v, val := range fixed {
		if _, ok := known[v]; !ok {
			return nil, newErrorf(ErrInvalidFixing, "Variable %d does not appear in the problem", v)
		}
		if !validValue(val, pt) {
			return nil, newErrorf(ErrInvalidFixing, "Value %d is outside variable %d's %s domain", val, v, pt)
		}
		out[v] = val
	}
	return out, nil
}

// reduce removes a set of fixed variables from a problem.  Each
// quadratic term between a fixed variable v and a free variable u
// contributes J(v,u)·value(v) to u's linear coefficient; terms entirely
// over fixed variables contribute to the returned energy offset.  An
// empty fixing returns the problem unchanged.
func (p Problem) reduce(fixed map[int]int8) (Problem, float64) {
	if len(fixed) == 0 {
		return p, 0.0
	}
	newProb := make(Problem, 0, len(p))
	offset := 0.0
	for _, pe := range p.Canonicalize() {
		vi, iFixed := fixed[pe.I]
		vj, jFixed := fixed[pe.J]
		switch {
		case pe.I == pe.J && iFixed:
			offset += pe.Value * float64(vi)
		case pe.I == pe.J:
			newProb = append(newProb, pe)
		case iFixed && jFixed:
			offset += pe.Value * float64(vi) * float64(vj)
		case iFixed:
			// Bias propagation into the free variable J.
			newProb = append(newProb, ProblemEntry{I: pe.J, J: pe.J, Value: pe.Value * float64(vi)})
		case jFixed:
			newProb = append(newProb, ProblemEntry{I: pe.I, J: pe.I, Value: pe.Value * float64(vj)})
		default:
			newProb = append(newProb, pe)
		}
	}
	return newProb.Canonicalize(), offset
}

// A FixedVariableComposite fixes a subset of a problem's variables
// before delegating the remainder to an inner sampler, then reinserts
// the fixed values into every returned sample and recomputes each
// energy against the original problem.
type FixedVariableComposite struct {
	Sampler Sampler             // Inner sampler
	Params  *FixVariablesParams // Fixing policy; nil selects the defaults
}

// NewFixedVariableComposite wraps a sampler in a variable-fixing
// preprocessing step.
func NewFixedVariableComposite(inner Sampler, fp *FixVariablesParams) *FixedVariableComposite {
	return &FixedVariableComposite{
		Sampler: inner,
		Params:  fp,
	}
}

// Sample fixes what it can, samples the reduced problem, and merges the
// fixed values back into the result.
func (c *FixedVariableComposite) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	fvr, err := p.FixVariables(pt, c.Params)
	if err != nil {
		return SampleSet{}, err
	}

	// If fixing consumed the whole problem, the inner sampler has
	// nothing left to do.
	size := p.maxVariable() + 1
	if len(fvr.NewProblem.Variables()) == 0 {
		soln := newSolution(size)
		for v, val := range fvr.FixedVars {
			soln[v] = val
		}
		var ss SampleSet
		ss.appendSample(soln, p.Energy(soln), 1)
		return ss, nil
	}

	inner, err := c.Sampler.Sample(fvr.NewProblem, pt, sp)
	if err != nil {
		return SampleSet{}, errors.Wrap(err, "inner sampler failed on the reduced problem")
	}

	// Reinsert the fixed assignment into every sample and recompute its
	// energy with respect to the original problem.
	var merged SampleSet
	for i, s := range inner.Solutions {
		soln := newSolution(size)
		for j, v := range s {
			if j < size && v != Unused {
				soln[j] = v
			}
		}
		for v, val := range fvr.FixedVars {
			soln[v] = val
		}
		merged.appendSample(soln, p.Energy(soln), inner.Occurrences[i])
	}
	return merged, nil
}
