// This file provides the types and functions for constructing,
// normalizing, and evaluating Ising-model and QUBO problems.

package composites

import "sort"

// A ProblemType identifies the convention under which a problem's
// variables take their values.
type ProblemType int

// These are the values a ProblemType can accept.
const (
	ProblemTypeIsing ProblemType = iota // Variables take values -1 or +1
	ProblemTypeQubo                     // Variables take values 0 or 1
)

// String returns a ProblemType's conventional name.
func (pt ProblemType) String() string {
	switch pt {
	case ProblemTypeIsing:
		return "ising"
	case ProblemTypeQubo:
		return "qubo"
	default:
		return "unknown"
	}
}

// Unused marks a position in a solution vector that does not correspond
// to any variable of the problem.
const Unused int8 = 3

// A ProblemEntry represents a single coefficient in a problem to submit
// to a solver.  If I=J, the ProblemEntry represents a linear term.
// Otherwise, it represents a quadratic term.
type ProblemEntry struct {
	I     int
	J     int
	Value float64
}

// A Problem is a list of ProblemEntry coefficients.
type Problem []ProblemEntry

// Canonicalize ensures that each ProblemEntry in a given Problem has I ≤ J and
// that all {I, J} pairs are unique.
func (p Problem) Canonicalize() Problem {
	// Ensure that I ≤ J in each ProblemEntry.
	p1 := make(Problem, len(p))
	for i, pe := range p {
		if pe.I > pe.J {
			pe.I, pe.J = pe.J, pe.I
		}
		p1[i] = pe
	}

	// Sort the Problem by I then J.
	sort.Slice(p1, func(i, j int) bool {
		switch {
		case p1[i].I < p1[j].I:
			return true
		case p1[i].I > p1[j].I:
			return false
		default:
			return p1[i].J < p1[j].J
		}
	})

	// Merge duplicate {I, J} entries by summing their Values.
	p2 := make(Problem, 0, len(p1))
	for i, pe := range p1 {
		if i > 0 && pe.I == p1[i-1].I && pe.J == p1[i-1].J {
			p2[len(p2)-1].Value += pe.Value
		} else {
			p2 = append(p2, pe)
		}
	}
	return p2
}

// Variables returns the sorted set of variable indices referenced by a
// Problem.  Every variable referenced by a quadratic entry appears in
// the result, so the set doubles as the problem's variable registry.
func (p Problem) Variables() []int {
	seen := make(map[int]struct{}, len(p))
	for _, pe := range p {
		seen[pe.I] = struct{}{}
		seen[pe.J] = struct{}{}
	}
	vars := make([]int, 0, len(seen))
	for v := range seen {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	return vars
}

// maxVariable returns the largest variable index referenced by a
// Problem, or -1 if the Problem is empty.
func (p Problem) maxVariable() int {
	max := -1
	for _, pe := range p {
		if pe.I > max {
			max = pe.I
		}
		if pe.J > max {
			max = pe.J
		}
	}
	return max
}

// couplerMap returns a map from a spin to a list of all ProblemEntry structs
// that couple that spin.
func (p Problem) couplerMap() map[int][]ProblemEntry {
	cMap := make(map[int][]ProblemEntry, len(p))
	for _, pe := range p {
		// Skip field weights.
		i, j := pe.I, pe.J
		if i == j {
			continue
		}

		// Store I --> J entries.
		cMap[i] = append(cMap[i], pe)

		// Store J --> I entries.
		pe.I, pe.J = pe.J, pe.I
		cMap[j] = append(cMap[j], pe)
	}
	return cMap
}

// Energy evaluates a Problem at a complete solution.  soln is indexed
// by variable number; positions that do not correspond to a variable of
// the problem are ignored.  The quadratic form is the same under both
// conventions, so no ProblemType argument is needed: the convention is
// implied by the values in soln.
func (p Problem) Energy(soln []int8) float64 {
	e := 0.0
	for _, pe := range p {
		if pe.I == pe.J {
			e += pe.Value * float64(soln[pe.I])
		} else {
			e += pe.Value * float64(soln[pe.I]) * float64(soln[pe.J])
		}
	}
	return e
}

// energyOffset returns the difference in energy between a QUBO and an
// Ising-model problem.
func (p Problem) energyOffset() float64 {
	he := 0.0
	Je := 0.0
	for _, pe := range p {
		if pe.I == pe.J {
			he += pe.Value
		} else {
			Je += pe.Value
		}
	}
	return he/2.0 + Je/4.0
}

// ToIsing converts a QUBO problem to an Ising-model problem.  It additionally
// returns an energy offset to add to each solution's energy.
func (p Problem) ToIsing() (Problem, float64) {
	ip := make(Problem, 0, len(p))
	cp := p.Canonicalize()
	cMap := cp.couplerMap()
	for _, pe := range cp {
		if pe.I == pe.J {
			// Convert a field weight.
			v := 0.0
			for _, elt := range cMap[pe.I] {
				v += elt.Value
			}
			pe.Value = pe.Value/2.0 + v/4.0
		} else {
			// Convert a coupler strength.
			pe.Value /= 4.0
		}
		ip = append(ip, pe)
	}
	return ip, cp.energyOffset()
}

// ToQubo converts an Ising-model problem to a QUBO problem.  It additionally
// returns an energy offset to add to each solution's energy.
func (p Problem) ToQubo() (Problem, float64) {
	qp := make(Problem, 0, len(p))
	cp := p.Canonicalize()
	cMap := cp.couplerMap()
	for _, pe := range cp {
		if pe.I == pe.J {
			// Convert a field weight.
			v := 0.0
			for _, elt := range cMap[pe.I] {
				v += elt.Value
			}
			pe.Value = pe.Value*2.0 - v*2.0
		} else {
			// Convert a coupler strength.
			pe.Value *= 4.0
		}
		qp = append(qp, pe)
	}
	return qp, -qp.energyOffset()
}

// validValue says whether a value lies in a variable's domain under the
// given convention.
func validValue(v int8, pt ProblemType) bool {
	switch pt {
	case ProblemTypeIsing:
		return v == -1 || v == 1
	case ProblemTypeQubo:
		return v == 0 || v == 1
	default:
		return false
	}
}
