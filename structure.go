// This file provides structure checking: restricting a sampler to a
// fixed node/edge topology and rejecting problems that do not fit.

package composites

// checkStructure verifies that every variable of a problem is a node of
// the topology and every quadratic entry is one of its couplers.
func checkStructure(p Problem, nodes []int, couplers [][2]int) error {
	nodeSet := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = struct{}{}
	}
	edgeSet := make(map[[2]int]struct{}, len(couplers))
	for _, cp := range couplers {
		u, v := cp[0], cp[1]
		if u > v {
			u, v = v, u
		}
		edgeSet[[2]int{u, v}] = struct{}{}
	}
	for _, pe := range p.Canonicalize() {
		if _, ok := nodeSet[pe.I]; !ok {
			return newErrorf(ErrStructureMismatch, "Variable %d is not a node of the target topology", pe.I)
		}
		if _, ok := nodeSet[pe.J]; !ok {
			return newErrorf(ErrStructureMismatch, "Variable %d is not a node of the target topology", pe.J)
		}
		if pe.I == pe.J {
			continue
		}
		if _, ok := edgeSet[[2]int{pe.I, pe.J}]; !ok {
			return newErrorf(ErrStructureMismatch, "Coupler {%d, %d} is not an edge of the target topology", pe.I, pe.J)
		}
	}
	return nil
}

// A StructureComposite restricts an inner sampler to a fixed topology.
// Problems whose variables or quadratic entries fall outside the
// topology fail with an ErrStructureMismatch error before the inner
// sampler is invoked.
type StructureComposite struct {
	Sampler  Sampler  // Inner sampler
	Nodes    []int    // Allowed variable indices
	Couplers [][2]int // Allowed quadratic-term keys
}

// NewStructureComposite wraps a sampler in a topology restriction.
func NewStructureComposite(inner Sampler, nodes []int, couplers [][2]int) *StructureComposite {
	return &StructureComposite{
		Sampler:  inner,
		Nodes:    nodes,
		Couplers: couplers,
	}
}

// HardwareAdjacency returns the composite's topology as an adjacency
// matrix, the same representation Solver.HardwareAdjacency uses.
func (c *StructureComposite) HardwareAdjacency() (Problem, error) {
	adj := make(Problem, len(c.Couplers))
	for i, cp := range c.Couplers {
		adj[i] = ProblemEntry{I: cp[0], J: cp[1]}
	}
	return adj, nil
}

// Sample checks a problem against the topology and delegates to the
// inner sampler.
func (c *StructureComposite) Sample(p Problem, pt ProblemType, sp *SolverParameters) (SampleSet, error) {
	if err := checkStructure(p, c.Nodes, c.Couplers); err != nil {
		return SampleSet{}, err
	}
	return c.Sampler.Sample(p, pt, sp)
}
