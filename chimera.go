// This file constructs Chimera-graph topologies, the lattice on which
// the bundled structured solvers are defined.

package composites

// ChimeraAdjacency constructs the adjacency matrix for an arbitrary
// Chimera graph: an m×n grid of K_{l,l} unit cells in which each cell's
// left-hand qubits additionally couple to the corresponding qubits of
// the cell below and each cell's right-hand qubits couple to the
// corresponding qubits of the cell to the right.  The result is
// returned as a Problem whose entries are couplers with zero weight,
// the same representation HardwareAdjacency uses.
func ChimeraAdjacency(m, n, l int) (Problem, error) {
	if m < 1 || n < 1 || l < 1 {
		return nil, newErrorf(ErrInvalidParameter, "Failed to construct a {%d, %d, %d} Chimera graph", m, n, l)
	}

	// qubit returns the index of qubit k of the cell in row r, column c.
	// Within a cell, qubits 0..l-1 form the left side and l..2l-1 the
	// right side.
	qubit := func(r, c, k int) int {
		return (r*n+c)*2*l + k
	}

	adj := make(Problem, 0, m*n*l*l+m*n*2*l)
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			// Intra-cell couplers: complete bipartite between the left
			// and right sides.
			for a := 0; a < l; a++ {
				for b := 0; b < l; b++ {
					adj = append(adj, ProblemEntry{
						I: qubit(r, c, a),
						J: qubit(r, c, l+b),
					})
				}
			}

			// Vertical couplers: left-side qubits to the cell below.
			if r+1 < m {
				for k := 0; k < l; k++ {
					adj = append(adj, ProblemEntry{
						I: qubit(r, c, k),
						J: qubit(r+1, c, k),
					})
				}
			}

			// Horizontal couplers: right-side qubits to the cell to the
			// right.
			if c+1 < n {
				for k := l; k < 2*l; k++ {
					adj = append(adj, ProblemEntry{
						I: qubit(r, c, k),
						J: qubit(r, c+1, k),
					})
				}
			}
		}
	}
	return adj, nil
}
