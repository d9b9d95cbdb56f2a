// This file provides various tests of the bundled local solvers and the
// solver registry.

package composites_test

import (
	"testing"

	composites "github.com/dwave-training/ocean-composites"
	"github.com/stretchr/testify/require"
)

// localSolverName is the name of a local solver to connect to.
const localSolverName = "c4-sw_optimize"

// TestLocalConnection ensures we can connect to the local solvers and
// list them.
func TestLocalConnection(t *testing.T) {
	conn := composites.LocalConnection()
	require.Equal(t, []string{"c4-sw_optimize", "c4-sw_sample", "exact"}, conn.Solvers())

	_, err := conn.Solver(localSolverName)
	require.NoError(t, err)

	_, err = conn.Solver("no-such-solver")
	require.Error(t, err)
	require.Equal(t, composites.ErrInvalidParameter, composites.ErrorCodeOf(err))
}

// TestExactSolver enumerates a two-variable problem and checks the
// ordering and completeness of the result.
func TestExactSolver(t *testing.T) {
	// E(s) = s0 - s0*s1: ground state (-1, -1) at energy -2.
	p := composites.Problem{
		{I: 0, J: 0, Value: 1.0},
		{I: 0, J: 1, Value: -1.0},
	}
	ss, err := composites.ExactSolver{}.Sample(p, composites.ProblemTypeIsing, nil)
	require.NoError(t, err)
	require.Equal(t, 4, ss.Len())
	require.Equal(t, []int8{-1, -1}, ss.Solutions[0])
	require.Equal(t, -2.0, ss.Energies[0])
	for i := 1; i < ss.Len(); i++ {
		require.GreaterOrEqual(t, ss.Energies[i], ss.Energies[i-1])
	}
}

// TestExactSolverTooLarge rejects problems beyond the enumeration
// limit.
func TestExactSolverTooLarge(t *testing.T) {
	p := make(composites.Problem, composites.MaxExactVariables+1)
	for i := range p {
		p[i] = composites.ProblemEntry{I: i, J: i, Value: 1.0}
	}
	_, err := composites.ExactSolver{}.Sample(p, composites.ProblemTypeIsing, nil)
	require.Error(t, err)
	require.Equal(t, composites.ErrProblemTooLarge, composites.ErrorCodeOf(err))
}

// TestInvalidNumReads rejects a non-positive read count.
func TestInvalidNumReads(t *testing.T) {
	p := composites.Problem{{I: 0, J: 0, Value: 1.0}}
	sp := composites.NewSolverParameters()
	sp.NumReads = 0
	_, err := composites.OptimizeSolver{}.Sample(p, composites.ProblemTypeIsing, sp)
	require.Error(t, err)
	require.Equal(t, composites.ErrInvalidParameter, composites.ErrorCodeOf(err))
}

// findFourCycle finds a set of four distinct qubits with connections
// (0, 1), (1, 2), (2, 3), and (3, 0).
func findFourCycle(props *composites.SolverProperties) []int {
	// Construct an adjacency list from the list of couplers.
	adj := make(map[int]map[int]bool)
	for _, cp := range props.QuantumProps.Couplers {
		q0, q1 := cp[0], cp[1]
		if _, ok := adj[q0]; !ok {
			adj[q0] = make(map[int]bool, 8)
		}
		adj[q0][q1] = true
		if _, ok := adj[q1]; !ok {
			adj[q1] = make(map[int]bool, 8)
		}
		adj[q1][q0] = true
	}

	// Search every set of four neighbors until we find a square.
	for _, q0 := range props.QuantumProps.Qubits {
		for q1 := range adj[q0] {
			if q1 == q0 {
				continue
			}
			for q2 := range adj[q1] {
				if q2 == q1 || q2 == q0 {
					continue
				}
				for q3 := range adj[q2] {
					if q3 == q2 || q3 == q1 || q3 == q0 {
						continue
					}
					if adj[q0][q1] && adj[q1][q2] && adj[q2][q3] && adj[q3][q0] {
						return []int{q0, q1, q2, q3}
					}
				}
			}
		}
	}
	return nil
}

// testAND solves for all valid rows in an AND truth table, laying the
// problem out on a four-cycle of the given topology.
func testAND(t *testing.T, solver *composites.Solver, props *composites.SolverProperties) {
	// Find a set of qubits we can use.
	square := findFourCycle(props)
	require.NotNil(t, square, "Failed to find a 4-cycle in the %s solver", solver.Name)
	q0, q1, q2, q3 := square[0], square[1], square[2], square[3]

	// Construct a simple problem (an AND truth table).
	prob := composites.Problem{
		{I: q0, J: q0, Value: -0.125},
		{I: q1, J: q1, Value: -0.125},
		{I: q2, J: q2, Value: -0.25},
		{I: q3, J: q3, Value: 0.5},
		{I: q0, J: q1, Value: -1.0},
		{I: q1, J: q2, Value: 0.25},
		{I: q2, J: q3, Value: -0.5},
		{I: q3, J: q0, Value: -0.5},
	}

	// Set the solver NumReads parameter to a large value and pin the
	// seed so the test is reproducible.
	sp := solver.NewSolverParameters()
	sp.NumReads = 200
	sp.UseRandomSeed = true
	sp.RandomSeed = 2026

	// Solve the problem.
	ss, err := solver.SolveIsing(prob, sp)
	require.NoError(t, err)

	// Ensure that each solution is either correct or sits at high
	// enough energy that we know it's incorrect.
	const correctEnergy = -1.75
	s2b := map[int8]bool{-1: false, +1: true}
	foundCorrect := false
	for i, soln := range ss.Solutions {
		// Extract the AND inputs and output.
		a := s2b[soln[q0]]
		aAlt := s2b[soln[q1]]
		b := s2b[soln[q2]]
		y := s2b[soln[q3]]

		// Skip high-energy solutions.
		if ss.Energies[i] > correctEnergy {
			continue
		}
		foundCorrect = true

		// Ensure the solutions that should be valid are indeed so.
		require.Equal(t, a, aAlt, "Expected qubits %d and %d to be equal in solution %d", q0, q1, i+1)
		require.Equal(t, a && b, y, "Saw %v AND %v = %v in solution %d", a, b, y, i+1)
	}
	require.True(t, foundCorrect, "No solution reached the AND gate's ground energy")
}

// TestLocalSolveIsing ensures we can solve an Ising-model problem on
// the optimizing local solver.
func TestLocalSolveIsing(t *testing.T) {
	conn := composites.LocalConnection()
	solver, err := conn.Solver(localSolverName)
	require.NoError(t, err)
	testAND(t, solver, solver.GetProperties())
}

// TestExactSolveIsing runs the same AND-gate problem through the exact
// solver, where every ground state must be valid.
func TestExactSolveIsing(t *testing.T) {
	conn := composites.LocalConnection()
	structured, err := conn.Solver(localSolverName)
	require.NoError(t, err)
	solver, err := conn.Solver("exact")
	require.NoError(t, err)
	testAND(t, solver, structured.GetProperties())
}

// TestSampleSolver draws Boltzmann samples at a low temperature and
// checks that the ground state of a simple problem dominates.
func TestSampleSolver(t *testing.T) {
	// E(s) = -2*s0: ground state +1.
	p := composites.Problem{{I: 0, J: 0, Value: -2.0}}
	sp := composites.NewSolverParameters()
	sp.NumReads = 50
	sp.Beta = 5.0
	sp.UseRandomSeed = true
	sp.RandomSeed = 7
	ss, err := composites.SampleSolver{}.Sample(p, composites.ProblemTypeIsing, sp)
	require.NoError(t, err)
	require.NotZero(t, ss.Len())
	require.Equal(t, []int8{1}, ss.Solutions[0])

	// Histogram mode: occurrence tallies account for all reads.
	total := 0
	for _, occ := range ss.Occurrences {
		total += occ
	}
	require.Equal(t, 50, total)
}

// TestRawAnswerMode ensures raw mode reports one solution per read.
func TestRawAnswerMode(t *testing.T) {
	p := composites.Problem{{I: 0, J: 0, Value: -1.0}}
	sp := composites.NewSolverParameters()
	sp.NumReads = 8
	sp.AnswerMode = composites.AnswerModeRaw
	sp.UseRandomSeed = true
	sp.RandomSeed = 3
	ss, err := composites.OptimizeSolver{}.Sample(p, composites.ProblemTypeIsing, sp)
	require.NoError(t, err)
	require.Equal(t, 8, ss.Len())
}

// TestSolveQubo checks QUBO solving end to end on the exact solver.
func TestSolveQubo(t *testing.T) {
	// E(x) = -x0 - x1 + 2*x0*x1: minima at (1,0) and (0,1).
	p := composites.Problem{
		{I: 0, J: 0, Value: -1.0},
		{I: 1, J: 1, Value: -1.0},
		{I: 0, J: 1, Value: 2.0},
	}
	ss, err := composites.ExactSolver{}.Sample(p, composites.ProblemTypeQubo, nil)
	require.NoError(t, err)
	require.Equal(t, 4, ss.Len())
	require.Equal(t, -1.0, ss.Energies[0])
	require.Equal(t, -1.0, ss.Energies[1])
	require.Equal(t, 0.0, ss.Energies[2])
}
