// This file tests embedding a logical problem onto a physical topology
// and mapping answers back, including broken-chain resolution.

package composites_test

import (
	"testing"

	composites "github.com/dwave-training/ocean-composites"
	"github.com/stretchr/testify/require"
)

// A four-node cycle 0-1-2-3-0 onto which a triangle embeds with logical
// variable 2 represented by the chain {2, 3}.
var (
	squareAdj = composites.Problem{
		{I: 0, J: 1}, {I: 1, J: 2}, {I: 2, J: 3}, {I: 3, J: 0},
	}
	triangleEmb = composites.Embeddings{0, 1, 2, 2}
	triangle    = composites.Problem{
		{I: 0, J: 1, Value: 1.0},
		{I: 1, J: 2, Value: 1.0},
		{I: 0, J: 2, Value: 1.0},
	}
)

// TestEmbedProblem checks coupler placement and chain couplings for the
// triangle-on-a-square embedding.
func TestEmbedProblem(t *testing.T) {
	er, err := composites.EmbedProblem(triangle, triangleEmb, squareAdj, 2.0)
	require.NoError(t, err)

	want := composites.Problem{
		{I: 0, J: 1, Value: 1.0},
		{I: 0, J: 3, Value: 1.0}, // Logical {0,2} lands on the physical {0,3} coupler
		{I: 1, J: 2, Value: 1.0},
	}
	require.Equal(t, want, er.Prob)
	require.Equal(t, composites.Problem{{I: 2, J: 3, Value: -2.0}}, er.JC)
}

// TestEmbedProblemErrors rejects embeddings that do not cover the
// problem.
func TestEmbedProblemErrors(t *testing.T) {
	// Missing chain for logical variable 2.
	_, err := composites.EmbedProblem(triangle, composites.Embeddings{0, 1, -1, -1}, squareAdj, 1.0)
	require.Error(t, err)
	require.Equal(t, composites.ErrNoEmbedding, composites.ErrorCodeOf(err))

	// Chains exist but no physical coupler joins logical 0 and 2 once
	// the {3, 0} edge is removed.
	cut := composites.Problem{{I: 0, J: 1}, {I: 1, J: 2}, {I: 2, J: 3}}
	_, err = composites.EmbedProblem(triangle, triangleEmb, cut, 1.0)
	require.Error(t, err)
	require.Equal(t, composites.ErrNoEmbedding, composites.ErrorCodeOf(err))
}

// TestUnembedIntact maps whole chains back to logical variables.
func TestUnembedIntact(t *testing.T) {
	solns := [][]int8{{1, -1, 1, 1}}
	logical, err := composites.UnembedAnswer(solns, triangleEmb, composites.BrokenChainsVote, triangle)
	require.NoError(t, err)
	require.Equal(t, [][]int8{{1, -1, 1}}, logical)
}

// TestUnembedBroken exercises each broken-chain policy on a chain whose
// two qubits disagree.
func TestUnembedBroken(t *testing.T) {
	solns := [][]int8{{1, 1, 1, -1}} // Chain {2, 3} is broken

	// Discard drops the solution.
	logical, err := composites.UnembedAnswer(solns, triangleEmb, composites.BrokenChainsDiscard, triangle)
	require.NoError(t, err)
	require.Empty(t, logical)

	// A tied vote goes to the first qubit of the chain.
	logical, err = composites.UnembedAnswer(solns, triangleEmb, composites.BrokenChainsVote, triangle)
	require.NoError(t, err)
	require.Equal(t, [][]int8{{1, 1, 1}}, logical)

	// Minimize-energy picks the value that minimizes the logical
	// energy given the settled neighbors: with s0 = s1 = +1 and
	// antiferromagnetic couplings, s2 = -1.
	logical, err = composites.UnembedAnswer(solns, triangleEmb, composites.BrokenChainsMinimizeEnergy, triangle)
	require.NoError(t, err)
	require.Equal(t, [][]int8{{1, 1, -1}}, logical)
}

// TestEmbeddingComposite solves the frustrated triangle through the
// embedding layer and checks the logical ground energy.
func TestEmbeddingComposite(t *testing.T) {
	ec := composites.NewEmbeddingComposite(composites.ExactSolver{}, triangleEmb, squareAdj, 2.0)
	ss, err := ec.Sample(triangle, composites.ProblemTypeIsing, nil)
	require.NoError(t, err)
	require.NotZero(t, ss.Len())

	// The frustrated triangle's ground energy is -1, and the energies
	// reported must be logical, not physical.
	require.InDelta(t, -1.0, ss.Energies[0], 1e-12)
	for i, soln := range ss.Solutions {
		require.InDelta(t, triangle.Energy(soln), ss.Energies[i], 1e-12)
		require.Len(t, soln, 3)
	}
}
