// This file tests the tracking composite's last-call recording and the
// deep-copy insulation flag.

package composites_test

import (
	"testing"

	composites "github.com/dwave-training/ocean-composites"
	"github.com/stretchr/testify/require"
)

// TestTrackingRecordsLastCall ensures the most recent call's inputs and
// output are recorded, replacing those of earlier calls.
func TestTrackingRecordsLastCall(t *testing.T) {
	tr := composites.NewTrackingComposite(composites.ExactSolver{}, false)

	_, _, _, seen := tr.LastInput()
	require.False(t, seen)
	_, seen = tr.LastOutput()
	require.False(t, seen)

	p1 := composites.Problem{{I: 0, J: 0, Value: 1.0}}
	p2 := composites.Problem{{I: 0, J: 0, Value: -1.0}}
	sp := composites.NewSolverParameters()

	_, err := tr.Sample(p1, composites.ProblemTypeIsing, sp)
	require.NoError(t, err)
	out2, err := tr.Sample(p2, composites.ProblemTypeIsing, sp)
	require.NoError(t, err)

	gotP, gotPt, gotSp, seen := tr.LastInput()
	require.True(t, seen)
	require.Equal(t, p2, gotP)
	require.Equal(t, composites.ProblemTypeIsing, gotPt)
	require.Equal(t, sp, gotSp)

	gotOut, seen := tr.LastOutput()
	require.True(t, seen)
	require.Equal(t, out2, gotOut)
}

// TestTrackingDeepCopy ensures the Copy flag insulates the recorded
// values from mutation of what the caller holds.
func TestTrackingDeepCopy(t *testing.T) {
	tr := composites.NewTrackingComposite(composites.ExactSolver{}, true)
	p := composites.Problem{{I: 0, J: 0, Value: 1.0}}
	out, err := tr.Sample(p, composites.ProblemTypeIsing, nil)
	require.NoError(t, err)

	// Mutate the problem and output the caller holds.
	p[0].Value = 42.0
	out.Solutions[0][0] = 42
	out.Energies[0] = 42.0

	gotP, _, _, _ := tr.LastInput()
	require.Equal(t, 1.0, gotP[0].Value)
	gotOut, _ := tr.LastOutput()
	require.NotEqual(t, int8(42), gotOut.Solutions[0][0])
	require.NotEqual(t, 42.0, gotOut.Energies[0])
}

// TestTrackingShallow ensures that without the Copy flag the recorded
// references alias the caller's values.
func TestTrackingShallow(t *testing.T) {
	tr := composites.NewTrackingComposite(composites.ExactSolver{}, false)
	p := composites.Problem{{I: 0, J: 0, Value: 1.0}}
	_, err := tr.Sample(p, composites.ProblemTypeIsing, nil)
	require.NoError(t, err)

	p[0].Value = 42.0
	gotP, _, _, _ := tr.LastInput()
	require.Equal(t, 42.0, gotP[0].Value)
}
