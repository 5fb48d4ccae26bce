package potential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/apf/potential"
	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

func TestCombine_ClampsMagnitude(t *testing.T) {
	ws := ws100()
	goal, err := potential.Attractive(ws, pose(50, 50), 10)
	require.NoError(t, err)
	rep, err := potential.Repulsive(ws, block(1))
	require.NoError(t, err)
	rep2, err := potential.Repulsive(ws, workspace.Obstacle{ID: 2, X: 20, Y: 70, W: 5, H: 5})
	require.NoError(t, err)

	goalCopy, repCopy := goal.Clone(), rep.Clone()
	out, err := potential.Combine(goal, []*vecfield.Field{rep, nil, rep2}, 25, 1e-6)
	require.NoError(t, err)

	assert.LessOrEqual(t, out.MaxMagnitude(), 25+tol)
	assert.True(t, goal.Equal(goalCopy), "attractive input modified")
	assert.True(t, rep.Equal(repCopy), "repulsive input modified")

	// (60, 50) sums -15/√2 of attraction with ≈21.9 of repulsion, below the clamp.
	sum := goal.Get(60, 50).Add(rep.Get(60, 50))
	assert.InDelta(t, sum.X, out.Get(60, 50).X, tol)
}

func TestCombine_NoObstacles(t *testing.T) {
	goal, err := potential.Attractive(ws100(), pose(90, 90), 5)
	require.NoError(t, err)
	out, err := potential.Combine(goal, nil, 25, 1e-6)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, out.Get(10, 10).X, tol)
}

func TestCombine_Errors(t *testing.T) {
	_, err := potential.Combine(nil, nil, 25, 1e-6)
	assert.ErrorIs(t, err, potential.ErrNilField)

	a, err := vecfield.New(3, 3)
	require.NoError(t, err)
	b, err := vecfield.New(3, 4)
	require.NoError(t, err)
	_, err = potential.Combine(a, []*vecfield.Field{b}, 25, 1e-6)
	assert.ErrorIs(t, err, vecfield.ErrDimensionMismatch)
}
