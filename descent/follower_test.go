package descent_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/apf/descent"
	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

// fieldOf builds a w×h field from fn.
func fieldOf(t *testing.T, w, h int, fn func(x, y int) vecfield.Vec) *vecfield.Field {
	t.Helper()
	f, err := vecfield.Generate(w, h, fn)
	require.NoError(t, err)
	return f
}

// oscillator pushes +x left of the seam and -x right of it, trapping the
// agent between cells 4 and 5 forever.
func oscillator(t *testing.T) *vecfield.Field {
	return fieldOf(t, 10, 1, func(x, _ int) vecfield.Vec {
		if x <= 4 {
			return vecfield.Vec{X: 1}
		}
		return vecfield.Vec{X: -1}
	})
}

func pose(x, y int) workspace.Pose { return workspace.Pose{X: x, Y: y} }

func TestNew_Validation(t *testing.T) {
	f := fieldOf(t, 5, 5, func(int, int) vecfield.Vec { return vecfield.Vec{} })

	_, err := descent.New(nil, pose(0, 0), pose(1, 1), 1, nil)
	assert.ErrorIs(t, err, descent.ErrNilField)

	_, err = descent.New(f, pose(0, 0), pose(1, 1), 0, nil)
	assert.ErrorIs(t, err, descent.ErrBadRadius)

	_, err = descent.New(f, pose(5, 0), pose(1, 1), 1, nil)
	assert.ErrorIs(t, err, workspace.ErrPoseOutOfBounds)

	_, err = descent.New(f, pose(0, 0), pose(1, -1), 1, nil)
	assert.ErrorIs(t, err, workspace.ErrPoseOutOfBounds)
}

func TestStep_SignalSetBeforeFirstIteration(t *testing.T) {
	f := fieldOf(t, 10, 10, func(int, int) vecfield.Vec { return vecfield.Vec{X: 2, Y: 2} })
	sig := &descent.Signal{}
	sig.Set()

	fl, err := descent.New(f, pose(1, 1), pose(9, 9), 2, sig, descent.WithStepDelay(0))
	require.NoError(t, err)

	res, err := fl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, descent.Aborted, res.State)
	require.Equal(t, 1, res.Path.Len())
	assert.Equal(t, pose(1, 1), res.Path[0].Pose())
	assert.False(t, sig.IsSet(), "the follower clears the flag it consumed")
	assert.Nil(t, res.Goal)
}

func TestStep_StuckRecoveryAppliesEscapeForce(t *testing.T) {
	f := fieldOf(t, 10, 10, func(x, y int) vecfield.Vec {
		if x == 2 && y == 5 {
			return vecfield.Vec{}
		}
		return vecfield.Vec{X: 1.5}
	})
	fl, err := descent.New(f, pose(2, 5), pose(8, 5), 1, nil, descent.WithStepDelay(0))
	require.NoError(t, err)

	require.Equal(t, descent.StuckRecovery, fl.Step())
	v := f.Get(2, 5)
	assert.False(t, v.IsZero(), "escape force must leave a non-zero vector")
	assert.InDelta(t, 5.0, v.X, 1e-9)
	assert.InDelta(t, 0.0, v.Y, 1e-9)

	res, err := fl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, descent.GoalReached, res.State)
	assert.Equal(t, 1, res.StuckCount)
	want := []workspace.Pose{pose(2, 5), pose(2, 5), pose(7, 5), pose(8, 5)}
	if diff := cmp.Diff(want, res.Path.Coords()); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, res.Path.Last(), res.Goal)
}

func TestStep_VirtualForceDisabled(t *testing.T) {
	f := fieldOf(t, 5, 5, func(int, int) vecfield.Vec { return vecfield.Vec{} })
	before := f.Clone()

	fl, err := descent.New(f, pose(1, 1), pose(4, 4), 1, nil,
		descent.WithVirtualForce(false), descent.WithMaxSteps(5), descent.WithStepDelay(0))
	require.NoError(t, err)

	res, err := fl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, descent.ExceededMaxSteps, res.State)
	assert.Equal(t, 5, res.StuckCount)
	assert.True(t, before.Equal(f), "field untouched without virtual force")
}

func TestStep_BorderClampCountsAsStuck(t *testing.T) {
	f := fieldOf(t, 5, 5, func(int, int) vecfield.Vec { return vecfield.Vec{X: -3} })
	fl, err := descent.New(f, pose(0, 2), pose(4, 2), 1, nil, descent.WithStepDelay(0))
	require.NoError(t, err)

	require.Equal(t, descent.StuckRecovery, fl.Step())
	// Pinned against the border: the escape heads for the goal.
	assert.InDelta(t, 12.0, f.Get(0, 2).X, 1e-9)

	require.Equal(t, descent.GoalReached, fl.Step())
	assert.Equal(t, pose(4, 2), fl.Current().Pose())
}

func TestStep_EscapeForceFollowsFieldComponents(t *testing.T) {
	cases := []struct {
		name  string
		v     vecfield.Vec
		start workspace.Pose
		want  vecfield.Vec
	}{
		{"north-east", vecfield.Vec{X: 0.3, Y: 0.8}, pose(2, 2), vecfield.Vec{X: 0.8266851623825875, Y: 4.545316710276178}},
		{"north-west at x=0", vecfield.Vec{X: -0.3, Y: 0.8}, pose(0, 2), vecfield.Vec{X: -0.8266851623825875, Y: 4.545316710276178}},
		{"south-east at y=0", vecfield.Vec{X: 0.6, Y: -0.4}, pose(3, 0), vecfield.Vec{X: 3.096150883013531, Y: -1.5094003924504582}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := fieldOf(t, 10, 10, func(int, int) vecfield.Vec { return tc.v })
			fl, err := descent.New(f, tc.start, pose(9, 9), 1, nil, descent.WithStepDelay(0))
			require.NoError(t, err)

			require.Equal(t, descent.StuckRecovery, fl.Step())
			got := f.Get(tc.start.X, tc.start.Y)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
			// neighbours only go through the re-clamp
			assert.InDelta(t, tc.v.X, f.Get(5, 5).X, 1e-12)
			assert.InDelta(t, tc.v.Y, f.Get(5, 5).Y, 1e-12)
		})
	}
}

func TestRun_PacesStuckStepsWithoutVirtualForce(t *testing.T) {
	f := fieldOf(t, 5, 5, func(int, int) vecfield.Vec { return vecfield.Vec{} })
	fl, err := descent.New(f, pose(1, 1), pose(4, 4), 1, nil,
		descent.WithVirtualForce(false), descent.WithMaxSteps(5), descent.WithStepDelay(20*time.Millisecond))
	require.NoError(t, err)

	began := time.Now()
	res, err := fl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, descent.ExceededMaxSteps, res.State)
	assert.Equal(t, 5, res.StuckCount)
	// five waits, the first served from the burst
	assert.GreaterOrEqual(t, time.Since(began), 60*time.Millisecond)
}

func TestRun_MaxStepsGuard(t *testing.T) {
	fl, err := descent.New(oscillator(t), pose(0, 0), pose(9, 0), 1, nil,
		descent.WithMaxSteps(10), descent.WithStepDelay(0))
	require.NoError(t, err)

	res, err := fl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, descent.ExceededMaxSteps, res.State)
	assert.Equal(t, 10, res.Steps)
	assert.Equal(t, 11, res.Path.Len())
	assert.Zero(t, res.StuckCount)

	// Terminal states are sticky.
	assert.Equal(t, descent.ExceededMaxSteps, fl.Step())
	assert.Equal(t, 11, fl.Path().Len())
}

func TestRun_PathChainInvariants(t *testing.T) {
	fl, err := descent.New(oscillator(t), pose(0, 0), pose(9, 0), 1, nil,
		descent.WithMaxSteps(25), descent.WithStepDelay(0))
	require.NoError(t, err)

	res, err := fl.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Path.Validate())
	for i := 1; i < res.Path.Len(); i++ {
		assert.Same(t, res.Path[i-1], res.Path[i].Parent)
		assert.Greater(t, res.Path[i].Seq, res.Path[i-1].Seq)
		assert.Equal(t, descent.TagPotentialField, res.Path[i].Tag)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fl, err := descent.New(oscillator(t), pose(0, 0), pose(9, 0), 1, nil)
	require.NoError(t, err)

	res, err := fl.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, descent.Aborted, res.State)
	assert.Equal(t, 1, res.Path.Len())
}

func TestRun_ConcurrentInvalidation(t *testing.T) {
	defer goleak.VerifyNone(t)

	sig := &descent.Signal{}
	fl, err := descent.New(oscillator(t), pose(0, 0), pose(9, 0), 1, sig,
		descent.WithMaxSteps(0), descent.WithStepDelay(time.Millisecond))
	require.NoError(t, err)

	done := make(chan descent.Result, 1)
	go func() {
		res, _ := fl.Run(context.Background())
		done <- res
	}()

	time.Sleep(20 * time.Millisecond)
	sig.Set()

	select {
	case res := <-done:
		assert.Equal(t, descent.Aborted, res.State)
		assert.Greater(t, res.Path.Len(), 1)
		require.NoError(t, res.Path.Validate())
	case <-time.After(5 * time.Second):
		t.Fatal("follower did not observe the invalidation signal")
	}
}

func TestState_String(t *testing.T) {
	cases := map[descent.State]string{
		descent.Running:          "RUNNING",
		descent.StuckRecovery:    "STUCK_RECOVERY",
		descent.GoalReached:      "GOAL_REACHED",
		descent.Aborted:          "ABORTED",
		descent.ExceededMaxSteps: "EXCEEDED_MAX_STEPS",
		descent.State(42):        "UNKNOWN",
	}
	for st, want := range cases {
		assert.Equal(t, want, st.String())
	}
	assert.False(t, descent.StuckRecovery.Terminal())
	assert.True(t, descent.Aborted.Terminal())
}

func TestState_TextRoundTrip(t *testing.T) {
	text, err := descent.ExceededMaxSteps.MarshalText()
	require.NoError(t, err)

	var st descent.State
	require.NoError(t, st.UnmarshalText(text))
	assert.Equal(t, descent.ExceededMaxSteps, st)
	assert.Error(t, st.UnmarshalText([]byte("WANDERING")))
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { descent.WithMaxMagnitude(0) })
	assert.Panics(t, func() { descent.WithEscapeCoefficient(-1) })
	assert.Panics(t, func() { descent.WithStepDelay(-time.Second) })
	assert.Panics(t, func() { descent.WithMaxSteps(-1) })
}
