package vecfield_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/apf/vecfield"
)

func TestNew_BadShape(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"ZeroWidth", 0, 3},
		{"ZeroHeight", 3, 0},
		{"Negative", -1, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := vecfield.New(tc.w, tc.h)
			require.ErrorIs(t, err, vecfield.ErrBadShape)
		})
	}
}

func TestNew_ZeroInitialisedShape(t *testing.T) {
	f, err := vecfield.New(4, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, f.Width())
	assert.Equal(t, 3, f.Height())
	assert.Equal(t, 12, f.Len())
	f.Each(func(x, y int, v vecfield.Vec) {
		assert.True(t, v.IsZero(), "cell (%d,%d) = %v", x, y, v)
	})
}

func TestAtSet_Bounds(t *testing.T) {
	f, err := vecfield.New(2, 2)
	require.NoError(t, err)

	require.NoError(t, f.Set(1, 0, vecfield.Vec{X: 3, Y: -4}))
	v, err := f.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, vecfield.Vec{X: 3, Y: -4}, v)

	_, err = f.At(2, 0)
	assert.ErrorIs(t, err, vecfield.ErrOutOfRange)
	assert.ErrorIs(t, f.Set(0, -1, vecfield.Vec{}), vecfield.ErrOutOfRange)
	assert.ErrorIs(t, f.AddAt(5, 5, vecfield.Vec{}), vecfield.ErrOutOfRange)
}

func TestSet_RejectsNaNInf(t *testing.T) {
	f, err := vecfield.New(1, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Set(0, 0, vecfield.Vec{X: math.NaN()}), vecfield.ErrNaNInf)
	assert.ErrorIs(t, f.AddAt(0, 0, vecfield.Vec{Y: math.Inf(1)}), vecfield.ErrNaNInf)
	assert.True(t, f.Get(0, 0).IsZero())
}

func TestGenerate_CellOrder(t *testing.T) {
	f, err := vecfield.Generate(3, 2, func(x, y int) vecfield.Vec {
		return vecfield.Vec{X: float64(x), Y: float64(y)}
	})
	require.NoError(t, err)

	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			assert.Equal(t, vecfield.Vec{X: float64(x), Y: float64(y)}, f.Get(x, y))
		}
	}
}

func TestCloneEqual(t *testing.T) {
	f, err := vecfield.Generate(3, 3, func(x, y int) vecfield.Vec {
		return vecfield.Vec{X: float64(x) * 0.1, Y: float64(y) / 3}
	})
	require.NoError(t, err)

	c := f.Clone()
	assert.True(t, f.Equal(c))

	require.NoError(t, c.AddAt(1, 1, vecfield.Vec{X: 1e-12}))
	assert.False(t, f.Equal(c), "clone must not share storage")

	other, err := vecfield.New(3, 2)
	require.NoError(t, err)
	assert.False(t, f.Equal(other))
}

func TestVec_UnitZeroSafe(t *testing.T) {
	assert.Equal(t, vecfield.Vec{}, vecfield.Vec{}.Unit(1e-6))

	u := vecfield.Vec{X: 3, Y: 4}.Unit(1e-6)
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
}
