package tensor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smallmat/tensor"
)

func TestShape_Accessors(t *testing.T) {
	t.Parallel()

	v := tensor.Vec(4)
	assert.Equal(t, 1, v.Rank())
	assert.Equal(t, 4, v.Rows())
	assert.Equal(t, 0, v.Cols())
	assert.Equal(t, []int{4}, v.Dims())
	assert.True(t, v.IsVector())
	assert.False(t, v.IsSquare())
	assert.Equal(t, 4, v.NumElements())
	assert.Equal(t, v, v.T())
	assert.Equal(t, "[4]", v.String())

	m := tensor.Mat(2, 3)
	assert.Equal(t, 2, m.Rank())
	assert.Equal(t, []int{2, 3}, m.Dims())
	assert.True(t, m.IsMatrix())
	assert.False(t, m.IsSquare())
	assert.Equal(t, 6, m.NumElements())
	assert.Equal(t, tensor.Mat(3, 2), m.T())
	assert.Equal(t, "2×3", m.String())

	assert.True(t, tensor.Mat(3, 3).IsSquare())
	assert.Equal(t, "[]", tensor.Shape{}.String())
}

func TestShape_Comparable(t *testing.T) {
	t.Parallel()

	seen := map[tensor.Shape]int{tensor.Mat(2, 2): 1, tensor.Vec(2): 2}
	assert.Equal(t, 1, seen[tensor.Mat(2, 2)])
	assert.Equal(t, 2, seen[tensor.Vec(2)])
	assert.NotEqual(t, tensor.Vec(2), tensor.Mat(2, 1))
}

func TestShape_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, tensor.Vec(1).Validate())
	require.NoError(t, tensor.Mat(1, 7).Validate())
	for _, s := range []tensor.Shape{{}, tensor.Vec(0), tensor.Mat(0, 3), tensor.Mat(2, -1)} {
		require.ErrorIs(t, s.Validate(), tensor.ErrBadShape, "shape %v", s)
	}
}

func TestShape_ValidateElementBound(t *testing.T) {
	t.Parallel()

	require.NoError(t, tensor.Vec(tensor.MaxElements).Validate())
	require.NoError(t, tensor.Mat(tensor.MaxElements, 1).Validate())
	require.NoError(t, tensor.Mat(1<<15, 1<<15).Validate())

	cases := []tensor.Shape{
		tensor.Mat(1<<16, 1<<16),             // 2^32 elements
		tensor.Mat(math.MaxInt, math.MaxInt), // rows*cols overflows int
		tensor.Mat(math.MaxInt, 2),
		tensor.Mat(tensor.MaxElements, 2),
	}
	for _, s := range cases {
		err := s.Validate()
		require.ErrorIs(t, err, tensor.ErrBadShape, "shape %v", s)
		require.Contains(t, err.Error(), "exceeds")
	}

	_, err := tensor.ShapeOf(math.MaxInt, math.MaxInt)
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.New[float64](tensor.Mat(1<<16, 1<<16))
	require.ErrorIs(t, err, tensor.ErrBadShape)
}

func TestShapeOf(t *testing.T) {
	t.Parallel()

	s, err := tensor.ShapeOf(3)
	require.NoError(t, err)
	require.Equal(t, tensor.Vec(3), s)

	s, err = tensor.ShapeOf(2, 5)
	require.NoError(t, err)
	require.Equal(t, tensor.Mat(2, 5), s)

	_, err = tensor.ShapeOf()
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.ShapeOf(1, 2, 3)
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.ShapeOf(0)
	require.ErrorIs(t, err, tensor.ErrBadShape)
}
