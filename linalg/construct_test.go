package linalg_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smallmat/linalg"
	"github.com/katalvlaran/smallmat/tensor"
)

func TestDiag(t *testing.T) {
	t.Parallel()

	d, err := linalg.Diag(3, 5.0)
	require.NoError(t, err)
	require.Equal(t, tensor.Mat(3, 3), d.Shape())
	require.Equal(t, [][]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}}, d.Rows())

	di, err := linalg.Diag(2, int8(-1))
	require.NoError(t, err)
	require.Equal(t, tensor.Int8, di.DType())
	require.Equal(t, []int8{-1, 0, 0, -1}, di.Data())
}

func TestDiag_RejectsBadDimension(t *testing.T) {
	t.Parallel()

	for _, dim := range []int{0, -3} {
		_, err := linalg.Diag(dim, 1.0)
		require.ErrorIs(t, err, linalg.ErrShape, "dim=%d", dim)
		require.ErrorIs(t, err, linalg.ErrBadDimension, "dim=%d", dim)
	}
}

func TestDiag_RejectsOversizedDimension(t *testing.T) {
	t.Parallel()

	_, err := linalg.Diag(1<<16, 1.0)
	require.ErrorIs(t, err, linalg.ErrBadDimension)
	require.EqualError(t, err, "Diag: argument 0: 65536×65536 matrix exceeds 2147483647 elements")

	// 46341² is the first square above tensor.MaxElements.
	require.ErrorIs(t, linalg.Validate(linalg.OpDiag, linalg.ConstOperand(46341), linalg.ConstOperand(1)), linalg.ErrBadDimension)
	require.NoError(t, linalg.Validate(linalg.OpDiag, linalg.ConstOperand(46340), linalg.ConstOperand(1)))
	require.ErrorIs(t, linalg.Validate(linalg.OpDiag, linalg.ConstOperand(int64(1)<<32), linalg.ConstOperand(1)), linalg.ErrBadDimension)
}

func TestDiag_RejectsUnsignedOverflow(t *testing.T) {
	t.Parallel()

	err := linalg.Validate(linalg.OpDiag, linalg.ConstOperand(uint64(math.MaxUint64)), linalg.ConstOperand(1))
	require.ErrorIs(t, err, linalg.ErrNotConstant)
	require.EqualError(t, err, "Diag: argument 0: integer constant 18446744073709551615 overflows int64")

	require.NoError(t, linalg.Validate(linalg.OpDiag, linalg.ConstOperand(uint64(3)), linalg.ConstOperand(1)))
}

func TestDiag_ValidateNonConstant(t *testing.T) {
	t.Parallel()

	err := linalg.Validate(linalg.OpDiag, linalg.ConstOperand(3.0), linalg.ScalarOperand(tensor.Float64))
	require.ErrorIs(t, err, linalg.ErrType)
	require.ErrorIs(t, err, linalg.ErrNotConstant)

	err = linalg.Validate(linalg.OpDiag, linalg.ScalarOperand(tensor.Int64), linalg.ScalarOperand(tensor.Float64))
	require.ErrorIs(t, err, linalg.ErrNotConstant)

	err = linalg.Validate(linalg.OpDiag, linalg.ConstOperand(2), linalg.ConstOperand("one"))
	require.ErrorIs(t, err, linalg.ErrNotNumber)

	require.NoError(t, linalg.Validate(linalg.OpDiag, linalg.ConstOperand(2), linalg.ConstOperand(1.5)))
}

func TestFill(t *testing.T) {
	t.Parallel()

	v := mustVec(t, int64(1), 2, 3)
	require.NoError(t, linalg.Fill(v, 7))
	require.Equal(t, []int64{7, 7, 7}, v.Data())

	m := mustMat(t, [][]float32{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, linalg.Fill(m, 0.5))
	require.Equal(t, [][]float32{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}, m.Rows())

	var missing *tensor.Tensor[float64]
	err := linalg.Fill(missing, 1)
	require.ErrorIs(t, err, linalg.ErrNotTensor)
	require.EqualError(t, err, "Fill: argument 0: expected tensor, got none")
}
