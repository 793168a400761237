package interop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/smallmat/interop"
	"github.com/katalvlaran/smallmat/linalg"
	"github.com/katalvlaran/smallmat/tensor"
)

func TestToDense_RoundTrip(t *testing.T) {
	t.Parallel()

	x := tensor.Must(tensor.FromRows([][]int32{{1, 2, 3}, {4, 5, 6}}))
	d, err := interop.ToDense(x)
	require.NoError(t, err)
	r, c := d.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, 6.0, d.At(1, 2))

	back, err := interop.FromDense[int32](d)
	require.NoError(t, err)
	require.True(t, x.Equal(back))

	d.Set(0, 0, 100)
	require.Equal(t, int32(1), x.Data()[0], "ToDense must copy")
}

func TestToVecDense(t *testing.T) {
	t.Parallel()

	v := tensor.Must(tensor.FromValues(1.5, -2.0))
	vd, err := interop.ToVecDense(v)
	require.NoError(t, err)
	require.Equal(t, 2, vd.Len())
	require.Equal(t, -2.0, vd.AtVec(1))

	back, err := interop.FromVector[float32](vd)
	require.NoError(t, err)
	require.Equal(t, []float32{1.5, -2}, back.Data())

	m, err := interop.ToMatrix(v)
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, [2]int{2, 1}, [2]int{r, c})
}

func TestRankErrors(t *testing.T) {
	t.Parallel()

	v := tensor.Must(tensor.FromValues(1.0, 2.0))
	_, err := interop.ToDense(v)
	require.ErrorIs(t, err, interop.ErrRank)

	m := tensor.Must(tensor.FromRows([][]float64{{1}}))
	_, err = interop.ToVecDense(m)
	require.ErrorIs(t, err, interop.ErrRank)

	_, err = interop.ToDense(nil)
	require.ErrorIs(t, err, interop.ErrNilInput)
	_, err = interop.FromDense[float64](nil)
	require.ErrorIs(t, err, interop.ErrNilInput)
}

func TestFromDense_Transposed(t *testing.T) {
	t.Parallel()

	d := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	x, err := interop.FromDense[float64](d.T())
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, x.Rows())
}

func TestVerify(t *testing.T) {
	t.Parallel()

	a := tensor.Must(tensor.FromRows([][]float64{{4, 7, 2}, {0, 5, 1}, {3, 1, 6}}))

	det, err := linalg.Determinant(a)
	require.NoError(t, err)
	c, err := interop.VerifyDeterminant(a, det, 1e-9)
	require.NoError(t, err)
	assert.True(t, c.OK())
	assert.Contains(t, c.String(), "Determinant vs gonum")

	_, err = interop.VerifyDeterminant(a, det+1, 1e-9)
	require.ErrorIs(t, err, interop.ErrDisagree)

	inv, err := linalg.Inverse(a)
	require.NoError(t, err)
	c, err = interop.VerifyInverse(a, inv, 1e-9)
	require.NoError(t, err)
	assert.LessOrEqual(t, c.MaxDiff, 1e-9)

	_, err = interop.VerifyInverse(a, a, 1e-9)
	require.ErrorIs(t, err, interop.ErrDisagree)
}

func TestVerifyMatmul(t *testing.T) {
	t.Parallel()

	a := tensor.Must(tensor.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}}))
	v := tensor.Must(tensor.FromValues(1.0, 2.0))
	w := tensor.Must(tensor.FromValues(1.0, 0.0, -1.0))

	mv, err := linalg.Matmul(a, w)
	require.NoError(t, err)
	_, err = interop.VerifyMatmul(a, w, mv, 0)
	require.NoError(t, err)

	vm, err := linalg.Matmul(v, a)
	require.NoError(t, err)
	_, err = interop.VerifyMatmul(v, a, vm, 0)
	require.NoError(t, err)

	c, err := interop.VerifyMatmul(v, a, mv, 0)
	require.ErrorIs(t, err, interop.ErrDisagree, "wrong element count")
	require.False(t, c.OK())
}
