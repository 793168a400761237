// SPDX-License-Identifier: MIT

package interop

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/smallmat/tensor"
)

var (
	// ErrRank indicates a vector passed where a matrix is required or the
	// reverse.
	ErrRank = errors.New("interop: wrong tensor rank")

	// ErrNilInput indicates a nil tensor or gonum value.
	ErrNilInput = errors.New("interop: nil input")
)

// ToDense copies the matrix x into a new *mat.Dense.
func ToDense(x tensor.Any) (*mat.Dense, error) {
	if x == nil {
		return nil, fmt.Errorf("interop: ToDense: %w", ErrNilInput)
	}
	s := x.Shape()
	if !s.IsMatrix() {
		return nil, fmt.Errorf("interop: ToDense(%s): %w", s, ErrRank)
	}
	return mat.NewDense(s.Rows(), s.Cols(), x.Float64s()), nil
}

// ToVecDense copies the vector x into a new *mat.VecDense.
func ToVecDense(x tensor.Any) (*mat.VecDense, error) {
	if x == nil {
		return nil, fmt.Errorf("interop: ToVecDense: %w", ErrNilInput)
	}
	s := x.Shape()
	if !s.IsVector() {
		return nil, fmt.Errorf("interop: ToVecDense(%s): %w", s, ErrRank)
	}
	return mat.NewVecDense(s.Rows(), x.Float64s()), nil
}

// ToMatrix returns x as a mat.Matrix: a *mat.VecDense (n×1 column) for
// vectors, a *mat.Dense otherwise.
func ToMatrix(x tensor.Any) (mat.Matrix, error) {
	if x != nil && x.Shape().IsVector() {
		return ToVecDense(x)
	}
	return ToDense(x)
}

// FromDense copies any gonum matrix into a new r×c tensor of T.
func FromDense[T tensor.Scalar](m mat.Matrix) (*tensor.Tensor[T], error) {
	if m == nil {
		return nil, fmt.Errorf("interop: FromDense: %w", ErrNilInput)
	}
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return tensor.FromFloat64s[T](tensor.Mat(r, c), data)
}

// FromVector copies a gonum vector into a new tensor vector of T.
func FromVector[T tensor.Scalar](v mat.Vector) (*tensor.Tensor[T], error) {
	if v == nil {
		return nil, fmt.Errorf("interop: FromVector: %w", ErrNilInput)
	}
	n := v.Len()
	data := make([]float64, n)
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return tensor.FromFloat64s[T](tensor.Vec(n), data)
}
