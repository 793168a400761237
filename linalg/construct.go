// SPDX-License-Identifier: MIT

package linalg

import "github.com/katalvlaran/smallmat/tensor"

// Diag returns a dim×dim matrix with val on the main diagonal and zeros
// elsewhere. The element type is the type of val.
// Errors: ShapeError(ErrBadDimension) when dim <= 0.
func Diag[T tensor.Scalar](dim int, val T) (*tensor.Tensor[T], error) {
	args := []Operand{ConstOperand(dim), ScalarOperand(tensor.DTypeOf[T]())}
	if err := Check(OpDiag, args, catalog[OpDiag].Preconditions...); err != nil {
		return nil, err
	}
	res := alloc[T](tensor.Mat(dim, dim))
	d := res.Data()
	for i := 0; i < dim; i++ {
		d[i*dim+i] = val
	}
	return res, nil
}

// Fill sets every element of x to val in place. It is the only operation
// that mutates its argument.
func Fill[T tensor.Scalar](x *tensor.Tensor[T], val T) error {
	args := []Operand{operandOf(x), ScalarOperand(tensor.DTypeOf[T]())}
	if err := Check(OpFill, args, catalog[OpFill].Preconditions...); err != nil {
		return err
	}
	d := x.Data()
	if s := x.Shape(); s.IsVector() {
		for i := 0; i < s.Rows(); i++ {
			d[i] = val
		}
		return nil
	}
	r, c := x.Shape().Rows(), x.Shape().Cols()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d[i*c+j] = val
		}
	}
	return nil
}
