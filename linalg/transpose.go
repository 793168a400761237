// SPDX-License-Identifier: MIT

package linalg

import "github.com/katalvlaran/smallmat/tensor"

// SpecializeTranspose builds the transpose kernel for shape s.
// A vector transposes to itself; the kernel still returns a fresh copy so
// results never alias their inputs.
// Complexity: O(r*c), fixed i→j order.
func SpecializeTranspose[T tensor.Scalar](s tensor.Shape) (*Kernel[T, *tensor.Tensor[T]], error) {
	key := specKey{op: OpTranspose, dtype: tensor.DTypeOf[T](), a: s}
	return specialize(key, func() (*Kernel[T, *tensor.Tensor[T]], error) {
		if err := validateShapes[T](OpTranspose, s); err != nil {
			return nil, err
		}
		in := []tensor.Shape{s}
		if s.IsVector() {
			return newKernel(OpTranspose, in, s, func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
				return args[0].Clone(), nil
			}), nil
		}
		r, c := s.Rows(), s.Cols()
		out := s.T()
		return newKernel(OpTranspose, in, out, func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			src := args[0].Data()
			res := alloc[T](out)
			dst := res.Data()
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					dst[j*r+i] = src[i*c+j]
				}
			}
			return res, nil
		}), nil
	})
}

// SpecializeTrace builds the trace kernel for the square shape s.
func SpecializeTrace[T tensor.Scalar](s tensor.Shape) (*Kernel[T, T], error) {
	key := specKey{op: OpTrace, dtype: tensor.DTypeOf[T](), a: s}
	return specialize(key, func() (*Kernel[T, T], error) {
		if err := validateShapes[T](OpTrace, s); err != nil {
			return nil, err
		}
		n := s.Rows()
		return newKernel(OpTrace, []tensor.Shape{s}, tensor.Shape{}, func(args []*tensor.Tensor[T]) (T, error) {
			x := args[0].Data()
			var acc T
			for i := 0; i < n; i++ {
				acc += x[i*n+i]
			}
			return acc, nil
		}), nil
	})
}
