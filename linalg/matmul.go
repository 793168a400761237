// SPDX-License-Identifier: MIT
// Package linalg: matrix products.
//
// Dispatch by operand ranks, fixed when the kernel is built:
//   - r×k · k×c → r×c   triple loop, result[i,j] accumulated over k ascending.
//   - r×k · [k] → [r]   result[i] accumulated over k ascending.
//   - [k] · k×c → [c]   computed as transpose(M) · v.
//
// Accumulation is serial and in a fixed order so results are bit-for-bit
// reproducible across runs.

package linalg

import "github.com/katalvlaran/smallmat/tensor"

func matmulMM[T tensor.Scalar](x, y, out []T, r, k, c int) {
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			var acc T
			for p := 0; p < k; p++ {
				acc += x[i*k+p] * y[p*c+j]
			}
			out[i*c+j] = acc
		}
	}
}

func matmulMV[T tensor.Scalar](x, v, out []T, r, k int) {
	for i := 0; i < r; i++ {
		var acc T
		for p := 0; p < k; p++ {
			acc += x[i*k+p] * v[p]
		}
		out[i] = acc
	}
}

// SpecializeMatmul builds the product kernel for shapes a and b.
// Preconditions: inner dimensions agree; two vectors are rejected.
func SpecializeMatmul[T tensor.Scalar](a, b tensor.Shape) (*Kernel[T, *tensor.Tensor[T]], error) {
	key := specKey{op: OpMatmul, dtype: tensor.DTypeOf[T](), a: a, b: b}
	return specialize(key, func() (*Kernel[T, *tensor.Tensor[T]], error) {
		if err := validateShapes[T](OpMatmul, a, b); err != nil {
			return nil, err
		}
		in := []tensor.Shape{a, b}
		switch {
		case a.IsMatrix() && b.IsMatrix():
			r, k, c := a.Rows(), a.Cols(), b.Cols()
			out := tensor.Mat(r, c)
			return newKernel(OpMatmul, in, out, func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
				res := alloc[T](out)
				matmulMM(args[0].Data(), args[1].Data(), res.Data(), r, k, c)
				return res, nil
			}), nil

		case a.IsMatrix() && b.IsVector():
			r, k := a.Rows(), a.Cols()
			out := tensor.Vec(r)
			return newKernel(OpMatmul, in, out, func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
				res := alloc[T](out)
				matmulMV(args[0].Data(), args[1].Data(), res.Data(), r, k)
				return res, nil
			}), nil

		case a.IsVector() && b.IsMatrix():
			tr, err := SpecializeTranspose[T](b)
			if err != nil {
				return nil, err
			}
			mv, err := SpecializeMatmul[T](b.T(), a)
			if err != nil {
				return nil, err
			}
			return newKernel(OpMatmul, in, mv.Out(), func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
				bt, err := tr.Apply(args[1])
				if err != nil {
					return nil, err
				}
				return mv.Apply(bt, args[0])
			}), nil
		}
		return nil, undefined(OpMatmul, a)
	})
}
