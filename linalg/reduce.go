// SPDX-License-Identifier: MIT
// Package: linalg
//
// Purpose:
//   - Whole-tensor reductions: Sum, NormSqr, Max, Min, Any, All.
//
// Determinism & Performance:
//   - Vectors are walked i = 0..n-1; matrices row by row, then column by
//     column. Every reduction accumulates into one local on the calling
//     goroutine, so the combination order never varies.
//   - Each kernel is O(n) time and O(1) space.

package linalg

import "github.com/katalvlaran/smallmat/tensor"

// fold builds a reduction body for shape s: acc starts at init(first
// element) and step combines each visited element into it. skipFirst makes
// the vector walk start at index 1 (used by Max/Min, whose init is x[0]).
func fold[T tensor.Scalar, R any](s tensor.Shape, init func(first T) R, step func(acc R, v T) R, skipFirst bool) func([]*tensor.Tensor[T]) (R, error) {
	if s.IsVector() {
		n := s.Rows()
		start := 0
		if skipFirst {
			start = 1
		}
		return func(args []*tensor.Tensor[T]) (R, error) {
			x := args[0].Data()
			acc := init(x[0])
			for i := start; i < n; i++ {
				acc = step(acc, x[i])
			}
			return acc, nil
		}
	}
	r, c := s.Rows(), s.Cols()
	return func(args []*tensor.Tensor[T]) (R, error) {
		x := args[0].Data()
		acc := init(x[0])
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				acc = step(acc, x[i*c+j])
			}
		}
		return acc, nil
	}
}

// reduction specializes a fold under op's catalog preconditions.
func reduction[T tensor.Scalar, R any](op string, s tensor.Shape, init func(T) R, step func(R, T) R, skipFirst bool) (*Kernel[T, R], error) {
	key := specKey{op: op, dtype: tensor.DTypeOf[T](), a: s}
	return specialize(key, func() (*Kernel[T, R], error) {
		if err := validateShapes[T](op, s); err != nil {
			return nil, err
		}
		return newKernel(op, []tensor.Shape{s}, tensor.Shape{}, fold(s, init, step, skipFirst)), nil
	})
}

func zeroOf[T tensor.Scalar](T) T { return 0 }

func identityOf[T tensor.Scalar](v T) T { return v }

// SpecializeSum builds the element-sum kernel for shape s.
func SpecializeSum[T tensor.Scalar](s tensor.Shape) (*Kernel[T, T], error) {
	return reduction(OpSum, s, zeroOf[T], func(acc, v T) T { return acc + v }, false)
}

// SpecializeNormSqr builds the sum-of-squares kernel for shape s.
func SpecializeNormSqr[T tensor.Scalar](s tensor.Shape) (*Kernel[T, T], error) {
	return reduction(OpNormSqr, s, zeroOf[T], func(acc, v T) T { return acc + v*v }, false)
}

// SpecializeMax builds the maximum kernel for shape s. The accumulator
// starts at the first element. NaN elements never replace it.
func SpecializeMax[T tensor.Scalar](s tensor.Shape) (*Kernel[T, T], error) {
	return reduction(OpMax, s, identityOf[T], func(acc, v T) T {
		if v > acc {
			return v
		}
		return acc
	}, true)
}

// SpecializeMin builds the minimum kernel for shape s.
func SpecializeMin[T tensor.Scalar](s tensor.Shape) (*Kernel[T, T], error) {
	return reduction(OpMin, s, identityOf[T], func(acc, v T) T {
		if v < acc {
			return v
		}
		return acc
	}, true)
}

// SpecializeAny builds the kernel reporting whether any element is nonzero.
func SpecializeAny[T tensor.Scalar](s tensor.Shape) (*Kernel[T, bool], error) {
	return reduction(OpAny, s, func(T) bool { return false }, func(acc bool, v T) bool {
		return acc || v != 0
	}, false)
}

// SpecializeAll builds the kernel reporting whether every element is nonzero.
func SpecializeAll[T tensor.Scalar](s tensor.Shape) (*Kernel[T, bool], error) {
	return reduction(OpAll, s, func(T) bool { return true }, func(acc bool, v T) bool {
		return acc && v != 0
	}, false)
}

// SpecializeZeros builds the kernel returning a zero tensor shaped like its input.
func SpecializeZeros[T tensor.Scalar](s tensor.Shape) (*Kernel[T, *tensor.Tensor[T]], error) {
	key := specKey{op: OpZeros, dtype: tensor.DTypeOf[T](), a: s}
	return specialize(key, func() (*Kernel[T, *tensor.Tensor[T]], error) {
		if err := validateShapes[T](OpZeros, s); err != nil {
			return nil, err
		}
		return newKernel(OpZeros, []tensor.Shape{s}, s, func([]*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return alloc[T](s), nil
		}), nil
	})
}
