// SPDX-License-Identifier: MIT
// Package linalg: public facades.
//
// Purpose:
//   - One call per operation: specialize (cached) for the operand shapes,
//     then apply. Callers that run the same shape repeatedly can hold the
//     Kernel returned by the matching Specialize* function instead.
//   - A nil tensor argument is a TypeError(ErrNotTensor); no facade panics.

package linalg

import "github.com/katalvlaran/smallmat/tensor"

// unary specializes for x's shape and applies.
func unary[T tensor.Scalar, R any](op string, x *tensor.Tensor[T], specialize func(tensor.Shape) (*Kernel[T, R], error)) (R, error) {
	var zero R
	if x == nil {
		return zero, notTensor(op, 0)
	}
	k, err := specialize(x.Shape())
	if err != nil {
		return zero, err
	}
	return k.Apply(x)
}

// Transpose returns xᵀ; a vector is returned as a copy.
func Transpose[T tensor.Scalar](x *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return unary(OpTranspose, x, SpecializeTranspose[T])
}

// Matmul returns x·y for matrix-matrix, matrix-vector and vector-matrix operands.
func Matmul[T tensor.Scalar](x, y *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	if x == nil {
		return nil, notTensor(OpMatmul, 0)
	}
	if y == nil {
		return nil, notTensor(OpMatmul, 1)
	}
	k, err := SpecializeMatmul[T](x.Shape(), y.Shape())
	if err != nil {
		return nil, err
	}
	return k.Apply(x, y)
}

// Trace returns the sum of the main diagonal of a square matrix.
func Trace[T tensor.Scalar](x *tensor.Tensor[T]) (T, error) {
	return unary(OpTrace, x, SpecializeTrace[T])
}

// Determinant returns det(x) for square matrices up to 4×4.
func Determinant[T tensor.Scalar](x *tensor.Tensor[T]) (T, error) {
	return unary(OpDeterminant, x, SpecializeDeterminant[T])
}

// Inverse returns x⁻¹ for square matrices up to 4×4.
// Options: WithSingularTolerance.
func Inverse[T tensor.Float](x *tensor.Tensor[T], opts ...Option) (*tensor.Tensor[T], error) {
	return unary(OpInverse, x, func(s tensor.Shape) (*Kernel[T, *tensor.Tensor[T]], error) {
		return SpecializeInverse[T](s, opts...)
	})
}

// Sum returns the sum of all elements.
func Sum[T tensor.Scalar](x *tensor.Tensor[T]) (T, error) {
	return unary(OpSum, x, SpecializeSum[T])
}

// NormSqr returns the sum of squared elements.
func NormSqr[T tensor.Scalar](x *tensor.Tensor[T]) (T, error) {
	return unary(OpNormSqr, x, SpecializeNormSqr[T])
}

// Norm returns sqrt(NormSqr(x) + eps). Options: WithEpsilon.
func Norm[T tensor.Float](x *tensor.Tensor[T], opts ...Option) (T, error) {
	return unary(OpNorm, x, func(s tensor.Shape) (*Kernel[T, T], error) {
		return SpecializeNorm[T](s, opts...)
	})
}

// NormInv returns 1/sqrt(NormSqr(x) + eps). Options: WithEpsilon.
func NormInv[T tensor.Float](x *tensor.Tensor[T], opts ...Option) (T, error) {
	return unary(OpNormInv, x, func(s tensor.Shape) (*Kernel[T, T], error) {
		return SpecializeNormInv[T](s, opts...)
	})
}

// Normalized returns v / (Norm(v) + eps) for a vector v. Options: WithEpsilon.
func Normalized[T tensor.Float](v *tensor.Tensor[T], opts ...Option) (*tensor.Tensor[T], error) {
	return unary(OpNormalized, v, func(s tensor.Shape) (*Kernel[T, *tensor.Tensor[T]], error) {
		return SpecializeNormalized[T](s, opts...)
	})
}

// Any reports whether at least one element is nonzero.
func Any[T tensor.Scalar](x *tensor.Tensor[T]) (bool, error) {
	return unary(OpAny, x, SpecializeAny[T])
}

// All reports whether every element is nonzero.
func All[T tensor.Scalar](x *tensor.Tensor[T]) (bool, error) {
	return unary(OpAll, x, SpecializeAll[T])
}

// Zeros returns a zero tensor with x's shape and element type.
func Zeros[T tensor.Scalar](x *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	return unary(OpZeros, x, SpecializeZeros[T])
}

// Max returns the largest element.
func Max[T tensor.Scalar](x *tensor.Tensor[T]) (T, error) {
	return unary(OpMax, x, SpecializeMax[T])
}

// Min returns the smallest element.
func Min[T tensor.Scalar](x *tensor.Tensor[T]) (T, error) {
	return unary(OpMin, x, SpecializeMin[T])
}
