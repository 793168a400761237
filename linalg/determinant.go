// SPDX-License-Identifier: MIT
// Package linalg: closed-form determinants for 1×1 through 4×4.
//
// Each shape has its own body; SpecializeDeterminant picks one when the
// kernel is built, so the body itself never branches on shape.

package linalg

import "github.com/katalvlaran/smallmat/tensor"

// cyc reads element (x mod n, y mod n) of the row-major n×n matrix m.
// Treating indices cyclically lets the 3×3 and 4×4 cofactor formulas be
// written without building sub-matrices: rotating three rows or columns is
// an even permutation, so cyclic minors equal the standard ones.
func cyc[T tensor.Scalar](m []T, x, y, n int) T {
	return m[(x%n)*n+y%n]
}

func det1[T tensor.Scalar](x []T) T { return x[0] }

func det2[T tensor.Scalar](x []T) T {
	return x[0]*x[3] - x[1]*x[2]
}

// det3 expands along column 0.
func det3[T tensor.Scalar](x []T) T {
	// x[r*3+c] is element (r, c)
	return x[0]*(x[4]*x[8]-x[7]*x[5]) -
		x[3]*(x[1]*x[8]-x[7]*x[2]) +
		x[6]*(x[1]*x[5]-x[4]*x[2])
}

// det4 expands along column 0 with cyclic 3×3 minors, accumulating the
// four terms in row order.
func det4[T tensor.Scalar](x []T) T {
	const n = 4
	var det T
	sign := T(1)
	for i := 0; i < n; i++ {
		det += sign * (x[i*n] *
			(cyc(x, i+1, 1, n)*
				(cyc(x, i+2, 2, n)*cyc(x, i+3, 3, n)-
					cyc(x, i+3, 2, n)*cyc(x, i+2, 3, n)) -
				cyc(x, i+2, 1, n)*
					(cyc(x, i+1, 2, n)*cyc(x, i+3, 3, n)-
						cyc(x, i+3, 2, n)*cyc(x, i+1, 3, n)) +
				cyc(x, i+3, 1, n)*
					(cyc(x, i+1, 2, n)*cyc(x, i+2, 3, n)-
						cyc(x, i+2, 2, n)*cyc(x, i+1, 3, n))))
		sign = -sign
	}
	return det
}

// detBody selects the determinant formula for an n×n matrix, or nil when
// no closed form exists.
func detBody[T tensor.Scalar](n int) func([]T) T {
	switch n {
	case 1:
		return det1[T]
	case 2:
		return det2[T]
	case 3:
		return det3[T]
	case 4:
		return det4[T]
	default:
		return nil
	}
}

// SpecializeDeterminant builds the determinant kernel for shape s.
// Preconditions: square matrix, dimension < 5.
// For unsigned element types the result is computed modulo 2^bits.
func SpecializeDeterminant[T tensor.Scalar](s tensor.Shape) (*Kernel[T, T], error) {
	key := specKey{op: OpDeterminant, dtype: tensor.DTypeOf[T](), a: s}
	return specialize(key, func() (*Kernel[T, T], error) {
		if err := validateShapes[T](OpDeterminant, s); err != nil {
			return nil, err
		}
		det := detBody[T](s.Rows())
		if det == nil {
			return nil, undefined(OpDeterminant, s)
		}
		return newKernel(OpDeterminant, []tensor.Shape{s}, tensor.Shape{}, func(args []*tensor.Tensor[T]) (T, error) {
			return det(args[0].Data()), nil
		}), nil
	})
}
