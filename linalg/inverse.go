// SPDX-License-Identifier: MIT
// Package linalg: closed-form inverses for 1×1 through 4×4.
//
// Implementation:
//   - 1×1: reciprocal.
//   - 2×2: swapped diagonal, negated off-diagonal, scaled by 1/det.
//   - 3×3: transposed cyclic cofactors; for n = 3 the cyclic 2×2 minors
//     already carry the (-1)^(i+j) sign.
//   - 4×4: transposed cyclic cofactors with an explicit (-1)^(i+j) sign.
//
// A zero determinant is not an error by default: the reciprocal yields
// ±Inf and the entries follow IEEE rules. WithSingularTolerance turns it
// into ErrSingular.

package linalg

import (
	"fmt"
	"math"

	"github.com/katalvlaran/smallmat/tensor"
)

func inv1[T tensor.Float](x, out []T, _ T) {
	out[0] = 1 / x[0]
}

func inv2[T tensor.Float](x, out []T, invDet T) {
	out[0] = invDet * x[3]
	out[1] = invDet * -x[1]
	out[2] = invDet * -x[2]
	out[3] = invDet * x[0]
}

func inv3[T tensor.Float](x, out []T, invDet T) {
	const n = 3
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[j*n+i] = invDet * (cyc(x, i+1, j+1, n)*cyc(x, i+2, j+2, n) -
				cyc(x, i+2, j+1, n)*cyc(x, i+1, j+2, n))
		}
	}
}

func inv4[T tensor.Float](x, out []T, invDet T) {
	const n = 4
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sign := T(1)
			if (i+j)%2 == 1 {
				sign = -1
			}
			out[j*n+i] = invDet * sign *
				(cyc(x, i+1, j+1, n)*
					(cyc(x, i+2, j+2, n)*cyc(x, i+3, j+3, n)-
						cyc(x, i+3, j+2, n)*cyc(x, i+2, j+3, n)) -
					cyc(x, i+2, j+1, n)*
						(cyc(x, i+1, j+2, n)*cyc(x, i+3, j+3, n)-
							cyc(x, i+3, j+2, n)*cyc(x, i+1, j+3, n)) +
					cyc(x, i+3, j+1, n)*
						(cyc(x, i+1, j+2, n)*cyc(x, i+2, j+3, n)-
							cyc(x, i+2, j+2, n)*cyc(x, i+1, j+3, n)))
		}
	}
}

func invBody[T tensor.Float](n int) func(x, out []T, invDet T) {
	switch n {
	case 1:
		return inv1[T]
	case 2:
		return inv2[T]
	case 3:
		return inv3[T]
	case 4:
		return inv4[T]
	default:
		return nil
	}
}

// SpecializeInverse builds the inverse kernel for shape s.
// Preconditions: square matrix, dimension < 5. The result has shape s.
// Options: WithSingularTolerance.
func SpecializeInverse[T tensor.Float](s tensor.Shape, opts ...Option) (*Kernel[T, *tensor.Tensor[T]], error) {
	o := gatherOptions(opts...)
	tol, guard := o.SingularTolerance()
	param := -1.0 // guard off
	if guard {
		param = tol
	}
	key := specKey{op: OpInverse, dtype: tensor.DTypeOf[T](), a: s, param: param, transient: guard}
	return specialize(key, func() (*Kernel[T, *tensor.Tensor[T]], error) {
		if err := validateShapes[T](OpInverse, s); err != nil {
			return nil, err
		}
		n := s.Rows()
		det, inv := detBody[T](n), invBody[T](n)
		if det == nil || inv == nil {
			return nil, undefined(OpInverse, s)
		}
		return newKernel(OpInverse, []tensor.Shape{s}, s, func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			x := args[0].Data()
			d := det(x)
			if guard && math.Abs(float64(d)) <= tol {
				return nil, fmt.Errorf("%s: |det| = %g <= %g: %w", OpInverse, math.Abs(float64(d)), tol, ErrSingular)
			}
			res := alloc[T](s)
			inv(x, res.Data(), 1/d)
			return res, nil
		}), nil
	})
}
