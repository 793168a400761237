// SPDX-License-Identifier: MIT

package linalg

import (
	"math"

	"github.com/katalvlaran/smallmat/tensor"
)

// The norm kernels close over eps, so eps is part of the specialization key.
// Only the default eps is cached.

// SpecializeNorm builds the kernel computing sqrt(NormSqr(x) + eps).
// eps is added under the root, never after it.
func SpecializeNorm[T tensor.Float](s tensor.Shape, opts ...Option) (*Kernel[T, T], error) {
	eps := gatherOptions(opts...).eps
	return normKernel(OpNorm, s, eps, func(sq T) T {
		return T(math.Sqrt(float64(sq + T(eps))))
	})
}

// SpecializeNormInv builds the kernel computing 1/sqrt(NormSqr(x) + eps)
// as a single reciprocal square root.
func SpecializeNormInv[T tensor.Float](s tensor.Shape, opts ...Option) (*Kernel[T, T], error) {
	eps := gatherOptions(opts...).eps
	return normKernel(OpNormInv, s, eps, func(sq T) T {
		return T(1 / math.Sqrt(float64(sq+T(eps))))
	})
}

func normKernel[T tensor.Float](op string, s tensor.Shape, eps float64, finish func(T) T) (*Kernel[T, T], error) {
	key := specKey{op: op, dtype: tensor.DTypeOf[T](), a: s, param: eps, transient: eps != DefaultEpsilon}
	return specialize(key, func() (*Kernel[T, T], error) {
		if err := validateShapes[T](op, s); err != nil {
			return nil, err
		}
		sq, err := SpecializeNormSqr[T](s)
		if err != nil {
			return nil, err
		}
		return newKernel(op, []tensor.Shape{s}, tensor.Shape{}, func(args []*tensor.Tensor[T]) (T, error) {
			v, err := sq.Apply(args[0])
			if err != nil {
				return 0, err
			}
			return finish(v), nil
		}), nil
	})
}

// SpecializeNormalized builds the kernel computing v * (1 / (Norm(v) + eps))
// for the vector shape s. The reciprocal is taken once and multiplied into
// every element.
func SpecializeNormalized[T tensor.Float](s tensor.Shape, opts ...Option) (*Kernel[T, *tensor.Tensor[T]], error) {
	eps := gatherOptions(opts...).eps
	key := specKey{op: OpNormalized, dtype: tensor.DTypeOf[T](), a: s, param: eps, transient: eps != DefaultEpsilon}
	return specialize(key, func() (*Kernel[T, *tensor.Tensor[T]], error) {
		if err := validateShapes[T](OpNormalized, s); err != nil {
			return nil, err
		}
		norm, err := SpecializeNorm[T](s, WithEpsilon(eps))
		if err != nil {
			return nil, err
		}
		n := s.Rows()
		return newKernel(OpNormalized, []tensor.Shape{s}, s, func(args []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			l, err := norm.Apply(args[0])
			if err != nil {
				return nil, err
			}
			invLen := 1 / (l + T(eps))
			src := args[0].Data()
			res := alloc[T](s)
			dst := res.Data()
			for i := 0; i < n; i++ {
				dst[i] = src[i] * invLen
			}
			return res, nil
		}), nil
	})
}
