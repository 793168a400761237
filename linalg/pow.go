// SPDX-License-Identifier: MIT

package linalg

import (
	"math"

	"github.com/katalvlaran/smallmat/tensor"
)

// Pow returns x**y with math.Pow semantics, evaluated in float64.
func Pow[F tensor.Float](x, y F) F {
	return F(math.Pow(float64(x), float64(y)))
}

// IPow returns x**n by repeated squaring. The result wraps on overflow
// like any Go integer arithmetic. A negative n is a TypeError: integer
// tensors must be cast to a float type first.
func IPow[I tensor.Integer](x I, n int) (I, error) {
	if err := Check(OpPow, []Operand{ConstOperand(n)}, nonNegativeExponent); err != nil {
		return 0, err
	}
	return ipow(x, n), nil
}

var nonNegativeExponent = NonNegativeConst(0)

func ipow[I tensor.Integer](x I, n int) I {
	acc := I(1)
	for n > 0 {
		if n&1 == 1 {
			acc *= x
		}
		x *= x
		n >>= 1
	}
	return acc
}

// PowTensor raises every element of x to y.
func PowTensor[F tensor.Float](x *tensor.Tensor[F], y F) (*tensor.Tensor[F], error) {
	if err := Check(OpPow, []Operand{operandOf(x), ScalarOperand(tensor.DTypeOf[F]())}, catalog[OpPow].Preconditions...); err != nil {
		return nil, err
	}
	res := alloc[F](x.Shape())
	dst := res.Data()
	for i, v := range x.Data() {
		dst[i] = Pow(v, y)
	}
	return res, nil
}

// IPowTensor raises every element of the integer tensor x to n >= 0.
func IPowTensor[I tensor.Integer](x *tensor.Tensor[I], n int) (*tensor.Tensor[I], error) {
	args := []Operand{operandOf(x), ConstOperand(n)}
	preds := append(append([]Precondition(nil), catalog[OpPow].Preconditions...), Arg(1, nonNegativeExponent))
	if err := Check(OpPow, args, preds...); err != nil {
		return nil, err
	}
	res := alloc[I](x.Shape())
	dst := res.Data()
	for i, v := range x.Data() {
		dst[i] = ipow(v, n)
	}
	return res, nil
}
