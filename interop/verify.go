// SPDX-License-Identifier: MIT

package interop

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/smallmat/tensor"
)

// ErrDisagree is returned when a result differs from gonum's by more than
// the tolerance.
var ErrDisagree = errors.New("interop: result disagrees with gonum")

// Check is the outcome of one cross-check.
type Check struct {
	Op      string
	MaxDiff float64 // largest absolute elementwise difference
	Tol     float64
}

// OK reports MaxDiff <= Tol.
func (c Check) OK() bool { return c.MaxDiff <= c.Tol }

func (c Check) String() string {
	status := "ok"
	if !c.OK() {
		status = "MISMATCH"
	}
	return fmt.Sprintf("%s vs gonum: max |diff| = %.3g (tol %.3g) %s", c.Op, c.MaxDiff, c.Tol, status)
}

func (c Check) err() error {
	if c.OK() {
		return nil
	}
	return fmt.Errorf("%s: %w", c, ErrDisagree)
}

// VerifyDeterminant compares got against mat.Det of the square matrix x.
func VerifyDeterminant(x tensor.Any, got, tol float64) (Check, error) {
	a, err := ToDense(x)
	if err != nil {
		return Check{}, err
	}
	c := Check{Op: "Determinant", MaxDiff: math.Abs(mat.Det(a) - got), Tol: tol}
	return c, c.err()
}

// VerifyInverse compares inv against gonum's inverse of x. A matrix gonum
// reports as singular is an error wrapping gonum's own.
func VerifyInverse(x, inv tensor.Any, tol float64) (Check, error) {
	a, err := ToDense(x)
	if err != nil {
		return Check{}, err
	}
	var want mat.Dense
	if err := want.Inverse(a); err != nil {
		return Check{}, fmt.Errorf("interop: VerifyInverse: %w", err)
	}
	got, err := ToDense(inv)
	if err != nil {
		return Check{}, err
	}
	c := Check{Op: "Inverse", MaxDiff: maxAbsDiff(&want, got), Tol: tol}
	return c, c.err()
}

// VerifyMatmul compares out against gonum's product of a and b. Vectors are
// treated as columns on the right and as rows on the left, as linalg does.
func VerifyMatmul(a, b, out tensor.Any, tol float64) (Check, error) {
	for _, x := range []tensor.Any{a, b, out} {
		if x == nil {
			return Check{}, fmt.Errorf("interop: VerifyMatmul: %w", ErrNilInput)
		}
	}
	ma, err := ToMatrix(a)
	if err != nil {
		return Check{}, err
	}
	mb, err := ToMatrix(b)
	if err != nil {
		return Check{}, err
	}
	var want mat.Dense
	if a.Shape().IsVector() {
		want.Mul(ma.T(), mb)
	} else {
		want.Mul(ma, mb)
	}
	c := Check{Op: "Matmul", MaxDiff: math.Inf(1), Tol: tol}
	if r, k := want.Dims(); r*k == out.Len() {
		c.MaxDiff = maxAbsDiff(&want, mat.NewDense(r, k, out.Float64s()))
	}
	return c, c.err()
}

func maxAbsDiff(a, b mat.Matrix) float64 {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return math.Inf(1)
	}
	var worst float64
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			d := math.Abs(a.At(i, j) - b.At(i, j))
			if d > worst || math.IsNaN(d) {
				worst = d
			}
		}
	}
	return worst
}
