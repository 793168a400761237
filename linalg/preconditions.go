// SPDX-License-Identifier: MIT
// Package: linalg
//
// Purpose:
//   - Single source of truth for the checks every operation runs before a
//     kernel body is selected (square-ness, closed-form limits, operand
//     compatibility, constant arguments).
//   - Predicates see Operands only (shape, dtype, constants), never element
//     values, so a passing check is valid for every tensor of that signature.
//
// Determinism & Performance:
//   - Predicates run in declaration order; the first failure wins.
//   - All checks are O(1) and allocate only on failure.

package linalg

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/smallmat/tensor"
)

// Precondition inspects the operands of one call and returns a *ShapeError
// or *TypeError on violation. The Op field is filled in by Check.
type Precondition func(args []Operand) error

// Check runs preds against args in order and stops at the first failure.
// Implementation:
//   - Stage 1: evaluate each predicate; nil means pass.
//   - Stage 2: stamp the operation name into the returned error.
//
// No partial success: either every predicate passes or an error naming op
// and the offending operand is returned.
// Complexity: O(len(preds)).
func Check(op string, args []Operand, preds ...Precondition) error {
	for _, p := range preds {
		err := p(args)
		if err == nil {
			continue
		}
		switch e := err.(type) {
		case *ShapeError:
			e.Op = op
		case *TypeError:
			e.Op = op
		}
		return err
	}
	return nil
}

func shapeErrorf(sentinel error, format string, a ...any) error {
	return &ShapeError{Msg: fmt.Sprintf(format, a...), Err: sentinel}
}

func typeErrorf(sentinel error, format string, a ...any) error {
	return &TypeError{Msg: fmt.Sprintf(format, a...), Err: sentinel}
}

// arg returns args[i] or a KindNone operand when i is out of range.
func arg(args []Operand, i int) Operand {
	if i < 0 || i >= len(args) {
		return Operand{}
	}
	return args[i]
}

// IsTensor requires argument i to be a tensor with a valid shape.
func IsTensor(i int) Precondition {
	return func(args []Operand) error {
		a := arg(args, i)
		if a.Kind != KindTensor {
			return typeErrorf(ErrNotTensor, "argument %d: expected tensor, got %s", i, a.Kind)
		}
		if err := a.Shape.Validate(); err != nil {
			return shapeErrorf(ErrBadDimension, "argument %d: invalid shape %s", i, a.Shape)
		}
		return nil
	}
}

// IsVector requires argument i to be a rank-1 tensor.
func IsVector(i int) Precondition {
	isTensor := IsTensor(i)
	return func(args []Operand) error {
		if err := isTensor(args); err != nil {
			return err
		}
		if s := args[i].Shape; !s.IsVector() {
			return shapeErrorf(ErrNotVector, "expected vector, got %s", s)
		}
		return nil
	}
}

// SquareMatrix requires argument i to be a rank-2 tensor with rows == cols.
func SquareMatrix(i int) Precondition {
	isTensor := IsTensor(i)
	return func(args []Operand) error {
		if err := isTensor(args); err != nil {
			return err
		}
		if s := args[i].Shape; !s.IsSquare() {
			return shapeErrorf(ErrNonSquare, "expected square matrix, got %s", s)
		}
		return nil
	}
}

// DimLessThan requires dimension axis of tensor argument i to be < limit.
// format receives the offending shape as its single %s verb, e.g.
// "determinant of dimension >= 5 is not supported: %s".
func DimLessThan(i, axis, limit int, format string) Precondition {
	isTensor := IsTensor(i)
	return func(args []Operand) error {
		if err := isTensor(args); err != nil {
			return err
		}
		s := args[i].Shape
		if axis < 0 || axis >= s.Rank() {
			return shapeErrorf(ErrDimensionTooLarge, "axis %d out of range for %s", axis, s)
		}
		if s.Dims()[axis] >= limit {
			return shapeErrorf(ErrDimensionTooLarge, format, s)
		}
		return nil
	}
}

// MatmulCompatible requires arguments 0 and 1 to be tensors whose inner
// dimensions agree:
//   - r×k · k×c  (matrix-matrix)
//   - r×k · [k]  (matrix-vector)
//   - [k] · k×c  (vector-matrix, left multiplication)
//
// Two vectors are rejected.
func MatmulCompatible() Precondition {
	left, right := IsTensor(0), IsTensor(1)
	return func(args []Operand) error {
		if err := left(args); err != nil {
			return err
		}
		if err := right(args); err != nil {
			return err
		}
		a, b := args[0].Shape, args[1].Shape
		switch {
		case a.IsVector() && b.IsVector():
			return shapeErrorf(ErrDimensionMismatch, "matmul of two vectors %s and %s is undefined", a, b)
		case a.IsVector():
			if a.Rows() != b.Rows() {
				return shapeErrorf(ErrDimensionMismatch, "dimension mismatch between %s and %s for left multiplication", a, b)
			}
		default:
			if a.Cols() != b.Rows() {
				return shapeErrorf(ErrDimensionMismatch, "dimension mismatch between %s and %s for right multiplication", a, b)
			}
		}
		return nil
	}
}

// SameDType requires tensor arguments i and j to share an element type.
func SameDType(i, j int) Precondition {
	return func(args []Operand) error {
		a, b := arg(args, i), arg(args, j)
		if a.DType != b.DType {
			return typeErrorf(ErrDTypeMismatch, "arguments %d and %d have element types %s and %s", i, j, a.DType, b.DType)
		}
		return nil
	}
}

// IsIntConst requires argument i to be an integer constant.
func IsIntConst(i int) Precondition {
	return func(args []Operand) error {
		a := arg(args, i)
		if a.Kind != KindConst {
			return typeErrorf(ErrNotConstant, "argument %d: expected integer constant, got %s", i, a.Kind)
		}
		if _, ok := constInt(a.Value); !ok {
			if constNumber(a.Value) && !constFloat(a.Value) {
				return typeErrorf(ErrNotConstant, "argument %d: integer constant %v overflows int64", i, a.Value)
			}
			return typeErrorf(ErrNotConstant, "argument %d: expected integer constant, got %T", i, a.Value)
		}
		return nil
	}
}

// PositiveConst requires integer constant argument i to be > 0.
func PositiveConst(i int) Precondition {
	isConst := IsIntConst(i)
	return func(args []Operand) error {
		if err := isConst(args); err != nil {
			return err
		}
		if n, _ := constInt(args[i].Value); n <= 0 {
			return shapeErrorf(ErrBadDimension, "argument %d: dimension must be positive, got %d", i, n)
		}
		return nil
	}
}

// SquareDimConst requires integer constant argument i to be a positive
// dimension n whose n×n matrix stays within tensor.MaxElements.
func SquareDimConst(i int) Precondition {
	positive := PositiveConst(i)
	return func(args []Operand) error {
		if err := positive(args); err != nil {
			return err
		}
		if n, _ := constInt(args[i].Value); n > tensor.MaxElements/n {
			return shapeErrorf(ErrBadDimension, "argument %d: %d×%d matrix exceeds %d elements", i, n, n, tensor.MaxElements)
		}
		return nil
	}
}

// NonNegativeConst requires integer constant argument i to be >= 0.
func NonNegativeConst(i int) Precondition {
	isConst := IsIntConst(i)
	return func(args []Operand) error {
		if err := isConst(args); err != nil {
			return err
		}
		if n, _ := constInt(args[i].Value); n < 0 {
			return typeErrorf(ErrNegativeExponent, "argument %d: exponent %d is negative", i, n)
		}
		return nil
	}
}

// IsNumber requires argument i to be a scalar or a numeric constant.
func IsNumber(i int) Precondition {
	return func(args []Operand) error {
		a := arg(args, i)
		switch a.Kind {
		case KindScalar:
			if !a.DType.Valid() {
				return typeErrorf(ErrNotNumber, "argument %d: invalid scalar type %s", i, a.DType)
			}
			return nil
		case KindConst:
			if !constNumber(a.Value) {
				return typeErrorf(ErrNotNumber, "argument %d: invalid argument type: %T", i, a.Value)
			}
			return nil
		default:
			return typeErrorf(ErrNotNumber, "argument %d: invalid argument type: %s", i, a.Kind)
		}
	}
}

// Arg applies p, written against argument 0, to argument i instead.
// Messages naming argument 0 are renumbered to i.
func Arg(i int, p Precondition) Precondition {
	return func(args []Operand) error {
		err := p([]Operand{arg(args, i)})
		if err == nil || i == 0 {
			return err
		}
		renumber := func(msg string) string {
			if rest, ok := strings.CutPrefix(msg, "argument 0"); ok {
				return fmt.Sprintf("argument %d%s", i, rest)
			}
			return msg
		}
		switch e := err.(type) {
		case *ShapeError:
			e.Msg = renumber(e.Msg)
		case *TypeError:
			e.Msg = renumber(e.Msg)
		}
		return err
	}
}

// notTensor is the error for a nil *Tensor passed to a typed facade.
func notTensor(op string, i int) error {
	return Check(op, []Operand{}, IsTensor(i))
}

// mismatch builds the ShapeError returned when a kernel meets a tensor of
// another shape.
func mismatch(op string, i int, got, want tensor.Shape) error {
	return &ShapeError{
		Op:  op,
		Msg: fmt.Sprintf("argument %d has shape %s, kernel specialized for %s", i, got, want),
		Err: ErrShapeMismatch,
	}
}
