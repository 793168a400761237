// SPDX-License-Identifier: MIT
// Package linalg: error taxonomy.
//
// Two categories are reported at specialization time, before any kernel body
// is selected:
//   - ShapeError: operand not square, dimension past the closed-form limit,
//     incompatible inner dimensions, wrong rank.
//   - TypeError: missing/non-tensor operand, non-constant or non-integer
//     dimension, non-numeric value, mixed element types.
//
// Every concrete failure is a *ShapeError or *TypeError. Both unwrap to a
// specific sentinel (ErrNonSquare, ErrNotConstant, ...) and match their
// category sentinel (ErrShape, ErrType) through Is, so callers can test at
// either granularity with errors.Is.

package linalg

import "errors"

// Category sentinels.
var (
	ErrShape = errors.New("linalg: shape error")
	ErrType  = errors.New("linalg: type error")
)

// Shape sentinels (category ErrShape).
var (
	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrDimensionTooLarge signals a dimension at or past a closed-form limit.
	ErrDimensionTooLarge = errors.New("linalg: dimension not supported")

	// ErrBadDimension signals an invalid tensor shape or a non-positive
	// dimension constant.
	ErrBadDimension = errors.New("linalg: invalid dimension")

	// ErrDimensionMismatch signals incompatible operand dimensions (matmul).
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrNotVector signals that a rank-1 operand was required.
	ErrNotVector = errors.New("linalg: operand is not a vector")

	// ErrShapeMismatch signals a kernel applied to a tensor whose shape
	// differs from the one it was specialized for.
	ErrShapeMismatch = errors.New("linalg: shape differs from specialization")

	// ErrUndefinedShape marks a dispatch with no body for the shape. It can
	// only surface if a precondition list and a dispatch table disagree.
	ErrUndefinedShape = errors.New("linalg: operation undefined for shape")
)

// Type sentinels (category ErrType).
var (
	// ErrNotTensor signals a nil or non-tensor operand where a tensor is required.
	ErrNotTensor = errors.New("linalg: operand is not a tensor")

	// ErrNotConstant signals a dimension argument that is not an integer constant.
	ErrNotConstant = errors.New("linalg: expected integer constant")

	// ErrNotNumber signals a fill/diagonal value that is neither a number nor a scalar.
	ErrNotNumber = errors.New("linalg: expected numeric value")

	// ErrDTypeMismatch signals binary operands with different element types.
	ErrDTypeMismatch = errors.New("linalg: element type mismatch")

	// ErrNegativeExponent signals an integer power with a negative exponent.
	ErrNegativeExponent = errors.New("linalg: negative exponent for integer power")

	// ErrUnknownOp signals an operation name missing from the catalog.
	ErrUnknownOp = errors.New("linalg: unknown operation")
)

// ErrSingular is returned by Inverse when WithSingularTolerance is set and
// |det| does not exceed the tolerance. It belongs to neither category: it is
// the only value-dependent failure and is raised at apply time.
var ErrSingular = errors.New("linalg: singular matrix")

// ShapeError reports a shape precondition failure.
type ShapeError struct {
	Op  string // operation name, e.g. "Determinant"
	Msg string // formatted detail naming the offending shape
	Err error  // specific sentinel
}

func (e *ShapeError) Error() string { return e.Op + ": " + e.Msg }

// Unwrap returns the specific sentinel.
func (e *ShapeError) Unwrap() error { return e.Err }

// Is matches the ErrShape category.
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// TypeError reports a type precondition failure.
type TypeError struct {
	Op  string
	Msg string
	Err error
}

func (e *TypeError) Error() string { return e.Op + ": " + e.Msg }

// Unwrap returns the specific sentinel.
func (e *TypeError) Unwrap() error { return e.Err }

// Is matches the ErrType category.
func (e *TypeError) Is(target error) bool { return target == ErrType }
