// SPDX-License-Identifier: MIT
// Package tensor: sentinel errors. Callers match them with errors.Is; every
// message carries the "tensor: " prefix.

package tensor

import "errors"

var (
	// ErrBadShape is returned when a shape has rank other than 1 or 2,
	// or a non-positive dimension.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates an index outside the tensor bounds, or an
	// accessor used with the wrong rank (At on a vector, AtVec on a matrix).
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDataLength indicates that a backing slice does not match the
	// element count of the requested shape.
	ErrDataLength = errors.New("tensor: data length does not match shape")

	// ErrRaggedRows is returned by FromRows when rows differ in length.
	ErrRaggedRows = errors.New("tensor: ragged rows")

	// ErrUnknownDType is returned by ParseDType for unrecognized names.
	ErrUnknownDType = errors.New("tensor: unknown dtype")
)
