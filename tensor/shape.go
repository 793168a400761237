// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"math"
)

// MaxElements bounds the element count of any shape. It also keeps
// rows*cols from overflowing int on every platform.
const MaxElements = math.MaxInt32

// Shape is the static dimension tuple of a tensor: (n) for a vector or
// (rows, cols) for a matrix. Shape is comparable, so it can key maps of
// shape-specialized kernels. The zero Shape is invalid.
type Shape struct {
	rank int    // 1 or 2
	dims [2]int // dims[1] is 0 for vectors
}

// Vec returns the shape of an n-element vector.
func Vec(n int) Shape { return Shape{rank: 1, dims: [2]int{n, 0}} }

// Mat returns the shape of a rows×cols matrix.
func Mat(rows, cols int) Shape { return Shape{rank: 2, dims: [2]int{rows, cols}} }

// ShapeOf builds a Shape from a dimension list of length 1 or 2.
func ShapeOf(dims ...int) (Shape, error) {
	var s Shape
	switch len(dims) {
	case 1:
		s = Vec(dims[0])
	case 2:
		s = Mat(dims[0], dims[1])
	default:
		return Shape{}, fmt.Errorf("tensor: ShapeOf(%v): rank %d: %w", dims, len(dims), ErrBadShape)
	}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Rank returns 1 for vectors and 2 for matrices.
func (s Shape) Rank() int { return s.rank }

// Rows returns the leading dimension (the length, for a vector).
func (s Shape) Rows() int { return s.dims[0] }

// Cols returns the trailing dimension of a matrix; 0 for a vector.
func (s Shape) Cols() int { return s.dims[1] }

// Dims returns the dimensions as a fresh slice of length Rank.
func (s Shape) Dims() []int {
	out := make([]int, s.rank)
	copy(out, s.dims[:s.rank])
	return out
}

// IsVector reports rank 1.
func (s Shape) IsVector() bool { return s.rank == 1 }

// IsMatrix reports rank 2.
func (s Shape) IsMatrix() bool { return s.rank == 2 }

// IsSquare reports a rank-2 shape with Rows == Cols.
func (s Shape) IsSquare() bool { return s.rank == 2 && s.dims[0] == s.dims[1] }

// NumElements returns the element count.
func (s Shape) NumElements() int {
	switch s.rank {
	case 1:
		return s.dims[0]
	case 2:
		return s.dims[0] * s.dims[1]
	default:
		return 0
	}
}

// T returns the transposed shape; vectors are returned unchanged.
func (s Shape) T() Shape {
	if s.rank != 2 {
		return s
	}
	return Mat(s.dims[1], s.dims[0])
}

// Validate checks rank ∈ {1,2}, all dims > 0 and at most MaxElements
// elements in total.
func (s Shape) Validate() error {
	switch s.rank {
	case 1:
		if s.dims[0] <= 0 {
			return fmt.Errorf("tensor: shape %s: %w", s, ErrBadShape)
		}
		if s.dims[0] > MaxElements {
			return fmt.Errorf("tensor: shape %s exceeds %d elements: %w", s, MaxElements, ErrBadShape)
		}
	case 2:
		if s.dims[0] <= 0 || s.dims[1] <= 0 {
			return fmt.Errorf("tensor: shape %s: %w", s, ErrBadShape)
		}
		if s.dims[0] > MaxElements/s.dims[1] {
			return fmt.Errorf("tensor: shape %s exceeds %d elements: %w", s, MaxElements, ErrBadShape)
		}
	default:
		return fmt.Errorf("tensor: rank %d: %w", s.rank, ErrBadShape)
	}
	return nil
}

// String renders vectors as "[n]" and matrices as "r×c".
func (s Shape) String() string {
	switch s.rank {
	case 1:
		return fmt.Sprintf("[%d]", s.dims[0])
	case 2:
		return fmt.Sprintf("%d×%d", s.dims[0], s.dims[1])
	default:
		return "[]"
	}
}
