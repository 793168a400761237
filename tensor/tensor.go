// SPDX-License-Identifier: MIT
// Package tensor provides the dense fixed-shape value type operated on by
// package linalg. A Tensor stores its elements in a flat row-major slice;
// its shape and element type never change after construction.
package tensor

import (
	"fmt"
	"strings"
)

// Any is the dtype-erased view of a *Tensor[T], used by code that handles
// tensors of several element types (decoders, the dynamic evaluator).
type Any interface {
	Shape() Shape
	DType() DType
	Len() int
	// Float64s returns a row-major copy of the elements widened to float64.
	Float64s() []float64
}

// Tensor is a row-major vector or matrix of T.
type Tensor[T Scalar] struct {
	shape Shape // immutable
	data  []T   // len == shape.NumElements()
}

var _ Any = (*Tensor[float64])(nil)

// tensorErrorf wraps err with accessor context.
func tensorErrorf(method string, idx []int, err error) error {
	return fmt.Errorf("Tensor.%s%v: %w", method, idx, err)
}

// New returns a zero-filled tensor of shape s.
// Complexity: O(n) zeroing by the runtime.
func New[T Scalar](s Shape) (*Tensor[T], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Tensor[T]{shape: s, data: make([]T, s.NumElements())}, nil
}

// FromData copies data (row-major) into a new tensor of shape s.
func FromData[T Scalar](s Shape, data []T) (*Tensor[T], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(data) != s.NumElements() {
		return nil, fmt.Errorf("tensor: FromData(%s, len=%d): %w", s, len(data), ErrDataLength)
	}
	buf := make([]T, len(data))
	copy(buf, data)
	return &Tensor[T]{shape: s, data: buf}, nil
}

// FromRows builds a matrix from a rectangular [][]T.
func FromRows[T Scalar](rows [][]T) (*Tensor[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("tensor: FromRows: empty input: %w", ErrBadShape)
	}
	r, c := len(rows), len(rows[0])
	buf := make([]T, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("tensor: FromRows: row %d has %d elements, want %d: %w", i, len(row), c, ErrRaggedRows)
		}
		buf = append(buf, row...)
	}
	return &Tensor[T]{shape: Mat(r, c), data: buf}, nil
}

// FromValues builds a vector holding vals.
func FromValues[T Scalar](vals ...T) (*Tensor[T], error) {
	return FromData(Vec(len(vals)), vals)
}

// FromFloat64s narrows row-major float64 data into a new tensor of T.
// Conversion follows Go's numeric conversion rules.
func FromFloat64s[T Scalar](s Shape, data []float64) (*Tensor[T], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(data) != s.NumElements() {
		return nil, fmt.Errorf("tensor: FromFloat64s(%s, len=%d): %w", s, len(data), ErrDataLength)
	}
	buf := make([]T, len(data))
	for i, v := range data {
		buf[i] = T(v)
	}
	return &Tensor[T]{shape: s, data: buf}, nil
}

// Must panics if err is non-nil. Intended for literals in tests and examples.
func Must[T Scalar](t *Tensor[T], err error) *Tensor[T] {
	if err != nil {
		panic(err)
	}
	return t
}

// Shape returns the static shape.
func (t *Tensor[T]) Shape() Shape { return t.shape }

// DType returns the element type tag.
func (t *Tensor[T]) DType() DType { return DTypeOf[T]() }

// Len returns the number of elements.
func (t *Tensor[T]) Len() int { return len(t.data) }

// Data returns the row-major backing slice (no copy). Writes through the
// returned slice modify the tensor.
func (t *Tensor[T]) Data() []T { return t.data }

// At reads matrix element (i, j).
func (t *Tensor[T]) At(i, j int) (T, error) {
	if t.shape.rank != 2 || i < 0 || i >= t.shape.dims[0] || j < 0 || j >= t.shape.dims[1] {
		var zero T
		return zero, tensorErrorf("At", []int{i, j}, ErrOutOfRange)
	}
	return t.data[i*t.shape.dims[1]+j], nil
}

// Set writes matrix element (i, j).
func (t *Tensor[T]) Set(i, j int, v T) error {
	if t.shape.rank != 2 || i < 0 || i >= t.shape.dims[0] || j < 0 || j >= t.shape.dims[1] {
		return tensorErrorf("Set", []int{i, j}, ErrOutOfRange)
	}
	t.data[i*t.shape.dims[1]+j] = v
	return nil
}

// AtVec reads vector element i.
func (t *Tensor[T]) AtVec(i int) (T, error) {
	if t.shape.rank != 1 || i < 0 || i >= t.shape.dims[0] {
		var zero T
		return zero, tensorErrorf("AtVec", []int{i}, ErrOutOfRange)
	}
	return t.data[i], nil
}

// SetVec writes vector element i.
func (t *Tensor[T]) SetVec(i int, v T) error {
	if t.shape.rank != 1 || i < 0 || i >= t.shape.dims[0] {
		return tensorErrorf("SetVec", []int{i}, ErrOutOfRange)
	}
	t.data[i] = v
	return nil
}

// Clone returns a deep copy.
func (t *Tensor[T]) Clone() *Tensor[T] {
	buf := make([]T, len(t.data))
	copy(buf, t.data)
	return &Tensor[T]{shape: t.shape, data: buf}
}

// Rows returns a copy of the elements as one row per matrix row; a vector
// yields a single row.
func (t *Tensor[T]) Rows() [][]T {
	r, c := t.shape.dims[0], t.shape.dims[1]
	if t.shape.rank == 1 {
		r, c = 1, t.shape.dims[0]
	}
	out := make([][]T, r)
	for i := range r {
		out[i] = append([]T(nil), t.data[i*c:(i+1)*c]...)
	}
	return out
}

// Float64s implements Any.
func (t *Tensor[T]) Float64s() []float64 {
	out := make([]float64, len(t.data))
	for i, v := range t.data {
		out[i] = float64(v)
	}
	return out
}

// Equal reports identical shape and elements.
func (t *Tensor[T]) Equal(o *Tensor[T]) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.shape != o.shape {
		return false
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// String renders one bracketed line per row.
func (t *Tensor[T]) String() string {
	var sb strings.Builder
	for _, row := range t.Rows() {
		sb.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%v", v)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// Cast converts x to element type U (the dt override of constructors).
// Conversion follows Go's numeric conversion rules.
func Cast[U, T Scalar](x *Tensor[T]) *Tensor[U] {
	buf := make([]U, len(x.data))
	for i, v := range x.data {
		buf[i] = U(v)
	}
	return &Tensor[U]{shape: x.shape, data: buf}
}
