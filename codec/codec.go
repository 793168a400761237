// SPDX-License-Identifier: MIT

// Package codec encodes tensors as JSON documents and as a compact
// little-endian binary format.
//
// JSON:
//
//	{"dtype": "float64", "shape": [2, 2], "data": [1, 2, 3, 4]}
//
// data is row-major and flat. On input, data may also be nested rows
// ([[1, 2], [3, 4]]), shape may be omitted (it is inferred from data) and
// dtype defaults to float64.
//
// Binary layout:
//
//	"SMT1" | dtype u8 | storage u8 | rank u8 | dims u32 × rank | data
//
// storage is 0 for native element encoding or 1 for IEEE 754 half
// precision (float tensors only, see WithHalf). Half-precision data decodes
// back to the declared dtype.
package codec

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/smallmat/tensor"
)

var (
	// ErrFormat indicates malformed input: bad magic, unknown storage mode,
	// truncated data, or a JSON document that does not describe a tensor.
	ErrFormat = errors.New("codec: malformed input")

	// ErrNumber indicates a data element that does not fit the dtype.
	ErrNumber = errors.New("codec: invalid number for dtype")

	// ErrHalf indicates half-precision storage requested for a non-float dtype.
	ErrHalf = errors.New("codec: half precision requires a float dtype")

	// ErrTooLarge indicates a declared element count above MaxElements.
	ErrTooLarge = errors.New("codec: tensor too large")

	// ErrUnsupported indicates a tensor.Any implementation codec cannot see into.
	ErrUnsupported = errors.New("codec: unsupported tensor implementation")
)

// MaxElements caps the element count a decoder will allocate.
const MaxElements = 1 << 24

// Option configures an encoder.
type Option func(*options)

type options struct {
	half bool
}

// WithHalf stores float32/float64 elements as IEEE half precision.
func WithHalf() Option {
	return func(o *options) { o.half = true }
}

func gatherOptions(opts ...Option) options {
	var o options
	for _, set := range opts {
		set(&o)
	}
	return o
}

// checkDims rejects any single dimension above MaxElements before a shape
// is built, so rows*cols is never computed on untrusted values.
func checkDims[D int | uint32](dims []D) error {
	for _, d := range dims {
		if d > MaxElements {
			return fmt.Errorf("codec: dimension %d exceeds %d elements: %w", d, MaxElements, ErrTooLarge)
		}
	}
	return nil
}

func checkSize(s tensor.Shape) error {
	if err := s.Validate(); err != nil {
		return errors.Join(ErrFormat, err)
	}
	if s.NumElements() > MaxElements {
		return ErrTooLarge
	}
	return nil
}
