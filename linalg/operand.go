// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"math"

	"github.com/katalvlaran/smallmat/tensor"
)

// OperandKind classifies an argument as seen by preconditions.
type OperandKind uint8

const (
	// KindNone is the zero kind: a missing or nil argument.
	KindNone OperandKind = iota
	// KindTensor is a vector or matrix; Shape and DType are set.
	KindTensor
	// KindScalar is a runtime scalar of a known DType (no value).
	KindScalar
	// KindConst is a value known at specialization time (Value is set).
	KindConst
)

func (k OperandKind) String() string {
	switch k {
	case KindTensor:
		return "tensor"
	case KindScalar:
		return "scalar"
	case KindConst:
		return "constant"
	default:
		return "none"
	}
}

// Operand describes one argument of an operation at specialization time.
// Preconditions look only at Operands, never at element values.
type Operand struct {
	Kind  OperandKind
	Shape tensor.Shape
	DType tensor.DType
	Value any // KindConst only
}

// ShapeOperand describes a tensor argument of shape s and element type dt.
func ShapeOperand(s tensor.Shape, dt tensor.DType) Operand {
	return Operand{Kind: KindTensor, Shape: s, DType: dt}
}

// TensorOperand describes x; a nil x yields a KindNone operand.
func TensorOperand(x tensor.Any) Operand {
	if x == nil {
		return Operand{}
	}
	return ShapeOperand(x.Shape(), x.DType())
}

// ScalarOperand describes a runtime scalar of element type dt.
func ScalarOperand(dt tensor.DType) Operand {
	return Operand{Kind: KindScalar, DType: dt}
}

// ConstOperand describes a value fixed at specialization time.
func ConstOperand(v any) Operand {
	return Operand{Kind: KindConst, Value: v}
}

// operandOf is the typed counterpart of TensorOperand; it sees through a
// nil *Tensor that would otherwise hide inside a non-nil interface.
func operandOf[T tensor.Scalar](x *tensor.Tensor[T]) Operand {
	if x == nil {
		return Operand{}
	}
	return ShapeOperand(x.Shape(), x.DType())
}

func (o Operand) String() string {
	switch o.Kind {
	case KindTensor:
		return fmt.Sprintf("tensor %s %s", o.DType, o.Shape)
	case KindScalar:
		return fmt.Sprintf("scalar %s", o.DType)
	case KindConst:
		return fmt.Sprintf("constant %v (%T)", o.Value, o.Value)
	default:
		return "none"
	}
}

// constInt extracts an integer constant. Only Go integer kinds count:
// 3.0 is not an integer constant. Unsigned values above math.MaxInt64 are
// rejected rather than wrapped.
func constInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// constFloat reports whether v is a Go floating-point value.
func constFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// constNumber reports whether v is any Go numeric value.
func constNumber(v any) bool {
	if _, ok := constInt(v); ok {
		return true
	}
	switch v.(type) {
	case uint, uint64, float32, float64:
		return true
	default:
		return false
	}
}
