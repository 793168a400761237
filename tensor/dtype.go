// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"strings"
)

// Integer is the set of supported integer element types.
type Integer interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64
}

// Float is the set of supported floating-point element types.
type Float interface {
	float32 | float64
}

// Scalar is the set of element types a Tensor may hold.
// The set is closed (no ~ approximations) so DTypeOf can map every
// instantiation to exactly one DType.
type Scalar interface {
	Integer | Float
}

// DType is the runtime tag of a tensor element type.
type DType uint8

// Supported element types. The zero value is Invalid.
const (
	Invalid DType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

var dtypeNames = [...]string{
	Invalid: "invalid",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

// short aliases accepted by ParseDType in addition to the canonical names.
var dtypeAliases = map[string]DType{
	"i8": Int8, "i16": Int16, "i32": Int32, "i64": Int64,
	"u8": Uint8, "u16": Uint16, "u32": Uint32, "u64": Uint64,
	"f32": Float32, "f64": Float64,
}

// String returns the canonical lowercase name ("float32", "int64", ...).
func (dt DType) String() string {
	if int(dt) < len(dtypeNames) {
		return dtypeNames[dt]
	}
	return fmt.Sprintf("dtype(%d)", uint8(dt))
}

// Size returns the byte width of one element; 0 for Invalid.
func (dt DType) Size() int {
	switch dt {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether dt is a floating-point type.
func (dt DType) IsFloat() bool { return dt == Float32 || dt == Float64 }

// IsSigned reports whether dt can hold negative values.
func (dt DType) IsSigned() bool {
	switch dt {
	case Int8, Int16, Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// Valid reports whether dt names a supported element type.
func (dt DType) Valid() bool { return dt > Invalid && dt <= Float64 }

// ParseDType resolves a canonical name or a short alias (f32, i64, ...).
func ParseDType(s string) (DType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for dt := Int8; dt <= Float64; dt++ {
		if dtypeNames[dt] == name {
			return dt, nil
		}
	}
	if dt, ok := dtypeAliases[name]; ok {
		return dt, nil
	}
	return Invalid, fmt.Errorf("tensor: ParseDType(%q): %w", s, ErrUnknownDType)
}

// DTypeOf returns the DType of the type parameter T.
func DTypeOf[T Scalar]() DType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	}
	// unreachable: Scalar is a closed type set
	return Invalid
}
