// SPDX-License-Identifier: MIT

package eval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/katalvlaran/smallmat/codec"
	"github.com/katalvlaran/smallmat/linalg"
	"github.com/katalvlaran/smallmat/tensor"
)

// ErrRequest indicates a malformed request: bad option values or an
// argument that cannot be decoded.
var ErrRequest = errors.New("eval: invalid request")

// Request is one operation call.
//
// Args holds tensor.Any values and numbers (any Go integer or float kind,
// or json.Number). In JSON, a tensor argument is a codec document and a
// number is a JSON number:
//
//	{"op": "matmul", "args": [{"data": [[1, 2], [3, 4]]}, {"data": [1, 1]}]}
type Request struct {
	Op   string `json:"op"`
	Args []any  `json:"-"`

	// Epsilon overrides linalg.DefaultEpsilon for the norm operations.
	Epsilon *float64 `json:"eps,omitempty"`

	// SingularTol enables the Inverse singular guard.
	SingularTol *float64 `json:"singular_tol,omitempty"`

	// DType is the element type of constructed results (Diag). Empty means
	// the type of the value argument: int64 for integers, float64 otherwise.
	DType string `json:"dtype,omitempty"`
}

type requestJSON struct {
	Op          string            `json:"op"`
	Args        []json.RawMessage `json:"args"`
	Epsilon     *float64          `json:"eps,omitempty"`
	SingularTol *float64          `json:"singular_tol,omitempty"`
	DType       string            `json:"dtype,omitempty"`
}

// UnmarshalJSON decodes tensor arguments through codec and keeps numbers
// as json.Number so integers stay exact.
func (r *Request) UnmarshalJSON(b []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	args := make([]any, len(raw.Args))
	for i, a := range raw.Args {
		v, err := decodeArg(a)
		if err != nil {
			return fmt.Errorf("eval: %s argument %d: %w", raw.Op, i, err)
		}
		args[i] = v
	}
	*r = Request{Op: raw.Op, Args: args, Epsilon: raw.Epsilon, SingularTol: raw.SingularTol, DType: raw.DType}
	return nil
}

func decodeArg(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc codec.Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, errors.Join(ErrRequest, err)
		}
		return doc.Tensor()
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Join(ErrRequest, err)
	}
	return v, nil
}

// options resolves the numeric policy of r. Invalid values are reported
// here rather than left to the panicking linalg constructors.
func (r Request) options() ([]linalg.Option, error) {
	var opts []linalg.Option
	if r.Epsilon != nil {
		if !finiteNonNegative(*r.Epsilon) {
			return nil, fmt.Errorf("eval: eps = %v: %w", *r.Epsilon, ErrRequest)
		}
		opts = append(opts, linalg.WithEpsilon(*r.Epsilon))
	}
	if r.SingularTol != nil {
		if !finiteNonNegative(*r.SingularTol) {
			return nil, fmt.Errorf("eval: singular_tol = %v: %w", *r.SingularTol, ErrRequest)
		}
		opts = append(opts, linalg.WithSingularTolerance(*r.SingularTol))
	}
	return opts, nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// normalize replaces json.Number with int64 or float64 and typed nil
// tensors with untyped nil.
func normalize(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				out[i] = n
			} else if f, err := v.Float64(); err == nil {
				out[i] = f
			} else {
				out[i] = a
			}
		case tensor.Any:
			if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
				out[i] = nil
			} else {
				out[i] = v
			}
		default:
			out[i] = a
		}
	}
	return out
}

// operands describes normalized args for the precondition layer.
func operands(args []any) []linalg.Operand {
	out := make([]linalg.Operand, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case nil:
			out[i] = linalg.Operand{}
		case tensor.Any:
			out[i] = linalg.TensorOperand(v)
		default:
			out[i] = linalg.ConstOperand(v)
		}
	}
	return out
}

// intValue returns v as int64 when v is any Go integer kind that fits.
func intValue(v any) (int64, bool) {
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
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
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
	default:
		return 0, false
	}
}

// floatValue returns v as float64 for any Go numeric kind.
func floatValue(v any) (float64, bool) {
	if n, ok := intValue(v); ok {
		return float64(n), true
	}
	switch f := v.(type) {
	case uint:
		return float64(f), true
	case uint64:
		return float64(f), true
	case float32:
		return float64(f), true
	case float64:
		return f, true
	default:
		return 0, false
	}
}

// scalarAs converts a numeric constant to T. Integers convert directly so
// large 64-bit values are not routed through float64.
func scalarAs[T tensor.Scalar](v any) T {
	if u, ok := v.(uint64); ok {
		return T(u)
	}
	if n, ok := intValue(v); ok {
		return T(n)
	}
	f, _ := floatValue(v)
	return T(f)
}
