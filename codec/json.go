// SPDX-License-Identifier: MIT

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/smallmat/tensor"
)

// Document is the undecoded form of a JSON tensor, for callers that embed
// tensors in larger JSON values.
type Document struct {
	DType string          `json:"dtype,omitempty"`
	Shape []int           `json:"shape,omitempty"`
	Data  json.RawMessage `json:"data"`
}

// MarshalJSON encodes x as a JSON document. NaN and ±Inf have no JSON
// representation and are rejected.
func MarshalJSON(x tensor.Any) ([]byte, error) {
	if x == nil {
		return nil, fmt.Errorf("codec: MarshalJSON: nil tensor: %w", ErrFormat)
	}
	nums, err := numbers(x)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(nums)
	if err != nil {
		return nil, fmt.Errorf("codec: MarshalJSON: %w", err)
	}
	return json.Marshal(Document{DType: x.DType().String(), Shape: x.Shape().Dims(), Data: data})
}

// UnmarshalJSON decodes one JSON document into a tensor whose concrete type
// is *tensor.Tensor[T] for the document's dtype.
func UnmarshalJSON(b []byte) (tensor.Any, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("codec: UnmarshalJSON: %w: %w", ErrFormat, err)
	}
	return doc.Tensor()
}

// Tensor converts the document into a tensor.
func (d Document) Tensor() (tensor.Any, error) {
	dt := tensor.Float64
	if d.DType != "" {
		var err error
		if dt, err = tensor.ParseDType(d.DType); err != nil {
			return nil, err
		}
	}
	nums, inferred, err := parseData(d.Data)
	if err != nil {
		return nil, err
	}
	s := inferred
	if d.Shape != nil {
		if err := checkDims(d.Shape); err != nil {
			return nil, err
		}
		if s, err = tensor.ShapeOf(d.Shape...); err != nil {
			return nil, fmt.Errorf("codec: shape %v: %w: %w", d.Shape, ErrFormat, err)
		}
	}
	if err := checkSize(s); err != nil {
		return nil, err
	}
	if len(nums) != s.NumElements() {
		return nil, fmt.Errorf("codec: %d elements for shape %s: %w", len(nums), s, ErrFormat)
	}
	return fromNumbers(dt, s, nums)
}

// parseData accepts a flat array (vector shape) or an array of equal-length
// rows (matrix shape).
func parseData(raw json.RawMessage) ([]json.Number, tensor.Shape, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, tensor.Shape{}, fmt.Errorf("codec: missing data: %w", ErrFormat)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var flat []json.Number
	if err := dec.Decode(&flat); err == nil {
		return flat, tensor.Vec(len(flat)), nil
	}

	dec = json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows [][]json.Number
	if err := dec.Decode(&rows); err != nil {
		return nil, tensor.Shape{}, fmt.Errorf("codec: data: %w: %w", ErrFormat, err)
	}
	if len(rows) == 0 {
		return nil, tensor.Shape{}, fmt.Errorf("codec: empty data: %w", ErrFormat)
	}
	c := len(rows[0])
	out := make([]json.Number, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, tensor.Shape{}, fmt.Errorf("codec: row %d has %d elements, want %d: %w", i, len(row), c, ErrFormat)
		}
		out = append(out, row...)
	}
	return out, tensor.Mat(len(rows), c), nil
}

// numbers formats the elements of x exactly (no float64 round trip for
// 64-bit integers).
func numbers(x tensor.Any) ([]json.Number, error) {
	switch t := x.(type) {
	case *tensor.Tensor[int8]:
		return formatInts(t.Data()), nil
	case *tensor.Tensor[int16]:
		return formatInts(t.Data()), nil
	case *tensor.Tensor[int32]:
		return formatInts(t.Data()), nil
	case *tensor.Tensor[int64]:
		return formatInts(t.Data()), nil
	case *tensor.Tensor[uint8]:
		return formatUints(t.Data()), nil
	case *tensor.Tensor[uint16]:
		return formatUints(t.Data()), nil
	case *tensor.Tensor[uint32]:
		return formatUints(t.Data()), nil
	case *tensor.Tensor[uint64]:
		return formatUints(t.Data()), nil
	case *tensor.Tensor[float32]:
		return formatFloats(t.Data(), 32)
	case *tensor.Tensor[float64]:
		return formatFloats(t.Data(), 64)
	default:
		return nil, fmt.Errorf("codec: %T: %w", x, ErrUnsupported)
	}
}

func formatInts[T int8 | int16 | int32 | int64](xs []T) []json.Number {
	out := make([]json.Number, len(xs))
	for i, v := range xs {
		out[i] = json.Number(strconv.FormatInt(int64(v), 10))
	}
	return out
}

func formatUints[T uint8 | uint16 | uint32 | uint64](xs []T) []json.Number {
	out := make([]json.Number, len(xs))
	for i, v := range xs {
		out[i] = json.Number(strconv.FormatUint(uint64(v), 10))
	}
	return out
}

func formatFloats[T float32 | float64](xs []T, bits int) ([]json.Number, error) {
	out := make([]json.Number, len(xs))
	for i, v := range xs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("codec: element %d is %v: %w", i, v, ErrNumber)
		}
		out[i] = json.Number(strconv.FormatFloat(f, 'g', -1, bits))
	}
	return out, nil
}

func fromNumbers(dt tensor.DType, s tensor.Shape, nums []json.Number) (tensor.Any, error) {
	switch dt {
	case tensor.Int8:
		return parseInts[int8](s, nums, 8)
	case tensor.Int16:
		return parseInts[int16](s, nums, 16)
	case tensor.Int32:
		return parseInts[int32](s, nums, 32)
	case tensor.Int64:
		return parseInts[int64](s, nums, 64)
	case tensor.Uint8:
		return parseUints[uint8](s, nums, 8)
	case tensor.Uint16:
		return parseUints[uint16](s, nums, 16)
	case tensor.Uint32:
		return parseUints[uint32](s, nums, 32)
	case tensor.Uint64:
		return parseUints[uint64](s, nums, 64)
	case tensor.Float32:
		return parseFloats[float32](s, nums, 32)
	case tensor.Float64:
		return parseFloats[float64](s, nums, 64)
	default:
		return nil, fmt.Errorf("codec: dtype %s: %w", dt, tensor.ErrUnknownDType)
	}
}

func parseInts[T int8 | int16 | int32 | int64](s tensor.Shape, nums []json.Number, bits int) (tensor.Any, error) {
	x, err := tensor.New[T](s)
	if err != nil {
		return nil, err
	}
	d := x.Data()
	for i, n := range nums {
		v, err := strconv.ParseInt(n.String(), 10, bits)
		if err != nil {
			return nil, fmt.Errorf("codec: element %d %q as %s: %w", i, n, x.DType(), ErrNumber)
		}
		d[i] = T(v)
	}
	return x, nil
}

func parseUints[T uint8 | uint16 | uint32 | uint64](s tensor.Shape, nums []json.Number, bits int) (tensor.Any, error) {
	x, err := tensor.New[T](s)
	if err != nil {
		return nil, err
	}
	d := x.Data()
	for i, n := range nums {
		v, err := strconv.ParseUint(n.String(), 10, bits)
		if err != nil {
			return nil, fmt.Errorf("codec: element %d %q as %s: %w", i, n, x.DType(), ErrNumber)
		}
		d[i] = T(v)
	}
	return x, nil
}

func parseFloats[T float32 | float64](s tensor.Shape, nums []json.Number, bits int) (tensor.Any, error) {
	x, err := tensor.New[T](s)
	if err != nil {
		return nil, err
	}
	d := x.Data()
	for i, n := range nums {
		v, err := strconv.ParseFloat(n.String(), bits)
		if err != nil {
			return nil, fmt.Errorf("codec: element %d %q as %s: %w", i, n, x.DType(), ErrNumber)
		}
		d[i] = T(v)
	}
	return x, nil
}
