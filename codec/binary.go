// SPDX-License-Identifier: MIT

package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/x448/float16"

	"github.com/katalvlaran/smallmat/tensor"
)

var magic = [4]byte{'S', 'M', 'T', '1'}

const (
	storageNative uint8 = 0
	storageHalf   uint8 = 1
)

type header struct {
	Magic   [4]byte
	DType   uint8
	Storage uint8
	Rank    uint8
}

// WriteBinary writes x to w in the binary layout. Options: WithHalf.
func WriteBinary(w io.Writer, x tensor.Any, opts ...Option) error {
	if x == nil {
		return fmt.Errorf("codec: WriteBinary: nil tensor: %w", ErrFormat)
	}
	o := gatherOptions(opts...)
	dt, s := x.DType(), x.Shape()

	h := header{Magic: magic, DType: uint8(dt), Storage: storageNative, Rank: uint8(s.Rank())}
	if o.half {
		if !dt.IsFloat() {
			return fmt.Errorf("codec: WriteBinary(%s): %w", dt, ErrHalf)
		}
		h.Storage = storageHalf
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	for _, d := range s.Dims() {
		if err := binary.Write(w, binary.LittleEndian, uint32(d)); err != nil {
			return err
		}
	}

	if o.half {
		return binary.Write(w, binary.LittleEndian, toHalf(x.Float64s()))
	}
	return writeNative(w, x)
}

// MarshalBinary returns the binary encoding of x.
func MarshalBinary(x tensor.Any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, x, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadBinary reads one tensor written by WriteBinary. The concrete type of
// the result is *tensor.Tensor[T] for the encoded dtype.
func ReadBinary(r io.Reader) (tensor.Any, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, truncated("header", err)
	}
	if h.Magic != magic {
		return nil, fmt.Errorf("codec: bad magic %q: %w", h.Magic[:], ErrFormat)
	}
	dt := tensor.DType(h.DType)
	if !dt.Valid() {
		return nil, fmt.Errorf("codec: dtype byte %d: %w", h.DType, ErrFormat)
	}
	if h.Rank != 1 && h.Rank != 2 {
		return nil, fmt.Errorf("codec: rank %d: %w", h.Rank, ErrFormat)
	}

	dims := make([]uint32, h.Rank)
	if err := binary.Read(r, binary.LittleEndian, dims); err != nil {
		return nil, truncated("dims", err)
	}
	if err := checkDims(dims); err != nil {
		return nil, err
	}
	ints := make([]int, len(dims))
	for i, d := range dims {
		ints[i] = int(d)
	}
	s, err := tensor.ShapeOf(ints...)
	if err != nil {
		return nil, fmt.Errorf("codec: dims %v: %w: %w", dims, ErrFormat, err)
	}
	if err := checkSize(s); err != nil {
		return nil, err
	}

	switch h.Storage {
	case storageNative:
		return readNative(r, dt, s)
	case storageHalf:
		if !dt.IsFloat() {
			return nil, fmt.Errorf("codec: half storage for %s: %w", dt, ErrFormat)
		}
		bits := make([]uint16, s.NumElements())
		if err := binary.Read(r, binary.LittleEndian, bits); err != nil {
			return nil, truncated("data", err)
		}
		if dt == tensor.Float32 {
			return tensor.Must(tensor.FromFloat64s[float32](s, fromHalf(bits))), nil
		}
		return tensor.Must(tensor.FromFloat64s[float64](s, fromHalf(bits))), nil
	default:
		return nil, fmt.Errorf("codec: storage mode %d: %w", h.Storage, ErrFormat)
	}
}

// UnmarshalBinary decodes b, which must hold exactly one tensor.
func UnmarshalBinary(b []byte) (tensor.Any, error) {
	r := bytes.NewReader(b)
	x, err := ReadBinary(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("codec: %d trailing bytes: %w", r.Len(), ErrFormat)
	}
	return x, nil
}

func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("codec: truncated %s: %w", what, ErrFormat)
	}
	return err
}

func toHalf(xs []float64) []uint16 {
	out := make([]uint16, len(xs))
	for i, v := range xs {
		out[i] = float16.Fromfloat32(float32(v)).Bits()
	}
	return out
}

func fromHalf(bits []uint16) []float64 {
	out := make([]float64, len(bits))
	for i, b := range bits {
		out[i] = float64(float16.Frombits(b).Float32())
	}
	return out
}

func writeNative(w io.Writer, x tensor.Any) error {
	switch t := x.(type) {
	case *tensor.Tensor[int8]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[int16]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[int32]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[int64]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[uint8]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[uint16]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[uint32]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[uint64]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[float32]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	case *tensor.Tensor[float64]:
		return binary.Write(w, binary.LittleEndian, t.Data())
	default:
		return fmt.Errorf("codec: %T: %w", x, ErrUnsupported)
	}
}

func readNative(r io.Reader, dt tensor.DType, s tensor.Shape) (tensor.Any, error) {
	switch dt {
	case tensor.Int8:
		return read[int8](r, s)
	case tensor.Int16:
		return read[int16](r, s)
	case tensor.Int32:
		return read[int32](r, s)
	case tensor.Int64:
		return read[int64](r, s)
	case tensor.Uint8:
		return read[uint8](r, s)
	case tensor.Uint16:
		return read[uint16](r, s)
	case tensor.Uint32:
		return read[uint32](r, s)
	case tensor.Uint64:
		return read[uint64](r, s)
	case tensor.Float32:
		return read[float32](r, s)
	default:
		return read[float64](r, s)
	}
}

func read[T tensor.Scalar](r io.Reader, s tensor.Shape) (tensor.Any, error) {
	x, err := tensor.New[T](s)
	if err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, x.Data()); err != nil {
		return nil, truncated("data", err)
	}
	return x, nil
}
