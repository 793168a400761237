package codec_test

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smallmat/codec"
	"github.com/katalvlaran/smallmat/tensor"
)

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	x := tensor.Must(tensor.FromRows([][]float64{{1, 2.5}, {-3, 4}}))
	b, err := codec.MarshalJSON(x)
	require.NoError(t, err)
	require.JSONEq(t, `{"dtype":"float64","shape":[2,2],"data":[1,2.5,-3,4]}`, string(b))

	u := tensor.Must(tensor.FromValues[uint8](0, 255))
	b, err = codec.MarshalJSON(u)
	require.NoError(t, err)
	require.JSONEq(t, `{"dtype":"uint8","shape":[2],"data":[0,255]}`, string(b), "uint8 data must not become base64")

	big := tensor.Must(tensor.FromValues[int64](math.MaxInt64, math.MinInt64))
	b, err = codec.MarshalJSON(big)
	require.NoError(t, err)
	require.Contains(t, string(b), "9223372036854775807")
	require.Contains(t, string(b), "-9223372036854775808")
}

func TestMarshalJSON_RejectsNonFinite(t *testing.T) {
	t.Parallel()

	_, err := codec.MarshalJSON(tensor.Must(tensor.FromValues(1.0, math.Inf(1))))
	require.ErrorIs(t, err, codec.ErrNumber)
	_, err = codec.MarshalJSON(tensor.Must(tensor.FromValues(float32(math.NaN()))))
	require.ErrorIs(t, err, codec.ErrNumber)
	_, err = codec.MarshalJSON(nil)
	require.ErrorIs(t, err, codec.ErrFormat)
}

func TestUnmarshalJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		in    string
		dtype tensor.DType
		shape tensor.Shape
		data  []float64
	}{
		{"flat with shape", `{"dtype":"int32","shape":[2,2],"data":[1,2,3,4]}`, tensor.Int32, tensor.Mat(2, 2), []float64{1, 2, 3, 4}},
		{"nested rows", `{"dtype":"f32","data":[[1,2,3],[4,5,6]]}`, tensor.Float32, tensor.Mat(2, 3), []float64{1, 2, 3, 4, 5, 6}},
		{"vector default dtype", `{"data":[0.5,1.5]}`, tensor.Float64, tensor.Vec(2), []float64{0.5, 1.5}},
		{"column matrix", `{"shape":[3,1],"data":[7,8,9]}`, tensor.Float64, tensor.Mat(3, 1), []float64{7, 8, 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, err := codec.UnmarshalJSON([]byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.dtype, x.DType())
			assert.Equal(t, tc.shape, x.Shape())
			assert.Equal(t, tc.data, x.Float64s())
		})
	}

	x, err := codec.UnmarshalJSON([]byte(`{"dtype":"uint64","data":[18446744073709551615]}`))
	require.NoError(t, err)
	require.Equal(t, []uint64{math.MaxUint64}, x.(*tensor.Tensor[uint64]).Data())
}

func TestUnmarshalJSON_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want error
	}{
		{"not json", `{`, codec.ErrFormat},
		{"no data", `{"dtype":"float64"}`, codec.ErrFormat},
		{"ragged", `{"data":[[1,2],[3]]}`, codec.ErrFormat},
		{"count mismatch", `{"shape":[2,2],"data":[1,2,3]}`, codec.ErrFormat},
		{"rank 3", `{"shape":[1,1,1],"data":[1]}`, codec.ErrFormat},
		{"int overflow", `{"dtype":"int8","data":[128]}`, codec.ErrNumber},
		{"fraction for int", `{"dtype":"int32","data":[1.5]}`, codec.ErrNumber},
		{"negative unsigned", `{"dtype":"uint16","data":[-1]}`, codec.ErrNumber},
		{"unknown dtype", `{"dtype":"complex128","data":[1]}`, tensor.ErrUnknownDType},
		{"too large", `{"shape":[16777217],"data":[]}`, codec.ErrTooLarge},
		{"overflowing shape", `{"shape":[4294967296,4294967296],"data":[]}`, codec.ErrTooLarge},
		{"large matrix", `{"shape":[4097,4097],"data":[]}`, codec.ErrTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.UnmarshalJSON([]byte(tc.in))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDocument_Embedded(t *testing.T) {
	t.Parallel()

	var wrapper struct {
		Args []codec.Document `json:"args"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"args":[{"data":[1,2]},{"dtype":"int8","data":[[3]]}]}`), &wrapper))
	require.Len(t, wrapper.Args, 2)

	x, err := wrapper.Args[1].Tensor()
	require.NoError(t, err)
	require.Equal(t, tensor.Mat(1, 1), x.Shape())
	require.Equal(t, tensor.Int8, x.DType())
}

func TestBinary_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []tensor.Any{
		tensor.Must(tensor.FromRows([][]float64{{1, -2.25}, {math.Pi, 1e-300}})),
		tensor.Must(tensor.FromValues[float32](0.1, 0.2, 0.3)),
		tensor.Must(tensor.FromValues[int8](-128, 0, 127)),
		tensor.Must(tensor.FromRows([][]uint64{{math.MaxUint64}, {1}})),
		tensor.Must(tensor.FromRows([][]int16{{-1, 2, -3}})),
	}
	for _, x := range inputs {
		b, err := codec.MarshalBinary(x)
		require.NoError(t, err)
		require.Equal(t, []byte("SMT1"), b[:4])

		got, err := codec.UnmarshalBinary(b)
		require.NoError(t, err)
		require.Equal(t, x, got, "%s %s", x.DType(), x.Shape())
	}
}

func TestBinary_Layout(t *testing.T) {
	t.Parallel()

	x := tensor.Must(tensor.FromRows([][]uint8{{1, 2, 3}, {4, 5, 6}}))
	b, err := codec.MarshalBinary(x)
	require.NoError(t, err)
	want := []byte{
		'S', 'M', 'T', '1',
		byte(tensor.Uint8), 0, 2,
		2, 0, 0, 0,
		3, 0, 0, 0,
		1, 2, 3, 4, 5, 6,
	}
	require.Equal(t, want, b)
}

func TestBinary_Half(t *testing.T) {
	t.Parallel()

	x := tensor.Must(tensor.FromRows([][]float64{{1, 0.5}, {-2, 65504}}))
	b, err := codec.MarshalBinary(x, codec.WithHalf())
	require.NoError(t, err)
	require.Len(t, b, 7+2*4+4*2)
	require.Equal(t, byte(1), b[5])

	got, err := codec.UnmarshalBinary(b)
	require.NoError(t, err)
	require.Equal(t, tensor.Float64, got.DType())
	require.Equal(t, x.Float64s(), got.Float64s(), "values exactly representable in half precision survive")

	lossy := tensor.Must(tensor.FromValues[float32](0.1))
	b, err = codec.MarshalBinary(lossy, codec.WithHalf())
	require.NoError(t, err)
	got, err = codec.UnmarshalBinary(b)
	require.NoError(t, err)
	require.InDelta(t, 0.1, got.Float64s()[0], 1e-4)

	_, err = codec.MarshalBinary(tensor.Must(tensor.FromValues[int32](1)), codec.WithHalf())
	require.ErrorIs(t, err, codec.ErrHalf)
}

func TestBinary_Errors(t *testing.T) {
	t.Parallel()

	good, err := codec.MarshalBinary(tensor.Must(tensor.FromValues(1.0, 2.0)))
	require.NoError(t, err)

	bad := append([]byte(nil), good...)
	bad[0] = 'X'
	_, err = codec.UnmarshalBinary(bad)
	require.ErrorIs(t, err, codec.ErrFormat)

	_, err = codec.UnmarshalBinary(good[:len(good)-1])
	require.ErrorIs(t, err, codec.ErrFormat, "truncated data")

	_, err = codec.UnmarshalBinary(good[:5])
	require.ErrorIs(t, err, codec.ErrFormat, "truncated header")

	_, err = codec.UnmarshalBinary(append(append([]byte(nil), good...), 0))
	require.ErrorIs(t, err, codec.ErrFormat, "trailing bytes")

	dtype := append([]byte(nil), good...)
	dtype[4] = 0
	_, err = codec.UnmarshalBinary(dtype)
	require.ErrorIs(t, err, codec.ErrFormat)

	storage := append([]byte(nil), good...)
	storage[5] = 9
	_, err = codec.UnmarshalBinary(storage)
	require.ErrorIs(t, err, codec.ErrFormat)

	zero := append([]byte(nil), good[:7]...)
	zero = append(zero, 0, 0, 0, 0)
	_, err = codec.UnmarshalBinary(zero)
	require.ErrorIs(t, err, codec.ErrFormat, "zero dimension")

	huge := append([]byte(nil), good[:7]...)
	huge = append(huge, 0xff, 0xff, 0xff, 0xff)
	_, err = codec.UnmarshalBinary(huge)
	require.ErrorIs(t, err, codec.ErrTooLarge, "dimension above the element cap")
}

func TestReadBinary_Stream(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	a := tensor.Must(tensor.FromValues[int32](1, 2))
	b := tensor.Must(tensor.FromRows([][]float32{{3}}))
	require.NoError(t, codec.WriteBinary(&buf, a))
	require.NoError(t, codec.WriteBinary(&buf, b))

	gotA, err := codec.ReadBinary(&buf)
	require.NoError(t, err)
	gotB, err := codec.ReadBinary(&buf)
	require.NoError(t, err)
	require.Equal(t, a, gotA)
	require.Equal(t, b, gotB)
	require.Zero(t, buf.Len())
}
