// SPDX-License-Identifier: MIT

package eval

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/smallmat/linalg"
	"github.com/katalvlaran/smallmat/tensor"
)

// Evaluate runs req and returns its result: a tensor.Any for tensor-valued
// operations, the element type T for scalar reductions, bool for Any/All.
// Fill mutates and returns its tensor argument.
//
// Errors are those of linalg (*linalg.ShapeError, *linalg.TypeError,
// linalg.ErrSingular) plus ErrRequest for malformed options.
func Evaluate(req Request) (any, error) {
	info, err := linalg.Lookup(req.Op)
	if err != nil {
		return nil, err
	}
	opts, err := req.options()
	if err != nil {
		return nil, err
	}
	args := normalize(req.Args)
	if len(args) != info.Arity {
		return nil, &linalg.TypeError{
			Op:  info.Name,
			Msg: fmt.Sprintf("expected %d arguments, got %d", info.Arity, len(args)),
			Err: linalg.ErrNotTensor,
		}
	}
	if err := linalg.Validate(info.Name, operands(args)...); err != nil {
		return nil, err
	}

	if info.Name == linalg.OpDiag {
		return diag(args[0], args[1], req.DType)
	}

	if promote(info, args) {
		slog.Debug("promoting to float64", "op", info.Name, "dtype", args[0].(tensor.Any).DType())
		args[0] = toFloat64(args[0].(tensor.Any))
	}
	return dispatch(info, args, opts)
}

// promote reports whether an integer tensor argument must run as float64.
func promote(info linalg.OpInfo, args []any) bool {
	x, ok := args[0].(tensor.Any)
	if !ok || x.DType().IsFloat() {
		return false
	}
	if info.FloatOnly {
		return true
	}
	if info.Name == linalg.OpPow {
		n, ok := intValue(args[1])
		return !ok || n < 0
	}
	return false
}

func toFloat64(x tensor.Any) *tensor.Tensor[float64] {
	return tensor.Must(tensor.FromFloat64s[float64](x.Shape(), x.Float64s()))
}

// dispatch selects the typed entry points for the element type of args[0].
func dispatch(info linalg.OpInfo, args []any, opts []linalg.Option) (any, error) {
	switch x := args[0].(type) {
	case *tensor.Tensor[float32]:
		return applyFloat(info, x, args, opts)
	case *tensor.Tensor[float64]:
		return applyFloat(info, x, args, opts)
	case *tensor.Tensor[int8]:
		return applyInt(info, x, args)
	case *tensor.Tensor[int16]:
		return applyInt(info, x, args)
	case *tensor.Tensor[int32]:
		return applyInt(info, x, args)
	case *tensor.Tensor[int64]:
		return applyInt(info, x, args)
	case *tensor.Tensor[uint8]:
		return applyInt(info, x, args)
	case *tensor.Tensor[uint16]:
		return applyInt(info, x, args)
	case *tensor.Tensor[uint32]:
		return applyInt(info, x, args)
	case *tensor.Tensor[uint64]:
		return applyInt(info, x, args)
	default:
		return nil, &linalg.TypeError{
			Op:  info.Name,
			Msg: fmt.Sprintf("argument 0: unsupported tensor implementation %T", args[0]),
			Err: linalg.ErrNotTensor,
		}
	}
}

func applyFloat[F tensor.Float](info linalg.OpInfo, x *tensor.Tensor[F], args []any, opts []linalg.Option) (any, error) {
	switch info.Name {
	case linalg.OpInverse:
		return result(linalg.Inverse(x, opts...))
	case linalg.OpNorm:
		return linalg.Norm(x, opts...)
	case linalg.OpNormInv:
		return linalg.NormInv(x, opts...)
	case linalg.OpNormalized:
		return result(linalg.Normalized(x, opts...))
	case linalg.OpPow:
		return result(linalg.PowTensor(x, scalarAs[F](args[1])))
	default:
		return apply(info, x, args)
	}
}

func applyInt[I tensor.Integer](info linalg.OpInfo, x *tensor.Tensor[I], args []any) (any, error) {
	if info.Name == linalg.OpPow {
		n, _ := intValue(args[1])
		return result(linalg.IPowTensor(x, int(n)))
	}
	return apply(info, x, args)
}

// apply covers the operations defined for every element type.
func apply[T tensor.Scalar](info linalg.OpInfo, x *tensor.Tensor[T], args []any) (any, error) {
	switch info.Name {
	case linalg.OpTranspose:
		return result(linalg.Transpose(x))
	case linalg.OpMatmul:
		// SameDType has already held, so the assertion cannot fail.
		return result(linalg.Matmul(x, args[1].(*tensor.Tensor[T])))
	case linalg.OpTrace:
		return linalg.Trace(x)
	case linalg.OpDeterminant:
		return linalg.Determinant(x)
	case linalg.OpSum:
		return linalg.Sum(x)
	case linalg.OpNormSqr:
		return linalg.NormSqr(x)
	case linalg.OpAny:
		return linalg.Any(x)
	case linalg.OpAll:
		return linalg.All(x)
	case linalg.OpZeros:
		return result(linalg.Zeros(x))
	case linalg.OpMax:
		return linalg.Max(x)
	case linalg.OpMin:
		return linalg.Min(x)
	case linalg.OpFill:
		if err := linalg.Fill(x, scalarAs[T](args[1])); err != nil {
			return nil, err
		}
		return x, nil
	default:
		// FloatOnly operations never reach here with an integer tensor.
		return nil, &linalg.TypeError{
			Op:  info.Name,
			Msg: fmt.Sprintf("not defined for %s", x.DType()),
			Err: linalg.ErrDTypeMismatch,
		}
	}
}

// result erases a typed tensor result, keeping a nil tensor out of the
// interface on error.
func result[T tensor.Scalar](x *tensor.Tensor[T], err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return x, nil
}

func diag(dimArg, val any, dtype string) (any, error) {
	dim64, _ := intValue(dimArg)
	dim := int(dim64)

	dt := tensor.Float64
	if _, isInt := intValue(val); isInt {
		dt = tensor.Int64
	}
	if dtype != "" {
		var err error
		if dt, err = tensor.ParseDType(dtype); err != nil {
			return nil, fmt.Errorf("eval: %w: %w", ErrRequest, err)
		}
	}
	switch dt {
	case tensor.Int8:
		return result(linalg.Diag(dim, scalarAs[int8](val)))
	case tensor.Int16:
		return result(linalg.Diag(dim, scalarAs[int16](val)))
	case tensor.Int32:
		return result(linalg.Diag(dim, scalarAs[int32](val)))
	case tensor.Int64:
		return result(linalg.Diag(dim, scalarAs[int64](val)))
	case tensor.Uint8:
		return result(linalg.Diag(dim, scalarAs[uint8](val)))
	case tensor.Uint16:
		return result(linalg.Diag(dim, scalarAs[uint16](val)))
	case tensor.Uint32:
		return result(linalg.Diag(dim, scalarAs[uint32](val)))
	case tensor.Uint64:
		return result(linalg.Diag(dim, scalarAs[uint64](val)))
	case tensor.Float32:
		return result(linalg.Diag(dim, scalarAs[float32](val)))
	default:
		return result(linalg.Diag(dim, scalarAs[float64](val)))
	}
}
