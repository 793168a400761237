// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/katalvlaran/smallmat/tensor"
)

// Kernel is an operation specialized for one element type and one set of
// input shapes. Its body was selected when the Kernel was built; Apply only
// checks that the arguments match the specialization and runs the body.
//
// Kernels are immutable and safe for concurrent use. Each call of the body
// runs serially on the calling goroutine.
type Kernel[T tensor.Scalar, R any] struct {
	op   string
	in   []tensor.Shape
	out  tensor.Shape // zero Shape for scalar results
	body func(args []*tensor.Tensor[T]) (R, error)
}

func newKernel[T tensor.Scalar, R any](op string, in []tensor.Shape, out tensor.Shape, body func([]*tensor.Tensor[T]) (R, error)) *Kernel[T, R] {
	return &Kernel[T, R]{op: op, in: in, out: out, body: body}
}

// Op returns the operation name.
func (k *Kernel[T, R]) Op() string { return k.op }

// In returns a copy of the specialized input shapes.
func (k *Kernel[T, R]) In() []tensor.Shape { return append([]tensor.Shape(nil), k.in...) }

// Out returns the result shape, or the zero Shape for scalar results.
func (k *Kernel[T, R]) Out() tensor.Shape { return k.out }

// Apply runs the kernel on args.
// Errors:
//   - TypeError(ErrNotTensor) when an argument is nil or the count differs.
//   - ShapeError(ErrShapeMismatch) when a shape differs from the specialization.
//   - ErrSingular from Inverse kernels built with WithSingularTolerance.
func (k *Kernel[T, R]) Apply(args ...*tensor.Tensor[T]) (R, error) {
	var zero R
	if len(args) != len(k.in) {
		return zero, &TypeError{
			Op:  k.op,
			Msg: fmt.Sprintf("expected %d tensor arguments, got %d", len(k.in), len(args)),
			Err: ErrNotTensor,
		}
	}
	for i, x := range args {
		if x == nil {
			return zero, notTensor(k.op, i)
		}
		if x.Shape() != k.in[i] {
			return zero, mismatch(k.op, i, x.Shape(), k.in[i])
		}
	}
	return k.body(args)
}

// specKey identifies one specialization. param carries a scalar that the
// body captures (epsilon, singular tolerance); unused params are 0.
// transient keys carry a caller-chosen param and are built on every call
// instead of being cached, so arbitrary eps values cannot grow the cache.
type specKey struct {
	op        string
	dtype     tensor.DType
	a, b      tensor.Shape
	param     float64
	transient bool
}

// specializations caches built kernels: specKey -> *Kernel[T, R]. The
// (op, dtype) pair fixes T and R, so the type assertion in specialize
// cannot fail.
var specializations sync.Map

// specialize returns the cached kernel for key or builds and caches it.
// Failed builds are not cached; the same error is recomputed next time.
func specialize[T tensor.Scalar, R any](key specKey, build func() (*Kernel[T, R], error)) (*Kernel[T, R], error) {
	if v, ok := specializations.Load(key); ok {
		return v.(*Kernel[T, R]), nil
	}
	k, err := build()
	if err != nil {
		slog.Debug("specialization rejected", "op", key.op, "dtype", key.dtype, "error", err)
		return nil, err
	}
	if key.transient {
		return k, nil
	}
	v, loaded := specializations.LoadOrStore(key, k)
	if !loaded {
		slog.Debug("specialized", "op", key.op, "dtype", key.dtype, "in", k.in, "out", k.out)
	}
	return v.(*Kernel[T, R]), nil
}

// CacheLen returns the number of cached specializations.
func CacheLen() int {
	n := 0
	specializations.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ResetCache drops every cached specialization. The cache holds one entry
// per (op, dtype, shapes) at the default epsilon and with the singular guard
// off; kernels built with other option values are not cached.
func ResetCache() { specializations.Clear() }

// alloc returns a zero tensor of a shape that preconditions already
// accepted; a failure here is a dispatch bug, not a user error.
func alloc[T tensor.Scalar](s tensor.Shape) *tensor.Tensor[T] {
	return tensor.Must(tensor.New[T](s))
}

// undefined is the dispatch fallthrough for shapes with no body.
func undefined(op string, s tensor.Shape) error {
	return &ShapeError{Op: op, Msg: fmt.Sprintf("no kernel for shape %s", s), Err: ErrUndefinedShape}
}
