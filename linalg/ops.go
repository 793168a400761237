// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/smallmat/tensor"
)

// Operation names, used as error tags and catalog keys.
const (
	OpTranspose   = "Transpose"
	OpMatmul      = "Matmul"
	OpTrace       = "Trace"
	OpDeterminant = "Determinant"
	OpInverse     = "Inverse"
	OpDiag        = "Diag"
	OpSum         = "Sum"
	OpNormSqr     = "NormSqr"
	OpNorm        = "Norm"
	OpNormInv     = "NormInv"
	OpNormalized  = "Normalized"
	OpAny         = "Any"
	OpAll         = "All"
	OpFill        = "Fill"
	OpZeros       = "Zeros"
	OpMax         = "Max"
	OpMin         = "Min"
	OpPow         = "Pow"
)

// MaxClosedForm is the exclusive bound on the dimension of matrices
// accepted by Determinant and Inverse.
const MaxClosedForm = 5

// OpInfo describes a catalog operation.
type OpInfo struct {
	Name    string
	Arity   int
	Summary string
	// FloatOnly operations need a floating-point element type; integer
	// inputs are promoted by dynamic callers.
	FloatOnly bool
	// Preconditions run in order before a kernel is built.
	Preconditions []Precondition
	// Checks names the preconditions for listings.
	Checks []string
}

var catalog = map[string]OpInfo{
	OpTranspose: {
		Name: OpTranspose, Arity: 1, Summary: "transpose a matrix; vectors are returned as a copy",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpMatmul: {
		Name: OpMatmul, Arity: 2, Summary: "matrix-matrix, matrix-vector or vector-matrix product",
		Preconditions: []Precondition{MatmulCompatible(), SameDType(0, 1)},
		Checks:        []string{"inner dimensions agree", "same dtype"},
	},
	OpTrace: {
		Name: OpTrace, Arity: 1, Summary: "sum of the main diagonal",
		Preconditions: []Precondition{SquareMatrix(0)},
		Checks:        []string{"square matrix"},
	},
	OpDeterminant: {
		Name: OpDeterminant, Arity: 1, Summary: "closed-form determinant up to 4×4",
		Preconditions: []Precondition{
			SquareMatrix(0),
			DimLessThan(0, 0, MaxClosedForm, "determinant of dimension >= 5 is not supported: %s"),
		},
		Checks: []string{"square matrix", "dimension < 5"},
	},
	OpInverse: {
		Name: OpInverse, Arity: 1, Summary: "closed-form inverse up to 4×4", FloatOnly: true,
		Preconditions: []Precondition{
			SquareMatrix(0),
			DimLessThan(0, 0, MaxClosedForm, "inverse of dimension >= 5 is not supported: %s"),
		},
		Checks: []string{"square matrix", "dimension < 5"},
	},
	OpDiag: {
		Name: OpDiag, Arity: 2, Summary: "dim×dim matrix with val on the diagonal",
		Preconditions: []Precondition{IsIntConst(0), SquareDimConst(0), IsNumber(1)},
		Checks:        []string{"dim is integer constant", "dim > 0", "val is number"},
	},
	OpSum: {
		Name: OpSum, Arity: 1, Summary: "sum of all elements",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpNormSqr: {
		Name: OpNormSqr, Arity: 1, Summary: "sum of squared elements",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpNorm: {
		Name: OpNorm, Arity: 1, Summary: "sqrt(norm_sqr + eps)", FloatOnly: true,
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpNormInv: {
		Name: OpNormInv, Arity: 1, Summary: "1/sqrt(norm_sqr + eps)", FloatOnly: true,
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpNormalized: {
		Name: OpNormalized, Arity: 1, Summary: "v / (norm(v) + eps)", FloatOnly: true,
		Preconditions: []Precondition{IsVector(0)},
		Checks:        []string{"is vector"},
	},
	OpAny: {
		Name: OpAny, Arity: 1, Summary: "true if any element is nonzero",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpAll: {
		Name: OpAll, Arity: 1, Summary: "true if every element is nonzero",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpFill: {
		Name: OpFill, Arity: 2, Summary: "set every element to val in place",
		Preconditions: []Precondition{IsTensor(0), IsNumber(1)},
		Checks:        []string{"is tensor", "val is number"},
	},
	OpZeros: {
		Name: OpZeros, Arity: 1, Summary: "zero tensor of the same shape and dtype",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpMax: {
		Name: OpMax, Arity: 1, Summary: "largest element",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpMin: {
		Name: OpMin, Arity: 1, Summary: "smallest element",
		Preconditions: []Precondition{IsTensor(0)},
		Checks:        []string{"is tensor"},
	},
	OpPow: {
		Name: OpPow, Arity: 2, Summary: "elementwise x**y",
		Preconditions: []Precondition{IsTensor(0), IsNumber(1)},
		Checks:        []string{"is tensor", "exponent is number"},
	},
}

// canonical folds "norm_sqr", "NormSqr" and "normsqr" to one key.
func canonical(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

var byCanonical = func() map[string]string {
	m := make(map[string]string, len(catalog))
	for name := range catalog {
		m[canonical(name)] = name
	}
	return m
}()

// Lookup resolves an operation by name. Snake case ("norm_sqr") and any
// letter case are accepted.
func Lookup(name string) (OpInfo, error) {
	if key, ok := byCanonical[canonical(name)]; ok {
		return catalog[key], nil
	}
	return OpInfo{}, &TypeError{Op: name, Msg: fmt.Sprintf("operation %q is not in the catalog", name), Err: ErrUnknownOp}
}

// Ops lists the catalog sorted by name.
func Ops() []OpInfo {
	out := make([]OpInfo, 0, len(catalog))
	for _, info := range catalog {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate runs the catalog preconditions of op against args. It is what
// every typed entry point does before building a kernel, exposed for
// callers that only hold dtype-erased operands.
func Validate(op string, args ...Operand) error {
	info, err := Lookup(op)
	if err != nil {
		return err
	}
	return Check(info.Name, args, info.Preconditions...)
}

// validateShapes is Validate for typed tensor arguments of element type T.
func validateShapes[T tensor.Scalar](op string, shapes ...tensor.Shape) error {
	dt := tensor.DTypeOf[T]()
	args := make([]Operand, len(shapes))
	for i, s := range shapes {
		args[i] = ShapeOperand(s, dt)
	}
	return Check(op, args, catalog[op].Preconditions...)
}
