// Package linalg is a shape-specialized linear-algebra library for small
// dense vectors and matrices.
//
// Every operation runs in two phases:
//
//  1. Specialization. The operand shapes and element type are checked
//     against the operation's preconditions (square-ness, the 4×4 limit of
//     the closed-form determinant and inverse, matmul inner dimensions) and
//     a body written for exactly that shape is selected. Failures are
//     *ShapeError or *TypeError values; nothing is computed.
//  2. Application. Kernel.Apply runs the selected body. Bodies do not branch
//     on shape and accumulate serially in a fixed order.
//
// Specializations are cached per (operation, element type, shapes), so the
// facades (Determinant, Matmul, Norm, ...) pay for validation once per
// signature.
//
// Operations:
//
//	Transpose  Matmul  Trace  Determinant  Inverse  Diag
//	Sum  NormSqr  Norm  NormInv  Normalized  Any  All  Max  Min
//	Fill  Zeros  Pow  PowTensor  IPow  IPowTensor
//
// Example:
//
//	a := tensor.Must(tensor.FromRows([][]float64{{1, 2}, {3, 4}}))
//	det, _ := linalg.Determinant(a) // -2
//	inv, _ := linalg.Inverse(a)     // [[-2, 1], [1.5, -0.5]]
package linalg
