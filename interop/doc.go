// SPDX-License-Identifier: MIT

// Package interop converts tensors to and from gonum's mat types and uses
// gonum as an independent reference for the closed-form determinant and
// inverse.
//
// Conversions always copy: a *mat.Dense never shares memory with a
// tensor.Tensor, in either direction.
//
// Vectors map to *mat.VecDense; matrices map to *mat.Dense. Element types
// other than float64 are widened on the way out and narrowed (Go conversion
// rules) on the way in.
package interop
