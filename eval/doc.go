// SPDX-License-Identifier: MIT

// Package eval runs catalog operations by name on dtype-erased arguments.
//
// It is the dynamic front end of package linalg: a Request names an
// operation and carries tensors (tensor.Any) and numeric constants; Evaluate
// validates them against the catalog preconditions, promotes integer
// tensors to float64 where the operation needs a float type, and calls the
// typed linalg entry point for the tensor's element type.
//
// Promotion rules:
//   - Inverse, Norm, NormInv and Normalized on an integer tensor run on a
//     float64 copy.
//   - Pow on an integer tensor stays integral for a non-negative integer
//     exponent and runs on a float64 copy otherwise.
//
// Batch evaluates independent requests concurrently and returns results in
// request order.
package eval
