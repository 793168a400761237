// SPDX-License-Identifier: MIT
// Package linalg_test contains test helpers.
//
// Purpose:
//   - Small deterministic fixtures (fixed-seed random matrices, identity).
//   - Approximate comparison of tensors through go-cmp.

package linalg_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smallmat/tensor"
)

// mustMat builds a matrix from rows or fails the test.
func mustMat[T tensor.Scalar](t *testing.T, rows [][]T) *tensor.Tensor[T] {
	t.Helper()
	m, err := tensor.FromRows(rows)
	require.NoError(t, err)
	return m
}

// mustVec builds a vector or fails the test.
func mustVec[T tensor.Scalar](t *testing.T, vals ...T) *tensor.Tensor[T] {
	t.Helper()
	v, err := tensor.FromValues(vals...)
	require.NoError(t, err)
	return v
}

// randomMat fills an r×c matrix with values in [-1, 1).
func randomMat(t *testing.T, rng *rand.Rand, r, c int) *tensor.Tensor[float64] {
	t.Helper()
	m, err := tensor.New[float64](tensor.Mat(r, c))
	require.NoError(t, err)
	d := m.Data()
	for i := range d {
		d[i] = 2*rng.Float64() - 1
	}
	return m
}

// invertible returns a random n×n matrix made strictly diagonally dominant,
// hence invertible and well conditioned.
func invertible(t *testing.T, rng *rand.Rand, n int) *tensor.Tensor[float64] {
	t.Helper()
	m := randomMat(t, rng, n, n)
	d := m.Data()
	for i := 0; i < n; i++ {
		d[i*n+i] += float64(n) + 1
	}
	return m
}

// randomIntMat fills an n×m matrix with integers in [-9, 9].
func randomIntMat(t *testing.T, rng *rand.Rand, r, c int) *tensor.Tensor[int64] {
	t.Helper()
	m, err := tensor.New[int64](tensor.Mat(r, c))
	require.NoError(t, err)
	d := m.Data()
	for i := range d {
		d[i] = int64(rng.Intn(19) - 9)
	}
	return m
}

func identity(t *testing.T, n int) *tensor.Tensor[float64] {
	t.Helper()
	m, err := tensor.New[float64](tensor.Mat(n, n))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, 1))
	}
	return m
}

// requireClose compares shapes exactly and elements within an absolute margin.
func requireClose[T tensor.Float](t *testing.T, want, got *tensor.Tensor[T], margin float64) {
	t.Helper()
	require.NotNil(t, got)
	require.Equal(t, want.Shape(), got.Shape())
	if diff := cmp.Diff(want.Rows(), got.Rows(), cmpopts.EquateApprox(0, margin)); diff != "" {
		t.Fatalf("tensor mismatch (-want +got):\n%s", diff)
	}
}
