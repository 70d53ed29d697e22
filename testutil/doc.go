// Package testutil provides testing utilities for kdsphere.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random spherical points and computing
// exact nearest neighbors as ground truth.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000)
//
// # Exact Search (Ground Truth)
//
//	results := testutil.ExactKNN(pts, query, k)
//	within := testutil.ExactWithin(pts, query, radius)
package testutil
