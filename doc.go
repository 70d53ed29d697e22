// Package kdsphere provides nearest-neighbor and radius queries over points
// on a sphere, given as (longitude, latitude) pairs in radians.
//
// Great-circle distance is awkward to index directly: longitude is periodic,
// the poles are singular, and the distance function is not Euclidean. KDSphere
// sidesteps all of that by embedding every point onto the unit sphere in 3D
// Cartesian space and indexing the embedded points with a k-d tree, where
// plain Euclidean geometry applies. Query results are converted back to
// great-circle radians on the way out.
//
// # Quick Start
//
//	pts := []kdsphere.Point{
//	    {Lon: 0, Lat: math.Pi / 2}, // north pole
//	    {Lon: 0, Lat: 0},
//	    {Lon: math.Pi / 2, Lat: 0},
//	}
//	s := kdsphere.New(pts)
//
//	dists, ids, err := s.Query(ctx, []kdsphere.Point{{Lon: 0, Lat: 1.5}}, 1)
//
// Radius queries return index sets:
//
//	set, err := s.QueryBallPoint(ctx, kdsphere.Point{Lon: 0, Lat: 0}, 0.1)
//	for i := range set.All() {
//	    process(i)
//	}
//
// # Semantics
//
// An index is immutable once built. All result indices refer to the
// construction order of the input slice. Distances are great-circle radians;
// search radii are great-circle radians too and are converted internally to
// the equivalent unit-sphere chord length before touching the tree.
//
// Queries are read-only and safe to run concurrently against the same index.
// Batch queries fan out across query points, bounded by WithParallelism.
package kdsphere
