package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/johnh2o2/kdsphere/geom"
)

// SearchResult is an exact-search result: an index position and its
// great-circle distance from the query.
type SearchResult struct {
	Index    int
	Distance float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// UniformPoints generates n points distributed uniformly over the sphere:
// longitude uniform in [-π, π), latitude from a uniform z coordinate.
func (r *RNG) UniformPoints(n int) []geom.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.Point{
			Lon: (r.rand.Float64() - 0.5) * 2 * math.Pi,
			Lat: math.Asin(2*r.rand.Float64() - 1),
		}
	}
	return pts
}

// ExactKNN returns the k nearest points to q by great-circle distance,
// ascending, computed by brute force. Used as ground truth for tree-based
// searches.
func ExactKNN(points []geom.Point, q geom.Point, k int) []SearchResult {
	results := make([]SearchResult, len(points))
	for i, p := range points {
		results[i] = SearchResult{Index: i, Distance: geom.Haversine(q, p)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Index < results[j].Index
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}

// ExactWithin returns the positions of all points within great-circle
// radius r of q, ascending by position, computed by brute force.
func ExactWithin(points []geom.Point, q geom.Point, r float64) []int {
	var out []int
	for i, p := range points {
		if geom.Haversine(q, p) <= r {
			out = append(out, i)
		}
	}
	return out
}
