package kdsphere

import (
	"slices"
	"time"

	"github.com/johnh2o2/kdsphere/euclid"
	"github.com/johnh2o2/kdsphere/geom"
)

// Point is an angular (longitude, latitude) pair measured in radians.
type Point = geom.Point

// KDSphere is an immutable nearest-neighbor index over points on the unit
// sphere. It owns the input points (construction order defines all result
// indices), their 3D embeddings, and a k-d tree built once over the
// embeddings.
type KDSphere struct {
	points   []Point
	embedded []geom.Vec3
	tree     *euclid.Tree

	parallel int
	logger   *Logger
	metrics  MetricsCollector
}

// New builds an index over the given (lon, lat) points. An empty or nil
// slice yields a valid empty index. The input slice is copied; later
// mutation of it does not affect the index.
func New(points []Point, optFns ...Option) *KDSphere {
	o := applyOptions(optFns)

	start := time.Now()
	embedded := geom.EmbedAll(points)
	s := &KDSphere{
		points:   slices.Clone(points),
		embedded: embedded,
		tree:     euclid.NewTree(euclid.FromVecs(embedded), o.bounding),
		parallel: o.parallelism,
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}

	s.logger.LogBuild(len(points), time.Since(start))
	s.metrics.RecordBuild(len(points), time.Since(start))

	return s
}

// Len returns the number of indexed points.
func (s *KDSphere) Len() int { return len(s.points) }

// Points returns a copy of the indexed points in construction order.
func (s *KDSphere) Points() []Point { return slices.Clone(s.points) }

// EuclideanTree exposes the underlying k-d tree over the embedded points.
// It satisfies EuclideanIndex, so one index can be joined against another
// without re-embedding.
func (s *KDSphere) EuclideanTree() *euclid.Tree { return s.tree }
