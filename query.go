package kdsphere

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnh2o2/kdsphere/euclid"
	"github.com/johnh2o2/kdsphere/geom"
)

// QueryOptions controls the execution of a k-NN query.
type QueryOptions struct {
	// Eps is the approximation tolerance: the k-th returned distance is
	// guaranteed to be within a factor (1+Eps) of the true k-th nearest
	// distance. Must be non-negative. The underlying tree searches
	// exactly, which satisfies the guarantee for every Eps.
	Eps float64
}

// Query returns the k nearest indexed points to each query point.
//
// Both returned slices are shaped len(queries)×k: distances in great-circle
// radians, ascending within each row, and the matching positions into the
// index's construction order. When the index holds fewer than k points,
// rows are padded with index Len() and +Inf distance.
func (s *KDSphere) Query(ctx context.Context, queries []Point, k int, optFns ...func(*QueryOptions)) ([][]float64, [][]int, error) {
	var qo QueryOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&qo)
		}
	}

	start := time.Now()
	dists, ids, err := s.knn(ctx, queries, k, qo)
	s.logger.LogQuery(ctx, k, len(queries), err)
	s.metrics.RecordQuery(k, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return dists, ids, nil
}

func (s *KDSphere) knn(ctx context.Context, queries []Point, k int, qo QueryOptions) ([][]float64, [][]int, error) {
	if k < 1 {
		return nil, nil, ErrInvalidK
	}
	if qo.Eps < 0 {
		return nil, nil, ErrInvalidEps
	}

	dists := make([][]float64, len(queries))
	ids := make([][]int, len(queries))
	err := s.forEach(ctx, len(queries), func(i int) error {
		found := s.tree.KNN(euclid.Point{Vec: geom.Embed(queries[i])}, k)
		d := make([]float64, k)
		n := make([]int, k)
		for j := range k {
			if j < len(found) {
				d[j] = geom.ChordToAngle(found[j].Dist, geom.UnitRadius)
				n[j] = found[j].ID
			} else {
				// Out-of-range sentinel for under-filled rows.
				d[j] = math.Inf(1)
				n[j] = s.Len()
			}
		}
		dists[i] = d
		ids[i] = n
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return dists, ids, nil
}

// QueryBallPoint returns the set of indexed points within great-circle
// radius r of q. With r = 0 only exactly coincident points match.
func (s *KDSphere) QueryBallPoint(ctx context.Context, q Point, r float64) (*IndexSet, error) {
	sets, err := s.QueryBallPoints(ctx, []Point{q}, r)
	if err != nil {
		return nil, err
	}
	return sets[0], nil
}

// QueryBallPoints is the batch form of QueryBallPoint: one set per query
// point, in query order.
func (s *KDSphere) QueryBallPoints(ctx context.Context, queries []Point, r float64) ([]*IndexSet, error) {
	start := time.Now()
	sets, err := s.ballPoints(ctx, queries, r)
	s.logger.LogBallQuery(ctx, r, len(queries), err)
	s.metrics.RecordBallQuery(r, time.Since(start), err)
	return sets, err
}

func (s *KDSphere) ballPoints(ctx context.Context, queries []Point, r float64) ([]*IndexSet, error) {
	if r < 0 {
		return nil, ErrInvalidRadius
	}
	chord := geom.AngleToChord(r, geom.UnitRadius)
	sets := make([]*IndexSet, len(queries))
	err := s.forEach(ctx, len(queries), func(i int) error {
		sets[i] = newIndexSet(s.tree.Within(euclid.Point{Vec: geom.Embed(queries[i])}, chord))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// EuclideanIndex is any index exposing a k-d tree over embedded unit-sphere
// points. *KDSphere satisfies it; so does any caller-built wrapper around a
// euclid.Tree.
type EuclideanIndex interface {
	EuclideanTree() *euclid.Tree
}

// QueryBallTree performs a radius join against another index: the i-th
// returned set holds the positions of other's points within great-circle
// radius r of this index's i-th point. The sequence has length Len().
//
// The other index's embedded tree is reused directly; nothing is
// re-embedded.
func (s *KDSphere) QueryBallTree(ctx context.Context, other EuclideanIndex, r float64) ([]*IndexSet, error) {
	start := time.Now()
	sets, err := s.ballTree(ctx, other.EuclideanTree(), r)
	s.logger.LogBallQuery(ctx, r, s.Len(), err)
	s.metrics.RecordBallQuery(r, time.Since(start), err)
	return sets, err
}

// QueryBallTreePoints is the raw-points form of QueryBallTree: the given
// points are embedded and indexed into a transient tree, then joined
// against.
func (s *KDSphere) QueryBallTreePoints(ctx context.Context, points []Point, r float64) ([]*IndexSet, error) {
	start := time.Now()
	other := euclid.NewTree(euclid.FromVecs(geom.EmbedAll(points)), false)
	sets, err := s.ballTree(ctx, other, r)
	s.logger.LogBallQuery(ctx, r, s.Len(), err)
	s.metrics.RecordBallQuery(r, time.Since(start), err)
	return sets, err
}

func (s *KDSphere) ballTree(ctx context.Context, other *euclid.Tree, r float64) ([]*IndexSet, error) {
	if r < 0 {
		return nil, ErrInvalidRadius
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chord := geom.AngleToChord(r, geom.UnitRadius)
	rows := s.tree.Join(other, chord)
	sets := make([]*IndexSet, len(rows))
	for i, row := range rows {
		sets[i] = newIndexSet(row)
	}
	return sets, nil
}

// forEach runs fn for every position in [0, n), fanning out across the
// configured parallelism. The first error cancels the remaining work.
func (s *KDSphere) forEach(ctx context.Context, n int, fn func(i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	return g.Wait()
}
