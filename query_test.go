package kdsphere

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnh2o2/kdsphere/euclid"
	"github.com/johnh2o2/kdsphere/geom"
	"github.com/johnh2o2/kdsphere/testutil"
)

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("NearNorthPole", func(t *testing.T) {
		s := New(polePoints())

		dists, ids, err := s.Query(ctx, []Point{{Lon: 0, Lat: math.Pi/2 - 1e-4}}, 1)
		require.NoError(t, err)
		require.Len(t, dists, 1)
		require.Len(t, ids, 1)
		assert.Equal(t, []int{0}, ids[0])
		assert.InDelta(t, 1e-4, dists[0][0], 1e-9)
	})

	t.Run("StoredPointRoundTrip", func(t *testing.T) {
		rng := testutil.NewRNG(3)
		pts := rng.UniformPoints(100)
		s := New(pts)

		for _, i := range []int{0, 17, 99} {
			dists, ids, err := s.Query(ctx, []Point{pts[i]}, 1)
			require.NoError(t, err)
			assert.Equal(t, i, ids[0][0])
			assert.InDelta(t, 0, dists[0][0], 1e-9)
		}
	})

	t.Run("MatchesBruteForce", func(t *testing.T) {
		rng := testutil.NewRNG(5)
		pts := rng.UniformPoints(300)
		s := New(pts)
		queries := rng.UniformPoints(25)

		dists, ids, err := s.Query(ctx, queries, 7)
		require.NoError(t, err)
		for i, q := range queries {
			want := testutil.ExactKNN(pts, q, 7)
			for j := range want {
				assert.Equal(t, want[j].Index, ids[i][j])
				assert.InDelta(t, want[j].Distance, dists[i][j], 1e-9)
			}
		}
	})

	t.Run("DistancesAscending", func(t *testing.T) {
		rng := testutil.NewRNG(9)
		s := New(rng.UniformPoints(120))

		dists, _, err := s.Query(ctx, rng.UniformPoints(10), 20)
		require.NoError(t, err)
		for _, row := range dists {
			for j := 1; j < len(row); j++ {
				assert.LessOrEqual(t, row[j-1], row[j])
			}
		}
	})

	t.Run("KthDistanceMonotoneInK", func(t *testing.T) {
		rng := testutil.NewRNG(13)
		s := New(rng.UniformPoints(80))
		q := []Point{{Lon: 0.4, Lat: -0.2}}

		var prev float64
		for k := 1; k <= 10; k++ {
			dists, _, err := s.Query(ctx, q, k)
			require.NoError(t, err)
			kth := dists[0][k-1]
			assert.GreaterOrEqual(t, kth, prev)
			prev = kth
		}
	})

	t.Run("PadsWhenKExceedsSize", func(t *testing.T) {
		s := New(polePoints())

		dists, ids, err := s.Query(ctx, []Point{{Lon: 0, Lat: 0}}, 6)
		require.NoError(t, err)
		require.Len(t, dists[0], 6)
		require.Len(t, ids[0], 6)
		for j := 4; j < 6; j++ {
			assert.True(t, math.IsInf(dists[0][j], 1))
			assert.Equal(t, 4, ids[0][j])
		}
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		s := New(nil)

		dists, ids, err := s.Query(ctx, []Point{{Lon: 0, Lat: 0}}, 2)
		require.NoError(t, err)
		assert.True(t, math.IsInf(dists[0][0], 1))
		assert.Equal(t, 0, ids[0][0])
	})

	t.Run("NoQueries", func(t *testing.T) {
		s := New(polePoints())
		dists, ids, err := s.Query(ctx, nil, 1)
		require.NoError(t, err)
		assert.Empty(t, dists)
		assert.Empty(t, ids)
	})

	t.Run("Eps", func(t *testing.T) {
		s := New(polePoints())

		// Exact search satisfies any non-negative tolerance.
		_, _, err := s.Query(ctx, []Point{{Lon: 0, Lat: 0}}, 1, func(o *QueryOptions) { o.Eps = 0.5 })
		require.NoError(t, err)

		_, _, err = s.Query(ctx, []Point{{Lon: 0, Lat: 0}}, 1, func(o *QueryOptions) { o.Eps = -1 })
		assert.ErrorIs(t, err, ErrInvalidEps)
	})

	t.Run("InvalidK", func(t *testing.T) {
		s := New(polePoints())
		_, _, err := s.Query(ctx, []Point{{Lon: 0, Lat: 0}}, 0)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		s := New(polePoints())
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := s.Query(cancelled, polePoints(), 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestQueryBallPoint(t *testing.T) {
	ctx := context.Background()

	t.Run("MatchesBruteForce", func(t *testing.T) {
		rng := testutil.NewRNG(17)
		pts := rng.UniformPoints(250)
		s := New(pts)

		for _, q := range rng.UniformPoints(15) {
			set, err := s.QueryBallPoint(ctx, q, 0.4)
			require.NoError(t, err)
			assert.ElementsMatch(t, testutil.ExactWithin(pts, q, 0.4), set.Values())
		}
	})

	t.Run("ConsistentWithFullSort", func(t *testing.T) {
		rng := testutil.NewRNG(19)
		pts := rng.UniformPoints(100)
		s := New(pts)
		q := Point{Lon: -1.1, Lat: 0.6}
		const r = 0.7

		set, err := s.QueryBallPoint(ctx, q, r)
		require.NoError(t, err)

		dists, ids, err := s.Query(ctx, []Point{q}, s.Len())
		require.NoError(t, err)

		var want []int
		for j, d := range dists[0] {
			if d <= r {
				want = append(want, ids[0][j])
			}
		}
		assert.ElementsMatch(t, want, set.Values())
	})

	t.Run("ZeroRadius", func(t *testing.T) {
		pts := polePoints()
		s := New(pts)

		set, err := s.QueryBallPoint(ctx, pts[2], 0)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, set.Values())

		set, err = s.QueryBallPoint(ctx, Point{Lon: 0.5, Lat: 0.5}, 0)
		require.NoError(t, err)
		assert.True(t, set.IsEmpty())
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		s := New(nil)
		set, err := s.QueryBallPoint(ctx, Point{Lon: 0, Lat: 0}, 1)
		require.NoError(t, err)
		assert.True(t, set.IsEmpty())
	})

	t.Run("NegativeRadius", func(t *testing.T) {
		s := New(polePoints())
		_, err := s.QueryBallPoint(ctx, Point{Lon: 0, Lat: 0}, -0.1)
		assert.ErrorIs(t, err, ErrInvalidRadius)
	})
}

func TestQueryBallPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("SingleVsBatch", func(t *testing.T) {
		rng := testutil.NewRNG(29)
		s := New(rng.UniformPoints(100))
		q := Point{Lon: 0.2, Lat: 0.1}

		single, err := s.QueryBallPoint(ctx, q, 0.5)
		require.NoError(t, err)

		batch, err := s.QueryBallPoints(ctx, []Point{q}, 0.5)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, single.Values(), batch[0].Values())
	})

	t.Run("QueryOrder", func(t *testing.T) {
		pts := polePoints()
		s := New(pts)

		sets, err := s.QueryBallPoints(ctx, []Point{pts[3], pts[0]}, 1e-6)
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, []int{3}, sets[0].Values())
		assert.Equal(t, []int{0}, sets[1].Values())
	})

	t.Run("NoQueries", func(t *testing.T) {
		s := New(polePoints())
		sets, err := s.QueryBallPoints(ctx, nil, 1)
		require.NoError(t, err)
		assert.Empty(t, sets)
	})
}

func TestQueryBallTree(t *testing.T) {
	ctx := context.Background()

	t.Run("SelfJoinZeroRadius", func(t *testing.T) {
		rng := testutil.NewRNG(31)
		s := New(rng.UniformPoints(40))

		sets, err := s.QueryBallTree(ctx, s, 0)
		require.NoError(t, err)
		require.Len(t, sets, 40)
		for i, set := range sets {
			assert.True(t, set.Contains(i), "set %d misses itself", i)
		}
	})

	t.Run("AgainstOtherIndex", func(t *testing.T) {
		rng := testutil.NewRNG(37)
		aPts := rng.UniformPoints(60)
		bPts := rng.UniformPoints(45)
		a := New(aPts)
		b := New(bPts)
		const r = 0.6

		sets, err := a.QueryBallTree(ctx, b, r)
		require.NoError(t, err)
		require.Len(t, sets, 60)
		for i, set := range sets {
			assert.ElementsMatch(t, testutil.ExactWithin(bPts, aPts[i], r), set.Values(), "row %d", i)
		}
	})

	t.Run("AgainstRawPoints", func(t *testing.T) {
		rng := testutil.NewRNG(41)
		aPts := rng.UniformPoints(30)
		bPts := rng.UniformPoints(20)
		a := New(aPts)
		const r = 0.9

		viaIndex, err := a.QueryBallTree(ctx, New(bPts), r)
		require.NoError(t, err)

		viaPoints, err := a.QueryBallTreePoints(ctx, bPts, r)
		require.NoError(t, err)

		require.Len(t, viaPoints, 30)
		for i := range viaPoints {
			assert.Equal(t, viaIndex[i].Values(), viaPoints[i].Values())
		}
	})

	t.Run("AgainstEmpty", func(t *testing.T) {
		s := New(polePoints())

		sets, err := s.QueryBallTree(ctx, New(nil), math.Pi)
		require.NoError(t, err)
		require.Len(t, sets, 4)
		for _, set := range sets {
			assert.True(t, set.IsEmpty())
		}
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		s := New(nil)
		sets, err := s.QueryBallTree(ctx, New(polePoints()), 1)
		require.NoError(t, err)
		assert.Empty(t, sets)
	})

	t.Run("NegativeRadius", func(t *testing.T) {
		s := New(polePoints())
		_, err := s.QueryBallTree(ctx, s, -1)
		assert.ErrorIs(t, err, ErrInvalidRadius)

		_, err = s.QueryBallTreePoints(ctx, polePoints(), -1)
		assert.ErrorIs(t, err, ErrInvalidRadius)
	})
}

// euclidWrapper adapts a bare euclid tree to EuclideanIndex, covering the
// plain-Euclidean-index arm of QueryBallTree.
type euclidWrapper struct {
	tree *euclid.Tree
}

func (w euclidWrapper) EuclideanTree() *euclid.Tree { return w.tree }

func TestQueryBallTreeEuclideanIndex(t *testing.T) {
	rng := testutil.NewRNG(43)
	aPts := rng.UniformPoints(25)
	bPts := rng.UniformPoints(25)
	a := New(aPts)
	other := euclidWrapper{tree: euclid.NewTree(euclid.FromVecs(geom.EmbedAll(bPts)), false)}
	const r = 0.5

	sets, err := a.QueryBallTree(context.Background(), other, r)
	require.NoError(t, err)
	require.Len(t, sets, 25)
	for i, set := range sets {
		assert.ElementsMatch(t, testutil.ExactWithin(bPts, aPts[i], r), set.Values(), "row %d", i)
	}
}

func TestConcurrentQueries(t *testing.T) {
	rng := testutil.NewRNG(47)
	pts := rng.UniformPoints(200)
	s := New(pts, WithParallelism(4))
	ctx := context.Background()
	queries := rng.UniformPoints(50)

	done := make(chan error, 3)
	go func() {
		_, _, err := s.Query(ctx, queries, 5)
		done <- err
	}()
	go func() {
		_, err := s.QueryBallPoints(ctx, queries, 0.3)
		done <- err
	}()
	go func() {
		_, err := s.QueryBallTree(ctx, s, 0.2)
		done <- err
	}()
	for i := 0; i < 3; i++ {
		require.NoError(t, <-done)
	}
}
