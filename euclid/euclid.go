// Package euclid provides the Euclidean spatial-partitioning layer used by
// kdsphere: embedded 3D points adapted to gonum's k-d tree, and a Tree
// wrapper exposing the search primitives kdsphere needs, all expressed in
// chord distance.
package euclid

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/johnh2o2/kdsphere/geom"
)

// Point is a 3D Cartesian point tagged with its position in the owning
// point sequence. It satisfies kdtree.Comparable; Distance returns the
// squared Euclidean distance, following the gonum convention.
type Point struct {
	Vec geom.Vec3
	ID  int
}

// Compare returns the signed distance of p from the plane passing through c
// and perpendicular to dimension d.
func (p Point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Point)
	switch d {
	case 0:
		return p.Vec.X - q.Vec.X
	case 1:
		return p.Vec.Y - q.Vec.Y
	default:
		return p.Vec.Z - q.Vec.Z
	}
}

// Dims returns the number of dimensions of p.
func (p Point) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between p and c.
func (p Point) Distance(c kdtree.Comparable) float64 {
	d := p.Vec.Sub(c.(Point).Vec)
	return d.Dot(d)
}

// Extend grows b to include p, allocating a fresh bounding box when b is nil.
func (p Point) Extend(b *kdtree.Bounding) *kdtree.Bounding {
	if b == nil {
		return &kdtree.Bounding{Min: p, Max: p}
	}
	min := b.Min.(Point)
	max := b.Max.(Point)
	min.Vec.X = math.Min(min.Vec.X, p.Vec.X)
	min.Vec.Y = math.Min(min.Vec.Y, p.Vec.Y)
	min.Vec.Z = math.Min(min.Vec.Z, p.Vec.Z)
	max.Vec.X = math.Max(max.Vec.X, p.Vec.X)
	max.Vec.Y = math.Max(max.Vec.Y, p.Vec.Y)
	max.Vec.Z = math.Max(max.Vec.Z, p.Vec.Z)
	return &kdtree.Bounding{Min: min, Max: max}
}

// Points is a collection of Point values that satisfies kdtree.Interface.
type Points []Point

func (p Points) Index(i int) kdtree.Comparable         { return p[i] }
func (p Points) Len() int                              { return len(p) }
func (p Points) Pivot(d kdtree.Dim) int                { return plane{points: p, Dim: d}.Pivot() }
func (p Points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Bounds returns the bounding box enclosing all points in p, or nil when p
// is empty.
func (p Points) Bounds() *kdtree.Bounding {
	if len(p) == 0 {
		return nil
	}
	var b *kdtree.Bounding
	for _, e := range p {
		b = e.Extend(b)
	}
	return b
}

// plane is a wrapping type that allows a Points type be pivoted on a dimension.
type plane struct {
	kdtree.Dim
	points Points
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.points[i].Vec.X < p.points[j].Vec.X
	case 1:
		return p.points[i].Vec.Y < p.points[j].Vec.Y
	default:
		return p.points[i].Vec.Z < p.points[j].Vec.Z
	}
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p plane) Len() int { return len(p.points) }

// FromVecs tags each embedded vector with its sequence position.
func FromVecs(vecs []geom.Vec3) Points {
	if len(vecs) == 0 {
		return nil
	}
	pts := make(Points, len(vecs))
	for i, v := range vecs {
		pts[i] = Point{Vec: v, ID: i}
	}
	return pts
}

// Neighbor pairs a point ID with its chord distance from a query.
type Neighbor struct {
	ID   int
	Dist float64
}

// Tree is a k-d tree over a fixed set of tagged 3D points. It is immutable
// after construction and safe for concurrent queries.
type Tree struct {
	tree *kdtree.Tree
	pts  Points
}

// NewTree builds a k-d tree over pts. The slice is reordered during
// construction; point IDs remain authoritative. When bounding is true the
// tree maintains bounding boxes to prune searches.
func NewTree(pts Points, bounding bool) *Tree {
	t := &Tree{pts: pts}
	if len(pts) > 0 {
		t.tree = kdtree.New(pts, bounding)
	}
	return t
}

// Len returns the number of indexed points.
func (t *Tree) Len() int { return len(t.pts) }

// Points returns the indexed points in tree order. Each point carries the
// ID it was tagged with at construction.
func (t *Tree) Points() Points { return t.pts }

// KNN returns up to k nearest neighbors of q, ascending by chord distance.
// Fewer than k neighbors are returned when the tree holds fewer points.
func (t *Tree) KNN(q Point, k int) []Neighbor {
	if t.tree == nil || k < 1 {
		return nil
	}
	keeper := kdtree.NewNKeeper(k)
	t.tree.NearestSet(keeper, q)
	res := make([]Neighbor, 0, keeper.Len())
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil {
			// Unfilled sentinel left when the tree holds fewer than k points.
			continue
		}
		res = append(res, Neighbor{ID: cd.Comparable.(Point).ID, Dist: math.Sqrt(cd.Dist)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Dist < res[j].Dist })
	return res
}

// Within returns the IDs of all points whose chord distance from q is at
// most chord. Order is unspecified.
func (t *Tree) Within(q Point, chord float64) []int {
	if t.tree == nil || chord < 0 {
		return nil
	}
	keeper := kdtree.NewDistKeeper(chord * chord)
	t.tree.NearestSet(keeper, q)
	ids := make([]int, 0, keeper.Len())
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil {
			continue
		}
		ids = append(ids, cd.Comparable.(Point).ID)
	}
	return ids
}

// Join performs a radius join between t and other: for every point in t,
// the IDs of other's points within the given chord distance. The outer
// sequence is ordered by t's point IDs.
func (t *Tree) Join(other *Tree, chord float64) [][]int {
	out := make([][]int, len(t.pts))
	for _, p := range t.pts {
		out[p.ID] = other.Within(p, chord)
	}
	return out
}
