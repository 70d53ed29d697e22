package kdsphere

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// IndexSet is an immutable set of positions into an index's construction
// order, as returned by radius queries. It wraps a Roaring Bitmap, so large
// result sets stay compact.
type IndexSet struct {
	rb *roaring.Bitmap
}

func newIndexSet(ids []int) *IndexSet {
	rb := roaring.New()
	for _, id := range ids {
		rb.Add(uint32(id))
	}
	return &IndexSet{rb: rb}
}

// Contains reports whether position i is in the set.
func (s *IndexSet) Contains(i int) bool {
	return i >= 0 && s.rb.Contains(uint32(i))
}

// Len returns the number of positions in the set.
func (s *IndexSet) Len() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether the set is empty.
func (s *IndexSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Values returns the positions in ascending order.
func (s *IndexSet) Values() []int {
	out := make([]int, 0, s.Len())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// All returns an iterator over the positions in ascending order.
func (s *IndexSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}
