package verify

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// ScalarIndex answers closed range queries over the scalar column of a data
// file.
//
// Layout is columnar: values sorted ascending and rowIDs aligned with them,
// so a range is two binary searches plus one AddMany.
type ScalarIndex struct {
	values []float64
	rowIDs []uint32
}

// NewScalarIndex indexes scalars; scalars[i] belongs to row i.
func NewScalarIndex(scalars []float64) *ScalarIndex {
	idx := &ScalarIndex{
		values: make([]float64, len(scalars)),
		rowIDs: make([]uint32, len(scalars)),
	}
	for i := range scalars {
		idx.rowIDs[i] = uint32(i)
	}
	sort.SliceStable(idx.rowIDs, func(a, b int) bool {
		return scalars[idx.rowIDs[a]] < scalars[idx.rowIDs[b]]
	})
	for i, id := range idx.rowIDs {
		idx.values[i] = scalars[id]
	}
	return idx
}

// Len returns the number of indexed rows.
func (idx *ScalarIndex) Len() int { return len(idx.values) }

// bounds returns the index range of values in [lo, hi].
func (idx *ScalarIndex) bounds(lo, hi float64) (int, int) {
	if hi < lo {
		return 0, 0
	}
	i := sort.SearchFloat64s(idx.values, lo)
	// First value > hi
	j := sort.Search(len(idx.values), func(k int) bool { return idx.values[k] > hi })
	if j < i {
		return 0, 0
	}
	return i, j
}

// Count returns the number of rows with lo <= s <= hi.
func (idx *ScalarIndex) Count(lo, hi float64) int {
	i, j := idx.bounds(lo, hi)
	return j - i
}

// Range returns the rows with lo <= s <= hi.
func (idx *ScalarIndex) Range(lo, hi float64) *roaring.Bitmap {
	bm := roaring.New()
	if i, j := idx.bounds(lo, hi); j > i {
		bm.AddMany(idx.rowIDs[i:j])
	}
	return bm
}
