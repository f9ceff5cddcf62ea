// Package bitsearch provides bitmaps and priority-encoder style searches
// over them.
package bitsearch

// Direction controls which end of the bitmap a search scans from.
type Direction int

// The two scan directions.
const (
	LowToHigh Direction = iota
	HighToLow
)

// A Searcher locates the first bit with a target value in a bitmap.
//
// Among multiple matching bits, the lowest index wins for LowToHigh and the
// highest index wins for HighToLow. Searches never mutate the bitmap.
type Searcher interface {
	Search(bm *Bitmap, target bool, dir Direction) (index int, found bool)
}

// NewSearcher creates the default Searcher.
func NewSearcher() Searcher {
	return &halvingSearcher{}
}

// halvingSearcher splits the bitmap into halves recursively, bounding the
// decision depth to O(log W). Hardware priority encoders use the same
// structure; in software only the tie-break matters.
type halvingSearcher struct{}

func (s *halvingSearcher) Search(
	bm *Bitmap,
	target bool,
	dir Direction,
) (int, bool) {
	return s.search(bm, 0, bm.Width(), target, dir)
}

func (s *halvingSearcher) search(
	bm *Bitmap,
	offset, width int,
	target bool,
	dir Direction,
) (int, bool) {
	switch width {
	case 0:
		return 0, false
	case 1:
		return 0, bm.Bit(offset) == target
	case 2:
		return s.searchPair(bm, offset, target, dir)
	}

	lowWidth := (width + 1) / 2
	lowIndex, lowFound := s.search(bm, offset, lowWidth, target, dir)
	highIndex, highFound :=
		s.search(bm, offset+lowWidth, width-lowWidth, target, dir)

	if dir == LowToHigh {
		if lowFound {
			return lowIndex, true
		}

		return highIndex + lowWidth, highFound
	}

	if highFound {
		return highIndex + lowWidth, true
	}

	return lowIndex, lowFound
}

func (s *halvingSearcher) searchPair(
	bm *Bitmap,
	offset int,
	target bool,
	dir Direction,
) (int, bool) {
	low := bm.Bit(offset) == target
	high := bm.Bit(offset+1) == target

	switch {
	case dir == LowToHigh && low:
		return 0, true
	case dir == HighToLow && high:
		return 1, true
	case low:
		return 0, true
	case high:
		return 1, true
	}

	return 0, false
}
