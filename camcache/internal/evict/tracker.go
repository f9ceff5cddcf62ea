// Package evict tracks cache slots whose content is disposable and may be
// reclaimed by force.
package evict

import (
	"github.com/hwsimlab/hwblocks/bitsearch"
)

// A Tracker owns the eviction-candidate bitmap. It is independent of the
// free-slot bitmap: a marked slot may still be occupied.
type Tracker interface {
	Mark(index int)
	Clear(index int)
	NextCandidate() (index int, ok bool)
	IsMarked(index int) bool
	Reset()
}

// NewTracker creates a Tracker over numSlots slots.
//
// With initiallyReclaimable, every slot starts as a candidate, mirroring the
// all-free reset of the slot pool: reclaiming a never-used slot is a
// harmless idempotent erase. Without it, only slots that have seen a done or
// erase signal become candidates.
func NewTracker(
	numSlots int,
	searcher bitsearch.Searcher,
	initiallyReclaimable bool,
) Tracker {
	t := &trackerImpl{
		set:                  bitsearch.NewBitmap(numSlots),
		searcher:             searcher,
		initiallyReclaimable: initiallyReclaimable,
	}
	t.Reset()

	return t
}

type trackerImpl struct {
	set                  *bitsearch.Bitmap
	searcher             bitsearch.Searcher
	initiallyReclaimable bool
}

// Mark flags a slot as a forced-reclamation candidate.
func (t *trackerImpl) Mark(index int) {
	t.set.Set(index)
}

// Clear removes a slot from the candidate set.
func (t *trackerImpl) Clear(index int) {
	t.set.Clear(index)
}

// NextCandidate returns the lowest-indexed candidate without consuming it.
// Actually reclaiming the slot is the caller's job, through an erase.
func (t *trackerImpl) NextCandidate() (int, bool) {
	return t.searcher.Search(t.set, true, bitsearch.LowToHigh)
}

// IsMarked reports whether a slot is currently a candidate.
func (t *trackerImpl) IsMarked(index int) bool {
	return t.set.Bit(index)
}

// Reset restores the initial candidate set.
func (t *trackerImpl) Reset() {
	if t.initiallyReclaimable {
		t.set.Fill()
		return
	}

	t.set.Reset()
}
