// Package alloc implements the free-slot allocator of a content-addressable
// cache.
package alloc

import (
	"log"

	"github.com/hwsimlab/hwblocks/bitsearch"
)

// None marks the absence of a slot index in Release and Commit.
const None = -1

// An Allocator owns the free-slot bitmap. Request and Release never mutate
// the bitmap; Commit is its only mutator. A release recorded in the same
// step as a grant is merged: the released bit is OR'd in before the granted
// bit is taken out, so releasing the very bit about to be granted is safe.
type Allocator interface {
	Request() (index int, ok bool)
	Release(index int)
	Commit(granted int)
	IsFree(index int) bool
	NumFree() int
	NumSlots() int
	Reset()
}

// NewAllocator creates an Allocator over numSlots slots, all free.
func NewAllocator(numSlots int, searcher bitsearch.Searcher) Allocator {
	a := &allocatorImpl{
		free:           bitsearch.NewBitmap(numSlots),
		searcher:       searcher,
		pendingRelease: None,
	}
	a.Reset()

	return a
}

type allocatorImpl struct {
	free           *bitsearch.Bitmap
	searcher       bitsearch.Searcher
	pendingRelease int
}

// Request returns the lowest-indexed free slot, considering a pending
// release as already free. It does not mutate any state.
func (a *allocatorImpl) Request() (int, bool) {
	index, found := a.searcher.Search(a.free, true, bitsearch.LowToHigh)

	if a.pendingRelease != None && (!found || a.pendingRelease < index) {
		return a.pendingRelease, true
	}

	return index, found
}

// Release records a slot to be returned to the free pool at the next Commit.
func (a *allocatorImpl) Release(index int) {
	a.mustBeInRange(index)

	if a.pendingRelease != None && a.pendingRelease != index {
		log.Panicf("release of slot %d while release of slot %d is pending",
			index, a.pendingRelease)
	}

	a.pendingRelease = index
}

// Commit applies the pending release, then takes the granted slot out of the
// free pool. Pass None when no grant occurred. Granting a slot that is not
// free indicates controller bookkeeping has broken.
func (a *allocatorImpl) Commit(granted int) {
	if a.pendingRelease != None {
		a.free.Set(a.pendingRelease)
		a.pendingRelease = None
	}

	if granted == None {
		return
	}

	a.mustBeInRange(granted)
	if !a.free.Bit(granted) {
		log.Panicf("granting slot %d that is not free", granted)
	}

	a.free.Clear(granted)
}

// IsFree reports whether the slot is in the free pool.
func (a *allocatorImpl) IsFree(index int) bool {
	a.mustBeInRange(index)

	return a.free.Bit(index)
}

// NumFree returns the number of free slots.
func (a *allocatorImpl) NumFree() int {
	return a.free.OnesCount()
}

// NumSlots returns the total number of slots.
func (a *allocatorImpl) NumSlots() int {
	return a.free.Width()
}

// Reset returns every slot to the free pool.
func (a *allocatorImpl) Reset() {
	a.free.Fill()
	a.pendingRelease = None
}

func (a *allocatorImpl) mustBeInRange(index int) {
	if index < 0 || index >= a.free.Width() {
		log.Panicf("slot index %d out of range [0, %d)", index, a.free.Width())
	}
}
