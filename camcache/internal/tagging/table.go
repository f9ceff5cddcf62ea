// Package tagging implements the associative slot table of a
// content-addressable cache.
package tagging

import "log"

// Status is the state of one cache slot.
type Status int

// The slot states.
const (
	StatusFree Status = iota
	StatusReserved
	StatusValid
	StatusDirty
)

func (s Status) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusReserved:
		return "reserved"
	case StatusValid:
		return "valid"
	case StatusDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// A Slot is one entry of the table. Key and Tag are meaningful only when
// Status is not StatusFree.
type Slot struct {
	Index  int
	Status Status
	Key    uint64
	Tag    uint64
}

// A Table stores slots and supports associative lookup by key. At most one
// non-free slot may hold a given key at any time.
type Table interface {
	Lookup(key uint64) (Slot, bool)
	Insert(index int, key, tag uint64)
	SetStatus(index int, status Status)
	Retag(index int, tag uint64)
	Erase(index int)
	Slot(index int) Slot
	NumSlots() int
	Reset()
}

// NewTable creates a Table with the given number of slots, all free.
func NewTable(numSlots int) Table {
	t := &tableImpl{numSlots: numSlots}
	t.Reset()

	return t
}

type tableImpl struct {
	numSlots   int
	slots      []Slot
	keyToIndex map[uint64]int
}

// Lookup returns the unique non-free slot holding key, if one exists.
//
// The hardware design compares the key against every slot in parallel. The
// key-to-index map plays that role here; it is updated in the same call as
// every slot mutation so it can never diverge from the slot array.
func (t *tableImpl) Lookup(key uint64) (Slot, bool) {
	index, ok := t.keyToIndex[key]
	if !ok {
		return Slot{}, false
	}

	return t.slots[index], true
}

// Insert fills a free slot with key and tag and marks it valid.
func (t *tableImpl) Insert(index int, key, tag uint64) {
	t.mustBeInRange(index)

	slot := &t.slots[index]
	if slot.Status != StatusFree {
		log.Panicf("inserting into occupied slot %d", index)
	}

	if existing, dup := t.keyToIndex[key]; dup {
		log.Panicf("key %#x already live in slot %d", key, existing)
	}

	slot.Status = StatusValid
	slot.Key = key
	slot.Tag = tag
	t.keyToIndex[key] = index
}

// SetStatus changes the status of a non-free slot. Freeing a slot must go
// through Erase so the key index stays consistent.
func (t *tableImpl) SetStatus(index int, status Status) {
	t.mustBeInRange(index)

	if status == StatusFree {
		log.Panicf("slot %d can only be freed through Erase", index)
	}

	slot := &t.slots[index]
	if slot.Status == StatusFree {
		log.Panicf("setting status of free slot %d", index)
	}

	slot.Status = status
}

// Retag replaces the tag of a non-free slot and marks it valid.
func (t *tableImpl) Retag(index int, tag uint64) {
	t.mustBeInRange(index)

	slot := &t.slots[index]
	if slot.Status == StatusFree {
		log.Panicf("retagging free slot %d", index)
	}

	slot.Tag = tag
	slot.Status = StatusValid
}

// Erase frees a slot, clearing its key and tag. Erasing an already-free slot
// is a no-op.
func (t *tableImpl) Erase(index int) {
	t.mustBeInRange(index)

	slot := &t.slots[index]
	if slot.Status == StatusFree {
		return
	}

	delete(t.keyToIndex, slot.Key)
	*slot = Slot{Index: index}
}

// Slot returns a copy of the slot at index.
func (t *tableImpl) Slot(index int) Slot {
	t.mustBeInRange(index)

	return t.slots[index]
}

// NumSlots returns the number of slots in the table.
func (t *tableImpl) NumSlots() int {
	return t.numSlots
}

// Reset frees every slot.
func (t *tableImpl) Reset() {
	t.slots = make([]Slot, t.numSlots)
	for i := range t.slots {
		t.slots[i].Index = i
	}

	t.keyToIndex = make(map[uint64]int)
}

func (t *tableImpl) mustBeInRange(index int) {
	if index < 0 || index >= t.numSlots {
		log.Panicf("slot index %d out of range [0, %d)", index, t.numSlots)
	}
}
