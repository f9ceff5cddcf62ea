// Package camcache implements a fully-associative content-addressable cache
// controller.
//
// The controller owns three structures that must never disagree: the
// associative slot table, the free-slot bitmap, and the eviction-candidate
// bitmap. Commands flow through a fixed-latency pipeline: issue, resolve
// (associative lookup), act (the single mutation step). The candidate bitmap
// is updated one step behind the act, once the resolved slot index is final.
package camcache

import (
	"log"
	"sync"

	"github.com/hwsimlab/hwblocks/camcache/internal/alloc"
	"github.com/hwsimlab/hwblocks/camcache/internal/evict"
	"github.com/hwsimlab/hwblocks/camcache/internal/tagging"
	"github.com/hwsimlab/hwblocks/hooking"
	"github.com/hwsimlab/hwblocks/queueing"
)

// HookPosCmdResolved marks when a command finishes its act step. The hook
// item is the Response.
var HookPosCmdResolved = &hooking.HookPos{Name: "Command Resolved"}

// A Comp is the cache controller. All three owned structures are mutated
// only in the act step, under one lock, so they stay mutually consistent at
// every externally observable point.
type Comp struct {
	hooking.HookableBase

	name string
	lock sync.Mutex

	table     tagging.Table
	allocator alloc.Allocator
	tracker   evict.Tracker

	inBuf  queueing.Buffer
	outBuf queueing.Buffer

	issueReg       *Request
	resolveReg     *resolvedReq
	directEraseReg *Request
	trackerPending *trackerUpdate
}

type resolvedReq struct {
	req   Request
	found bool
	slot  tagging.Slot
}

type trackerUpdate struct {
	index int
	mark  bool
}

// Name returns the name of the controller.
func (c *Comp) Name() string {
	return c.name
}

// CanSubmit checks whether the controller can take the request now.
func (c *Comp) CanSubmit(req Request) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if req.EraseIndex != NoEraseIndex {
		return c.directEraseReg == nil
	}

	return c.inBuf.CanPush()
}

// Submit hands a request to the controller. It panics if the controller
// cannot take the request; use CanSubmit first.
func (c *Comp) Submit(req Request) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if req.EraseIndex != NoEraseIndex {
		c.mustBeInRange(req.EraseIndex)

		if c.directEraseReg != nil {
			log.Panicf("%s: direct-erase path is busy", c.name)
		}

		c.directEraseReg = &req

		return
	}

	c.inBuf.Push(req)
}

// PopResponse retrieves the next completed response, if any.
func (c *Comp) PopResponse() (Response, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	item := c.outBuf.Pop()
	if item == nil {
		return Response{}, false
	}

	return item.(Response), true
}

// Tick advances the pipeline by one step.
//
// Stages run in reverse order so each register moves at most once per tick:
// the trailing candidate-set update first, then act, resolve, and issue.
// Exactly one command occupies the resolve/act stages at a time.
func (c *Comp) Tick() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	madeProgress := c.updateTracker()
	madeProgress = c.act() || madeProgress
	madeProgress = c.resolve() || madeProgress
	madeProgress = c.issue() || madeProgress

	return madeProgress
}

// Process runs one request to completion and returns its response. It is a
// convenience for strictly sequential use; do not mix it with outstanding
// Submit requests.
func (c *Comp) Process(req Request) Response {
	if !c.CanSubmit(req) {
		log.Panicf("%s: cannot process while requests are outstanding", c.name)
	}

	c.Submit(req)

	for {
		madeProgress := c.Tick()

		if rsp, ok := c.PopResponse(); ok {
			// Let the trailing candidate-set update land before returning.
			c.Tick()

			return rsp
		}

		if !madeProgress {
			log.Panicf("%s: stalled without producing a response", c.name)
		}
	}
}

// EvictionCandidate returns the lowest-indexed forced-reclamation candidate
// without consuming it. Reclaiming takes an explicit erase.
func (c *Comp) EvictionCandidate() (int, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.tracker.NextCandidate()
}

// NumSlots returns the number of slots in the cache.
func (c *Comp) NumSlots() int {
	return c.table.NumSlots()
}

// FreeCount returns the number of slots in the free pool.
func (c *Comp) FreeCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.allocator.NumFree()
}

// SlotIsFree reports whether a slot is in the free pool.
func (c *Comp) SlotIsFree(index int) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.allocator.IsFree(index)
}

// Reclaimable reports whether a slot is in the eviction-candidate set.
func (c *Comp) Reclaimable(index int) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.tracker.IsMarked(index)
}

// Slots returns a copy of every slot.
func (c *Comp) Slots() []Slot {
	c.lock.Lock()
	defer c.lock.Unlock()

	slots := make([]Slot, c.table.NumSlots())
	for i := range slots {
		slots[i] = c.table.Slot(i)
	}

	return slots
}

// Reset drops all in-flight commands and returns every slot to the free
// pool.
func (c *Comp) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.table.Reset()
	c.allocator.Reset()
	c.tracker.Reset()
	c.inBuf.Clear()
	c.outBuf.Clear()
	c.issueReg = nil
	c.resolveReg = nil
	c.directEraseReg = nil
	c.trackerPending = nil
}

func (c *Comp) updateTracker() bool {
	if c.trackerPending == nil {
		return false
	}

	u := c.trackerPending
	c.trackerPending = nil

	if u.mark {
		c.tracker.Mark(u.index)
	} else {
		c.tracker.Clear(u.index)
	}

	return true
}

func (c *Comp) act() bool {
	if c.directEraseReg != nil {
		// The direct-erase path owns the mutation step it lands in; a
		// key-driven action waits for the next tick.
		return c.actDirectErase()
	}

	if c.resolveReg == nil || !c.outBuf.CanPush() {
		return false
	}

	r := *c.resolveReg
	c.resolveReg = nil

	rsp, granted, released := c.performAction(r)
	if granted != alloc.None || released {
		c.allocator.Commit(granted)
	}

	c.outBuf.Push(rsp)
	c.invokeResolvedHook(rsp)

	return true
}

func (c *Comp) actDirectErase() bool {
	if !c.outBuf.CanPush() {
		return false
	}

	req := *c.directEraseReg
	c.directEraseReg = nil

	slot := c.table.Slot(req.EraseIndex)

	c.table.Erase(req.EraseIndex)
	c.allocator.Release(req.EraseIndex)
	c.allocator.Commit(alloc.None)

	// The direct path carries its index up front, so the candidate mark
	// does not wait for the skewed update.
	c.tracker.Mark(req.EraseIndex)

	rsp := Response{
		ReqID:  req.ID,
		Index:  req.EraseIndex,
		Status: StatusFree,
		Found:  slot.Status != StatusFree,
		Dirty:  slot.Status == StatusDirty,
	}

	c.outBuf.Push(rsp)
	c.invokeResolvedHook(rsp)

	return true
}

func (c *Comp) resolve() bool {
	if c.issueReg == nil || c.resolveReg != nil {
		return false
	}

	req := *c.issueReg
	c.issueReg = nil

	slot, found := c.table.Lookup(req.Key)
	c.resolveReg = &resolvedReq{req: req, found: found, slot: slot}

	return true
}

func (c *Comp) issue() bool {
	if c.issueReg != nil {
		return false
	}

	item := c.inBuf.Pop()
	if item == nil {
		return false
	}

	req := item.(Request)
	c.issueReg = &req

	return true
}

func (c *Comp) performAction(r resolvedReq) (Response, int, bool) {
	req := r.req
	slot := r.slot
	matched := r.found

	if matched {
		// A direct erase may have claimed the slot after the lookup
		// resolved; a stale match degrades to a miss.
		current := c.table.Slot(slot.Index)
		if current.Status == StatusFree || current.Key != req.Key {
			matched = false
		} else {
			slot = current
		}
	}

	rsp := Response{
		ReqID: req.ID,
		Index: -1,
	}

	if matched {
		rsp.Index = slot.Index
		rsp.Status = slot.Status
		rsp.Found = true
		rsp.Dirty = slot.Status == StatusDirty
	}

	granted := alloc.None
	released := false

	switch req.Cmd {
	case CmdNop:
		// Lookup outputs only.
	case CmdStore:
		granted = c.actStore(req, slot, matched, &rsp)
	case CmdDone:
		if matched {
			c.scheduleTrackerUpdate(slot.Index, true)
		}
	case CmdMarkValid:
		if matched {
			c.table.SetStatus(slot.Index, StatusValid)
			rsp.Status = StatusValid
		}
	case CmdMarkDirty:
		if matched {
			c.table.SetStatus(slot.Index, StatusDirty)
			rsp.Status = StatusDirty
		}
	case CmdChangeTag:
		if matched {
			c.table.Retag(slot.Index, req.Tag)
			rsp.Status = StatusValid
		}
	case CmdErase:
		if matched {
			c.table.Erase(slot.Index)
			c.allocator.Release(slot.Index)
			c.scheduleTrackerUpdate(slot.Index, true)
			released = true
			rsp.Status = StatusFree
		}
	default:
		log.Panicf("%s: cannot process command %d", c.name, req.Cmd)
	}

	return rsp, granted, released
}

func (c *Comp) actStore(
	req Request,
	slot tagging.Slot,
	matched bool,
	rsp *Response,
) int {
	if matched {
		// Already present; the fresh store only revokes any standing
		// reclaim candidacy.
		c.scheduleTrackerUpdate(slot.Index, false)

		return alloc.None
	}

	index, ok := c.allocator.Request()
	if !ok {
		rsp.Err = ErrCacheFull

		return alloc.None
	}

	c.table.Insert(index, req.Key, req.Tag)
	c.scheduleTrackerUpdate(index, false)

	rsp.Index = index
	rsp.Status = StatusValid
	rsp.Granted = true

	return index
}

func (c *Comp) scheduleTrackerUpdate(index int, mark bool) {
	if c.trackerPending != nil {
		log.Panicf("%s: candidate-set update already pending", c.name)
	}

	c.trackerPending = &trackerUpdate{index: index, mark: mark}
}

func (c *Comp) invokeResolvedHook(rsp Response) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosCmdResolved,
		Item:   rsp,
	})
}

func (c *Comp) mustBeInRange(index int) {
	if index < 0 || index >= c.table.NumSlots() {
		log.Panicf("%s: slot index %d out of range [0, %d)",
			c.name, index, c.table.NumSlots())
	}
}
