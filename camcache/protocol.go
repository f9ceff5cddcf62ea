package camcache

import (
	"errors"

	"github.com/rs/xid"

	"github.com/hwsimlab/hwblocks/camcache/internal/tagging"
)

// Status is the state of one cache slot.
type Status = tagging.Status

// The slot states.
const (
	StatusFree     = tagging.StatusFree
	StatusReserved = tagging.StatusReserved
	StatusValid    = tagging.StatusValid
	StatusDirty    = tagging.StatusDirty
)

// Slot is one entry of the cache table.
type Slot = tagging.Slot

// Command selects the operation a request performs.
type Command int

// The commands the controller decodes.
const (
	CmdNop Command = iota
	CmdStore
	CmdDone
	CmdMarkValid
	CmdMarkDirty
	CmdChangeTag
	CmdErase
)

func (c Command) String() string {
	switch c {
	case CmdNop:
		return "nop"
	case CmdStore:
		return "store"
	case CmdDone:
		return "done"
	case CmdMarkValid:
		return "mark-valid"
	case CmdMarkDirty:
		return "mark-dirty"
	case CmdChangeTag:
		return "change-tag"
	case CmdErase:
		return "erase"
	default:
		return "unknown"
	}
}

// NoEraseIndex marks a request that addresses the cache by key rather than
// by explicit slot index.
const NoEraseIndex = -1

// ErrCacheFull reports a store that missed while no slot was free. The
// caller may reclaim capacity through EvictionCandidate plus an erase and
// retry.
var ErrCacheFull = errors.New("cache full")

// A Request is one command for the controller.
//
// EraseIndex selects the direct-erase path: when it is a valid slot index,
// the key lookup is bypassed entirely and the slot is erased by index.
// Build requests through RequestBuilder so EraseIndex defaults to
// NoEraseIndex.
type Request struct {
	ID         string
	Cmd        Command
	Key        uint64
	Tag        uint64
	EraseIndex int
}

// RequestBuilder builds requests.
type RequestBuilder struct {
	cmd        Command
	key        uint64
	tag        uint64
	eraseIndex int
}

// MakeRequestBuilder creates a RequestBuilder.
func MakeRequestBuilder() RequestBuilder {
	return RequestBuilder{eraseIndex: NoEraseIndex}
}

// WithCmd sets the command of the request to build.
func (b RequestBuilder) WithCmd(cmd Command) RequestBuilder {
	b.cmd = cmd
	return b
}

// WithKey sets the key of the request to build.
func (b RequestBuilder) WithKey(key uint64) RequestBuilder {
	b.key = key
	return b
}

// WithTag sets the tag of the request to build.
func (b RequestBuilder) WithTag(tag uint64) RequestBuilder {
	b.tag = tag
	return b
}

// WithEraseIndex routes the request through the direct-erase path.
func (b RequestBuilder) WithEraseIndex(index int) RequestBuilder {
	b.eraseIndex = index
	return b
}

// Build creates the request.
func (b RequestBuilder) Build() Request {
	return Request{
		ID:         xid.New().String(),
		Cmd:        b.cmd,
		Key:        b.key,
		Tag:        b.tag,
		EraseIndex: b.eraseIndex,
	}
}

// A Response reports the outcome of one request after the fixed pipeline
// latency.
type Response struct {
	ReqID string

	// Index is the resolved slot index, or -1 when nothing resolved.
	Index int

	// Status is the slot status after the command took effect.
	Status Status

	// Found reports whether the key matched a live slot.
	Found bool

	// Granted reports whether a store was given a freshly allocated slot.
	Granted bool

	// Dirty reports whether the resolved slot held dirty content.
	Dirty bool

	// Err is ErrCacheFull when a store missed with no free slot.
	Err error
}
