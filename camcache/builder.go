package camcache

import (
	"github.com/hwsimlab/hwblocks/bitsearch"
	"github.com/hwsimlab/hwblocks/camcache/internal/alloc"
	"github.com/hwsimlab/hwblocks/camcache/internal/evict"
	"github.com/hwsimlab/hwblocks/camcache/internal/tagging"
	"github.com/hwsimlab/hwblocks/queueing"
)

// Builder can build cache controllers.
type Builder struct {
	numSlots         int
	bufferCapacity   int
	searcher         bitsearch.Searcher
	cleanEvictionSet bool
}

// MakeBuilder creates a new builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numSlots:       32,
		bufferCapacity: 4,
	}
}

// WithNumSlots sets the number of cache slots.
func (b Builder) WithNumSlots(numSlots int) Builder {
	b.numSlots = numSlots
	return b
}

// WithBufferCapacity sets the capacity of the request and response buffers.
func (b Builder) WithBufferCapacity(capacity int) Builder {
	b.bufferCapacity = capacity
	return b
}

// WithSearcher sets the bitmap searcher used by the allocator and the
// eviction tracker.
func (b Builder) WithSearcher(searcher bitsearch.Searcher) Builder {
	b.searcher = searcher
	return b
}

// WithCleanEvictionSet starts the eviction-candidate set empty instead of
// all-ones, so forced reclaim never targets a never-used slot.
func (b Builder) WithCleanEvictionSet() Builder {
	b.cleanEvictionSet = true
	return b
}

// Build builds a cache controller.
func (b Builder) Build(name string) *Comp {
	searcher := b.searcher
	if searcher == nil {
		searcher = bitsearch.NewSearcher()
	}

	return &Comp{
		name:      name,
		table:     tagging.NewTable(b.numSlots),
		allocator: alloc.NewAllocator(b.numSlots, searcher),
		tracker:   evict.NewTracker(b.numSlots, searcher, !b.cleanEvictionSet),
		inBuf:     queueing.NewBuffer(name+".ReqBuf", b.bufferCapacity),
		outBuf:    queueing.NewBuffer(name+".RspBuf", b.bufferCapacity),
	}
}
