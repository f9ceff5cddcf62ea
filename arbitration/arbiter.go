// Package arbitration provides arbiters that pick one of several requesting
// buffers.
package arbitration

import (
	"github.com/hwsimlab/hwblocks/bitsearch"
	"github.com/hwsimlab/hwblocks/queueing"
)

// An Arbiter grants one requesting buffer per arbitration round.
type Arbiter interface {
	// AddBuffer registers a buffer to arbitrate among. A buffer requests
	// whenever it holds at least one element.
	AddBuffer(buf queueing.Buffer)

	// Arbitrate picks the buffer to serve this round.
	Arbitrate() (queueing.Buffer, bool)
}

// NewRoundRobinArbiter creates an Arbiter with rotating fairness: priority
// starts one past the most recently granted buffer, so no requester can
// starve the others.
func NewRoundRobinArbiter(searcher bitsearch.Searcher) Arbiter {
	return &roundRobinArbiter{searcher: searcher}
}

type roundRobinArbiter struct {
	buffers      []queueing.Buffer
	searcher     bitsearch.Searcher
	nextPriority int
}

func (a *roundRobinArbiter) AddBuffer(buf queueing.Buffer) {
	a.buffers = append(a.buffers, buf)
}

func (a *roundRobinArbiter) Arbitrate() (queueing.Buffer, bool) {
	if len(a.buffers) == 0 {
		return nil, false
	}

	requests := bitsearch.NewBitmap(len(a.buffers))
	for i, buf := range a.buffers {
		if buf.Size() > 0 {
			requests.Set(i)
		}
	}

	index, found := a.searchFrom(requests, a.nextPriority)
	if !found {
		return nil, false
	}

	a.nextPriority = (index + 1) % len(a.buffers)

	return a.buffers[index], true
}

// searchFrom finds the lowest requesting index at or above from, wrapping
// around to the low end when nothing above matches.
func (a *roundRobinArbiter) searchFrom(
	requests *bitsearch.Bitmap,
	from int,
) (int, bool) {
	high := requests.Clone()
	for i := 0; i < from; i++ {
		high.Clear(i)
	}

	if index, found := a.searcher.Search(
		high, true, bitsearch.LowToHigh); found {
		return index, true
	}

	return a.searcher.Search(requests, true, bitsearch.LowToHigh)
}
