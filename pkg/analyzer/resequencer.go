package analyzer

import (
	"sort"

	"github.com/user/vca/pkg/pipeline"
)

// Resequencer restores submission order on top of the analyzer's
// completion-ordered results. It keys on FrameResult.SequenceID, which
// follows the order frames were pushed.
//
// A Resequencer is not safe for concurrent use.
type Resequencer struct {
	next    uint64
	pending map[uint64]pipeline.FrameResult
}

// NewResequencer creates a Resequencer expecting sequence id start first.
func NewResequencer(start uint64) *Resequencer {
	return &Resequencer{
		next:    start,
		pending: make(map[uint64]pipeline.FrameResult),
	}
}

// Add buffers result and returns every result that is now in order.
// Results with a sequence id below the expected one are returned as is.
func (r *Resequencer) Add(result pipeline.FrameResult) []pipeline.FrameResult {
	if result.SequenceID < r.next {
		return []pipeline.FrameResult{result}
	}
	r.pending[result.SequenceID] = result

	var ready []pipeline.FrameResult
	for {
		next, ok := r.pending[r.next]
		if !ok {
			return ready
		}
		delete(r.pending, r.next)
		ready = append(ready, next)
		r.next++
	}
}

// Pending returns the number of buffered results waiting for a gap to fill.
func (r *Resequencer) Pending() int {
	return len(r.pending)
}

// Next returns the sequence id the Resequencer is waiting for.
func (r *Resequencer) Next() uint64 {
	return r.next
}

// Flush returns the buffered results sorted by sequence id, skipping gaps,
// and empties the buffer.
func (r *Resequencer) Flush() []pipeline.FrameResult {
	out := make([]pipeline.FrameResult, 0, len(r.pending))
	for _, res := range r.pending {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SequenceID < out[j].SequenceID
	})
	if len(out) > 0 {
		r.next = out[len(out)-1].SequenceID + 1
	}
	r.pending = make(map[uint64]pipeline.FrameResult)
	return out
}
