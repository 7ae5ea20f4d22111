package basicmpmc

import (
	"runtime"
	"sync/atomic"

	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
)

// basicCell represents one slot in the ring buffer.
type basicCell[T any] struct {
	sequence uint64
	value    T
}

// BasicMPMCQueue is a bounded, lock‑free, multi‑producer/multi‑consumer queue.
// The bench runs it next to BoundedQueue as the lock-free reference point.
type BasicMPMCQueue[T any] struct {
	buffer     []basicCell[T]
	mask       uint64
	capacity   uint64
	enqueuePos uint64
	dequeuePos uint64
}

// New creates a new BasicMPMCQueue with the given capacity (rounded up to a
// power of 2, at least 2: with one cell a full slot and a free slot carry the
// same sequence number).
func New[T any](capacity int) *BasicMPMCQueue[T] {
	size := uint64(2)
	for size < uint64(max(capacity, 2)) {
		size <<= 1
	}
	q := &BasicMPMCQueue[T]{
		buffer:   make([]basicCell[T], size),
		mask:     size - 1,
		capacity: size,
	}
	for i := uint64(0); i < size; i++ {
		q.buffer[i].sequence = i
	}
	return q
}

// Push inserts a value. It returns boundedqueue.ErrFull when the slot at the
// enqueue position still holds an unconsumed value.
func (q *BasicMPMCQueue[T]) Push(val T) error {
	for {
		pos := atomic.LoadUint64(&q.enqueuePos)
		cell := &q.buffer[pos&q.mask]
		seq := atomic.LoadUint64(&cell.sequence)
		switch diff := int64(seq) - int64(pos); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.enqueuePos, pos, pos+1) {
				cell.value = val
				atomic.StoreUint64(&cell.sequence, pos+1)
				return nil
			}
		case diff < 0:
			return boundedqueue.ErrFull
		default:
			// Another producer claimed pos; reload.
			runtime.Gosched()
		}
	}
}

// Pop removes and returns the oldest value, or boundedqueue.ErrEmpty.
func (q *BasicMPMCQueue[T]) Pop() (T, error) {
	var zero T
	for {
		pos := atomic.LoadUint64(&q.dequeuePos)
		cell := &q.buffer[pos&q.mask]
		seq := atomic.LoadUint64(&cell.sequence)
		switch diff := int64(seq) - int64(pos+1); {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.dequeuePos, pos, pos+1) {
				ret := cell.value
				cell.value = zero
				// Mark the cell as free for the next lap.
				atomic.StoreUint64(&cell.sequence, pos+q.capacity)
				return ret, nil
			}
		case diff < 0:
			return zero, boundedqueue.ErrEmpty
		default:
			runtime.Gosched()
		}
	}
}

// Cap returns the rounded-up capacity.
func (q *BasicMPMCQueue[T]) Cap() int {
	return int(q.capacity)
}

// Len returns an approximate count of used slots.
func (q *BasicMPMCQueue[T]) Len() int {
	enq := atomic.LoadUint64(&q.enqueuePos)
	deq := atomic.LoadUint64(&q.dequeuePos)
	return int(enq - deq)
}
