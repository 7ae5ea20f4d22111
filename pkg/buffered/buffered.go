package buffered

import (
	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
)

// BufferedQueue is the buffered-channel baseline the bench compares against.
// It reports full/empty with the same errors as boundedqueue.
type BufferedQueue[T any] struct {
	ch chan T
}

func New[T any](bufferSize int) *BufferedQueue[T] {
	// A zero-capacity channel is an unbuffered rendezvous, not a
	// zero-capacity buffer.
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &BufferedQueue[T]{
		ch: make(chan T, bufferSize),
	}
}

func (q *BufferedQueue[T]) Push(val T) error {
	select {
	case q.ch <- val:
		return nil
	default:
		return boundedqueue.ErrFull
	}
}

func (q *BufferedQueue[T]) Pop() (val T, err error) {
	select {
	case val = <-q.ch:
		return val, nil
	default:
		return val, boundedqueue.ErrEmpty
	}
}

func (q *BufferedQueue[T]) Cap() int {
	return cap(q.ch)
}

func (q *BufferedQueue[T]) Len() int {
	return len(q.ch)
}
