package boundedqueue

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrCapacity is returned by New when the requested capacity is below 1.
	ErrCapacity = errors.New("boundedqueue: capacity must be at least 1")

	// ErrFull is returned by Push when the queue already holds Cap() items.
	// It wraps iox.ErrWouldBlock: the caller decides whether to retry, drop
	// or propagate.
	ErrFull = fmt.Errorf("boundedqueue: queue is full: %w", iox.ErrWouldBlock)

	// ErrEmpty is returned by Pop, PeekFront and PeekBack when the queue
	// holds no items. It wraps iox.ErrWouldBlock.
	ErrEmpty = fmt.Errorf("boundedqueue: queue is empty: %w", iox.ErrWouldBlock)

	// ErrReleased is returned by Push on a queue whose storage was handed
	// off by Move/MoveFrom or dropped by Release.
	ErrReleased = errors.New("boundedqueue: queue storage has been released")
)

// IsWouldBlock reports whether err is a full or empty condition, i.e. a
// backpressure signal rather than a failure.
func IsWouldBlock(err error) bool {
	return errors.Is(err, iox.ErrWouldBlock)
}
