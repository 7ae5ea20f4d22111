package boundedqueue

import (
	"sync"
	"sync/atomic"
)

// nextID hands out lock-ordering keys. Zero means "not assigned yet".
var nextID atomic.Uint64

// BoundedQueue is a fixed-capacity FIFO ring buffer guarded by one mutex.
//
// Every method holds the mutex for its whole duration, including the
// read-only ones. Push on a full queue and Pop on an empty queue fail
// immediately instead of waiting.
//
// The zero value is a released queue with capacity 0: Push fails with
// ErrReleased until it is the destination of CopyFrom or MoveFrom. Use New
// for a usable queue. A BoundedQueue must not be copied after first use.
type BoundedQueue[T any] struct {
	mu sync.Mutex

	// guarded by mu
	storage  []T
	capacity int
	length   int
	head     slot
	tail     slot

	// id orders lock acquisition between two queues. Set once, see lockID.
	id atomic.Uint64
}

// New creates a BoundedQueue that holds at most capacity items.
// It returns ErrCapacity if capacity is below 1.
func New[T any](capacity int) (*BoundedQueue[T], error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	q := &BoundedQueue[T]{
		storage:  make([]T, capacity),
		capacity: capacity,
		head:     0,
		tail:     slot(capacity - 1), // first push lands on slot 0
	}
	q.id.Store(nextID.Add(1))
	return q, nil
}

// Clone returns a deep copy of q taken under q's lock. The copy has its own
// lock and is independent of q from then on.
func (q *BoundedQueue[T]) Clone() *BoundedQueue[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	c := &BoundedQueue[T]{}
	c.id.Store(nextID.Add(1))
	c.adoptCopy(q)
	return c
}

// Move returns a new queue that takes over q's storage and contents.
// q is left released: it reports Len() == 0 and rejects Push with
// ErrReleased until it is the destination of CopyFrom or MoveFrom.
func (q *BoundedQueue[T]) Move() *BoundedQueue[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	m := &BoundedQueue[T]{}
	m.id.Store(nextID.Add(1))
	m.adoptMove(q)
	return m
}

// CopyFrom replaces q's contents and capacity with a deep copy of src.
// Both locks are held for the duration, so neither a reader of q nor a
// writer of src can observe a half-copied state. q.CopyFrom(q) is a no-op.
func (q *BoundedQueue[T]) CopyFrom(src *BoundedQueue[T]) {
	if q == src {
		return
	}
	unlock := lockPair(q, src)
	defer unlock()

	q.adoptCopy(src)
}

// MoveFrom drops q's storage and takes over src's storage and contents.
// src is left released. q.MoveFrom(q) is a no-op.
func (q *BoundedQueue[T]) MoveFrom(src *BoundedQueue[T]) {
	if q == src {
		return
	}
	unlock := lockPair(q, src)
	defer unlock()

	q.adoptMove(src)
}

// Release drops the backing store under the lock so the items it references
// can be collected. Calling it more than once is harmless.
func (q *BoundedQueue[T]) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.release()
}

// Len returns the number of queued items.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length
}

// Cap returns the maximum number of items. It changes only when q is the
// destination of CopyFrom or MoveFrom.
func (q *BoundedQueue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// FreeSlots returns how many more items can be pushed before the queue is full.
// A released queue has no free slots.
func (q *BoundedQueue[T]) FreeSlots() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.storage == nil {
		return 0
	}
	return q.capacity - q.length
}

// IsEmpty reports whether Len() == 0.
func (q *BoundedQueue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.length == 0
}

// IsFull reports whether FreeSlots() == 0. A released queue is both empty
// and full.
func (q *BoundedQueue[T]) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.storage == nil || q.length == q.capacity
}

// PeekFront returns a copy of the oldest item without removing it.
func (q *BoundedQueue[T]) PeekFront() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.length == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.storage[q.head], nil
}

// PeekBack returns a copy of the newest item without removing it.
func (q *BoundedQueue[T]) PeekBack() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.length == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return q.storage[q.tail], nil
}

// Push appends item at the back. It returns ErrFull if the queue is full and
// leaves the queue untouched.
func (q *BoundedQueue[T]) Push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.storage == nil {
		return ErrReleased
	}
	if q.length == q.capacity {
		return ErrFull
	}
	q.tail = q.tail.next(q.capacity)
	q.storage[q.tail] = item
	q.length++
	return nil
}

// Pop removes and returns the oldest item. It returns ErrEmpty if the queue
// is empty and leaves the queue untouched.
func (q *BoundedQueue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if q.length == 0 {
		return zero, ErrEmpty
	}
	item := q.storage[q.head]
	q.storage[q.head] = zero // drop the reference held by the vacated slot
	q.head = q.head.next(q.capacity)
	q.length--
	return item, nil
}

// Items returns a copy of the queued items, oldest first.
func (q *BoundedQueue[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, q.length)
	for i := range out {
		out[i] = q.storage[q.head.add(i, q.capacity)]
	}
	return out
}

// adoptCopy overwrites q with a deep copy of src.
// Caller holds src.mu, and q.mu when q is reachable by other goroutines.
func (q *BoundedQueue[T]) adoptCopy(src *BoundedQueue[T]) {
	var storage []T
	if src.storage != nil {
		storage = make([]T, len(src.storage))
		copy(storage, src.storage)
	}
	q.storage = storage
	q.capacity = src.capacity
	q.length = src.length
	q.head = src.head
	q.tail = src.tail
}

// adoptMove hands src's storage to q and leaves src released.
// Same locking rules as adoptCopy.
func (q *BoundedQueue[T]) adoptMove(src *BoundedQueue[T]) {
	q.storage = src.storage
	q.capacity = src.capacity
	q.length = src.length
	q.head = src.head
	q.tail = src.tail
	src.release()
}

// release drops the storage. Caller holds q.mu.
func (q *BoundedQueue[T]) release() {
	q.storage = nil
	q.length = 0
	q.head = 0
	q.tail = 0
}

// lockID returns q's lock-ordering key, assigning one on first use for a
// zero-value queue. Every queue ends up with a distinct non-zero key.
func (q *BoundedQueue[T]) lockID() uint64 {
	if id := q.id.Load(); id != 0 {
		return id
	}
	q.id.CompareAndSwap(0, nextID.Add(1))
	return q.id.Load()
}

// lockPair locks a and b in id order and returns the matching unlock.
// a and b must be distinct.
func lockPair[T any](a, b *BoundedQueue[T]) (unlock func()) {
	first, second := a, b
	if b.lockID() < a.lockID() {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
