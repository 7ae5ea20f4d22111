// Package boundedqueue provides a fixed-capacity, thread-safe FIFO queue.
//
// BoundedQueue is a ring buffer over a slice allocated once at construction.
// A single mutex guards the storage, the length and both indices; every
// method, including Len and the peeks, holds it for its full duration, so
// all operations are linearizable.
//
// The queue never waits. Push on a full queue returns ErrFull and Pop on an
// empty queue returns ErrEmpty; both wrap iox.ErrWouldBlock:
//
//	q, err := boundedqueue.New[int](128)
//	if err != nil {
//	    return err
//	}
//	if err := q.Push(42); boundedqueue.IsWouldBlock(err) {
//	    // full: retry later, drop, or surface
//	}
//	v, err := q.Pop()
//
// # Copy and move
//
// Go has no copy constructors or assignment operators, so the queue spells
// them out:
//
//	c := q.Clone()      // deep copy
//	m := q.Move()       // m takes q's storage; q is released
//	dst.CopyFrom(src)   // dst = src (copy)
//	dst.MoveFrom(src)   // dst = src (move); src is released
//
// CopyFrom and MoveFrom lock both queues in a fixed global order, so
// a.CopyFrom(b) racing with b.CopyFrom(a) cannot deadlock. Assigning a queue
// to itself is a no-op.
//
// Peeks return copies of the stored item. For pointer element types the copy
// is the pointer, and the pointee may be changed by whoever popped it.
package boundedqueue
