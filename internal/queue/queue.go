package queue

// Interface is a *type constraint* that every benchmarked queue satisfies.
// The harness is generic over it; nothing stores a queue in this interface
// at runtime.
type Interface[T any] interface {
	// Push adds an element at the back without blocking.
	// If the queue is full it returns an error wrapping iox.ErrWouldBlock.
	Push(T) error

	// Pop removes and returns the oldest element without blocking.
	// If the queue is empty it returns the zero T and an error wrapping
	// iox.ErrWouldBlock.
	Pop() (T, error)

	// Cap returns the maximum number of elements the queue holds.
	Cap() int
}

// Counter is implemented by queues that can report their length cheaply.
type Counter interface {
	Len() int
}
