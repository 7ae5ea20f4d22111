package main

import (
	"github.com/i5heu/GoBoundedQueue/internal/queue"
	"github.com/i5heu/GoBoundedQueue/pkg/basicmpmc"
	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
	"github.com/i5heu/GoBoundedQueue/pkg/buffered"
)

// benchQueue is the runtime view of queue.Interface[*int] used by the CLI.
type benchQueue = interface {
	queue.Interface[*int]
	queue.Counter
}

// Implementation represents a queue implementation.
type Implementation struct {
	name        string
	description string
	pkgName     string
	features    []string
	// exactCap is true when Cap() equals the requested capacity.
	exactCap bool
	newQueue func(capacity int) benchQueue
}

// getImplementations enumerates the queues the bench compares.
func getImplementations() []Implementation {
	return []Implementation{
		{
			name:        "BoundedQueue",
			pkgName:     "boundedqueue",
			description: "Mutex-guarded ring buffer; fails fast on full and empty.",
			features:    []string{"MPMC", "FIFO", "Exact-Capacity", "Linearizable"},
			exactCap:    true,
			newQueue: func(capacity int) benchQueue {
				q, err := boundedqueue.New[*int](capacity)
				if err != nil {
					panic(err)
				}
				return q
			},
		},
		{
			name:        "Golang Buffered Channel",
			pkgName:     "buffered",
			description: "Buffered channel driven through select/default.",
			features:    []string{"MPMC", "FIFO", "Exact-Capacity"},
			exactCap:    true,
			newQueue: func(capacity int) benchQueue {
				return buffered.New[*int](capacity)
			},
		},
		{
			name:        "BasicMPMCQueue",
			pkgName:     "basicmpmc",
			description: "Lock-free sequence-numbered ring; capacity rounds up to a power of 2.",
			features:    []string{"MPMC", "FIFO"},
			newQueue: func(capacity int) benchQueue {
				return basicmpmc.New[*int](capacity)
			},
		},
	}
}
