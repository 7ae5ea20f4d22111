package queue_test

import (
	"github.com/i5heu/GoBoundedQueue/internal/queue"
	"github.com/i5heu/GoBoundedQueue/pkg/basicmpmc"
	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
	"github.com/i5heu/GoBoundedQueue/pkg/buffered"
)

// Compile-time enforcement that every benchmarked queue satisfies the contract.
func enforce[T any, Q queue.Interface[T]]() {}

var (
	_ = enforce[*int, *boundedqueue.BoundedQueue[*int]]
	_ = enforce[*int, *buffered.BufferedQueue[*int]]
	_ = enforce[*int, *basicmpmc.BasicMPMCQueue[*int]]

	_ queue.Counter = (*boundedqueue.BoundedQueue[int])(nil)
	_ queue.Counter = (*buffered.BufferedQueue[int])(nil)
	_ queue.Counter = (*basicmpmc.BasicMPMCQueue[int])(nil)
)
