package config

import "github.com/i5heu/GoBoundedQueue/internal/testbench"

// Config is an alias for testbench.Config. This allows other programs to import
// the harness configuration without pulling in the entire testbench package.
type Config = testbench.Config

// Defaults are the concurrency settings the bench runs when nothing else is
// requested.
func Defaults() []Config {
	return []Config{
		{NumProducers: 1, NumConsumers: 1},
		{NumProducers: 2, NumConsumers: 2},
		{NumProducers: 10, NumConsumers: 10},
		{NumProducers: 50, NumConsumers: 50},
	}
}

// HighConcurrency are added to Defaults by the bench's -high-concurrency flag.
func HighConcurrency() []Config {
	return []Config{
		{NumProducers: 100, NumConsumers: 100},
		{NumProducers: 250, NumConsumers: 250},
		{NumProducers: 500, NumConsumers: 500},
	}
}
