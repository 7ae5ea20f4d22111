package boundedqueue

// slot is a position in the backing store. It is always in [0, capacity).
type slot int

// next returns the slot after s, wrapping at capacity. capacity is never 0
// for a live queue, so the modulo is always defined.
func (s slot) next(capacity int) slot {
	return slot((int(s) + 1) % capacity)
}

// add returns the slot n positions after s, wrapping at capacity.
func (s slot) add(n, capacity int) slot {
	return slot((int(s) + n) % capacity)
}
