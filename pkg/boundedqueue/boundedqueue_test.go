package boundedqueue_test

import (
	"math/rand"
	"testing"

	"code.hybscloud.com/iox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
)

func mustNew[T any](t *testing.T, capacity int) *boundedqueue.BoundedQueue[T] {
	t.Helper()
	q, err := boundedqueue.New[T](capacity)
	require.NoError(t, err)
	return q
}

func TestNewRejectsZeroCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		q, err := boundedqueue.New[int](c)
		assert.ErrorIs(t, err, boundedqueue.ErrCapacity, "capacity %d", c)
		assert.Nil(t, q)
	}
}

func TestNewEmptyQueue(t *testing.T) {
	for _, c := range []int{1, 2, 3, 1024} {
		q := mustNew[int](t, c)
		assert.Equal(t, c, q.Cap())
		assert.Equal(t, 0, q.Len())
		assert.Equal(t, c, q.FreeSlots())
		assert.True(t, q.IsEmpty())
		assert.False(t, q.IsFull())
	}
}

func TestCapacityThreeScenario(t *testing.T) {
	q := mustNew[int](t, 3)

	require.NoError(t, q.Push(1))
	require.NoError(t, q.Push(2))
	require.NoError(t, q.Push(3))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Push(4), boundedqueue.ErrFull)

	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, q.Push(4))
	for _, want := range []int{2, 3, 4} {
		v, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	assert.True(t, q.IsEmpty())
}

func TestPushFullLeavesQueueUnchanged(t *testing.T) {
	q := mustNew[string](t, 2)
	require.NoError(t, q.Push("a"))
	require.NoError(t, q.Push("b"))

	before := q.Items()
	err := q.Push("c")
	assert.ErrorIs(t, err, boundedqueue.ErrFull)
	assert.ErrorIs(t, err, iox.ErrWouldBlock)
	assert.True(t, boundedqueue.IsWouldBlock(err))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, before, q.Items())

	back, err := q.PeekBack()
	require.NoError(t, err)
	assert.Equal(t, "b", back)
}

func TestEmptyErrors(t *testing.T) {
	q := mustNew[int](t, 4)

	_, err := q.Pop()
	assert.ErrorIs(t, err, boundedqueue.ErrEmpty)
	assert.ErrorIs(t, err, iox.ErrWouldBlock)
	_, err = q.PeekFront()
	assert.ErrorIs(t, err, boundedqueue.ErrEmpty)
	_, err = q.PeekBack()
	assert.ErrorIs(t, err, boundedqueue.ErrEmpty)
	assert.Equal(t, 0, q.Len())

	// Still usable afterwards.
	require.NoError(t, q.Push(7))
	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	_, err = q.Pop()
	assert.ErrorIs(t, err, boundedqueue.ErrEmpty)
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, boundedqueue.ErrFull, boundedqueue.ErrEmpty)
	assert.NotErrorIs(t, boundedqueue.ErrEmpty, boundedqueue.ErrFull)
	assert.False(t, boundedqueue.IsWouldBlock(boundedqueue.ErrCapacity))
	assert.False(t, boundedqueue.IsWouldBlock(boundedqueue.ErrReleased))
	assert.False(t, boundedqueue.IsWouldBlock(nil))
}

func TestPeekFrontAndBack(t *testing.T) {
	q := mustNew[int](t, 3)

	require.NoError(t, q.Push(10))
	front, err := q.PeekFront()
	require.NoError(t, err)
	back, err := q.PeekBack()
	require.NoError(t, err)
	assert.Equal(t, 10, front)
	assert.Equal(t, 10, back)

	require.NoError(t, q.Push(20))
	require.NoError(t, q.Push(30))
	front, _ = q.PeekFront()
	back, _ = q.PeekBack()
	assert.Equal(t, 10, front)
	assert.Equal(t, 30, back)
	assert.Equal(t, 3, q.Len(), "peeks must not remove items")

	// Wrap the tail to slot 0 and check the back follows it.
	_, err = q.Pop()
	require.NoError(t, err)
	require.NoError(t, q.Push(40))
	front, _ = q.PeekFront()
	back, _ = q.PeekBack()
	assert.Equal(t, 20, front)
	assert.Equal(t, 40, back)
}

func TestPeekReturnsCopy(t *testing.T) {
	type payload struct{ n int }
	q := mustNew[payload](t, 1)
	require.NoError(t, q.Push(payload{n: 1}))

	p, err := q.PeekFront()
	require.NoError(t, err)
	p.n = 99

	again, err := q.PeekFront()
	require.NoError(t, err)
	assert.Equal(t, 1, again.n)
}

func TestRoundTrip(t *testing.T) {
	q := mustNew[[]byte](t, 1)
	x := []byte("round trip")
	require.NoError(t, q.Push(x))
	got, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, x, got)
}

func TestSingleSlotAlternating(t *testing.T) {
	q := mustNew[int](t, 1)
	for i := 0; i < 100; i++ {
		require.NoError(t, q.Push(i))
		assert.True(t, q.IsFull())
		assert.ErrorIs(t, q.Push(-1), boundedqueue.ErrFull)
		v, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, i, v)
		assert.True(t, q.IsEmpty())
	}
}

// TestRandomOpsMatchModel drives the queue with a random mix of pushes and
// pops and compares every result with a slice-backed model.
func TestRandomOpsMatchModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, capacity := range []int{1, 2, 5, 16} {
		q := mustNew[int](t, capacity)
		var model []int
		pushes, pops := 0, 0

		for step := 0; step < 5000; step++ {
			if rng.Intn(2) == 0 {
				err := q.Push(step)
				if len(model) == capacity {
					require.ErrorIs(t, err, boundedqueue.ErrFull)
				} else {
					require.NoError(t, err)
					model = append(model, step)
					pushes++
				}
			} else {
				v, err := q.Pop()
				if len(model) == 0 {
					require.ErrorIs(t, err, boundedqueue.ErrEmpty)
				} else {
					require.NoError(t, err)
					require.Equal(t, model[0], v, "capacity %d step %d", capacity, step)
					model = model[1:]
					pops++
				}
			}
			require.Equal(t, pushes-pops, q.Len())
			require.Equal(t, len(model) == 0, q.IsEmpty())
			require.Equal(t, len(model) == capacity, q.IsFull())
		}
		assert.Equal(t, append([]int{}, model...), append([]int{}, q.Items()...))
	}
}

func TestWrapAroundManyLaps(t *testing.T) {
	const capacity = 7
	q := mustNew[int](t, capacity)
	next, expect := 0, 0
	for lap := 0; lap < 50; lap++ {
		for q.FreeSlots() > 0 {
			require.NoError(t, q.Push(next))
			next++
		}
		for i := 0; i < capacity/2+1; i++ {
			v, err := q.Pop()
			require.NoError(t, err)
			require.Equal(t, expect, v)
			expect++
		}
	}
	for !q.IsEmpty() {
		v, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, expect, v)
		expect++
	}
	assert.Equal(t, next, expect)
}
