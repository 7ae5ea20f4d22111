package boundedqueue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
)

// filled returns a queue of capacity c holding the given items, pushed after
// enough churn that head is not at slot 0.
func filled(t *testing.T, c int, items ...int) *boundedqueue.BoundedQueue[int] {
	t.Helper()
	q := mustNew[int](t, c)
	for i := 0; i < c-1; i++ {
		require.NoError(t, q.Push(-1))
		_, err := q.Pop()
		require.NoError(t, err)
	}
	for _, it := range items {
		require.NoError(t, q.Push(it))
	}
	return q
}

func TestClone(t *testing.T) {
	a := filled(t, 4, 1, 2, 3)
	b := a.Clone()

	assert.Equal(t, a.Cap(), b.Cap())
	assert.Equal(t, a.Len(), b.Len())
	assert.Equal(t, []int{1, 2, 3}, b.Items())

	// Independent storage in both directions.
	require.NoError(t, a.Push(4))
	_, err := a.Pop()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, b.Items())

	v, err := b.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, []int{2, 3, 4}, a.Items())
}

func TestMove(t *testing.T) {
	a := filled(t, 3, 7, 8)
	m := a.Move()

	assert.Equal(t, 3, m.Cap())
	assert.Equal(t, []int{7, 8}, m.Items())
	front, err := m.PeekFront()
	require.NoError(t, err)
	assert.Equal(t, 7, front)

	assert.Equal(t, 0, a.Len())
	assert.True(t, a.IsEmpty())
	assert.Equal(t, 0, a.FreeSlots())
	assert.ErrorIs(t, a.Push(1), boundedqueue.ErrReleased)
	_, err = a.Pop()
	assert.ErrorIs(t, err, boundedqueue.ErrEmpty)
	_, err = a.PeekBack()
	assert.ErrorIs(t, err, boundedqueue.ErrEmpty)

	// The moved-to queue keeps working.
	require.NoError(t, m.Push(9))
	assert.ErrorIs(t, m.Push(10), boundedqueue.ErrFull)
	assert.Equal(t, []int{7, 8, 9}, m.Items())
}

func TestCopyFrom(t *testing.T) {
	a := filled(t, 5, 1, 2, 3)
	b := filled(t, 2, 40, 50)

	b.CopyFrom(a)
	assert.Equal(t, a.Cap(), b.Cap(), "destination adopts the source capacity")
	assert.Equal(t, a.Len(), b.Len())
	assert.Equal(t, []int{1, 2, 3}, b.Items())

	// Later mutation of a does not reach b.
	require.NoError(t, a.Push(4))
	require.NoError(t, a.Push(5))
	_, _ = a.Pop()
	assert.Equal(t, []int{1, 2, 3}, b.Items())
	assert.Equal(t, []int{2, 3, 4, 5}, a.Items())

	// b has the full capacity of a.
	require.NoError(t, b.Push(4))
	require.NoError(t, b.Push(5))
	assert.ErrorIs(t, b.Push(6), boundedqueue.ErrFull)
}

func TestMoveFrom(t *testing.T) {
	a := filled(t, 3, 1, 2)
	b := filled(t, 6, 9, 9, 9, 9)

	b.MoveFrom(a)
	assert.Equal(t, 3, b.Cap())
	assert.Equal(t, []int{1, 2}, b.Items())
	assert.Equal(t, 0, a.Len())
	assert.ErrorIs(t, a.Push(3), boundedqueue.ErrReleased)

	require.NoError(t, b.Push(3))
	assert.ErrorIs(t, b.Push(4), boundedqueue.ErrFull)
}

func TestSelfAssignment(t *testing.T) {
	a := filled(t, 4, 1, 2, 3)

	a.CopyFrom(a)
	assert.Equal(t, []int{1, 2, 3}, a.Items())
	assert.Equal(t, 4, a.Cap())

	a.MoveFrom(a)
	assert.Equal(t, []int{1, 2, 3}, a.Items())
	assert.Equal(t, 4, a.Cap())

	require.NoError(t, a.Push(4))
	assert.True(t, a.IsFull())
}

func TestReleasedQueueRevivedByAssignment(t *testing.T) {
	a := filled(t, 2, 1)
	a.Release()
	a.Release()
	assert.Equal(t, 0, a.Len())
	assert.ErrorIs(t, a.Push(1), boundedqueue.ErrReleased)
	assert.Empty(t, a.Items())
	assert.True(t, a.IsEmpty())
	assert.True(t, a.IsFull())
	assert.Equal(t, 0, a.FreeSlots())

	src := filled(t, 3, 5, 6)
	a.CopyFrom(src)
	assert.Equal(t, []int{5, 6}, a.Items())
	require.NoError(t, a.Push(7))

	other := a.Move()
	a.MoveFrom(other)
	assert.Equal(t, []int{5, 6, 7}, a.Items())
	assert.ErrorIs(t, other.Push(1), boundedqueue.ErrReleased)
}

func TestCloneOfReleasedIsReleased(t *testing.T) {
	a := filled(t, 2, 1)
	_ = a.Move()
	c := a.Clone()
	assert.Equal(t, 0, c.Len())
	assert.ErrorIs(t, c.Push(1), boundedqueue.ErrReleased)
}
