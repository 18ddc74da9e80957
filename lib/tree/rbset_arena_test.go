package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocatorGrow(t *testing.T) {
	testcases := []struct {
		name     string
		alloc    Allocator
		capacity int
		expected int
		err      error
	}{
		{
			name:     "default from empty",
			alloc:    DefaultAllocator(),
			expected: arenaInitNodes,
		},
		{
			name:     "default doubling",
			alloc:    DefaultAllocator(),
			capacity: 64,
			expected: 128,
		},
		{
			name:     "default exhausted",
			alloc:    DefaultAllocator(),
			capacity: arenaMaxNodes,
			expected: arenaMaxNodes,
			err:      ErrRBSetAllocExhausted,
		},
		{
			name:     "bounded from empty",
			alloc:    BoundedAllocator(3),
			expected: 3,
		},
		{
			name:     "bounded clamp",
			alloc:    BoundedAllocator(100),
			capacity: 64,
			expected: 100,
		},
		{
			name:     "bounded exhausted",
			alloc:    BoundedAllocator(100),
			capacity: 100,
			expected: 100,
			err:      ErrRBSetAllocExhausted,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			next, err := tc.alloc.Grow(tc.capacity)
			require.ErrorIs(tt, err, tc.err)
			require.Equal(tt, tc.expected, next)
		})
	}
}

func TestNodeArena_AllocateAndFree(t *testing.T) {
	arena := newNodeArena[int](DefaultAllocator())
	require.Equal(t, 0, arena.capacity())
	require.Equal(t, 0, arena.live())
	require.Equal(t, Black, arena.get(Sentinel).color)

	id, err := arena.allocate(42)
	require.NoError(t, err)
	require.Equal(t, NodeID(1), id)
	require.Equal(t, arenaInitNodes, arena.capacity())
	x := arena.get(id)
	require.Equal(t, Red, x.color)
	require.Equal(t, 42, x.key)
	require.True(t, x.inUse)
	require.Equal(t, Sentinel, x.parent)
	require.Equal(t, Sentinel, x.left)
	require.Equal(t, Sentinel, x.right)

	id2, err := arena.allocate(43)
	require.NoError(t, err)
	require.Equal(t, NodeID(2), id2)
	require.Equal(t, 2, arena.live())

	arena.free(id)
	require.Equal(t, 1, arena.live())
	require.False(t, arena.get(id).inUse)

	// Recycled slots first.
	id3, err := arena.allocate(44)
	require.NoError(t, err)
	require.Equal(t, id, id3)
	require.Equal(t, 44, arena.get(id3).key)

	require.Panics(t, func() {
		arena.free(Sentinel)
	})

	arena.reset()
	require.Equal(t, 0, arena.live())
	require.Equal(t, arenaInitNodes, arena.capacity())
	require.Equal(t, Black, arena.get(Sentinel).color)
}

func TestNodeArena_ResetShrinks(t *testing.T) {
	arena := newNodeArena[int](DefaultAllocator())
	for i := 0; i < 4*arenaInitNodes; i++ {
		_, err := arena.allocate(i)
		require.NoError(t, err)
	}
	arena.free(NodeID(3))
	require.Equal(t, 4*arenaInitNodes, arena.capacity())
	require.Equal(t, 4*arenaInitNodes-1, arena.live())

	arena.reset()
	require.Equal(t, arenaInitNodes, arena.capacity())
	require.Equal(t, 0, arena.live())
	require.Equal(t, Black, arena.get(Sentinel).color)

	// Fresh ids start right after the sentinel again.
	id, err := arena.allocate(7)
	require.NoError(t, err)
	require.Equal(t, NodeID(1), id)
}

func TestRBSetBoundedAllocator(t *testing.T) {
	alloc := BoundedAllocator(3)
	set := NewRBSet[int](WithRBSetAllocator[int](alloc))
	require.Equal(t, alloc, set.Allocator())

	for _, key := range []int{2, 1, 3} {
		ok, err := set.Insert(key)
		require.NoError(t, err)
		require.True(t, ok)
	}
	before := set.Snapshot()

	ok, err := set.Insert(4)
	require.ErrorIs(t, err, ErrRBSetAllocExhausted)
	require.False(t, ok)
	require.Equal(t, int64(3), set.Len())
	require.Equal(t, before, set.Snapshot())
	require.False(t, set.Contains(4))
	require.NoError(t, Validate[int](set, nil))

	// A duplicate is reported before touching the allocator.
	ok, err = set.Insert(2)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 1, set.Erase(1))
	ok, err = set.Insert(4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, set.(*rbSet[int]).arena.capacity())
	require.NoError(t, Validate[int](set, nil))
}

func TestRBSetRecycleNodes(t *testing.T) {
	set := NewRBSet[int]()
	for i := 0; i < arenaInitNodes; i++ {
		_, err := set.Insert(i)
		require.NoError(t, err)
	}
	impl := set.(*rbSet[int])
	require.Equal(t, arenaInitNodes, impl.arena.capacity())

	for round := 0; round < 10; round++ {
		for i := 0; i < arenaInitNodes; i += 2 {
			require.Equal(t, 1, set.Erase(i))
		}
		for i := 0; i < arenaInitNodes; i += 2 {
			ok, err := set.Insert(i)
			require.NoError(t, err)
			require.True(t, ok)
		}
		require.NoError(t, Validate[int](set, nil))
	}
	require.Equal(t, arenaInitNodes, impl.arena.capacity())
	require.Equal(t, arenaInitNodes, impl.arena.live())
}

func TestRBSetDefaultAllocator(t *testing.T) {
	set := NewRBSet[int](WithRBSetAllocator[int](nil))
	require.IsType(t, &defaultAllocator{}, set.Allocator())
}
