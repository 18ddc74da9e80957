package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRBSet(t *testing.T, keys ...int) *rbSet[int] {
	t.Helper()
	set := NewRBSet[int]()
	for _, key := range keys {
		_, err := set.Insert(key)
		require.NoError(t, err)
	}
	require.NoError(t, Validate[int](set, nil))
	return set.(*rbSet[int])
}

func TestRBSetDegenerateRotate(t *testing.T) {
	set := newTestRBSet(t, 1)

	for _, rotate := range []func(NodeID){set.leftRotate, set.rightRotate} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				require.ErrorIs(t, err, ErrRBSetDegenerateRotate)
			}()
			rotate(set.root)
		}()
	}
	require.NoError(t, Validate[int](set, nil))
}

func TestValidate_RootColor(t *testing.T) {
	set := newTestRBSet(t, 2, 1, 3)
	set.node(set.root).color = Red
	require.ErrorIs(t, RootColorValidate[int](set), ErrRBSetRootColorViolation)
	require.ErrorIs(t, Validate[int](set, nil), ErrRBSetRootColorViolation)
}

func TestValidate_RedViolation(t *testing.T) {
	set := newTestRBSet(t, 20, 10, 30, 40)
	// 30 is black with a red right child.
	thirty := set.find(30)
	set.node(thirty).color = Red
	require.ErrorIs(t, RedViolationValidate[int](set), ErrRBSetRedViolation)
}

func TestValidate_BlackViolation(t *testing.T) {
	set := newTestRBSet(t, 2, 1, 3)
	set.node(set.find(1)).color = Black
	err := Validate[int](set, nil)
	require.ErrorIs(t, err, ErrRBSetBlackViolation)
	require.NoError(t, RedViolationValidate[int](set))
}

func TestValidate_Order(t *testing.T) {
	set := newTestRBSet(t, 2, 1, 3)
	set.node(set.find(1)).key = 5
	require.ErrorIs(t, OrderViolationValidate[int](set, nil), ErrRBSetOrderViolation)
}

func TestValidate_SentinelAndLinks(t *testing.T) {
	set := newTestRBSet(t, 2, 1, 3)
	set.node(Sentinel).color = Red
	require.ErrorIs(t, SentinelValidate[int](set), ErrRBSetSentinelViolation)
	set.node(Sentinel).color = Black

	set.node(set.find(3)).parent = set.find(1)
	require.ErrorIs(t, LinkValidate[int](set), ErrRBSetLinkViolation)
	set.node(set.find(3)).parent = set.root

	set.count++
	err := Validate[int](set, nil)
	require.ErrorIs(t, err, ErrRBSetLinkViolation)
	require.False(t, errors.Is(err, ErrRBSetRedViolation))
}

func TestHeight(t *testing.T) {
	require.Equal(t, 1, Height[int](newTestRBSet(t, 1)))
	require.Equal(t, 2, Height[int](newTestRBSet(t, 2, 1, 3)))
	require.Equal(t, 3, Height[int](newTestRBSet(t, 30, 20, 10, 40)))
}
