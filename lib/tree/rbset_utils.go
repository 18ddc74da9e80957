package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xset/lib/infra"
)

var (
	ErrRBSetRedViolation       = errors.New("[rbset] red violation")
	ErrRBSetBlackViolation     = errors.New("[rbset] black violation")
	ErrRBSetRootColorViolation = errors.New("[rbset] root is not black")
	ErrRBSetOrderViolation     = errors.New("[rbset] binary search order violation")
	ErrRBSetSentinelViolation  = errors.New("[rbset] sentinel is not black")
	ErrRBSetLinkViolation      = errors.New("[rbset] parent link or size mismatch")
)

// rbset rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RootColorValidate[K infra.OrderedKey](set RBSet[K]) error {
	root, ok := set.Node(set.Root())
	if !ok {
		return nil
	}
	if root.Color != Black {
		return ErrRBSetRootColorViolation
	}
	return nil
}

// SentinelValidate only inspects sets built by NewRBSet.
func SentinelValidate[K infra.OrderedKey](set RBSet[K]) error {
	impl, ok := set.(*rbSet[K])
	if !ok {
		return nil
	}
	sentinel := impl.node(Sentinel)
	if sentinel.color != Black || sentinel.inUse {
		return ErrRBSetSentinelViolation
	}
	// The erase fixup borrows the parent link, it must be back to itself.
	if sentinel.parent != Sentinel || sentinel.left != Sentinel || sentinel.right != Sentinel {
		return ErrRBSetSentinelViolation
	}
	return nil
}

// Pre-order traversal to validate no red node has a red child.
func RedViolationValidate[K infra.OrderedKey](set RBSet[K]) error {
	for _, view := range set.Snapshot() {
		if view.Color != Red {
			continue
		}
		for _, child := range [2]NodeID{view.Left, view.Right} {
			if c, ok := set.Node(child); ok && c.Color == Red {
				return fmt.Errorf("%w: red key %v has red child %v", ErrRBSetRedViolation, view.Key, c.Key)
			}
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or the sentinel).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each sentinel to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey](set RBSet[K]) error {
	_, err := blackHeight[K](set, set.Root())
	return err
}

func blackHeight[K infra.OrderedKey](set RBSet[K], id NodeID) (int, error) {
	view, ok := set.Node(id)
	if !ok {
		// The sentinel counts as black.
		return 1, nil
	}
	l, err := blackHeight[K](set, view.Left)
	if err != nil {
		return 0, err
	}
	r, err := blackHeight[K](set, view.Right)
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, fmt.Errorf("%w: key %v left %d, right %d", ErrRBSetBlackViolation, view.Key, l, r)
	}
	if view.Color == Black {
		l++
	}
	return l, nil
}

// Inorder traversal to validate keys are strictly increasing under cmp.
func OrderViolationValidate[K infra.OrderedKey](set RBSet[K], cmp infra.OrderedKeyComparator[K]) error {
	if cmp == nil {
		cmp = infra.NaturalOrder[K]
	}
	var (
		prev    K
		hasPrev bool
		err     error
	)
	inorder[K](set, func(view RBNodeView[K]) bool {
		if hasPrev && cmp(prev, view.Key) >= 0 {
			err = fmt.Errorf("%w: %v is not before %v", ErrRBSetOrderViolation, prev, view.Key)
			return false
		}
		prev, hasPrev = view.Key, true
		return true
	})
	return err
}

// LinkValidate checks every child points back to its parent and the
// reachable node count equals Len.
func LinkValidate[K infra.OrderedKey](set RBSet[K]) error {
	views := set.Snapshot()
	if int64(len(views)) != set.Len() {
		return fmt.Errorf("%w: reachable %d, len %d", ErrRBSetLinkViolation, len(views), set.Len())
	}
	if len(views) > 0 && views[0].Parent != Sentinel {
		return fmt.Errorf("%w: root %v has a parent", ErrRBSetLinkViolation, views[0].Key)
	}
	for _, view := range views {
		for _, child := range [2]NodeID{view.Left, view.Right} {
			if c, ok := set.Node(child); ok && c.Parent != view.ID {
				return fmt.Errorf("%w: key %v parent is not %v", ErrRBSetLinkViolation, c.Key, view.Key)
			}
		}
	}
	return nil
}

// Validate runs every rule and combines the violations.
func Validate[K infra.OrderedKey](set RBSet[K], cmp infra.OrderedKeyComparator[K]) error {
	return multierr.Combine(
		SentinelValidate[K](set),
		RootColorValidate[K](set),
		RedViolationValidate[K](set),
		BlackViolationValidate[K](set),
		OrderViolationValidate[K](set, cmp),
		LinkValidate[K](set),
	)
}

// Height is the node count on the longest root to leaf path.
func Height[K infra.OrderedKey](set RBSet[K]) int {
	var height func(id NodeID) int
	height = func(id NodeID) int {
		view, ok := set.Node(id)
		if !ok {
			return 0
		}
		return 1 + max(height(view.Left), height(view.Right))
	}
	return height(set.Root())
}

func inorder[K infra.OrderedKey](set RBSet[K], action func(view RBNodeView[K]) bool) {
	stack := make([]RBNodeView[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	push := func(id NodeID) {
		for view, ok := set.Node(id); ok; view, ok = set.Node(view.Left) {
			stack = append(stack, view)
		}
	}
	push(set.Root())
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !action(aux) {
			return
		}
		push(aux.Right)
	}
}
