package tree

import "github.com/benz9527/xset/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// NodeID addresses a node slot inside the set's arena.
// Sentinel stands in for every missing child or parent.
type NodeID uint32

const Sentinel NodeID = 0

// RBNodeView is a read-only copy of a node's shape.
type RBNodeView[K infra.OrderedKey] struct {
	ID     NodeID
	Parent NodeID
	Left   NodeID
	Right  NodeID
	Key    K
	Color  RBColor
}

// Allocator decides how far the node arena may grow.
// Grow receives the current node capacity (all slots in use) and
// returns the new capacity, which must be larger than the current one.
type Allocator interface {
	Grow(capacity int) (int, error)
}

type RBSet[K infra.OrderedKey] interface {
	Len() int64
	Empty() bool
	Contains(key K) bool
	// Insert reports false without error if the key is already present.
	// On error the set is left untouched.
	Insert(key K) (bool, error)
	// Erase returns 1 if the key was removed, otherwise 0.
	Erase(key K) int
	Allocator() Allocator
	Root() NodeID
	Node(id NodeID) (RBNodeView[K], bool)
	// Snapshot returns the nodes in pre-order.
	Snapshot() []RBNodeView[K]
	// Release drops every node and shrinks a grown arena back to its
	// initial size. The set stays usable afterwards.
	Release()
}
