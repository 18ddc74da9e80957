package tree

import (
	"math"

	"github.com/benz9527/xset/lib/infra"
)

const (
	arenaInitNodes = 16
	arenaMaxNodes  = math.MaxInt32 // fits NodeID, slot 0 is reserved for the sentinel
)

type rbNode[K infra.OrderedKey] struct {
	parent NodeID
	left   NodeID
	right  NodeID
	key    K
	color  RBColor
	inUse  bool
}

var (
	_ Allocator = (*defaultAllocator)(nil)
	_ Allocator = (*boundedAllocator)(nil)
)

type defaultAllocator struct{}

func (a *defaultAllocator) Grow(capacity int) (int, error) {
	if capacity >= arenaMaxNodes {
		return capacity, ErrRBSetAllocExhausted
	}
	return min(nextArenaCapacity(capacity), arenaMaxNodes), nil
}

// DefaultAllocator grows the node arena by doubling, up to the NodeID range.
func DefaultAllocator() Allocator {
	return &defaultAllocator{}
}

type boundedAllocator struct {
	maxNodes int
}

func (a *boundedAllocator) Grow(capacity int) (int, error) {
	if capacity >= a.maxNodes {
		return capacity, ErrRBSetAllocExhausted
	}
	return min(nextArenaCapacity(capacity), a.maxNodes), nil
}

// BoundedAllocator refuses to hold more than maxNodes live nodes.
func BoundedAllocator(maxNodes int) Allocator {
	if maxNodes <= 0 || maxNodes > arenaMaxNodes {
		maxNodes = arenaMaxNodes
	}
	return &boundedAllocator{maxNodes: maxNodes}
}

func nextArenaCapacity(capacity int) int {
	if capacity < arenaInitNodes {
		return arenaInitNodes
	} else if capacity > arenaMaxNodes>>1 {
		return arenaMaxNodes
	}
	return capacity << 1
}

// nodeArena owns every node of a set. Slot 0 is the sentinel and is
// never handed out. Freed slots are recycled before the arena grows.
type nodeArena[K infra.OrderedKey] struct {
	slots    []rbNode[K]
	recycled []NodeID
	alloc    Allocator
}

func newNodeArena[K infra.OrderedKey](alloc Allocator) *nodeArena[K] {
	slots := make([]rbNode[K], 1)
	slots[Sentinel].color = Black
	return &nodeArena[K]{
		slots:    slots,
		recycled: make([]NodeID, 0, arenaInitNodes),
		alloc:    alloc,
	}
}

func (arena *nodeArena[K]) capacity() int {
	return cap(arena.slots) - 1
}

func (arena *nodeArena[K]) live() int {
	return len(arena.slots) - 1 - len(arena.recycled)
}

// allocate returns a red node linked to the sentinel on every side.
// Nothing is modified if the allocator refuses to grow.
func (arena *nodeArena[K]) allocate(key K) (NodeID, error) {
	var id NodeID
	if l := len(arena.recycled); l > 0 {
		id = arena.recycled[l-1]
		arena.recycled = arena.recycled[:l-1]
	} else {
		if len(arena.slots) == cap(arena.slots) {
			c := arena.capacity()
			next, err := arena.alloc.Grow(c)
			if err != nil {
				return Sentinel, infra.WrapErrorStack(err)
			}
			if next <= c {
				return Sentinel, infra.WrapErrorStackWithMessage(ErrRBSetAllocExhausted, "allocator refused to grow")
			}
			slots := make([]rbNode[K], len(arena.slots), next+1)
			copy(slots, arena.slots)
			arena.slots = slots
		}
		id = NodeID(len(arena.slots))
		arena.slots = append(arena.slots, rbNode[K]{})
	}

	arena.slots[id] = rbNode[K]{
		parent: Sentinel,
		left:   Sentinel,
		right:  Sentinel,
		key:    key,
		color:  Red,
		inUse:  true,
	}
	return id, nil
}

func (arena *nodeArena[K]) free(id NodeID) {
	if id == Sentinel || !arena.slots[id].inUse {
		// impossible run to here
		panic( /* debug assertion */ "[rbset] free the sentinel or an unused node")
	}
	arena.slots[id] = rbNode[K]{}
	arena.recycled = append(arena.recycled, id)
}

func (arena *nodeArena[K]) get(id NodeID) *rbNode[K] {
	return &arena.slots[id]
}

// reset drops every node. Arenas grown past the initial size give their
// slots back to the GC, smaller ones are kept for reuse.
func (arena *nodeArena[K]) reset() {
	if arena.capacity() > arenaInitNodes {
		arena.slots = make([]rbNode[K], 1, arenaInitNodes+1)
		arena.recycled = make([]NodeID, 0, arenaInitNodes)
	} else {
		clear(arena.slots[1:])
		arena.slots = arena.slots[:1]
		arena.recycled = arena.recycled[:0]
	}
	arena.slots[Sentinel] = rbNode[K]{color: Black}
}
