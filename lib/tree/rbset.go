package tree

import (
	"errors"

	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xset/lib/infra"
)

var (
	ErrRBSetAllocExhausted   = errors.New("[rbset] node allocator exhausted")
	ErrRBSetDegenerateRotate = errors.New("[rbset] rotate pivot is the sentinel")
)

var _ RBSet[uint8] = (*rbSet[uint8])(nil)

type rbSet[K infra.OrderedKey] struct {
	arena *nodeArena[K]
	kcmp  infra.OrderedKeyComparator[K]
	alloc Allocator
	stats *rbSetStats
	root  NodeID
	count int64
}

func (set *rbSet[K]) node(id NodeID) *rbNode[K] {
	return set.arena.get(id)
}

func (set *rbSet[K]) isRed(id NodeID) bool {
	return set.node(id).color == Red
}

func (set *rbSet[K]) isBlack(id NodeID) bool {
	return set.node(id).color == Black
}

func (set *rbSet[K]) Len() int64 {
	return set.count
}

func (set *rbSet[K]) Empty() bool {
	return set.count == 0
}

func (set *rbSet[K]) Allocator() Allocator {
	return set.alloc
}

func (set *rbSet[K]) Root() NodeID {
	return set.root
}

func (set *rbSet[K]) Node(id NodeID) (RBNodeView[K], bool) {
	if id == Sentinel || int(id) >= len(set.arena.slots) {
		return RBNodeView[K]{}, false
	}
	x := set.node(id)
	if !x.inUse {
		return RBNodeView[K]{}, false
	}
	return RBNodeView[K]{
		ID:     id,
		Parent: x.parent,
		Left:   x.left,
		Right:  x.right,
		Key:    x.key,
		Color:  x.color,
	}, true
}

func (set *rbSet[K]) Contains(key K) bool {
	return set.find(key) != Sentinel
}

// find returns the sentinel if the key is absent.
func (set *rbSet[K]) find(key K) NodeID {
	for aux := set.root; aux != Sentinel; {
		res := set.kcmp(key, set.node(aux).key)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = set.node(aux).left
		} else /* greater */ {
			aux = set.node(aux).right
		}
	}
	return Sentinel
}

func (set *rbSet[K]) minimum(id NodeID) NodeID {
	for set.node(id).left != Sentinel {
		id = set.node(id).left
	}
	return id
}

func (set *rbSet[K]) maximum(id NodeID) NodeID {
	for set.node(id).right != Sentinel {
		id = set.node(id).right
	}
	return id
}

func (set *rbSet[K]) direction(id NodeID) RBDirection {
	p := set.node(id).parent
	if p == Sentinel {
		return Root
	}
	if set.node(p).left == id {
		return Left
	}
	return Right
}

// replaceChild links y into x's slot under p. Only y's parent link
// is touched on the y side, and only if y is a real node.
func (set *rbSet[K]) replaceChild(p, x, y NodeID) {
	switch {
	case p == Sentinel:
		set.root = y
	case set.node(p).left == x:
		set.node(p).left = y
	default:
		set.node(p).right = y
	}
	if y != Sentinel {
		set.node(y).parent = p
	}
}

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. The sentinel (all NIL leaves) is black.
// p3. The root is black.
// p4. A red node does not have a red child. (red-violation)
// p5. Every path from a given node to any of its descendant
//   sentinel goes through the same number of black nodes. (black-violation)
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (set *rbSet[K]) leftRotate(x NodeID) {
	y := set.node(x).right
	if x == Sentinel || y == Sentinel {
		// impossible run to here
		panic( /* debug assertion */ infra.WrapErrorStackWithMessage(ErrRBSetDegenerateRotate, "left rotate"))
	}

	sc := set.node(y).left
	set.node(x).right = sc
	if sc != Sentinel {
		set.node(sc).parent = x
	}
	set.replaceChild(set.node(x).parent, x, y)
	set.node(y).left = x
	set.node(x).parent = y
	set.stats.rotated()
}

/*
		 |                         |
		 X                         L
		/ \     rightRotate(X)    / \
	   L   R    ============>   Ld   X
	  / \                           / \
	Ld   Lc                        Lc  R
*/
func (set *rbSet[K]) rightRotate(x NodeID) {
	y := set.node(x).left
	if x == Sentinel || y == Sentinel {
		// impossible run to here
		panic( /* debug assertion */ infra.WrapErrorStackWithMessage(ErrRBSetDegenerateRotate, "right rotate"))
	}

	lc := set.node(y).right
	set.node(x).left = lc
	if lc != Sentinel {
		set.node(lc).parent = x
	}
	set.replaceChild(set.node(x).parent, x, y)
	set.node(y).right = x
	set.node(x).parent = y
	set.stats.rotated()
}

// Insert places a new red leaf at its binary-search position.
// The duplicate check and the allocation happen before any link is
// written, so a failed allocation leaves the set untouched.
func (set *rbSet[K]) Insert(key K) (bool, error) {
	var (
		y   = Sentinel
		dir = Root
	)
	for x := set.root; x != Sentinel; {
		y = x
		res := set.kcmp(key, set.node(x).key)
		if /* equal */ res == 0 {
			set.stats.duplicated()
			return false, nil
		} else /* less */ if res < 0 {
			dir, x = Left, set.node(x).left
		} else /* greater */ {
			dir, x = Right, set.node(x).right
		}
	}

	z, err := set.arena.allocate(key)
	if err != nil {
		set.stats.allocFailed()
		return false, err
	}

	set.node(z).parent = y
	switch dir {
	case Root:
		set.root = z
	case Left:
		set.node(y).left = z
	case Right:
		set.node(y).right = z
	}
	set.count++
	set.insertRebalance(z)
	set.stats.inserted()
	return true, nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or the sentinel).

im1: Both the parent P and the uncle U are red, grandpa G is black.
Repaint P and U into black, G into red, then continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: The parent P is red but the uncle U is black.
X is the inner child of P. Rotate P toward the outside, enter im3 from P.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: X is the outer child of P. Repaint, then rotate G away from X.

	    [G]                 [P]
	    / \    rotate(G)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]

The root is painted black at the end.
*/
func (set *rbSet[K]) insertRebalance(x NodeID) {
	steps := int64(0)
	for x != set.root && set.isRed(set.node(x).parent) {
		steps++
		p := set.node(x).parent
		g := set.node(p).parent
		if pdir := set.direction(p); pdir == Left {
			if u := set.node(g).right; /* im1 */ set.isRed(u) {
				set.node(p).color = Black
				set.node(u).color = Black
				set.node(g).color = Red
				x = g
				continue
			}
			if /* im2 */ x == set.node(p).right {
				x = p
				set.leftRotate(x)
				p = set.node(x).parent
			}
			/* im3 */
			set.node(p).color = Black
			set.node(g).color = Red
			set.rightRotate(g)
		} else if pdir == Right {
			if u := set.node(g).left; /* im1 */ set.isRed(u) {
				set.node(p).color = Black
				set.node(u).color = Black
				set.node(g).color = Red
				x = g
				continue
			}
			if /* im2 */ x == set.node(p).left {
				x = p
				set.rightRotate(x)
				p = set.node(x).parent
			}
			/* im3 */
			set.node(p).color = Black
			set.node(g).color = Red
			set.leftRotate(g)
		} else {
			// impossible run to here
			panic( /* debug assertion */ "[rbset] red root as a parent, insert violate")
		}
	}
	set.node(set.root).color = Black
	set.stats.rebalanced(steps)
}

/*
rm1: Target Z has no real child. Unlink Z, the sentinel takes its slot.

rm2: Target Z has a right subtree. Its successor S (leftmost node of the
right subtree) has no left child. Splice S out, S's right child takes
its slot, then move S's key into Z. Z keeps its identity.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   splice(S)    L  ..
	    |   =========>       |
	    P                    P
	   / \                  / \
	  S  ..               Sr  ..
	   \
	   Sr

rm3: Target Z only has a left child. The predecessor (the red leaf L)
is spliced out instead and its key moved into Z.

If the spliced node was black, the node that took its slot carries
a missing black and enters the rebalance.
*/
func (set *rbSet[K]) Erase(key K) int {
	z := set.find(key)
	if z == Sentinel {
		set.stats.absent()
		return 0
	}

	var y, x NodeID
	switch zn := set.node(z); {
	case /* rm1 */ zn.left == Sentinel && zn.right == Sentinel:
		y, x = z, Sentinel
	case /* rm2 */ zn.right != Sentinel:
		y = set.minimum(zn.right)
		x = set.node(y).right
	default /* rm3 */ :
		y = set.maximum(zn.left)
		x = set.node(y).left
	}

	p, color := set.node(y).parent, set.node(y).color
	set.replaceChild(p, y, x)
	// The sentinel keeps the parent link while rebalancing.
	set.node(x).parent = p
	if y != z {
		set.node(z).key = set.node(y).key
	}
	if color == Black {
		set.eraseRebalance(x)
	}
	set.node(Sentinel).parent = Sentinel

	set.arena.free(y)
	set.count--
	set.stats.removed()
	return 1
}

/*
<X> is a RED node.
[X] is a BLACK node (or the sentinel).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it is X's sibling's child node.
Sd is the opposite direction to X and it is X's sibling's child node.

rm4: X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. Repaint S into black, P into red, rotate P toward X.
X gets a black sibling (the former Sc).

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm5: X's sibling S and both nephews are black. Repaint S into red to
balance locally, then continue from P with the missing black.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm6: X's sibling S is black, Sc is red and Sd is black.
Repaint Sc into black, S into red, rotate S away from X, enter rm7.

	  {P}                  {P}
	  / \    r-rotate(S)   / \
	[X] [S]  ==========> [X] [Sc]
	    / \                    \
	  <Sc> [Sd]                <S>
	                             \
	                             [Sd]

rm7: X's sibling S is black and Sd is red.
S takes P's color, P and Sd are painted black, rotate P toward X.
The missing black is absorbed, stop.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}

X is painted black at the end.
*/
func (set *rbSet[K]) eraseRebalance(x NodeID) {
	steps := int64(0)
	for x != set.root && set.isBlack(x) {
		steps++
		p := set.node(x).parent
		if x == set.node(p).left {
			s := set.node(p).right
			if /* rm4 */ set.isRed(s) {
				set.node(s).color = Black
				set.node(p).color = Red
				set.leftRotate(p)
				s = set.node(p).right
			}
			if /* rm5 */ set.isBlack(set.node(s).left) && set.isBlack(set.node(s).right) {
				set.node(s).color = Red
				x = p
				continue
			}
			if /* rm6 */ set.isBlack(set.node(s).right) {
				set.node(set.node(s).left).color = Black
				set.node(s).color = Red
				set.rightRotate(s)
				s = set.node(p).right
			}
			/* rm7 */
			set.node(s).color = set.node(p).color
			set.node(p).color = Black
			set.node(set.node(s).right).color = Black
			set.leftRotate(p)
			x = set.root
		} else {
			s := set.node(p).left
			if /* rm4 */ set.isRed(s) {
				set.node(s).color = Black
				set.node(p).color = Red
				set.rightRotate(p)
				s = set.node(p).left
			}
			if /* rm5 */ set.isBlack(set.node(s).left) && set.isBlack(set.node(s).right) {
				set.node(s).color = Red
				x = p
				continue
			}
			if /* rm6 */ set.isBlack(set.node(s).left) {
				set.node(set.node(s).right).color = Black
				set.node(s).color = Red
				set.leftRotate(s)
				s = set.node(p).left
			}
			/* rm7 */
			set.node(s).color = set.node(p).color
			set.node(p).color = Black
			set.node(set.node(s).left).color = Black
			set.rightRotate(p)
			x = set.root
		}
	}
	set.node(x).color = Black
	set.stats.rebalanced(steps)
}

// Snapshot walks the set in pre-order.
func (set *rbSet[K]) Snapshot() []RBNodeView[K] {
	if set.root == Sentinel {
		return nil
	}

	views := make([]RBNodeView[K], 0, set.count)
	stack := make([]NodeID, 0, 32)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, set.root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		view, _ := set.Node(aux)
		views = append(views, view)
		if view.Right != Sentinel {
			stack = append(stack, view.Right)
		}
		if view.Left != Sentinel {
			stack = append(stack, view.Left)
		}
	}
	return views
}

func (set *rbSet[K]) Release() {
	set.stats.released(int64(set.arena.live()))
	set.arena.reset()
	set.root = Sentinel
	set.count = 0
}

type RBSetOption[K infra.OrderedKey] func(*rbSet[K])

func WithRBSetComparator[K infra.OrderedKey](cmp infra.OrderedKeyComparator[K]) RBSetOption[K] {
	return func(set *rbSet[K]) {
		if cmp != nil {
			set.kcmp = cmp
		}
	}
}

func WithRBSetDesc[K infra.OrderedKey]() RBSetOption[K] {
	return func(set *rbSet[K]) {
		set.kcmp = infra.ReverseOrder[K]
	}
}

func WithRBSetAllocator[K infra.OrderedKey](alloc Allocator) RBSetOption[K] {
	return func(set *rbSet[K]) {
		if alloc != nil {
			set.alloc = alloc
		}
	}
}

func WithRBSetMeter[K infra.OrderedKey](meter metric.Meter) RBSetOption[K] {
	return func(set *rbSet[K]) {
		set.stats = newRBSetStats(meter)
	}
}

func NewRBSet[K infra.OrderedKey](opts ...RBSetOption[K]) RBSet[K] {
	set := &rbSet[K]{
		kcmp:  infra.NaturalOrder[K],
		alloc: DefaultAllocator(),
		root:  Sentinel,
	}
	for _, o := range opts {
		o(set)
	}
	if set.stats == nil {
		set.stats = newRBSetStats(nil)
	}
	set.arena = newNodeArena[K](set.alloc)
	return set
}
