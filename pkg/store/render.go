package store

import (
	"sync"

	"src.loom.dev/pkg/node"
)

// Render is the type of application write functions: it writes state into
// the target node, using send for any event handlers it wires up.
type Render[S comparable, M any] func(target *node.Node, state S, send func(M))

// Key identifies an item state across renders, independently of its
// position. Keys must be comparable; strings and integers are typical.
type Key any

// Keyer is implemented by item states that carry their own key. List uses
// it when no explicit Key function is configured.
type Keyer interface {
	Key() Key
}

// Per-target bookkeeping: the last state written through the render gate,
// and the key assigned by the reconciler. Owned exclusively by this
// package; applications never see or touch it.
type slot struct {
	last    any
	hasLast bool
	key     Key
	hasKey  bool
}

// Side table mapping node identity to its bookkeeping slot. Entries are
// dropped when the reconciler removes a child (for the whole removed
// subtree) and when a store is closed, so the table does not retain dead
// nodes.
var book = struct {
	sync.Mutex
	slots map[*node.Node]*slot
}{slots: make(map[*node.Node]*slot)}

func slotOf(n *node.Node) *slot {
	book.Lock()
	defer book.Unlock()
	s, ok := book.slots[n]
	if !ok {
		s = &slot{}
		book.slots[n] = s
	}
	return s
}

func keyOfNode(n *node.Node) (Key, bool) {
	book.Lock()
	defer book.Unlock()
	if s, ok := book.slots[n]; ok && s.hasKey {
		return s.key, true
	}
	return nil, false
}

func setNodeKey(n *node.Node, k Key) {
	s := slotOf(n)
	s.key, s.hasKey = k, true
}

// dropSlots releases the bookkeeping of n and its whole subtree.
func dropSlots(n *node.Node) {
	book.Lock()
	defer book.Unlock()
	dropSlotsLocked(n)
}

func dropSlotsLocked(n *node.Node) {
	delete(book.slots, n)
	for i := 0; i < n.ChildCount(); i++ {
		dropSlotsLocked(n.Child(i))
	}
}

// Gated wraps write so that invoking it with the same state reference that
// was last written to a given target is a no-op. The first write to a
// target is always performed. States that are structurally equal but not
// identical do not count as "same": the gate compares with == only.
//
// The recorded reference is updated after write returns, so a write that
// panics is not considered done.
func Gated[S comparable, M any](write Render[S, M]) Render[S, M] {
	return func(target *node.Node, state S, send func(M)) {
		s := slotOf(target)
		if s.hasLast && s.last == any(state) {
			return
		}
		write(target, state, send)
		s.last, s.hasLast = state, true
	}
}
