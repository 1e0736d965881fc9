package store

import (
	"errors"
	"fmt"

	"src.loom.dev/pkg/node"
)

// Reconciliation errors. Both are detected in a validation pre-pass, so a
// failed Reconcile call has not touched the parent at all.
var (
	// ErrMissingKey means an item state has no derivable key.
	ErrMissingKey = errors.New("item state has no key")
	// ErrDuplicateKey means two item states share a key. Keys must be
	// pairwise distinct within one call; this is reported instead of
	// silently dropping an item.
	ErrDuplicateKey = errors.New("duplicate item key")
)

// List synchronizes a parent node's children against an ordered slice of
// keyed item states. It is generic over the item state S, the item message
// IM, and the containing store's message M.
//
// Keys, not positions, identify items: across calls, a state with the same
// key keeps the same child node, so focus-like per-node state survives
// insertions, removals and reorderings around it.
type List[S comparable, IM, M any] struct {
	// Factory produces a fresh child node for a newly appearing key.
	Factory func() *node.Node
	// Render writes one item state into its child node. It runs behind a
	// render gate per child: items whose state reference is unchanged are
	// skipped entirely.
	Render Render[S, IM]
	// Key derives an item's key. If nil, S must implement Keyer.
	Key func(S) Key
	// Tag wraps an item message into a containing message, closing over
	// the item's key. This is how a child addresses its own slot in the
	// container's state without seeing the container. Required whenever
	// Reconcile is called with a non-nil send.
	Tag func(Key, IM) M
}

// Reconcile makes parent's children match states, in order. Stale children
// are removed first; then a single forward pass creates children for new
// keys, repositions surviving ones (moving a child only when it is not
// already at its target index), and re-renders each surviving child
// through its render gate.
//
// Physical mutations are bounded by creations + removals + actual moves;
// an unchanged list performs none.
//
// On error the parent is untouched.
func (l *List[S, IM, M]) Reconcile(parent *node.Node, states []S, send func(M)) error {
	keys, err := l.stateKeys(states)
	if err != nil {
		return err
	}
	if send != nil && l.Tag == nil {
		panic("store: List.Tag is nil")
	}

	wanted := make(map[Key]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	// Index current children by key. Children whose key is gone (or that
	// were never keyed) are collected first and removed afterwards;
	// removing while iterating the live child list would skip siblings.
	surviving := make(map[Key]*node.Node)
	var stale []*node.Node
	for i := 0; i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if k, ok := keyOfNode(c); ok && wanted[k] {
			surviving[k] = c
			continue
		}
		stale = append(stale, c)
	}
	for _, c := range stale {
		parent.Remove(c)
		dropSlots(c)
	}

	// Forward pass. With stale children already gone, index i is the
	// final position of states[i]'s child.
	render := Gated(l.Render)
	for i, state := range states {
		k := keys[i]
		var tagged func(IM)
		if send != nil {
			tagged = func(im IM) { send(l.Tag(k, im)) }
		}
		if c, ok := surviving[k]; ok {
			parent.InsertAt(c, i)
			render(c, state, tagged)
		} else {
			c := l.Factory()
			setNodeKey(c, k)
			parent.InsertAt(c, i)
			render(c, state, tagged)
		}
	}
	return nil
}

// stateKeys derives and validates the key of every state up front.
func (l *List[S, IM, M]) stateKeys(states []S) ([]Key, error) {
	keys := make([]Key, len(states))
	seen := make(map[Key]int, len(states))
	for i, s := range states {
		k := l.keyOf(s)
		if k == nil {
			return nil, fmt.Errorf("%w (index %d)", ErrMissingKey, i)
		}
		if j, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w %v (indices %d and %d)", ErrDuplicateKey, k, j, i)
		}
		seen[k] = i
		keys[i] = k
	}
	return keys, nil
}

func (l *List[S, IM, M]) keyOf(s S) Key {
	if l.Key != nil {
		return l.Key(s)
	}
	if kr, ok := any(s).(Keyer); ok {
		return kr.Key()
	}
	return nil
}
