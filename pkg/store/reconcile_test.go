package store_test

import (
	"errors"
	"testing"

	"src.loom.dev/pkg/node"
	"src.loom.dev/pkg/store"
)

type item struct {
	id   string
	text string
}

func (it *item) Key() store.Key { return it.id }

func testList() *store.List[*item, string, string] {
	return &store.List[*item, string, string]{
		Factory: func() *node.Node { return node.E("li", node.Text("")) },
		Render: func(n *node.Node, s *item, send func(string)) {
			n.Child(0).SetText(s.text)
		},
		Tag: func(k store.Key, im string) string { return k.(string) + ":" + im },
	}
}

// observe records physical mutations on parent, bucketed by op.
func observe(parent *node.Node) map[node.Op]*int {
	counts := map[node.Op]*int{
		node.OpInsert: new(int),
		node.OpRemove: new(int),
		node.OpProp:   new(int),
		node.OpText:   new(int),
	}
	parent.SetObserver(func(m node.Mutation) { *counts[m.Op]++ })
	return counts
}

func reconcile(t *testing.T, l *store.List[*item, string, string], parent *node.Node, states []*item) {
	t.Helper()
	if err := l.Reconcile(parent, states, nil); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
}

func texts(parent *node.Node) []string {
	var out []string
	for _, c := range parent.Children() {
		out = append(out, c.Child(0).Text())
	}
	return out
}

func TestReconcile_CreatesChildrenInOrder(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	reconcile(t, l, parent, []*item{{"k1", "a"}, {"k2", "b"}, {"k3", "c"}})

	if got, want := texts(parent), []string{"a", "b", "c"}; !equal(got, want) {
		t.Errorf("children %v, want %v", got, want)
	}
}

func TestReconcile_KeyedStability(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	a, b, c := &item{"k1", "a"}, &item{"k2", "b"}, &item{"k3", "c"}
	reconcile(t, l, parent, []*item{a, b, c})
	elemA, elemB, elemC := parent.Child(0), parent.Child(1), parent.Child(2)

	counts := observe(parent)
	// Replace b with a new item d; a and c keep their state references.
	d := &item{"k4", "d"}
	reconcile(t, l, parent, []*item{a, d, c})

	if got, want := texts(parent), []string{"a", "d", "c"}; !equal(got, want) {
		t.Errorf("children %v, want %v", got, want)
	}
	if parent.Child(0) != elemA || parent.Child(2) != elemC {
		t.Error("untouched items did not keep their nodes")
	}
	if parent.Child(1) == elemB {
		t.Error("removed item's node was reused for a different key")
	}
	if *counts[node.OpRemove] != 1 {
		t.Errorf("%d removals, want 1", *counts[node.OpRemove])
	}
	if *counts[node.OpInsert] != 1 {
		t.Errorf("%d insertions, want 1", *counts[node.OpInsert])
	}
	// The only text write is the new child's first render.
	if *counts[node.OpText] != 1 {
		t.Errorf("%d text writes, want 1", *counts[node.OpText])
	}
}

func TestReconcile_RotationMovesWithoutCreating(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	x, y, z := &item{"k1", "x"}, &item{"k2", "y"}, &item{"k3", "z"}
	reconcile(t, l, parent, []*item{x, y, z})
	elemX, elemY, elemZ := parent.Child(0), parent.Child(1), parent.Child(2)

	counts := observe(parent)
	reconcile(t, l, parent, []*item{z, x, y})

	if parent.Child(0) != elemZ || parent.Child(1) != elemX || parent.Child(2) != elemY {
		t.Error("rotation did not preserve node instances in the new order")
	}
	// Moving z to the front is one detach + one insert; x and y are then
	// already in place.
	if *counts[node.OpRemove] != 1 || *counts[node.OpInsert] != 1 {
		t.Errorf("got %d removals and %d insertions, want 1 and 1",
			*counts[node.OpRemove], *counts[node.OpInsert])
	}
	if *counts[node.OpText] != 0 {
		t.Errorf("%d text writes on unchanged states, want 0", *counts[node.OpText])
	}
}

func TestReconcile_IdenticalStatesAreANoOp(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	states := []*item{{"k1", "a"}, {"k2", "b"}}
	reconcile(t, l, parent, states)

	counts := observe(parent)
	reconcile(t, l, parent, states)

	for op, n := range counts {
		if *n != 0 {
			t.Errorf("op %v: %d mutations on identical reconcile, want 0", op, *n)
		}
	}
}

func TestReconcile_ChangedStateRerendersThroughGate(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	a, b := &item{"k1", "a"}, &item{"k2", "b"}
	reconcile(t, l, parent, []*item{a, b})

	counts := observe(parent)
	// New reference for k1 only.
	reconcile(t, l, parent, []*item{{"k1", "A"}, b})

	if got, want := texts(parent), []string{"A", "b"}; !equal(got, want) {
		t.Errorf("children %v, want %v", got, want)
	}
	if *counts[node.OpText] != 1 {
		t.Errorf("%d text writes, want 1", *counts[node.OpText])
	}
	if *counts[node.OpInsert] != 0 || *counts[node.OpRemove] != 0 {
		t.Error("re-render moved or recreated nodes")
	}
}

func TestReconcile_EmptyStatesRemovesEverything(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	reconcile(t, l, parent, []*item{{"k1", "a"}, {"k2", "b"}})
	reconcile(t, l, parent, nil)

	if parent.ChildCount() != 0 {
		t.Errorf("%d children left, want 0", parent.ChildCount())
	}
}

func TestReconcile_UnkeyedExistingChildrenAreRemoved(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	parent.Append(node.E("li", node.Text("static")))
	reconcile(t, l, parent, []*item{{"k1", "a"}})

	if got, want := texts(parent), []string{"a"}; !equal(got, want) {
		t.Errorf("children %v, want %v", got, want)
	}
}

func TestReconcile_DefaultKeyerInterface(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	l.Key = nil // fall back to the Keyer implementation on *item
	reconcile(t, l, parent, []*item{{"k1", "a"}, {"k2", "b"}})

	if got, want := texts(parent), []string{"a", "b"}; !equal(got, want) {
		t.Errorf("children %v, want %v", got, want)
	}
}

func TestReconcile_MissingKeyFailsWithoutMutating(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	reconcile(t, l, parent, []*item{{"k1", "a"}})

	counts := observe(parent)
	l.Key = func(s *item) store.Key {
		if s.id == "" {
			return nil
		}
		return s.id
	}
	err := l.Reconcile(parent, []*item{{"k2", "b"}, {"", "broken"}}, nil)
	if !errors.Is(err, store.ErrMissingKey) {
		t.Errorf("got error %v, want ErrMissingKey", err)
	}
	for op, n := range counts {
		if *n != 0 {
			t.Errorf("op %v: %d mutations after failed reconcile, want 0", op, *n)
		}
	}
	if got, want := texts(parent), []string{"a"}; !equal(got, want) {
		t.Errorf("children %v after failed reconcile, want %v", got, want)
	}
}

func TestReconcile_DuplicateKeyFailsWithoutMutating(t *testing.T) {
	l, parent := testList(), node.Element("ul")
	err := l.Reconcile(parent, []*item{{"k1", "a"}, {"k1", "b"}}, nil)
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("got error %v, want ErrDuplicateKey", err)
	}
	if parent.ChildCount() != 0 {
		t.Errorf("%d children after failed reconcile, want 0", parent.ChildCount())
	}
}

func TestReconcile_TagsItemMessagesWithKey(t *testing.T) {
	parent := node.Element("ul")
	var got []string
	l := testList()
	l.Render = func(n *node.Node, s *item, send func(string)) {
		n.SetProp("send", send)
	}
	err := l.Reconcile(parent, []*item{{"k1", "a"}, {"k2", "b"}}, func(m string) {
		got = append(got, m)
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	parent.Child(1).Prop("send").(func(string))("toggle")
	parent.Child(0).Prop("send").(func(string))("remove")
	want := []string{"k2:toggle", "k1:remove"}
	if !equal(got, want) {
		t.Errorf("container received %v, want %v", got, want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
