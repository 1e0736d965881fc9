// Package node provides a small retained tree of rendering targets.
//
// A Node is either an element (a tag, properties and an ordered list of
// children) or a text node. Nodes are identified by pointer; the runtime
// compares and indexes them by identity only.
//
// The tree is not safe for concurrent mutation. After a node tree has been
// handed to a store, it is mutated from the store's loop goroutine; anything
// else that reads the tree must synchronize with the store's render callback.
package node

import "fmt"

// Node is a single rendering target in a tree.
type Node struct {
	parent   *Node
	children []*Node

	// tag is empty for text nodes.
	tag   string
	text  string
	props map[string]any

	observer func(Mutation)
}

// Op enumerates physical mutations applied to a tree.
type Op uint8

// Possible Op values.
const (
	OpInsert Op = iota
	OpRemove
	OpProp
	OpText
)

// Mutation describes one physical mutation. Parent and Index are only set
// for OpInsert and OpRemove; Prop is only set for OpProp.
type Mutation struct {
	Op     Op
	Node   *Node
	Parent *Node
	Index  int
	Prop   string
}

// Element returns a new element node with the given tag and no children.
func Element(tag string) *Node {
	if tag == "" {
		panic("node: element with empty tag")
	}
	return &Node{tag: tag}
}

// Text returns a new text node.
func Text(s string) *Node { return &Node{text: s} }

// E returns a new element node with the given children appended in order.
func E(tag string, kids ...*Node) *Node {
	n := Element(tag)
	for _, kid := range kids {
		n.Append(kid)
	}
	return n
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.tag == "" }

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// Parent returns the parent node, or nil if n is detached.
func (n *Node) Parent() *Node { return n.parent }

// Text returns the content of a text node.
func (n *Node) Text() string {
	if !n.IsText() {
		panic("node: Text on element node")
	}
	return n.text
}

// SetText replaces the content of a text node. Setting the current content
// again is a no-op and emits no mutation.
func (n *Node) SetText(s string) {
	if !n.IsText() {
		panic("node: SetText on element node")
	}
	if n.text == s {
		return
	}
	n.text = s
	n.notify(Mutation{Op: OpText, Node: n})
}

// Prop returns the named property, or nil if unset.
func (n *Node) Prop(name string) any {
	if n.IsText() {
		panic("node: Prop on text node")
	}
	return n.props[name]
}

// SetProp sets a property on an element node. Setting a property to a value
// equal to its current one is a no-op and emits no mutation.
func (n *Node) SetProp(name string, v any) {
	if n.IsText() {
		panic("node: SetProp on text node")
	}
	if old, ok := n.props[name]; ok && sameProp(old, v) {
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = v
	n.notify(Mutation{Op: OpProp, Node: n, Prop: name})
}

func sameProp(a, b any) bool {
	defer func() { recover() }()
	return a == b
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Index returns the position of child under n, or -1 if child is not a
// direct child of n.
func (n *Node) Index(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Append adds c as the last child of n, detaching it from its current
// parent first if necessary.
func (n *Node) Append(c *Node) { n.InsertAt(c, len(n.children)) }

// InsertBefore inserts c immediately before ref, which must be a child of
// n. A nil ref appends.
func (n *Node) InsertBefore(c, ref *Node) {
	if ref == nil {
		n.Append(c)
		return
	}
	i := n.Index(ref)
	if i < 0 {
		panic("node: InsertBefore reference is not a child")
	}
	n.InsertAt(c, i)
}

// InsertAt places c at index i under n. If c already occupies index i this
// is a no-op and emits no mutation; otherwise c is detached from wherever
// it currently is and inserted before whatever occupies i.
func (n *Node) InsertAt(c *Node, i int) {
	if i < 0 || i > len(n.children) {
		panic(fmt.Sprintf("node: InsertAt index %d out of range [0, %d]", i, len(n.children)))
	}
	if i < len(n.children) && n.children[i] == c {
		return
	}
	if c.parent != nil {
		// Detaching a child positioned before i shifts the insertion
		// point left by one.
		if c.parent == n && c.parent.Index(c) < i {
			i--
		}
		c.Detach()
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	c.parent = n
	n.notify(Mutation{Op: OpInsert, Node: c, Parent: n, Index: i})
}

// Remove detaches child from n. It panics if child is not a direct child.
func (n *Node) Remove(child *Node) {
	i := n.Index(child)
	if i < 0 {
		panic("node: Remove of a non-child")
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
	n.notify(Mutation{Op: OpRemove, Node: child, Parent: n, Index: i})
}

// Detach removes n from its parent, if it has one.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// SetObserver registers f to receive every mutation applied to n's subtree.
// A mutation is reported to the nearest observer at or above the mutated
// node; at most one observer fires per mutation.
func (n *Node) SetObserver(f func(Mutation)) { n.observer = f }

func (n *Node) notify(m Mutation) {
	for p := n; p != nil; p = p.parent {
		if p.observer != nil {
			p.observer(m)
			return
		}
	}
}

// String returns a compact debug representation of the node itself, not
// including children.
func (n *Node) String() string {
	if n.IsText() {
		return fmt.Sprintf("%q", n.text)
	}
	return "<" + n.tag + ">"
}
