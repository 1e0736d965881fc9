package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"src.loom.dev/pkg/logutil"
	"src.loom.dev/pkg/node"
	"src.loom.dev/pkg/store"
	"src.loom.dev/pkg/term"
)

var logger = logutil.GetLogger("loom-demo")

// model is the immutable application state. Updates never mutate a model
// in place; they copy it, so the store's reference comparison sees every
// change.
type model struct {
	items  []*todoItem
	cursor int
	input  string
	ticks  int
}

type todoItem struct {
	id   string
	text string
	done bool
}

func (it *todoItem) Key() store.Key { return it.id }

// Messages.
type (
	keyPressed  struct{ key term.Key }
	itemToggled struct{ id string }
	ticked      struct{}
)

type app struct {
	cfg config

	list *store.List[*todoItem, string, any]

	// Skeleton nodes, built on the first render.
	headerText *node.Node
	ul         *node.Node
	inputText  *node.Node
}

func newApp(cfg config) *app {
	a := &app{cfg: cfg}
	a.list = &store.List[*todoItem, string, any]{
		Factory: func() *node.Node { return node.E("li", node.Text("")) },
		Render:  renderItem,
		Tag: func(k store.Key, _ string) any {
			return itemToggled{id: k.(string)}
		},
	}
	return a
}

func (a *app) init() store.Txn[*model, any] {
	items := make([]*todoItem, len(a.cfg.Items))
	for i, it := range a.cfg.Items {
		items[i] = &todoItem{id: uuid.NewString(), text: it.Text, done: it.Done}
	}
	return store.NewTxn(&model{items: items}, a.tick())
}

// tick yields a ticked message after the configured interval, or nothing
// if the store is closed first.
func (a *app) tick() store.Effect[any] {
	return func(ctx context.Context) (any, bool) {
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(time.Duration(a.cfg.Tick)):
			return ticked{}, true
		}
	}
}

func (a *app) update(s *model, m any) store.Txn[*model, any] {
	switch m := m.(type) {
	case keyPressed:
		return store.NewTxn[*model, any](a.updateKey(s, m.key))
	case itemToggled:
		return store.NewTxn[*model, any](s.toggle(m.id))
	case ticked:
		next := *s
		next.ticks++
		return store.NewTxn(&next, a.tick())
	}
	return store.Unhandled[*model, any]()(s, m)
}

func (a *app) updateKey(s *model, k term.Key) *model {
	switch k.Kind {
	case term.KindRune:
		next := *s
		next.input += string(k.Rune)
		return &next
	case term.KindBackspace:
		if s.input != "" {
			next := *s
			runes := []rune(s.input)
			next.input = string(runes[:len(runes)-1])
			return &next
		}
		return s.removeAt(s.cursor)
	case term.KindEnter:
		if s.input == "" {
			return s
		}
		next := *s
		next.items = append(append([]*todoItem(nil), s.items...),
			&todoItem{id: uuid.NewString(), text: s.input})
		next.input = ""
		return &next
	case term.KindUp:
		if s.cursor == 0 {
			return s
		}
		next := *s
		next.cursor--
		return &next
	case term.KindDown:
		if s.cursor >= len(s.items)-1 {
			return s
		}
		next := *s
		next.cursor++
		return &next
	case term.KindTab:
		if s.cursor >= len(s.items) {
			return s
		}
		return s.toggle(s.items[s.cursor].id)
	case term.KindEsc:
		if s.input == "" {
			return s
		}
		next := *s
		next.input = ""
		return &next
	}
	return s
}

// toggle returns a model with the matching item's done flag flipped, or
// the receiver unchanged if no item matches.
func (s *model) toggle(id string) *model {
	for i, it := range s.items {
		if it.id != id {
			continue
		}
		flipped := *it
		flipped.done = !flipped.done
		next := *s
		next.items = append([]*todoItem(nil), s.items...)
		next.items[i] = &flipped
		return &next
	}
	return s
}

// removeAt returns a model without the i-th item, cursor clamped.
func (s *model) removeAt(i int) *model {
	if i < 0 || i >= len(s.items) {
		return s
	}
	next := *s
	next.items = append(append([]*todoItem(nil), s.items[:i]...), s.items[i+1:]...)
	if next.cursor >= len(next.items) && next.cursor > 0 {
		next.cursor = len(next.items) - 1
	}
	return &next
}

// render is the store's write function. The first call builds the
// skeleton; subsequent calls only touch what changed.
func (a *app) render(target *node.Node, s *model, send func(any)) {
	if a.ul == nil {
		a.headerText = node.Text("")
		a.ul = node.Element("ul")
		a.inputText = node.Text("")
		header := node.E("div", node.E("span", a.headerText))
		header.SetProp("style", "bold")
		help := node.E("div",
			node.Text("enter: add | tab: toggle | up/down: select | backspace: delete | ctrl-c: quit"))
		help.SetProp("style", "dim")
		target.Append(header)
		target.Append(a.ul)
		target.Append(node.E("div", node.Text("> "), a.inputText))
		target.Append(help)
	}

	done := 0
	for _, it := range s.items {
		if it.done {
			done++
		}
	}
	a.headerText.SetText(fmt.Sprintf("loom todo | %d/%d done | %ds",
		done, len(s.items), s.ticks))

	if err := a.list.Reconcile(a.ul, s.items, send); err != nil {
		logger.Error("reconcile failed", "err", err)
	}
	for i := 0; i < a.ul.ChildCount(); i++ {
		style := ""
		if i == s.cursor {
			style = "inverse"
		}
		a.ul.Child(i).SetProp("style", style)
	}

	a.inputText.SetText(s.input)
}

// renderItem writes one todo item into its list node. The tagged send is
// exposed as a "toggle" property so that node-level event plumbing can
// flip an item without knowing the container.
func renderItem(n *node.Node, it *todoItem, send func(string)) {
	marker := "[ ] "
	if it.done {
		marker = "[x] "
	}
	n.Child(0).SetText(marker + it.text)
	if send != nil {
		n.SetProp("toggle", func() { send("toggle") })
	}
}
