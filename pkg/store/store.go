package store

import (
	"context"
	"sync"

	"src.loom.dev/pkg/logutil"
	"src.loom.dev/pkg/node"
)

var logger = logutil.GetLogger("store")

// Spec specifies a Store.
type Spec[S comparable, M any] struct {
	// Target is the node the render function writes into.
	Target *node.Node
	// Init produces the initial transaction.
	Init func() Txn[S, M]
	// Update computes the transaction for a message. It must be pure: same
	// state and message, same transaction. Returning the received state
	// unchanged (same reference) means "no change" and suppresses
	// rendering.
	Update func(S, M) Txn[S, M]
	// Render writes state into Target. It runs on the store's loop
	// goroutine, behind a render gate, at most once per burst of
	// messages.
	Render Render[S, M]
	// Debug enables transition logging through the logutil package.
	Debug bool
}

// Store owns one current state and applies messages to it in order.
type Store[S comparable, M any] struct {
	target *node.Node
	update func(S, M) Txn[S, M]
	render Render[S, M]
	debug  bool

	loop   *loop[M]
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state S
}

// New creates a Store. It applies the init transaction: the initial state
// is rendered into the target once, synchronously, before New returns, and
// the init effects are dispatched. After that all rendering happens on the
// store's own goroutine, until Close.
func New[S comparable, M any](spec Spec[S, M]) *Store[S, M] {
	if spec.Target == nil || spec.Init == nil || spec.Update == nil || spec.Render == nil {
		panic("store: Spec needs Target, Init, Update and Render")
	}
	ctx, cancel := context.WithCancel(context.Background())
	st := &Store[S, M]{
		target: spec.Target,
		update: spec.Update,
		render: Gated(spec.Render),
		debug:  spec.Debug,
		ctx:    ctx,
		cancel: cancel,
	}
	st.loop = newLoop[M](st.apply, st.redraw)

	txn := spec.Init()
	st.state = txn.State
	st.redraw()
	st.runAll(txn.Effects)

	go st.loop.run(ctx)
	return st
}

// Send delivers a message to the store. It is the sole mutation entry
// point and is safe for concurrent use. Messages sent after Close are
// dropped. Send may block when the message buffer is full; do not flood it
// from inside a Render callback.
func (st *Store[S, M]) Send(m M) {
	select {
	case st.loop.sendCh <- m:
	case <-st.ctx.Done():
	}
}

// State returns the current state.
func (st *Store[S, M]) State() S {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Close tears the store down: the loop goroutine stops, the effect context
// is canceled so in-flight effects cannot deliver stale messages, and the
// bookkeeping for the target subtree is released. Close is idempotent.
func (st *Store[S, M]) Close() {
	st.cancel()
	dropSlots(st.target)
}

// Done returns a channel closed when the store has been closed.
func (st *Store[S, M]) Done() <-chan struct{} { return st.ctx.Done() }

// apply runs one update. Loop goroutine only.
func (st *Store[S, M]) apply(m M) {
	old := st.State()
	txn := st.update(old, m)
	changed := txn.State != old
	if changed {
		st.mu.Lock()
		st.state = txn.State
		st.mu.Unlock()
		st.loop.requestRedraw()
	}
	if st.debug {
		logger.Debug("message applied",
			"message", m, "changed", changed, "effects", len(txn.Effects))
	}
	st.runAll(txn.Effects)
}

// redraw renders the latest state through the gate. Called from New once
// and from the loop goroutine afterwards.
func (st *Store[S, M]) redraw() {
	st.render(st.target, st.State(), st.Send)
}

// runAll dispatches every effect in its own goroutine, without waiting.
func (st *Store[S, M]) runAll(effects []Effect[M]) {
	for _, eff := range effects {
		go st.runEffect(eff)
	}
}

// runEffect awaits one effect and feeds its message, if any, back into
// Send. A store that has been closed in the meantime drops the result.
func (st *Store[S, M]) runEffect(eff Effect[M]) {
	m, ok := eff(st.ctx)
	if !ok || st.ctx.Err() != nil {
		return
	}
	st.Send(m)
}

// Unhandled returns an update fallback for unrecognized messages: it logs
// a warning and returns the state unchanged, producing no render.
func Unhandled[S comparable, M any]() func(S, M) Txn[S, M] {
	return func(s S, m M) Txn[S, M] {
		logger.Warn("unhandled message", "message", m)
		return NewTxn[S, M](s)
	}
}
