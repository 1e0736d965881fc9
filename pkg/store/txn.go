// Package store implements a message-driven state container for node trees.
//
// A Store owns one immutable state value and a pure update function. All
// changes enter through Send; the store applies updates strictly in order
// on a single loop goroutine, coalesces any burst of changes into a single
// render of the latest state, and skips renders entirely when the state
// reference has not changed.
//
// State types must be comparable, and should be pointer types (or otherwise
// identity-comparable): the store detects change by comparing the old and
// new state with ==, never by structural inspection. An update that returns
// the same pointer signals "no change"; mutating a state value in place is
// a caller error.
//
// The package also provides List, which keeps a parent node's children in
// sync with an ordered slice of keyed item states with a minimal number of
// physical tree mutations.
package store

import "context"

// Txn is the result of applying a message: the next state plus any effects
// to run. It is returned by an application's init and update functions.
type Txn[S comparable, M any] struct {
	State   S
	Effects []Effect[M]
}

// NewTxn returns a transaction carrying the next state and any effects.
func NewTxn[S comparable, M any](state S, effects ...Effect[M]) Txn[S, M] {
	return Txn[S, M]{state, effects}
}

// An Effect is a deferred computation yielding at most one message. The
// context is canceled when the owning store is closed; a well-behaved
// effect stops early when it is done. Returning ok == false makes the
// effect fire-and-forget: its side effect happens, no message is sent.
//
// Effects run in their own goroutines, concurrently with each other and
// with the store loop. There is no ordering between effects dispatched
// from the same transaction.
type Effect[M any] func(ctx context.Context) (msg M, ok bool)

// Fire wraps a computation with no result into an Effect that never sends
// a message.
func Fire[M any](f func(context.Context)) Effect[M] {
	return func(ctx context.Context) (M, bool) {
		f(ctx)
		var zero M
		return zero, false
	}
}

// Try adapts an error-returning computation into an Effect. On success the
// computed message is sent; on failure the error is converted into a
// message with wrap, so that failures re-enter the update loop instead of
// disappearing into a crashed goroutine.
func Try[M any](f func(context.Context) (M, error), wrap func(error) M) Effect[M] {
	return func(ctx context.Context) (M, bool) {
		m, err := f(ctx)
		if err != nil {
			return wrap(err), true
		}
		return m, true
	}
}
