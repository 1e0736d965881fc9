package store

import "context"

// Buffer size of the message channel. The value is chosen for no particular
// reason.
const sendChSize = 128

// A generic message loop with coalesced redraws. All handling and redrawing
// happens on the goroutine that calls run, strictly serially; the only
// concurrency-safe entry points are the two channels.
type loop[M any] struct {
	// Incoming messages.
	sendCh chan M
	// Pending-redraw flag. Capacity 1; a non-blocking send requests a
	// redraw, and any number of requests between two redraws collapse
	// into one.
	redrawCh chan struct{}

	handle func(M)
	redraw func()
}

func newLoop[M any](handle func(M), redraw func()) *loop[M] {
	return &loop[M]{
		sendCh:   make(chan M, sendChSize),
		redrawCh: make(chan struct{}, 1),
		handle:   handle,
		redraw:   redraw,
	}
}

// requestRedraw schedules a redraw. It never blocks; requests made while
// one is already pending are no-ops.
func (lp *loop[M]) requestRedraw() {
	select {
	case lp.redrawCh <- struct{}{}:
	default:
	}
}

// run runs the loop until ctx is canceled. Each iteration consumes every
// queued message before redrawing, so a burst of messages results in at
// most one redraw, and that redraw observes the state after the whole
// burst. A redraw requested during the redraw callback itself is served by
// a later iteration, never folded into the running one.
func (lp *loop[M]) run(ctx context.Context) {
	for {
		select {
		case m := <-lp.sendCh:
		consumeAll:
			for {
				lp.handle(m)
				select {
				case m = <-lp.sendCh:
					// Keep consuming queued messages.
				case <-ctx.Done():
					return
				default:
					break consumeAll
				}
			}
			lp.flush()
		case <-lp.redrawCh:
			lp.redraw()
		case <-ctx.Done():
			return
		}
	}
}

// flush performs the pending redraw, if any.
func (lp *loop[M]) flush() {
	select {
	case <-lp.redrawCh:
		lp.redraw()
	default:
	}
}
