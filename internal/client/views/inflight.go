package views

import (
	"errors"
	"sync/atomic"
)

// ErrActionInFlight is returned when a mutating action is re-triggered while
// a previous submission of the same action has not finished.
var ErrActionInFlight = errors.New("action already in progress")

// inflight is the per-action guard against duplicate submissions. It is not
// a general mutex discipline; each mutating view operation carries its own.
type inflight struct {
	busy atomic.Bool
}

// begin claims the guard; it reports false when the action is already
// running.
func (g *inflight) begin() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *inflight) end() {
	g.busy.Store(false)
}
