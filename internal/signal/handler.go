// Package signal cancels a run on SIGINT or SIGTERM.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Handler records whether a termination signal cancelled the run.
type Handler struct {
	interrupted atomic.Bool
	stop        context.CancelFunc
	sigCh       chan os.Signal
}

// Notify returns a context derived from parent that is cancelled on the first
// SIGINT or SIGTERM. onInterrupt, when non-nil, runs before the cancel.
// Call Stop to release the signal registration.
func Notify(parent context.Context, onInterrupt func(os.Signal)) (context.Context, *Handler) {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{stop: cancel, sigCh: make(chan os.Signal, 1)}
	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-h.sigCh:
			h.interrupted.Store(true)
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, h
}

// Interrupted reports whether a signal was received.
func (h *Handler) Interrupted() bool {
	return h.interrupted.Load()
}

// Stop unregisters the handler and cancels its context.
func (h *Handler) Stop() {
	signal.Stop(h.sigCh)
	h.stop()
}
