// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

import (
	"context"
	"time"

	"github.com/prospectdial/pkg/commons"
)

// statusQueryFunc asks the provider for the raw status of one call.
type statusQueryFunc func(ctx context.Context) (string, error)

// watchLoop is the status reconciliation loop for a single handle. It polls
// the provider at a fixed interval, feeds mapped transitions into the handle,
// and stops itself on the first terminal state or when the watch budget runs
// out. A failed poll is logged and retried on the next tick; it never changes
// state and never stops the loop early.
type watchLoop struct {
	logger   commons.Logger
	handle   *CallHandle
	query    statusQueryFunc
	interval time.Duration
	budget   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	onStop func()
}

func newWatchLoop(logger commons.Logger, handle *CallHandle, query statusQueryFunc, interval, budget time.Duration, onStop func()) *watchLoop {
	return &watchLoop{
		logger:   logger,
		handle:   handle,
		query:    query,
		interval: interval,
		budget:   budget,
		done:     make(chan struct{}),
		onStop:   onStop,
	}
}

func (w *watchLoop) start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)
}

func (w *watchLoop) run(ctx context.Context) {
	defer close(w.done)
	defer w.onStop()

	deadline := time.Now().Add(w.budget)

	// First poll fires immediately on attach; the provider often reports
	// initiated or ringing before the first tick would land.
	if w.pollOnce(ctx) {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().After(deadline) {
				if w.handle.failLocally(FailReasonWatchTimedOut) {
					w.logger.Warnf("watch budget exhausted for handle %s (call %s), could not confirm call outcome",
						w.handle.HandleID, w.handle.ProviderCallID)
				}
				return
			}
			if w.pollOnce(ctx) {
				return
			}
		}
	}
}

// pollOnce issues one status query. Returns true when the loop should stop
// (terminal state observed).
func (w *watchLoop) pollOnce(ctx context.Context) bool {
	queryCtx, cancel := context.WithTimeout(ctx, w.interval)
	raw, err := w.query(queryCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		// transient: retried on the next tick
		w.logger.Warnf("status poll failed for handle %s: %v", w.handle.HandleID, err)
		return false
	}

	current := w.handle.State()
	next := MapProviderStatus(current, raw)
	if next == current {
		return next.IsTerminal()
	}

	if w.handle.advance(next) {
		w.logger.Debugf("handle %s: %s -> %s (provider status %q)",
			w.handle.HandleID, current, next, raw)
	}
	return w.handle.State().IsTerminal()
}

// Cancel stops future polls. Already-observed state is untouched.
func (w *watchLoop) Cancel() {
	if w.cancel != nil {
		w.cancel()
	}
}

// Done closes when the loop has fully stopped.
func (w *watchLoop) Done() <-chan struct{} {
	return w.done
}
