// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

import "strings"

// CallState is the local view of a call's lifecycle. Submitting is the only
// state the provider never reports; it covers the window between Submit being
// invoked and the provider accepting the call.
type CallState int

const (
	StateSubmitting CallState = iota
	StateQueued
	StateInitiated
	StateRinging
	StateInProgress
	StateCompleted
	StateFailed
	StateBusy
	StateNoAnswer
	StateCanceled
)

// IsTerminal reports whether no further transitions are possible.
func (s CallState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateBusy, StateNoAnswer, StateCanceled:
		return true
	}
	return false
}

// Label returns the human-readable form rendered by the dashboard.
func (s CallState) Label() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateQueued:
		return "queued"
	case StateInitiated:
		return "initiated"
	case StateRinging:
		return "ringing"
	case StateInProgress:
		return "in progress"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateBusy:
		return "busy"
	case StateNoAnswer:
		return "no answer"
	case StateCanceled:
		return "canceled"
	}
	return "unknown"
}

func (s CallState) String() string {
	return s.Label()
}

// rank orders states for the monotonicity guard. All terminal states share
// the top rank; a terminal state is absorbing.
func (s CallState) rank() int {
	switch s {
	case StateSubmitting:
		return 0
	case StateQueued:
		return 1
	case StateInitiated:
		return 2
	case StateRinging:
		return 3
	case StateInProgress:
		return 4
	}
	return 5
}

// MapProviderStatus maps a raw provider status string onto a CallState. The
// function is total: unknown vocabulary returns current unchanged, never a
// terminal state, so provider vocabulary drift cannot end a live call.
// Matching is case-insensitive and separator-normalized because providers
// disagree on "no-answer" vs "no_answer".
func MapProviderStatus(current CallState, raw string) CallState {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")

	switch normalized {
	case "queued":
		return StateQueued
	case "initiated":
		return StateInitiated
	case "ringing":
		return StateRinging
	case "in-progress", "processing":
		return StateInProgress
	case "completed", "done", "ended":
		return StateCompleted
	case "busy":
		return StateBusy
	case "failed":
		return StateFailed
	case "no-answer":
		return StateNoAnswer
	case "canceled", "cancelled":
		return StateCanceled
	}
	return current
}
