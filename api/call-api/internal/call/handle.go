// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

import (
	"sync"
	"time"
)

// CallHandle is the live record of a submitted call. Created the instant the
// provider accepts it; immutable afterwards except for state and timestamps.
// State is written by exactly two paths: the handle's own status watch and
// End. The dashboard only ever sees snapshots.
type CallHandle struct {
	HandleID       string
	ProviderCallID string
	// StatusRef is the identifier status queries are keyed by. Equals
	// ProviderCallID for telephony calls; for direct-agent calls it is the
	// provider's conversation id.
	StatusRef string
	Request   CallRequest
	CreatedAt time.Time

	mu         sync.Mutex
	state      CallState
	failReason string
	updatedAt  time.Time

	// endMu serializes concurrent End calls so at most one termination
	// request reaches the provider.
	endMu sync.Mutex
}

func newCallHandle(handleID, providerCallID, statusRef string, req CallRequest) *CallHandle {
	now := time.Now()
	return &CallHandle{
		HandleID:       handleID,
		ProviderCallID: providerCallID,
		StatusRef:      statusRef,
		Request:        req,
		CreatedAt:      now,
		state:          StateQueued,
		updatedAt:      now,
	}
}

// State returns the current state.
func (h *CallHandle) State() CallState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// FailReason returns the synthetic failure reason, empty unless the handle
// was failed locally (e.g. watch budget exhausted).
func (h *CallHandle) FailReason() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failReason
}

// advance moves the state forward. Transitions are monotonic: a state never
// steps backward in lifecycle order and a terminal state is absorbing.
// Returns whether the state changed.
func (h *CallHandle) advance(next CallState) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.IsTerminal() {
		return false
	}
	if next.rank() < h.state.rank() || next == h.state {
		return false
	}
	h.state = next
	h.updatedAt = time.Now()
	return true
}

// failLocally forces the handle into Failed with a reason, unless it is
// already terminal.
func (h *CallHandle) failLocally(reason string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.IsTerminal() {
		return false
	}
	h.state = StateFailed
	h.failReason = reason
	h.updatedAt = time.Now()
	return true
}

// HandleSnapshot is the read-only copy exposed outside the manager.
type HandleSnapshot struct {
	HandleID       string    `json:"handleId"`
	ProviderCallID string    `json:"providerCallId"`
	ProspectID     string    `json:"prospectId"`
	Mode           string    `json:"mode"`
	State          string    `json:"state"`
	Terminal       bool      `json:"terminal"`
	FailReason     string    `json:"failReason,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Snapshot copies the handle for rendering.
func (h *CallHandle) Snapshot() HandleSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HandleSnapshot{
		HandleID:       h.HandleID,
		ProviderCallID: h.ProviderCallID,
		ProspectID:     h.Request.ProspectID,
		Mode:           h.Request.Mode.String(),
		State:          h.state.Label(),
		Terminal:       h.state.IsTerminal(),
		FailReason:     h.failReason,
		Warnings:       h.Request.Warnings,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.updatedAt,
	}
}
