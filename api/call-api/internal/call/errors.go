// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

import (
	"errors"
	"fmt"
)

// ValidationCode identifies a pre-network validation failure. Always
// recoverable by correcting input; never retried automatically.
type ValidationCode string

const (
	MissingAgentSelection          ValidationCode = "missing_agent_selection"
	ConflictingAgentSelection      ValidationCode = "conflicting_agent_selection"
	MissingPhoneNumberBinding      ValidationCode = "missing_phone_number_binding"
	IncompleteTelephonyCredentials ValidationCode = "incomplete_telephony_credentials"
	InvalidProspectNumber          ValidationCode = "invalid_prospect_number"
	DevelopmentModeDisabled        ValidationCode = "development_mode_disabled"
)

// ValidationError is a local, pre-network failure.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CallRejected is a structured provider rejection on submit. The provider's
// error code is preserved verbatim so the caller can render actionable
// guidance.
type CallRejected struct {
	ProviderErrorCode string
	Message           string
}

func (e *CallRejected) Error() string {
	return fmt.Sprintf("call rejected by provider (code %s): %s", e.ProviderErrorCode, e.Message)
}

// Provider error codes with a known user remedy.
//
// 21211: invalid destination number; 21608: unverified number on a trial
// account; 20003: authentication failure (bad or revoked credential);
// 21606: from-number not owned by the account.
var userActionableCodes = map[string]struct{}{
	"21211": {},
	"21608": {},
	"20003": {},
	"21606": {},
	"missing_phone_number_binding": {},
	"missing_credential":           {},
}

// UserActionable reports whether the rejection has a remedy the user can
// apply themselves (fix a number, verify the account, configure a binding).
func (e *CallRejected) UserActionable() bool {
	_, ok := userActionableCodes[e.ProviderErrorCode]
	return ok
}

// ProviderTimeout is returned when submit or end exceeds its hard deadline.
// The operation is never retried automatically: the call may or may not have
// reached the provider.
type ProviderTimeout struct {
	Op string
}

func (e *ProviderTimeout) Error() string {
	return fmt.Sprintf("provider did not answer %s in time", e.Op)
}

// TerminationFailed is returned when the provider could not confirm ending a
// call. State is left unchanged so the caller may retry; termination is never
// assumed on an ambiguous provider error.
type TerminationFailed struct {
	Cause error
}

func (e *TerminationFailed) Error() string {
	return fmt.Sprintf("termination failed: %v", e.Cause)
}

func (e *TerminationFailed) Unwrap() error {
	return e.Cause
}

// ErrWatchActive is returned when a second status watch is started on a
// handle that already has one. Watches are never silently merged.
var ErrWatchActive = errors.New("status watch already active for this handle")

// ErrUnknownHandle is returned when a handle id does not resolve to a live
// handle.
var ErrUnknownHandle = errors.New("unknown call handle")

// FailReasonWatchTimedOut marks handles failed synthetically because the
// watch budget was exhausted before a terminal provider status arrived.
const FailReasonWatchTimedOut = "watch_timed_out"
