// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

// ExecutionMode selects one of the three mutually exclusive call strategies.
// Resolved exactly once by the builder; downstream code switches on it rather
// than re-deriving it from flags.
type ExecutionMode int

const (
	// ModeStandard places a signature-validated call through the telephony
	// provider using a stored agent profile.
	ModeStandard ExecutionMode = iota

	// ModeDevelopment uses the same telephony endpoint with server-side
	// signature validation bypassed. Non-production only; gated behind an
	// explicit configuration opt-in.
	ModeDevelopment

	// ModeDirectAgent routes the call through the speech provider's native
	// calling capability, bypassing the telephony signature path entirely.
	ModeDirectAgent
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeDevelopment:
		return "development"
	case ModeDirectAgent:
		return "direct-agent"
	}
	return "unknown"
}

// DebugFlags tune development calls. Meaningful only under Standard and
// Development; ignored under DirectAgent.
type DebugFlags struct {
	VerboseProtocolTrace bool
	EchoOnly             bool
}

// Warning flags a builder can attach to an otherwise valid request.
const (
	WarningVoiceOverrideIgnored = "voice_override_ignored"
)

// CallRequest is a validated, fully resolved request ready for submission.
// Exactly one of AgentProfileID / DirectAgentID is populated, matching Mode.
type CallRequest struct {
	ProspectID string
	ToNumber   string
	FromNumber string

	Mode ExecutionMode

	AgentProfileID string

	DirectAgentID            string
	DirectAgentPhoneNumberID string

	// VoiceOverride substitutes the agent profile's voice for this call.
	// Empty under DirectAgent: direct-agent sessions use the agent's own
	// voice.
	VoiceOverride string

	Debug DebugFlags

	// Warnings carry non-fatal validation notes (e.g. an ignored voice
	// override) for the caller to surface.
	Warnings []string
}
