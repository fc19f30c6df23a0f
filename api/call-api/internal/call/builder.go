// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

import (
	internal_entity "github.com/prospectdial/api/call-api/internal/entity"
	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	internal_twilio_telephony "github.com/prospectdial/api/call-api/internal/telephony/twilio"
	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/types"
	"github.com/prospectdial/pkg/utils"
)

// BuildInput is what the caller knows before validation: identifiers and
// flags straight from the dashboard.
type BuildInput struct {
	ProspectID     string
	AgentProfileID string
	DirectAgentID  string
	VoiceOverride  string
	Development    bool
	Debug          DebugFlags
}

// Builder validates and assembles call requests. Pure validation and
// assembly: the builder performs no network or store calls, which keeps it
// synchronous and trivially testable. Collaborator records (prospect,
// credentials) are fetched by the caller and passed in.
type Builder struct {
	logger commons.Logger
}

// NewBuilder creates a call request builder.
func NewBuilder(logger commons.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build resolves the execution strategy and validates every precondition for
// it. On success the returned request satisfies the invariant that exactly
// one of AgentProfileID / DirectAgentID is set.
func (b *Builder) Build(
	input BuildInput,
	prospect *internal_entity.Prospect,
	telephonyCredential *types.VaultCredential,
	speechCredential *types.VaultCredential,
) (*CallRequest, error) {
	hasProfile := !utils.IsEmpty(input.AgentProfileID)
	hasDirectAgent := !utils.IsEmpty(input.DirectAgentID)

	if !hasProfile && !hasDirectAgent {
		return nil, &ValidationError{
			Code:    MissingAgentSelection,
			Message: "select an agent profile or a direct agent before calling",
		}
	}
	if hasProfile && hasDirectAgent {
		return nil, &ValidationError{
			Code:    ConflictingAgentSelection,
			Message: "an agent profile and a direct agent cannot both be selected",
		}
	}

	if prospect == nil || !utils.IsE164(prospect.PhoneNumber) {
		return nil, &ValidationError{
			Code:    InvalidProspectNumber,
			Message: "prospect has no callable phone number",
		}
	}

	req := &CallRequest{
		ProspectID: input.ProspectID,
		ToNumber:   prospect.PhoneNumber,
		Debug:      input.Debug,
	}

	if hasDirectAgent {
		return b.buildDirectAgent(req, input, speechCredential)
	}
	return b.buildTelephony(req, input, telephonyCredential)
}

func (b *Builder) buildDirectAgent(req *CallRequest, input BuildInput, speechCredential *types.VaultCredential) (*CallRequest, error) {
	binding := internal_elevenlabs_speech.PhoneNumberBinding(speechCredential)
	if utils.IsEmpty(binding) {
		return nil, &ValidationError{
			Code:    MissingPhoneNumberBinding,
			Message: "no phone-number binding is configured with the speech provider",
		}
	}

	req.Mode = ModeDirectAgent
	req.DirectAgentID = input.DirectAgentID
	req.DirectAgentPhoneNumberID = binding

	// Direct-agent sessions use the agent's own voice; app-side substitution
	// is not supported by the provider.
	if !utils.IsEmpty(input.VoiceOverride) {
		req.Warnings = append(req.Warnings, WarningVoiceOverrideIgnored)
		b.logger.Debugf("voice override %q ignored for direct-agent call to prospect %s",
			input.VoiceOverride, input.ProspectID)
	}
	return req, nil
}

func (b *Builder) buildTelephony(req *CallRequest, input BuildInput, telephonyCredential *types.VaultCredential) (*CallRequest, error) {
	if telephonyCredential == nil {
		return nil, &ValidationError{
			Code:    IncompleteTelephonyCredentials,
			Message: "no telephony credentials are configured",
		}
	}
	cfg, err := internal_twilio_telephony.ParseTelephonyConfig(telephonyCredential)
	if err != nil {
		return nil, &ValidationError{
			Code:    IncompleteTelephonyCredentials,
			Message: err.Error(),
		}
	}

	req.Mode = ModeStandard
	if input.Development {
		req.Mode = ModeDevelopment
	}
	req.AgentProfileID = input.AgentProfileID
	req.FromNumber = cfg.PhoneNumber
	req.VoiceOverride = input.VoiceOverride
	return req, nil
}
