// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.
package internal_elevenlabs_speech

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/types"
	"github.com/prospectdial/pkg/utils"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	apiTimeout     = 30 * time.Second
)

// Voice is one entry of the provider's voice catalog.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Agent is one conversational agent configured on the provider.
type Agent struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
}

// SignedSession is the provider's answer to a signed-URL request. The URL is
// single-use and expires on the provider's schedule; treat ExpiresAt as
// advisory.
type SignedSession struct {
	AgentID   string
	SignedURL string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AgentCall is the provider's view of a native agent-placed call.
type AgentCall struct {
	ConversationID string
	CallID         string
}

// AgentCallParams places a call through the provider's own telephony
// integration. PhoneNumberID references a number binding registered with the
// provider out-of-band.
type AgentCallParams struct {
	AgentID       string
	PhoneNumberID string
	ToNumber      string
}

// Speech is the speech/AI half of the provider client. Implementations are
// stateless and safe for concurrent use.
type Speech interface {
	ListVoices(ctx context.Context) ([]Voice, error)
	ListAgents(ctx context.Context) ([]Agent, error)
	GetSignedURL(ctx context.Context, agentID string) (*SignedSession, error)
	PlaceAgentCall(ctx context.Context, params AgentCallParams) (*AgentCall, error)
	AgentCallStatus(ctx context.Context, conversationID string) (string, error)
}

// ProviderError preserves the provider's rejection payload so callers can
// render actionable guidance.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("speech provider error (status %d): %s", e.StatusCode, e.Message)
}

type elv struct {
	logger commons.Logger
	client *resty.Client
}

// SpeechOption overrides client construction. Tests use WithBaseURL to point
// the client at a local server.
type SpeechOption func(*resty.Client)

// WithBaseURL points the client at an alternate API host.
func WithBaseURL(base string) SpeechOption {
	return func(c *resty.Client) {
		c.SetBaseURL(base)
	}
}

// NewElevenLabs builds the speech client from a vault credential. The payload
// must carry the api key under "key".
func NewElevenLabs(logger commons.Logger, vaultCredential *types.VaultCredential, opts ...SpeechOption) (Speech, error) {
	apiKey, err := utils.Option(vaultCredential.GetValue().AsMap()).GetString("key")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config key is not found")
	}
	if utils.IsEmpty(apiKey) {
		return nil, fmt.Errorf("illegal vault config key is empty")
	}

	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(apiTimeout).
		SetHeader("xi-api-key", apiKey)
	for _, opt := range opts {
		opt(client)
	}
	return &elv{logger: logger, client: client}, nil
}

// PhoneNumberBinding extracts the provider-side phone-number binding from a
// vault credential, empty when none is configured. The binding is registered
// with the provider out-of-band; this code only requires its presence for
// direct-agent calls.
func PhoneNumberBinding(vaultCredential *types.VaultCredential) string {
	binding, err := utils.Option(vaultCredential.GetValue().AsMap()).GetString("agent_phone_number_id")
	if err != nil {
		return ""
	}
	return binding
}

func (e *elv) ListVoices(ctx context.Context) ([]Voice, error) {
	var out struct {
		Voices []Voice `json:"voices"`
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/voices")
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	if resp.IsError() {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}
	return out.Voices, nil
}

func (e *elv) ListAgents(ctx context.Context) ([]Agent, error) {
	var out struct {
		Agents []Agent `json:"agents"`
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/convai/agents")
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	if resp.IsError() {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}
	return out.Agents, nil
}

func (e *elv) GetSignedURL(ctx context.Context, agentID string) (*SignedSession, error) {
	var out struct {
		SignedURL string `json:"signed_url"`
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetQueryParam("agent_id", agentID).
		SetResult(&out).
		Get("/v1/convai/conversation/get_signed_url")
	if err != nil {
		return nil, fmt.Errorf("failed to get signed url: %w", err)
	}
	if resp.IsError() {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}

	now := time.Now()
	return &SignedSession{
		AgentID:   agentID,
		SignedURL: out.SignedURL,
		IssuedAt:  now,
		// The provider does not return an expiry; signed urls are documented
		// as short-lived. Fifteen minutes matches observed behavior.
		ExpiresAt: now.Add(15 * time.Minute),
	}, nil
}

func (e *elv) PlaceAgentCall(ctx context.Context, params AgentCallParams) (*AgentCall, error) {
	var out struct {
		Success        bool   `json:"success"`
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id"`
		CallSid        string `json:"callSid"`
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"agent_id":              params.AgentID,
			"agent_phone_number_id": params.PhoneNumberID,
			"to_number":             params.ToNumber,
		}).
		SetResult(&out).
		Post("/v1/convai/twilio/outbound-call")
	if err != nil {
		return nil, fmt.Errorf("failed to place agent call: %w", err)
	}
	if resp.IsError() {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}
	if !out.Success {
		return nil, &ProviderError{StatusCode: resp.StatusCode(), Message: out.Message}
	}

	e.logger.Infof("placed agent call: agent=%s conversation=%s sid=%s",
		params.AgentID, out.ConversationID, out.CallSid)
	return &AgentCall{ConversationID: out.ConversationID, CallID: out.CallSid}, nil
}

func (e *elv) AgentCallStatus(ctx context.Context, conversationID string) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/convai/conversations/" + conversationID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch agent call status: %w", err)
	}
	if resp.IsError() {
		return "", &ProviderError{StatusCode: resp.StatusCode(), Message: string(resp.Body())}
	}
	return out.Status, nil
}
