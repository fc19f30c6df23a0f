// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	"github.com/prospectdial/pkg/commons"
)

// NegotiationCode classifies a failed negotiation.
type NegotiationCode string

const (
	CredentialMissing    NegotiationCode = "credential_missing"
	SignedUrlUnavailable NegotiationCode = "signed_url_unavailable"
)

// NegotiationError is returned when a test session cannot be opened.
type NegotiationError struct {
	Code            NegotiationCode
	ProviderMessage string
}

func (e *NegotiationError) Error() string {
	if e.ProviderMessage == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.ProviderMessage)
}

// TranscriptSink receives the full transcript when a test session closes.
// Injected so that persistence stays the dashboard's concern; the negotiator
// itself never stores transcripts.
type TranscriptSink interface {
	SaveTranscript(ctx context.Context, session *Session) error
}

// Negotiator obtains signed session URLs for real-time agent test
// conversations and owns the close hook.
type Negotiator struct {
	logger commons.Logger
	speech internal_elevenlabs_speech.Speech
	sink   TranscriptSink
}

// NewNegotiator creates a session negotiator. speech may be nil when no
// speech credential is configured; sink may be nil when nobody wants
// transcripts.
func NewNegotiator(logger commons.Logger, speech internal_elevenlabs_speech.Speech, sink TranscriptSink) *Negotiator {
	return &Negotiator{logger: logger, speech: speech, sink: sink}
}

// Negotiate requests a time-boxed signed URL for a test conversation with
// agentID. Without a configured credential it fails locally; no network call
// is attempted.
func (n *Negotiator) Negotiate(ctx context.Context, agentID string) (*Session, error) {
	if n.speech == nil {
		return nil, &NegotiationError{
			Code:            CredentialMissing,
			ProviderMessage: "no speech credential is configured",
		}
	}

	signed, err := n.speech.GetSignedURL(ctx, agentID)
	if err != nil {
		var provErr *internal_elevenlabs_speech.ProviderError
		if errors.As(err, &provErr) {
			return nil, &NegotiationError{Code: SignedUrlUnavailable, ProviderMessage: provErr.Message}
		}
		return nil, &NegotiationError{Code: SignedUrlUnavailable, ProviderMessage: err.Error()}
	}

	session := &Session{
		SessionID: uuid.New().String(),
		AgentID:   agentID,
		SignedURL: signed.SignedURL,
		IssuedAt:  signed.IssuedAt,
		ExpiresAt: signed.ExpiresAt,
	}
	n.logger.Infof("negotiated test session %s for agent %s", session.SessionID, agentID)
	return session, nil
}

// Close ends a test session. The provider URL self-expires and exposes no
// revocation call today, so this is a hook: it hands the transcript to the
// injected sink and nothing more.
func (n *Negotiator) Close(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}
	if n.sink != nil {
		if err := n.sink.SaveTranscript(ctx, session); err != nil {
			return fmt.Errorf("transcript sink failed for session %s: %w", session.SessionID, err)
		}
	}
	n.logger.Debugf("closed test session %s (%d messages)", session.SessionID, len(session.Messages()))
	return nil
}
