package internal_conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	"github.com/prospectdial/pkg/commons"
)

func newTestLogger() commons.Logger {
	l, _ := commons.NewApplicationLogger()
	return l
}

type fakeSpeech struct {
	internal_elevenlabs_speech.Speech
	signedErr error
	calls     int
}

func (f *fakeSpeech) GetSignedURL(_ context.Context, agentID string) (*internal_elevenlabs_speech.SignedSession, error) {
	f.calls++
	if f.signedErr != nil {
		return nil, f.signedErr
	}
	now := time.Now()
	return &internal_elevenlabs_speech.SignedSession{
		AgentID:   agentID,
		SignedURL: "wss://example/signed?token=abc",
		IssuedAt:  now,
		ExpiresAt: now.Add(15 * time.Minute),
	}, nil
}

type recordingSink struct {
	saved   []*Session
	saveErr error
}

func (r *recordingSink) SaveTranscript(_ context.Context, session *Session) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, session)
	return nil
}

func TestNegotiate_OpensSession(t *testing.T) {
	speech := &fakeSpeech{}
	n := NewNegotiator(newTestLogger(), speech, nil)

	session, err := n.Negotiate(context.Background(), "d1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, "d1", session.AgentID)
	assert.Equal(t, "wss://example/signed?token=abc", session.SignedURL)
	assert.True(t, session.ExpiresAt.After(session.IssuedAt))
}

func TestNegotiate_NoCredentialFailsWithoutNetwork(t *testing.T) {
	n := NewNegotiator(newTestLogger(), nil, nil)

	_, err := n.Negotiate(context.Background(), "d1")

	var negErr *NegotiationError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, CredentialMissing, negErr.Code)
}

func TestNegotiate_ProviderErrorSurfaced(t *testing.T) {
	speech := &fakeSpeech{signedErr: &internal_elevenlabs_speech.ProviderError{
		StatusCode: 404,
		Message:    "agent not found",
	}}
	n := NewNegotiator(newTestLogger(), speech, nil)

	_, err := n.Negotiate(context.Background(), "missing")

	var negErr *NegotiationError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, SignedUrlUnavailable, negErr.Code)
	assert.Equal(t, "agent not found", negErr.ProviderMessage)
}

func TestNegotiate_TransportErrorSurfaced(t *testing.T) {
	speech := &fakeSpeech{signedErr: errors.New("dial tcp: connection refused")}
	n := NewNegotiator(newTestLogger(), speech, nil)

	_, err := n.Negotiate(context.Background(), "d1")

	var negErr *NegotiationError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, SignedUrlUnavailable, negErr.Code)
	assert.Contains(t, negErr.ProviderMessage, "connection refused")
}

func TestClose_HandsTranscriptToSink(t *testing.T) {
	speech := &fakeSpeech{}
	sink := &recordingSink{}
	n := NewNegotiator(newTestLogger(), speech, sink)

	session, err := n.Negotiate(context.Background(), "d1")
	require.NoError(t, err)
	session.Append(RoleUser, "hello", time.Now())
	session.Append(RoleAgent, "hi there", time.Now())

	require.NoError(t, n.Close(context.Background(), session))
	require.Len(t, sink.saved, 1)
	assert.Len(t, sink.saved[0].Messages(), 2)
}

func TestClose_SinkFailurePropagates(t *testing.T) {
	sink := &recordingSink{saveErr: errors.New("disk full")}
	n := NewNegotiator(newTestLogger(), &fakeSpeech{}, sink)

	session, err := n.Negotiate(context.Background(), "d1")
	require.NoError(t, err)

	err = n.Close(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestClose_NilSessionAndNilSink(t *testing.T) {
	n := NewNegotiator(newTestLogger(), &fakeSpeech{}, nil)

	assert.NoError(t, n.Close(context.Background(), nil))

	session, err := n.Negotiate(context.Background(), "d1")
	require.NoError(t, err)
	assert.NoError(t, n.Close(context.Background(), session))
}
