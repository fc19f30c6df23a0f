// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_call

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	twilioclient "github.com/twilio/twilio-go/client"

	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	internal_twilio_telephony "github.com/prospectdial/api/call-api/internal/telephony/twilio"
	"github.com/prospectdial/pkg/commons"
)

const (
	defaultSubmitTimeout = 15 * time.Second
	defaultEndTimeout    = 15 * time.Second
	defaultPollInterval  = 5 * time.Second
	defaultWatchBudget   = 10 * time.Minute
)

// TerminationResult reports the outcome of End.
type TerminationResult struct {
	State             CallState
	AlreadyTerminal   bool
	ProviderContacted bool
}

// Manager owns every live CallHandle: it submits validated requests through
// the strategy selected by their execution mode, starts exactly one status
// watch per handle, and serializes termination.
type Manager struct {
	logger             commons.Logger
	telephony          internal_twilio_telephony.Telephony
	speech             internal_elevenlabs_speech.Speech
	webhookBase        string
	developmentEnabled bool

	submitTimeout time.Duration
	endTimeout    time.Duration
	pollInterval  time.Duration
	watchBudget   time.Duration

	mu      sync.Mutex
	handles map[string]*CallHandle
	watches map[string]*watchLoop
}

// ManagerOption overrides manager defaults; tests shrink the timers.
type ManagerOption func(*Manager)

// WithSubmitTimeout bounds Submit.
func WithSubmitTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.submitTimeout = d }
}

// WithEndTimeout bounds End.
func WithEndTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.endTimeout = d }
}

// WithPollInterval sets the reconciliation tick.
func WithPollInterval(d time.Duration) ManagerOption {
	return func(m *Manager) { m.pollInterval = d }
}

// WithWatchBudget caps how long a watch may run without seeing a terminal
// state.
func WithWatchBudget(d time.Duration) ManagerOption {
	return func(m *Manager) { m.watchBudget = d }
}

// NewManager creates the lifecycle manager. webhookBase is the externally
// reachable host the telephony provider fetches call instructions from;
// developmentEnabled gates the signature-bypass strategy.
func NewManager(
	logger commons.Logger,
	telephony internal_twilio_telephony.Telephony,
	speech internal_elevenlabs_speech.Speech,
	webhookBase string,
	developmentEnabled bool,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		logger:             logger,
		telephony:          telephony,
		speech:             speech,
		webhookBase:        webhookBase,
		developmentEnabled: developmentEnabled,
		submitTimeout:      defaultSubmitTimeout,
		endTimeout:         defaultEndTimeout,
		pollInterval:       defaultPollInterval,
		watchBudget:        defaultWatchBudget,
		handles:            map[string]*CallHandle{},
		watches:            map[string]*watchLoop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit places the call using the strategy the request's mode selects.
// Exactly one provider call executes per Submit. On success the returned
// handle starts at Queued with its status watch already attached; on failure
// no handle exists. Cancelling mid-flight is deliberately unsupported: wait
// for Submit to resolve before calling End.
func (m *Manager) Submit(ctx context.Context, req CallRequest) (*CallHandle, error) {
	if req.Mode == ModeDevelopment && !m.developmentEnabled {
		return nil, &ValidationError{
			Code:    DevelopmentModeDisabled,
			Message: "development calls are not enabled in this environment",
		}
	}

	submitCtx, cancel := context.WithTimeout(ctx, m.submitTimeout)
	defer cancel()

	var providerCallID, statusRef string
	switch req.Mode {
	case ModeStandard, ModeDevelopment:
		// The router builds the manager with a nil client when no credential
		// exists at boot; a credential added later passes the builder but
		// cannot be used until the service restarts with a configured client.
		if m.telephony == nil {
			return nil, &CallRejected{
				ProviderErrorCode: "missing_credential",
				Message:           "no telephony client is configured for this environment",
			}
		}
		placed, err := m.telephony.PlaceCall(submitCtx, internal_twilio_telephony.PlaceCallParams{
			To:       req.ToNumber,
			From:     req.FromNumber,
			VoiceURL: m.voiceURL(req),
		})
		if err != nil {
			return nil, m.submitError(err)
		}
		providerCallID = placed.CallID
		statusRef = placed.CallID

	case ModeDirectAgent:
		if m.speech == nil {
			return nil, &CallRejected{
				ProviderErrorCode: "missing_credential",
				Message:           "no speech client is configured for this environment",
			}
		}
		placed, err := m.speech.PlaceAgentCall(submitCtx, internal_elevenlabs_speech.AgentCallParams{
			AgentID:       req.DirectAgentID,
			PhoneNumberID: req.DirectAgentPhoneNumberID,
			ToNumber:      req.ToNumber,
		})
		if err != nil {
			return nil, m.submitError(err)
		}
		providerCallID = placed.CallID
		statusRef = placed.ConversationID
	}

	handle := newCallHandle(uuid.New().String(), providerCallID, statusRef, req)

	m.mu.Lock()
	m.handles[handle.HandleID] = handle
	m.mu.Unlock()

	if err := m.Watch(handle); err != nil {
		// unreachable for a freshly minted handle id, but never leave a
		// handle dark
		m.logger.Errorf("failed to attach watch for handle %s: %v", handle.HandleID, err)
	}

	m.logger.Infof("submitted %s call: handle=%s provider_call=%s prospect=%s",
		req.Mode, handle.HandleID, providerCallID, req.ProspectID)
	return handle, nil
}

// submitError classifies a provider failure. Structured rejections keep the
// provider's code; deadline hits become ProviderTimeout; anything else is
// passed through for the caller to surface without automatic retry.
func (m *Manager) submitError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderTimeout{Op: "submit"}
	}

	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return &CallRejected{
			ProviderErrorCode: strconv.Itoa(restErr.Code),
			Message:           restErr.Message,
		}
	}

	var provErr *internal_elevenlabs_speech.ProviderError
	if errors.As(err, &provErr) {
		return &CallRejected{
			ProviderErrorCode: strconv.Itoa(provErr.StatusCode),
			Message:           provErr.Message,
		}
	}
	return err
}

func (m *Manager) voiceURL(req CallRequest) string {
	opts := internal_twilio_telephony.VoiceURLOptions{
		VoiceID: req.VoiceOverride,
	}
	if req.Mode == ModeDevelopment {
		opts.BypassSignature = true
		opts.EchoOnly = req.Debug.EchoOnly
		opts.ProtocolTrace = req.Debug.VerboseProtocolTrace
	}
	return internal_twilio_telephony.VoiceInstructionURL(m.webhookBase, req.AgentProfileID, opts)
}

// Watch attaches the single status reconciliation loop for a handle. A
// second watch on the same handle is a caller error, rejected so duplicate
// state transitions cannot happen.
func (m *Manager) Watch(handle *CallHandle) error {
	query := m.statusQuery(handle)
	m.mu.Lock()
	if _, exists := m.watches[handle.HandleID]; exists {
		m.mu.Unlock()
		return ErrWatchActive
	}
	loop := newWatchLoop(m.logger, handle, query, m.pollInterval, m.watchBudget, func() {
		m.mu.Lock()
		delete(m.watches, handle.HandleID)
		m.mu.Unlock()
	})
	m.watches[handle.HandleID] = loop
	m.mu.Unlock()

	loop.start()
	return nil
}

func (m *Manager) statusQuery(handle *CallHandle) statusQueryFunc {
	if handle.Request.Mode == ModeDirectAgent {
		ref := handle.StatusRef
		return func(ctx context.Context) (string, error) {
			return m.speech.AgentCallStatus(ctx, ref)
		}
	}
	id := handle.ProviderCallID
	return func(ctx context.Context) (string, error) {
		return m.telephony.CallStatus(ctx, id)
	}
}

// Handle resolves a live handle by id.
func (m *Manager) Handle(handleID string) (*CallHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handle, ok := m.handles[handleID]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return handle, nil
}

// CurrentState returns the handle's current state.
func (m *Manager) CurrentState(handle *CallHandle) CallState {
	return handle.State()
}

// End terminates a call. Idempotent: a handle already in a terminal state
// returns success without contacting the provider. Concurrent callers are
// serialized per handle so at most one termination request goes out; on an
// ambiguous provider failure the state is left unchanged and the caller may
// retry.
func (m *Manager) End(ctx context.Context, handle *CallHandle) (*TerminationResult, error) {
	handle.endMu.Lock()
	defer handle.endMu.Unlock()

	if state := handle.State(); state.IsTerminal() {
		return &TerminationResult{State: state, AlreadyTerminal: true}, nil
	}

	if m.telephony == nil || handle.ProviderCallID == "" {
		return nil, &TerminationFailed{Cause: errors.New("no telephony reference for this call")}
	}

	endCtx, cancel := context.WithTimeout(ctx, m.endTimeout)
	defer cancel()

	if err := m.telephony.EndCall(endCtx, handle.ProviderCallID); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ProviderTimeout{Op: "end"}
		}
		return nil, &TerminationFailed{Cause: err}
	}

	handle.advance(StateCanceled)
	m.cancelWatch(handle.HandleID)

	m.logger.Infof("ended call: handle=%s provider_call=%s", handle.HandleID, handle.ProviderCallID)
	return &TerminationResult{State: handle.State(), ProviderContacted: true}, nil
}

// Detach drops a handle from the registry and cancels its watch. Used when
// the owner is done observing a terminal handle.
func (m *Manager) Detach(handleID string) {
	m.cancelWatch(handleID)
	m.mu.Lock()
	delete(m.handles, handleID)
	m.mu.Unlock()
}

func (m *Manager) cancelWatch(handleID string) {
	m.mu.Lock()
	loop := m.watches[handleID]
	m.mu.Unlock()
	if loop != nil {
		loop.Cancel()
	}
}

// WatchDone exposes the watch completion channel for a handle, nil when no
// watch is active. Tests use it to wait for loop shutdown.
func (m *Manager) WatchDone(handleID string) <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loop, ok := m.watches[handleID]; ok {
		return loop.Done()
	}
	return nil
}
