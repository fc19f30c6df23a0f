package call_api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internal_call "github.com/prospectdial/api/call-api/internal/call"
	internal_conversation "github.com/prospectdial/api/call-api/internal/conversation"
	internal_speech_catalog "github.com/prospectdial/api/call-api/internal/speech/catalog"
	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	internal_store "github.com/prospectdial/api/call-api/internal/store"
	"github.com/prospectdial/config"
	"github.com/prospectdial/pkg/commons"
)

// CallApi exposes the orchestrator over HTTP for the dashboard.
type CallApi struct {
	cfg        *config.AppConfig
	logger     commons.Logger
	store      internal_store.Store
	builder    *internal_call.Builder
	manager    *internal_call.Manager
	negotiator *internal_conversation.Negotiator
	catalog    *internal_speech_catalog.Catalog
}

// NewCallApi wires the orchestrator components behind the HTTP surface.
func NewCallApi(
	cfg *config.AppConfig,
	logger commons.Logger,
	store internal_store.Store,
	manager *internal_call.Manager,
	negotiator *internal_conversation.Negotiator,
	catalog *internal_speech_catalog.Catalog,
) *CallApi {
	return &CallApi{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		builder:    internal_call.NewBuilder(logger),
		manager:    manager,
		negotiator: negotiator,
		catalog:    catalog,
	}
}

type createCallRequest struct {
	ProspectID     string `json:"prospectId" binding:"required"`
	AgentProfileID string `json:"agentProfileId"`
	DirectAgentID  string `json:"directAgentId"`
	VoiceOverride  string `json:"voiceOverride"`
	Development    bool   `json:"development"`
	EchoOnly       bool   `json:"echoOnly"`
	ProtocolTrace  bool   `json:"protocolTrace"`
}

// CreateCall validates, builds and submits an outbound call, answering with
// the new handle's snapshot.
func (api *CallApi) CreateCall(c *gin.Context) {
	var body createCallRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		renderError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	prospect, err := api.store.GetProspect(ctx, body.ProspectID)
	if err != nil {
		renderError(c, http.StatusNotFound, "prospect_not_found", err.Error())
		return
	}

	// Credential reads tolerate absence; the builder turns missing records
	// into the matching validation error.
	telephonyCred, err := api.store.GetTelephonyCredential(ctx)
	if err != nil {
		api.logger.Debugf("telephony credential unavailable: %v", err)
		telephonyCred = nil
	}
	speechCred, err := api.store.GetSpeechCredential(ctx)
	if err != nil {
		api.logger.Debugf("speech credential unavailable: %v", err)
		speechCred = nil
	}

	req, err := api.builder.Build(internal_call.BuildInput{
		ProspectID:     body.ProspectID,
		AgentProfileID: body.AgentProfileID,
		DirectAgentID:  body.DirectAgentID,
		VoiceOverride:  body.VoiceOverride,
		Development:    body.Development,
		Debug: internal_call.DebugFlags{
			VerboseProtocolTrace: body.ProtocolTrace,
			EchoOnly:             body.EchoOnly,
		},
	}, prospect, telephonyCred, speechCred)
	if err != nil {
		renderCallError(c, err)
		return
	}

	handle, err := api.manager.Submit(ctx, *req)
	if err != nil {
		renderCallError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handle.Snapshot())
}

// GetCall answers with the current snapshot of a live handle.
func (api *CallApi) GetCall(c *gin.Context) {
	handle, err := api.manager.Handle(c.Param("handleId"))
	if err != nil {
		renderError(c, http.StatusNotFound, "unknown_handle", err.Error())
		return
	}
	c.JSON(http.StatusOK, handle.Snapshot())
}

// EndCall terminates a live call.
func (api *CallApi) EndCall(c *gin.Context) {
	handle, err := api.manager.Handle(c.Param("handleId"))
	if err != nil {
		renderError(c, http.StatusNotFound, "unknown_handle", err.Error())
		return
	}

	result, err := api.manager.End(c.Request.Context(), handle)
	if err != nil {
		renderCallError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":           result.State.Label(),
		"alreadyTerminal": result.AlreadyTerminal,
	})
}

type testSessionRequest struct {
	AgentID string `json:"agentId" binding:"required"`
}

// TestSession negotiates a signed URL for a real-time agent test
// conversation.
func (api *CallApi) TestSession(c *gin.Context) {
	var body testSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		renderError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	session, err := api.negotiator.Negotiate(c.Request.Context(), body.AgentID)
	if err != nil {
		renderCallError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type sessionMetricsRequest struct {
	Messages []internal_conversation.Message `json:"messages" binding:"required"`
}

// SessionMetrics computes metrics over a completed test conversation's
// transcript.
func (api *CallApi) SessionMetrics(c *gin.Context) {
	var body sessionMetricsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		renderError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	metrics := internal_conversation.ExtractMetrics(body.Messages)
	c.JSON(http.StatusOK, gin.H{
		"messageCount":  metrics.MessageCount,
		"meanLatencyMs": latencyMillis(metrics.MeanLatency),
		"durationMs":    metrics.Duration.Milliseconds(),
	})
}

func latencyMillis(latency map[internal_conversation.Role]time.Duration) map[internal_conversation.Role]int64 {
	out := map[internal_conversation.Role]int64{}
	for role, d := range latency {
		out[role] = d.Milliseconds()
	}
	return out
}

// ListVoices answers with the speech provider's voice catalog.
func (api *CallApi) ListVoices(c *gin.Context) {
	if api.catalog == nil {
		renderError(c, http.StatusServiceUnavailable, "credential_missing", "no speech credential configured")
		return
	}
	voices, err := api.catalog.Voices(c.Request.Context())
	if err != nil {
		renderCallError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

// ListAgents answers with the speech provider's agent list.
func (api *CallApi) ListAgents(c *gin.Context) {
	if api.catalog == nil {
		renderError(c, http.StatusServiceUnavailable, "credential_missing", "no speech credential configured")
		return
	}
	agents, err := api.catalog.Agents(c.Request.Context())
	if err != nil {
		renderCallError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func renderError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"code": code, "message": message})
}

// renderCallError maps the orchestrator's error taxonomy onto HTTP shapes:
// validation errors are the caller's to fix, rejections and timeouts come
// from the provider.
func renderCallError(c *gin.Context, err error) {
	var validationErr *internal_call.ValidationError
	if errors.As(err, &validationErr) {
		renderError(c, http.StatusBadRequest, string(validationErr.Code), validationErr.Message)
		return
	}

	var rejected *internal_call.CallRejected
	if errors.As(err, &rejected) {
		renderError(c, http.StatusBadGateway, rejected.ProviderErrorCode, rejected.Message)
		return
	}

	var timeout *internal_call.ProviderTimeout
	if errors.As(err, &timeout) {
		renderError(c, http.StatusGatewayTimeout, "provider_timeout", timeout.Error())
		return
	}

	var termFailed *internal_call.TerminationFailed
	if errors.As(err, &termFailed) {
		renderError(c, http.StatusBadGateway, "termination_failed", termFailed.Error())
		return
	}

	var negotiationErr *internal_conversation.NegotiationError
	if errors.As(err, &negotiationErr) {
		status := http.StatusBadGateway
		if negotiationErr.Code == internal_conversation.CredentialMissing {
			status = http.StatusPreconditionFailed
		}
		message := negotiationErr.ProviderMessage
		if message == "" {
			message = negotiationErr.Error()
		}
		renderError(c, status, string(negotiationErr.Code), message)
		return
	}

	var provErr *internal_elevenlabs_speech.ProviderError
	if errors.As(err, &provErr) {
		renderError(c, http.StatusBadGateway, "provider_error", provErr.Message)
		return
	}

	renderError(c, http.StatusInternalServerError, "internal_error", err.Error())
}
