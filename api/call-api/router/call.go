package call_routers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	call_api "github.com/prospectdial/api/call-api/api/call"
	internal_call "github.com/prospectdial/api/call-api/internal/call"
	internal_conversation "github.com/prospectdial/api/call-api/internal/conversation"
	internal_speech_catalog "github.com/prospectdial/api/call-api/internal/speech/catalog"
	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	internal_store "github.com/prospectdial/api/call-api/internal/store"
	internal_twilio_telephony "github.com/prospectdial/api/call-api/internal/telephony/twilio"
	"github.com/prospectdial/config"
	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/connectors"
)

// CallApiRoutes wires the orchestrator behind the v1 route groups. Provider
// clients are built once from the vault credentials at startup; they are
// stateless and shared across concurrent calls.
func CallApiRoutes(
	cfg *config.AppConfig,
	engine *gin.Engine,
	logger commons.Logger,
	postgres connectors.PostgresConnector,
	redis connectors.RedisConnector,
	sink internal_conversation.TranscriptSink,
) {
	store := internal_store.NewStore(postgres, logger)

	bootCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var telephony internal_twilio_telephony.Telephony
	if cred, err := store.GetTelephonyCredential(bootCtx); err != nil {
		logger.Warnf("telephony credential not configured: %v", err)
	} else if telephony, err = internal_twilio_telephony.NewTwilio(logger, cred); err != nil {
		logger.Warnf("telephony client unavailable: %v", err)
	}

	var speech internal_elevenlabs_speech.Speech
	if cred, err := store.GetSpeechCredential(bootCtx); err != nil {
		logger.Warnf("speech credential not configured: %v", err)
	} else if speech, err = internal_elevenlabs_speech.NewElevenLabs(logger, cred); err != nil {
		logger.Warnf("speech client unavailable: %v", err)
	}

	manager := internal_call.NewManager(logger, telephony, speech,
		cfg.VoiceWebhookHost, cfg.DevelopmentCallsEnabled)
	negotiator := internal_conversation.NewNegotiator(logger, speech, sink)

	var catalog *internal_speech_catalog.Catalog
	if speech != nil {
		ttl := time.Duration(cfg.VoiceCatalogTTLSeconds) * time.Second
		catalog = internal_speech_catalog.NewCatalog(logger, speech, redis, ttl)
	}

	api := call_api.NewCallApi(cfg, logger, store, manager, negotiator, catalog)

	callv1 := engine.Group("v1/call")
	{
		callv1.POST("/create", api.CreateCall)
		callv1.GET("/:handleId", api.GetCall)
		callv1.POST("/:handleId/end", api.EndCall)
	}

	conversationv1 := engine.Group("v1/conversation")
	{
		conversationv1.POST("/test-session", api.TestSession)
		conversationv1.POST("/metrics", api.SessionMetrics)
	}

	speechv1 := engine.Group("v1/speech")
	{
		speechv1.GET("/voices", api.ListVoices)
		speechv1.GET("/agents", api.ListAgents)
	}
}
