package internal_conversation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// agentEndpoint is a scripted provider-side conversation socket: it greets,
// echoes the user's turn back as a final transcript, answers pings and hangs
// up.
func agentEndpoint(t *testing.T) http.HandlerFunc {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(map[string]interface{}{
			"type":           "agent_response",
			"agent_response": "hello, this is Ava",
		}); err != nil {
			return
		}

		var userTurn map[string]string
		if err := conn.ReadJSON(&userTurn); err != nil {
			return
		}
		assert.Equal(t, "user_text", userTurn["type"])

		if err := conn.WriteJSON(map[string]interface{}{
			"type": "user_transcript",
			"user_transcription_event": map[string]interface{}{
				"user_transcript": userTurn["text"],
				"is_final":        true,
			},
		}); err != nil {
			return
		}

		if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
			return
		}
		var pong map[string]string
		if err := conn.ReadJSON(&pong); err != nil {
			return
		}
		assert.Equal(t, "pong", pong["type"])

		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

func TestLiveSession_TranscriptRoundTrip(t *testing.T) {
	server := httptest.NewServer(agentEndpoint(t))
	defer server.Close()

	session := &Session{
		SessionID: "s1",
		AgentID:   "d1",
		SignedURL: "ws" + strings.TrimPrefix(server.URL, "http"),
	}

	live, err := DialLiveSession(context.Background(), newTestLogger(), session)
	require.NoError(t, err)
	defer live.Close()

	require.Eventually(t, func() bool {
		return len(session.Messages()) >= 1
	}, time.Second, 5*time.Millisecond, "agent greeting should arrive")

	require.NoError(t, live.SendText("what does it cost"))

	select {
	case <-live.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not close after the server hung up")
	}

	messages := session.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, RoleAgent, messages[0].Role)
	assert.Equal(t, "hello, this is Ava", messages[0].Text)
	// SendText appends locally before the provider echoes the transcript
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "what does it cost", messages[1].Text)
	assert.Equal(t, RoleUser, messages[2].Role)
	assert.Equal(t, "what does it cost", messages[2].Text)
}

func TestLiveSession_DialFailure(t *testing.T) {
	session := &Session{
		SessionID: "s1",
		SignedURL: "ws://127.0.0.1:1/v1/convai/conversation",
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := DialLiveSession(ctx, newTestLogger(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect test session")
}
