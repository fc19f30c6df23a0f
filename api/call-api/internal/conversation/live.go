// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/prospectdial/pkg/commons"
)

// LiveSession is a server-driven transport over a negotiated signed URL.
// Browser-driven test runs connect to the signed URL themselves; server-side
// runs (scripted agent checks) use this instead. Transcript events are
// appended to the owning Session as they arrive.
type LiveSession struct {
	logger  commons.Logger
	session *Session
	conn    *websocket.Conn

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// DialLiveSession connects the signed URL and starts the read pump.
func DialLiveSession(ctx context.Context, logger commons.Logger, session *Session) (*LiveSession, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, session.SignedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect test session %s: %w", session.SessionID, err)
	}

	ls := &LiveSession{
		logger:  logger,
		session: session,
		conn:    conn,
		done:    make(chan struct{}),
	}
	go ls.readLoop()
	return ls, nil
}

// SendText sends one user turn into the conversation.
func (ls *LiveSession) SendText(text string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.session.Append(RoleUser, text, time.Now())
	return ls.conn.WriteJSON(map[string]string{
		"type": "user_text",
		"text": text,
	})
}

// Close tears the socket down. Safe to call more than once.
func (ls *LiveSession) Close() error {
	ls.closeOnce.Do(func() {
		close(ls.done)
		ls.conn.Close()
	})
	return nil
}

// Done closes when the session has ended, from either side.
func (ls *LiveSession) Done() <-chan struct{} {
	return ls.done
}

type baseEvent struct {
	Type string `json:"type"`
}

func (ls *LiveSession) readLoop() {
	defer ls.Close()

	for {
		select {
		case <-ls.done:
			return
		default:
		}

		_, data, err := ls.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ls.logger.Warnf("test session %s socket error: %v", ls.session.SessionID, err)
			}
			return
		}
		ls.handleEvent(data)
	}
}

func (ls *LiveSession) handleEvent(data []byte) {
	var base baseEvent
	if err := json.Unmarshal(data, &base); err != nil {
		ls.logger.Debugf("test session %s: unparseable event: %v", ls.session.SessionID, err)
		return
	}

	switch base.Type {
	case "user_transcript":
		var msg struct {
			UserTranscriptionEvent struct {
				UserTranscript string `json:"user_transcript"`
				IsFinal        bool   `json:"is_final"`
			} `json:"user_transcription_event"`
		}
		if err := json.Unmarshal(data, &msg); err == nil && msg.UserTranscriptionEvent.IsFinal {
			ls.session.Append(RoleUser, msg.UserTranscriptionEvent.UserTranscript, time.Now())
		}

	case "agent_response":
		var msg struct {
			AgentResponse string `json:"agent_response"`
		}
		if err := json.Unmarshal(data, &msg); err == nil {
			ls.session.Append(RoleAgent, msg.AgentResponse, time.Now())
		}

	case "ping":
		ls.mu.Lock()
		ls.conn.WriteJSON(map[string]string{"type": "pong"})
		ls.mu.Unlock()
	}
}
