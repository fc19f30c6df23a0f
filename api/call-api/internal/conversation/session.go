// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_conversation

import (
	"sync"
	"time"
)

// Role identifies the speaker of a session message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one turn of a test conversation.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a negotiated real-time test conversation with an agent. The
// signed URL is single-use and short-lived. Once opened the session is owned
// by whoever drives the exchange (browser or LiveSession); this subsystem
// never persists it.
type Session struct {
	SessionID string    `json:"sessionId"`
	AgentID   string    `json:"agentId"`
	SignedURL string    `json:"signedUrl"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	mu       sync.Mutex
	messages []Message
}

// Append records one message. Messages keep arrival order.
func (s *Session) Append(role Role, text string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{Role: role, Text: text, Timestamp: at})
}

// Messages returns a copy of the transcript so far.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
