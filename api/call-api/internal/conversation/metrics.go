// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_conversation

import "time"

// SessionMetrics summarizes a completed test conversation. Derived purely
// from message timestamps already collected; no provider calls.
type SessionMetrics struct {
	MessageCount map[Role]int           `json:"messageCount"`
	MeanLatency  map[Role]time.Duration `json:"meanLatency"`
	Duration     time.Duration          `json:"duration"`
}

// ExtractMetrics computes per-role message counts, per-role mean response
// latency (the gap between a message and the one before it, attributed to
// the responder), and total session duration.
func ExtractMetrics(messages []Message) SessionMetrics {
	metrics := SessionMetrics{
		MessageCount: map[Role]int{},
		MeanLatency:  map[Role]time.Duration{},
	}
	if len(messages) == 0 {
		return metrics
	}

	latencySums := map[Role]time.Duration{}
	latencyCounts := map[Role]int{}

	for i, msg := range messages {
		metrics.MessageCount[msg.Role]++
		if i == 0 {
			continue
		}
		gap := msg.Timestamp.Sub(messages[i-1].Timestamp)
		if gap < 0 {
			gap = 0
		}
		latencySums[msg.Role] += gap
		latencyCounts[msg.Role]++
	}

	for role, sum := range latencySums {
		metrics.MeanLatency[role] = sum / time.Duration(latencyCounts[role])
	}
	metrics.Duration = messages[len(messages)-1].Timestamp.Sub(messages[0].Timestamp)
	return metrics
}
