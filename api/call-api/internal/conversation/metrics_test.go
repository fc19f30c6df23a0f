package internal_conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetrics_Empty(t *testing.T) {
	metrics := ExtractMetrics(nil)
	assert.Empty(t, metrics.MessageCount)
	assert.Empty(t, metrics.MeanLatency)
	assert.Zero(t, metrics.Duration)
}

func TestExtractMetrics_AlternatingTurns(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	messages := []Message{
		{Role: RoleAgent, Text: "hello, this is Ava", Timestamp: base},
		{Role: RoleUser, Text: "hi", Timestamp: base.Add(2 * time.Second)},
		{Role: RoleAgent, Text: "how can I help", Timestamp: base.Add(3 * time.Second)},
		{Role: RoleUser, Text: "pricing please", Timestamp: base.Add(7 * time.Second)},
		{Role: RoleAgent, Text: "sure", Timestamp: base.Add(8 * time.Second)},
	}

	metrics := ExtractMetrics(messages)

	assert.Equal(t, 3, metrics.MessageCount[RoleAgent])
	assert.Equal(t, 2, metrics.MessageCount[RoleUser])
	// agent gaps: 1s and 1s; user gaps: 2s and 4s
	assert.Equal(t, time.Second, metrics.MeanLatency[RoleAgent])
	assert.Equal(t, 3*time.Second, metrics.MeanLatency[RoleUser])
	assert.Equal(t, 8*time.Second, metrics.Duration)
}

func TestExtractMetrics_SingleMessage(t *testing.T) {
	metrics := ExtractMetrics([]Message{
		{Role: RoleAgent, Text: "hello", Timestamp: time.Now()},
	})

	assert.Equal(t, 1, metrics.MessageCount[RoleAgent])
	assert.Empty(t, metrics.MeanLatency)
	assert.Zero(t, metrics.Duration)
}

func TestExtractMetrics_OutOfOrderTimestampsClamped(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	messages := []Message{
		{Role: RoleAgent, Text: "a", Timestamp: base.Add(time.Second)},
		{Role: RoleUser, Text: "b", Timestamp: base}, // clock skew
		{Role: RoleAgent, Text: "c", Timestamp: base.Add(4 * time.Second)},
	}

	metrics := ExtractMetrics(messages)

	assert.Equal(t, time.Duration(0), metrics.MeanLatency[RoleUser])
	assert.Equal(t, 4*time.Second, metrics.MeanLatency[RoleAgent])
	assert.Equal(t, 3*time.Second, metrics.Duration)
}
