// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.
package internal_speech_catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	internal_elevenlabs_speech "github.com/prospectdial/api/call-api/internal/speech/elevenlabs"
	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/connectors"
)

const (
	voicesCacheKey = "speech:catalog:voices"
	agentsCacheKey = "speech:catalog:agents"
)

// Catalog serves the provider's voice and agent lists with a short-lived
// redis cache in front. The dashboard polls these pickers far more often than
// the catalog changes.
type Catalog struct {
	logger commons.Logger
	speech internal_elevenlabs_speech.Speech
	redis  connectors.RedisConnector
	ttl    time.Duration
}

// NewCatalog builds the cached catalog. ttl <= 0 disables caching.
func NewCatalog(logger commons.Logger, speech internal_elevenlabs_speech.Speech, redisConn connectors.RedisConnector, ttl time.Duration) *Catalog {
	return &Catalog{logger: logger, speech: speech, redis: redisConn, ttl: ttl}
}

// Voices returns the voice catalog, cached.
func (c *Catalog) Voices(ctx context.Context) ([]internal_elevenlabs_speech.Voice, error) {
	var cached []internal_elevenlabs_speech.Voice
	if c.readCache(ctx, voicesCacheKey, &cached) {
		return cached, nil
	}

	voices, err := c.speech.ListVoices(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, voicesCacheKey, voices)
	return voices, nil
}

// Agents returns the provider-side agent list, cached.
func (c *Catalog) Agents(ctx context.Context) ([]internal_elevenlabs_speech.Agent, error) {
	var cached []internal_elevenlabs_speech.Agent
	if c.readCache(ctx, agentsCacheKey, &cached) {
		return cached, nil
	}

	agents, err := c.speech.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, agentsCacheKey, agents)
	return agents, nil
}

func (c *Catalog) readCache(ctx context.Context, key string, out interface{}) bool {
	if c.ttl <= 0 || c.redis == nil {
		return false
	}
	raw, err := c.redis.Client().Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnf("catalog cache read failed: key=%s err=%v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.Warnf("catalog cache payload corrupt: key=%s err=%v", key, err)
		return false
	}
	return true
}

func (c *Catalog) writeCache(ctx context.Context, key string, value interface{}) {
	if c.ttl <= 0 || c.redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Client().Set(ctx, key, raw, c.ttl).Err(); err != nil {
		// cache miss next time, nothing lost
		c.logger.Warnf("catalog cache write failed: key=%s err=%v", key, err)
	}
}
