// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_entity

import "time"

// AgentProfile is the stored configuration for a calling agent: the prompt,
// greeting and voice that drive a standard (telephony-routed) call. Direct
// speech-provider agents are configured on the provider side and referenced
// only by their provider agent id; they do not have an AgentProfile row.
type AgentProfile struct {
	Id           uint64    `json:"id" gorm:"type:bigint;primaryKey;<-:create"`
	ProfileID    string    `json:"profileId" gorm:"column:profile_id;type:varchar(36);not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"column:name;type:varchar(200);not null"`
	Greeting     string    `json:"greeting" gorm:"column:greeting;type:text;not null;default:''"`
	SystemPrompt string    `json:"systemPrompt" gorm:"column:system_prompt;type:text;not null;default:''"`
	VoiceID      string    `json:"voiceId" gorm:"column:voice_id;type:varchar(100);not null;default:''"`
	Language     string    `json:"language" gorm:"column:language;type:varchar(20);not null;default:'en'"`
	CreatedDate  time.Time `json:"createdDate" gorm:"type:timestamp;not null;default:NOW();<-:create"`
	UpdatedDate  time.Time `json:"updatedDate" gorm:"type:timestamp;default:null"`
}

func (AgentProfile) TableName() string {
	return "agent_profiles"
}
