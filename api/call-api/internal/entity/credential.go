// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/prospectdial/pkg/types"
	"google.golang.org/protobuf/types/known/structpb"
)

// Credential provider identifiers.
const (
	ProviderTwilio     = "twilio"
	ProviderElevenLabs = "elevenlabs"
)

// Credential is a vault row holding a provider credential payload as JSON.
// Payload keys are provider-specific (account_sid/account_token/phone_number
// for twilio, key/agent_phone_number_id for elevenlabs).
type Credential struct {
	Id          uint64    `json:"id" gorm:"type:bigint;primaryKey;<-:create"`
	Provider    string    `json:"provider" gorm:"column:provider;type:varchar(50);not null;index"`
	Name        string    `json:"name" gorm:"column:name;type:varchar(200);not null;default:''"`
	Value       []byte    `json:"-" gorm:"column:value;type:jsonb;not null"`
	CreatedDate time.Time `json:"createdDate" gorm:"type:timestamp;not null;default:NOW();<-:create"`
	UpdatedDate time.Time `json:"updatedDate" gorm:"type:timestamp;default:null"`
}

func (Credential) TableName() string {
	return "vault_credentials"
}

// ToVaultCredential decodes the JSON payload into the shared credential type.
func (c *Credential) ToVaultCredential() (*types.VaultCredential, error) {
	payload := map[string]interface{}{}
	if len(c.Value) > 0 {
		if err := json.Unmarshal(c.Value, &payload); err != nil {
			return nil, fmt.Errorf("malformed credential payload for provider %s: %w", c.Provider, err)
		}
	}
	val, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed credential payload for provider %s: %w", c.Provider, err)
	}
	return &types.VaultCredential{
		Id:       c.Id,
		Name:     c.Name,
		Provider: c.Provider,
		Value:    val,
	}, nil
}
