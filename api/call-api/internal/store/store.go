// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.

package internal_store

import (
	"context"
	"fmt"

	internal_entity "github.com/prospectdial/api/call-api/internal/entity"
	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/connectors"
	"github.com/prospectdial/pkg/types"
)

// Store is the read-only collaborator over the dashboard's persistent store.
// The orchestrator never writes: call-log persistence is the dashboard's
// responsibility after it observes a terminal state.
type Store interface {
	// GetProspect resolves a prospect by its external identifier.
	GetProspect(ctx context.Context, prospectID string) (*internal_entity.Prospect, error)

	// GetAgentProfile resolves an agent configuration by its external identifier.
	GetAgentProfile(ctx context.Context, profileID string) (*internal_entity.AgentProfile, error)

	// GetTelephonyCredential returns the caller's telephony provider
	// credential from the vault.
	GetTelephonyCredential(ctx context.Context) (*types.VaultCredential, error)

	// GetSpeechCredential returns the caller's speech/AI provider credential
	// from the vault.
	GetSpeechCredential(ctx context.Context) (*types.VaultCredential, error)
}

type postgresStore struct {
	postgres connectors.PostgresConnector
	logger   commons.Logger
}

// NewStore creates the postgres-backed read store.
func NewStore(postgres connectors.PostgresConnector, logger commons.Logger) Store {
	return &postgresStore{postgres: postgres, logger: logger}
}

func (s *postgresStore) GetProspect(ctx context.Context, prospectID string) (*internal_entity.Prospect, error) {
	db := s.postgres.DB(ctx)
	var p internal_entity.Prospect
	if err := db.Where("prospect_id = ?", prospectID).First(&p).Error; err != nil {
		return nil, fmt.Errorf("prospect not found: %s: %w", prospectID, err)
	}
	return &p, nil
}

func (s *postgresStore) GetAgentProfile(ctx context.Context, profileID string) (*internal_entity.AgentProfile, error) {
	db := s.postgres.DB(ctx)
	var a internal_entity.AgentProfile
	if err := db.Where("profile_id = ?", profileID).First(&a).Error; err != nil {
		return nil, fmt.Errorf("agent profile not found: %s: %w", profileID, err)
	}
	return &a, nil
}

func (s *postgresStore) GetTelephonyCredential(ctx context.Context) (*types.VaultCredential, error) {
	return s.credentialByProvider(ctx, internal_entity.ProviderTwilio)
}

func (s *postgresStore) GetSpeechCredential(ctx context.Context) (*types.VaultCredential, error) {
	return s.credentialByProvider(ctx, internal_entity.ProviderElevenLabs)
}

func (s *postgresStore) credentialByProvider(ctx context.Context, provider string) (*types.VaultCredential, error) {
	db := s.postgres.DB(ctx)
	var c internal_entity.Credential
	if err := db.Where("provider = ?", provider).Order("id DESC").First(&c).Error; err != nil {
		return nil, fmt.Errorf("credential not found for provider %s: %w", provider, err)
	}

	cred, err := c.ToVaultCredential()
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("resolved vault credential: provider=%s id=%d", provider, c.Id)
	return cred, nil
}
