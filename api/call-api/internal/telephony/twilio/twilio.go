// Copyright (c) 2024-2026 ProspectDial
// Author: ProspectDial Engineering <engineering@prospectdial.io>
//
// Licensed under GPL-2.0 with ProspectDial Additional Terms.
// See LICENSE.md or contact sales@prospectdial.io for commercial usage.
package internal_twilio_telephony

import (
	"context"
	"fmt"
	"net/url"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/types"
	"github.com/prospectdial/pkg/utils"
)

// ProviderCall is the provider's view of a placed call.
type ProviderCall struct {
	CallID string
	Status string
}

// PlaceCallParams carries everything needed to place one outbound call.
// VoiceURL is the instruction document the provider fetches once the callee
// answers.
type PlaceCallParams struct {
	To       string
	From     string
	VoiceURL string
}

// Telephony is the telephony half of the provider client. Implementations are
// stateless and safe for concurrent use.
type Telephony interface {
	PlaceCall(ctx context.Context, params PlaceCallParams) (*ProviderCall, error)
	CallStatus(ctx context.Context, callID string) (string, error)
	EndCall(ctx context.Context, callID string) error
}

// TelephonyConfig is the parsed, validated credential payload for the
// calling account.
type TelephonyConfig struct {
	AccountSid   string
	AccountToken string
	PhoneNumber  string
}

type twl struct {
	logger commons.Logger
	client *twilio.RestClient
	config TelephonyConfig
}

// NewTwilio builds the telephony client from a vault credential.
func NewTwilio(logger commons.Logger, vaultCredential *types.VaultCredential) (Telephony, error) {
	cfg, err := ParseTelephonyConfig(vaultCredential)
	if err != nil {
		return nil, err
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSid,
		Password: cfg.AccountToken,
	})
	return &twl{logger: logger, client: client, config: *cfg}, nil
}

// ParseTelephonyConfig extracts and validates the telephony credential
// payload. Validation only: no network call is made here.
func ParseTelephonyConfig(vaultCredential *types.VaultCredential) (*TelephonyConfig, error) {
	values := utils.Option(vaultCredential.GetValue().AsMap())

	accountSid, err := values.GetString("account_sid")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config account_sid is not found")
	}
	accountToken, err := values.GetString("account_token")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config account_token is not found")
	}
	phoneNumber, err := values.GetString("phone_number")
	if err != nil {
		return nil, fmt.Errorf("illegal vault config phone_number is not found")
	}

	cfg := &TelephonyConfig{
		AccountSid:   accountSid,
		AccountToken: accountToken,
		PhoneNumber:  phoneNumber,
	}
	if utils.IsEmpty(cfg.AccountSid) || utils.IsEmpty(cfg.AccountToken) {
		return nil, fmt.Errorf("illegal vault config account credentials are empty")
	}
	if !utils.IsE164(cfg.PhoneNumber) {
		return nil, fmt.Errorf("illegal vault config phone_number is not E.164: %q", cfg.PhoneNumber)
	}
	return cfg, nil
}

func (tpc *twl) PlaceCall(ctx context.Context, params PlaceCallParams) (*ProviderCall, error) {
	create := &openapi.CreateCallParams{}
	create.SetTo(params.To)
	create.SetFrom(params.From)
	create.SetUrl(params.VoiceURL)

	resp, err := await(ctx, func() (*openapi.ApiV2010Call, error) {
		return tpc.client.Api.CreateCall(create)
	})
	if err != nil {
		return nil, err
	}

	call := &ProviderCall{}
	if resp.Sid != nil {
		call.CallID = *resp.Sid
	}
	if resp.Status != nil {
		call.Status = *resp.Status
	}
	tpc.logger.Infof("placed call: sid=%s to=%s status=%s", call.CallID, params.To, call.Status)
	return call, nil
}

func (tpc *twl) CallStatus(ctx context.Context, callID string) (string, error) {
	resp, err := await(ctx, func() (*openapi.ApiV2010Call, error) {
		return tpc.client.Api.FetchCall(callID, &openapi.FetchCallParams{})
	})
	if err != nil {
		return "", err
	}
	if resp.Status == nil {
		return "", nil
	}
	return *resp.Status, nil
}

// EndCall terminates an in-flight call. On the wire this is an update to
// status=completed; the provider reports the actual terminal disposition on
// the next status fetch.
func (tpc *twl) EndCall(ctx context.Context, callID string) error {
	update := &openapi.UpdateCallParams{}
	update.SetStatus("completed")
	_, err := await(ctx, func() (*openapi.ApiV2010Call, error) {
		return tpc.client.Api.UpdateCall(callID, update)
	})
	return err
}

// await runs a generated-client call on a goroutine so callers can bound it
// with their context. The twilio SDK does not accept a context itself.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{value: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// VoiceURLOptions tune the instruction URL. VoiceID substitutes the agent
// profile's voice; the remaining flags drive development calls.
type VoiceURLOptions struct {
	VoiceID         string
	BypassSignature bool
	EchoOnly        bool
	ProtocolTrace   bool
}

// VoiceInstructionURL builds the instruction URL the provider fetches for a
// call against the given agent profile. Development flags travel as query
// parameters understood by the webhook receiver.
func VoiceInstructionURL(base string, profileID string, opts VoiceURLOptions) string {
	q := url.Values{}
	q.Set("profile", profileID)
	if opts.VoiceID != "" {
		q.Set("voice", opts.VoiceID)
	}
	if opts.BypassSignature {
		q.Set("bypass_signature", "1")
	}
	if opts.EchoOnly {
		q.Set("echo", "1")
	}
	if opts.ProtocolTrace {
		q.Set("trace", "1")
	}
	return fmt.Sprintf("%s/v1/voice/answer?%s", base, q.Encode())
}
