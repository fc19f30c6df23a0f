package internal_twilio_telephony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectdial/pkg/types"
)

func credential(t *testing.T, values map[string]interface{}) *types.VaultCredential {
	t.Helper()
	cred, err := types.NewVaultCredential("twilio", values)
	require.NoError(t, err)
	return cred
}

func TestParseTelephonyConfig(t *testing.T) {
	cred := credential(t, map[string]interface{}{
		"account_sid":   "AC123",
		"account_token": "secret",
		"phone_number":  "+14155550199",
	})

	cfg, err := ParseTelephonyConfig(cred)
	require.NoError(t, err)
	assert.Equal(t, "AC123", cfg.AccountSid)
	assert.Equal(t, "secret", cfg.AccountToken)
	assert.Equal(t, "+14155550199", cfg.PhoneNumber)
}

func TestParseTelephonyConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing account_sid", map[string]interface{}{
			"account_token": "secret",
			"phone_number":  "+14155550199",
		}},
		{"missing account_token", map[string]interface{}{
			"account_sid":  "AC123",
			"phone_number": "+14155550199",
		}},
		{"missing phone_number", map[string]interface{}{
			"account_sid":   "AC123",
			"account_token": "secret",
		}},
		{"blank account_sid", map[string]interface{}{
			"account_sid":   "   ",
			"account_token": "secret",
			"phone_number":  "+14155550199",
		}},
		{"phone_number not E.164", map[string]interface{}{
			"account_sid":   "AC123",
			"account_token": "secret",
			"phone_number":  "415-555-0199",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTelephonyConfig(credential(t, tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "illegal vault config")
		})
	}
}

func TestVoiceInstructionURL(t *testing.T) {
	url := VoiceInstructionURL("https://hooks.example.io", "profile-1", VoiceURLOptions{})
	assert.Equal(t, "https://hooks.example.io/v1/voice/answer?profile=profile-1", url)
}

func TestVoiceInstructionURL_DevelopmentFlags(t *testing.T) {
	url := VoiceInstructionURL("https://hooks.example.io", "profile-1", VoiceURLOptions{
		VoiceID:         "voice-9",
		BypassSignature: true,
		EchoOnly:        true,
		ProtocolTrace:   true,
	})

	assert.Contains(t, url, "profile=profile-1")
	assert.Contains(t, url, "voice=voice-9")
	assert.Contains(t, url, "bypass_signature=1")
	assert.Contains(t, url, "echo=1")
	assert.Contains(t, url, "trace=1")
}
