package types

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// VaultCredential is a provider credential record resolved from the vault
// store. The payload is a free-form key/value struct whose keys are
// provider-specific (e.g. account_sid/account_token for telephony,
// key for the speech provider).
type VaultCredential struct {
	Id       uint64
	Name     string
	Provider string
	Value    *structpb.Struct
}

// GetValue returns the credential payload, never nil.
func (v *VaultCredential) GetValue() *structpb.Struct {
	if v == nil || v.Value == nil {
		empty, _ := structpb.NewStruct(map[string]interface{}{})
		return empty
	}
	return v.Value
}

// NewVaultCredential builds a credential from a plain map. Returns an error
// when the map holds values structpb cannot represent.
func NewVaultCredential(provider string, value map[string]interface{}) (*VaultCredential, error) {
	val, err := structpb.NewStruct(value)
	if err != nil {
		return nil, err
	}
	return &VaultCredential{Provider: provider, Value: val}, nil
}
