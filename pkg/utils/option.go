package utils

import (
	"fmt"
	"strconv"
)

// Option is a loosely-typed option bag passed alongside credentials and
// requests. Values usually originate from JSON, so numbers may arrive as
// float64 or string.
type Option map[string]interface{}

// GetString returns the option under key as a string.
func (o Option) GetString(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", fmt.Errorf("option %s is not found", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %s is not a string", key)
	}
	return s, nil
}

// GetUint64 returns the option under key as a uint64, accepting numeric and
// string encodings.
func (o Option) GetUint64(key string) (uint64, error) {
	v, ok := o[key]
	if !ok {
		return 0, fmt.Errorf("option %s is not found", key)
	}
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		if t < 0 {
			return 0, fmt.Errorf("option %s is negative", key)
		}
		return uint64(t), nil
	case float64:
		if t < 0 {
			return 0, fmt.Errorf("option %s is negative", key)
		}
		return uint64(t), nil
	case string:
		return strconv.ParseUint(t, 10, 64)
	default:
		return 0, fmt.Errorf("option %s is not a number", key)
	}
}

// GetBool returns the option under key as a bool, accepting bool and string
// encodings. Missing keys return false without error.
func (o Option) GetBool(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		return false
	}
}
