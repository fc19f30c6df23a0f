package utils

import "testing"

func TestOptionGetString(t *testing.T) {
	opts := Option{"a": "x", "b": 1}

	if v, err := opts.GetString("a"); err != nil || v != "x" {
		t.Errorf("expected x, got %q (%v)", v, err)
	}
	if _, err := opts.GetString("b"); err == nil {
		t.Error("expected type error for non-string")
	}
	if _, err := opts.GetString("missing"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestOptionGetUint64(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected uint64
		wantErr  bool
	}{
		{"uint64", uint64(7), 7, false},
		{"int", 7, 7, false},
		{"float64 from json", float64(7), 7, false},
		{"string", "7", 7, false},
		{"negative int", -1, 0, true},
		{"non numeric string", "abc", 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Option{"k": tt.value}.GetUint64("k")
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %d", result)
				}
				return
			}
			if err != nil || result != tt.expected {
				t.Errorf("expected %d, got %d (%v)", tt.expected, result, err)
			}
		})
	}
}

func TestOptionGetBool(t *testing.T) {
	opts := Option{"t": true, "f": false, "s": "true", "bad": "nope"}

	if !opts.GetBool("t") || opts.GetBool("f") {
		t.Error("bool values mishandled")
	}
	if !opts.GetBool("s") {
		t.Error("string true mishandled")
	}
	if opts.GetBool("bad") || opts.GetBool("missing") {
		t.Error("invalid or missing keys should be false")
	}
}
