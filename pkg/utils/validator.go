package utils

import (
	"regexp"
	"strings"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// IsEmpty reports whether s is empty or whitespace-only.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsE164 reports whether s is a plausible E.164 phone number
// (leading plus, 7 to 15 digits).
func IsE164(s string) bool {
	return e164Pattern.MatchString(strings.TrimSpace(s))
}
