package common

import (
	"crypto/rand"
	"strings"
	"unicode/utf8"
)

// Sanitize trims surrounding whitespace and truncates s to at most maxLen
// characters. Oversized input is cut, never rejected.
func Sanitize(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if maxLen < 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxLen]))
}

// SanitizeOptional sanitizes an optional field. Nil input and input that is
// empty after trimming both yield nil.
func SanitizeOptional(s *string, maxLen int) *string {
	if s == nil {
		return nil
	}
	v := Sanitize(*s, maxLen)
	if v == "" {
		return nil
	}
	return &v
}

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
