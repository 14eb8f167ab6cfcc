package squad

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// maxCodeAttempts bounds regeneration when a code is already taken.
	maxCodeAttempts = 16
)

// NewCode returns a random invite code of six characters from A-Z0-9.
func NewCode() (string, error) {
	// Largest multiple of len(codeAlphabet) below 256; bytes above it are
	// rejected to keep the distribution uniform.
	const limit = 256 - 256%len(codeAlphabet)

	var sb strings.Builder
	buf := make([]byte, codeLength*2)
	for sb.Len() < codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
			if sb.Len() == codeLength {
				break
			}
		}
	}
	return sb.String(), nil
}

// NormalizeCode makes invite code lookup case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
