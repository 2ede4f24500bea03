package events

import (
	"crypto/rand"
	"encoding/base64"
)

// shareTokenBytes gives 256 bits of entropy, far past guessable.
const shareTokenBytes = 32

// NewShareToken returns a cryptographically random, URL-safe capability
// token. Tokens carry no structure: nothing about the event or its owner
// can be recovered from one.
func NewShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
