// Package signature authenticates inbound webhook deliveries.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the lowercase hex HMAC-SHA256 of body keyed by secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is the hex HMAC-SHA256 of body under secret.
// An empty secret never verifies. The comparison runs in constant time over
// the hex text; surrounding whitespace on the header value is ignored.
func Verify(body []byte, provided, secret string) bool {
	if secret == "" {
		return false
	}
	expected := Sign(body, secret)
	return hmac.Equal([]byte(strings.TrimSpace(provided)), []byte(expected))
}
