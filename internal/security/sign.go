package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Sign returns an HMAC-SHA256 over the colon-joined parts, base64url encoded.
func Sign(secret string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, ":")))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func Verify(secret string, signature string, parts ...string) bool {
	expected := Sign(secret, parts...)
	return hmac.Equal([]byte(signature), []byte(expected))
}
