package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the HMAC of the delivery body.
const SignatureHeader = "X-Webhook-Signature"

// Sign computes the signature header value for a delivery body:
// "sha256=" followed by the hex HMAC-SHA256 of the body under the
// subscription secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature header value against the body.
// Comparison is constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
