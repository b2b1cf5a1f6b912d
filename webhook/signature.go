package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const signaturePrefix = "sha256="

// SignBody computes the hex HMAC-SHA256 of body in the form GitHub
// sends in X-Hub-Signature-256.
func SignBody(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches the keyed digest of
// body. The comparison is constant time; ordinary string equality would
// leak timing information about the secret.
func VerifySignature(secret, body []byte, signature string) bool {
	expected := SignBody(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
