package webhook

import (
	"strings"
	"testing"
)

func TestVerifySignatureValid(t *testing.T) {
	secret := []byte("s3cret")
	body := []byte(`{"alert":{"number":1}}`)

	sig := SignBody(secret, body)
	if !strings.HasPrefix(sig, "sha256=") {
		t.Fatalf("expected sha256= prefix, got %q", sig)
	}
	if !VerifySignature(secret, body, sig) {
		t.Fatalf("expected valid signature to verify")
	}
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	secret := []byte("s3cret")
	body := []byte(`{"alert":{"number":1}}`)
	sig := SignBody(secret, body)

	tampered := append([]byte{}, body...)
	tampered[0] ^= 0x01
	if VerifySignature(secret, tampered, sig) {
		t.Fatalf("expected tampered body to fail verification")
	}
}

func TestVerifySignatureTamperedSignature(t *testing.T) {
	secret := []byte("s3cret")
	body := []byte(`{"alert":{"number":1}}`)
	sig := []byte(SignBody(secret, body))

	sig[len(sig)-1] ^= 0x01
	if VerifySignature(secret, body, string(sig)) {
		t.Fatalf("expected tampered signature to fail verification")
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte(`{"alert":{"number":1}}`)
	sig := SignBody([]byte("s3cret"), body)
	if VerifySignature([]byte("other"), body, sig) {
		t.Fatalf("expected wrong secret to fail verification")
	}
}

func TestVerifySignatureEmpty(t *testing.T) {
	if VerifySignature([]byte("s3cret"), []byte("body"), "") {
		t.Fatalf("expected empty signature to fail verification")
	}
}
