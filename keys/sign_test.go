package keys

import (
	"encoding/base64"
	"testing"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

func TestSignEd25519SHA256_Verifies(t *testing.T) {
	id, err := DeriveIdentity(ka)
	if err != nil {
		t.Fatalf("DeriveIdentity: %v", err)
	}
	msg := []byte("hello")
	sig := SignEd25519SHA256(msg, id.Ed25519)
	if !VerifyEd25519SHA256(msg, sig, id.Ed25519Public()) {
		t.Fatalf("signature did not verify")
	}
	if VerifyEd25519SHA256([]byte("other"), sig, id.Ed25519Public()) {
		t.Fatalf("signature verified for a different message")
	}
}

func TestSignDilithium3_Verifies_SHA3_256(t *testing.T) {
	id, err := DeriveIdentity(ka)
	if err != nil {
		t.Fatalf("DeriveIdentity: %v", err)
	}

	msg := []byte("hello")
	sigB64, err := SignDilithium3(msg, "sha3-256", id.Dilithium3)
	if err != nil {
		t.Fatalf("SignDilithium3: %v", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if len(sig) != mode3.SignatureSize {
		t.Fatalf("unexpected signature size: got %d want %d", len(sig), mode3.SignatureSize)
	}
	ok, err := VerifyDilithium3(msg, "sha3-256", sigB64, id.Dilithium3Pub)
	if err != nil || !ok {
		t.Fatalf("signature did not verify: ok=%v err=%v", ok, err)
	}
	if _, err := SignDilithium3(msg, "md5", id.Dilithium3); err == nil {
		t.Fatalf("expected error for unsupported hash")
	}
	if _, err := SignDilithium3(msg, "sha256", nil); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestChallenge(t *testing.T) {
	id, _ := DeriveIdentity(ka)
	ed, dil, err := id.Challenge([]byte("confirm"))
	if err != nil {
		t.Fatalf("Challenge: %v", err)
	}
	if !VerifyEd25519SHA256([]byte("confirm"), ed, id.Ed25519Public()) {
		t.Fatalf("ed25519 challenge did not verify")
	}
	if ok, _ := VerifyDilithium3([]byte("confirm"), "sha3-256", dil, id.Dilithium3Pub); !ok {
		t.Fatalf("dilithium3 challenge did not verify")
	}
}
