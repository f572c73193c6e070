package keys

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

var ka = bytes.Repeat([]byte{0x5a}, 128)

func TestDeriveSeedDeterministic(t *testing.T) {
	a, err := DeriveSeed(ka, PurposeEd25519)
	if err != nil {
		t.Fatalf("DeriveSeed: %v", err)
	}
	b, err := DeriveSeed(ka, PurposeEd25519)
	if err != nil {
		t.Fatalf("DeriveSeed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected deterministic derivation")
	}
	if len(a) != SeedSize {
		t.Fatalf("seed size = %d", len(a))
	}

	c, err := DeriveSeed(ka, PurposeDilithium3)
	if err != nil {
		t.Fatalf("DeriveSeed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("expected different purposes to derive different seeds")
	}
}

func TestDeriveSeedRejects(t *testing.T) {
	if _, err := DeriveSeed(nil, PurposeEd25519); err == nil {
		t.Fatalf("expected error for empty ka")
	}
	for _, p := range []string{"", "Ed25519", "a b", "x/y"} {
		if _, err := DeriveSeed(ka, p); err == nil {
			t.Fatalf("expected error for purpose %q", p)
		}
	}
}

func TestIdentityFormats(t *testing.T) {
	id, err := DeriveIdentity(ka)
	if err != nil {
		t.Fatalf("DeriveIdentity: %v", err)
	}
	k := id.Ed25519Key()
	if !strings.HasPrefix(k, "ed25519:") {
		t.Fatalf("expected ed25519 prefix, got %q", k)
	}
	pub, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(k, "ed25519:"))
	if err != nil || len(pub) != 32 {
		t.Fatalf("bad ed25519 key encoding: %v (%d bytes)", err, len(pub))
	}
	if !strings.HasPrefix(id.Dilithium3Key(), "dilithium3:") {
		t.Fatalf("unexpected dilithium3 key %q", id.Dilithium3Key())
	}
	if _, err := PublicKeyString(pub[:5]); err == nil {
		t.Fatalf("expected error for short public key")
	}
}

func TestIdentityDeterministic(t *testing.T) {
	a, _ := DeriveIdentity(ka)
	b, _ := DeriveIdentity(ka)
	other, _ := DeriveIdentity(bytes.Repeat([]byte{0x5b}, 128))

	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fb, _ := b.Fingerprint()
	fo, _ := other.Fingerprint()
	if fa != fb {
		t.Fatalf("same ka produced different fingerprints")
	}
	if fa == fo {
		t.Fatalf("different ka produced the same fingerprint")
	}
	if a.Dilithium3Key() != b.Dilithium3Key() {
		t.Fatalf("dilithium3 key not deterministic")
	}
}
