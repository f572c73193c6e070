package keys

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// SeedSize is the size of every derived seed.
const SeedSize = 32

const domain = "greatwall-ka-v1"

// Seed purposes.
const (
	PurposeEd25519    = "ed25519"
	PurposeDilithium3 = "dilithium3"
)

// DeriveSeed derives a purpose-specific 32-byte seed from ka.
func DeriveSeed(ka []byte, purpose string) ([]byte, error) {
	if len(ka) == 0 {
		return nil, errors.New("keys: empty derivation output")
	}
	if err := CheckPurpose(purpose); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write([]byte(domain))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("purpose:"))
	_, _ = h.Write([]byte(purpose))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(ka)
	return h.Sum(nil)[:SeedSize], nil
}

// CheckPurpose accepts lowercase ASCII letters, digits and '-'.
func CheckPurpose(purpose string) error {
	if purpose == "" {
		return errors.New("keys: purpose is required")
	}
	for _, r := range purpose {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return fmt.Errorf("keys: invalid character %q in purpose %q", r, purpose)
		}
	}
	return nil
}
