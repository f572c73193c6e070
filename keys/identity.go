package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/ipfs/go-cid"

	"github.com/Yuri-SVB/Great-Wall/cidutil"
)

// Identity is the pair of key pairs derived from one KA.
type Identity struct {
	Ed25519       ed25519.PrivateKey
	Dilithium3    *mode3.PrivateKey
	Dilithium3Pub *mode3.PublicKey
}

// DeriveIdentity derives both key pairs from ka.
func DeriveIdentity(ka []byte) (*Identity, error) {
	edSeed, err := DeriveSeed(ka, PurposeEd25519)
	if err != nil {
		return nil, err
	}
	defer wipe(edSeed)
	dSeed, err := DeriveSeed(ka, PurposeDilithium3)
	if err != nil {
		return nil, err
	}
	defer wipe(dSeed)

	var seed [SeedSize]byte
	copy(seed[:], dSeed)
	dpub, dpriv := mode3.NewKeyFromSeed(&seed)
	wipe(seed[:])

	return &Identity{
		Ed25519:       ed25519.NewKeyFromSeed(edSeed),
		Dilithium3:    dpriv,
		Dilithium3Pub: dpub,
	}, nil
}

// Ed25519Public returns the Ed25519 public key.
func (id *Identity) Ed25519Public() ed25519.PublicKey {
	return id.Ed25519.Public().(ed25519.PublicKey)
}

// Ed25519Key renders the public key as "ed25519:" + base64.
func (id *Identity) Ed25519Key() string {
	s, _ := PublicKeyString(id.Ed25519Public())
	return s
}

// Dilithium3Key renders the public key as "dilithium3:" + base64.
func (id *Identity) Dilithium3Key() string {
	return "dilithium3:" + base64.StdEncoding.EncodeToString(id.Dilithium3Pub.Bytes())
}

// Fingerprint is the CID of both public keys, Ed25519 first.
func (id *Identity) Fingerprint() (cid.Cid, error) {
	buf := append([]byte(nil), id.Ed25519Public()...)
	buf = append(buf, id.Dilithium3Pub.Bytes()...)
	return cidutil.Sum(buf)
}

// PublicKeyString encodes an Ed25519 public key as "ed25519:" + base64.
func PublicKeyString(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return "ed25519:" + base64.StdEncoding.EncodeToString(pub), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
