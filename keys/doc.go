// Package keys derives deterministic signing identities from a GreatWall
// output (KA).
//
// The same KA always yields the same Ed25519 and Dilithium3 key pairs, so a
// user can confirm a re-derivation by comparing public keys or fingerprints,
// and can use the keys directly. Nothing here writes key material anywhere.
package keys
