// Package secret holds protocol secrets (seed entropy, working states and the
// memoized per-node states) for the lifetime of one derivation session.
//
// When the process may lock enough memory, values are kept in memguard
// enclaves: encrypted at rest and only decrypted into guarded, mlocked pages
// while being read. Otherwise values fall back to plain heap buffers that are
// still wiped on Destroy. Nothing in this package ever writes to disk.
package secret
