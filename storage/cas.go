// Package storage defines the content-addressed store used for rendered
// tacit-knowledge artifacts.
//
// Only public, renderer-produced bytes are ever stored. Seeds, working states
// and cached node states never pass through this package.
package storage

import (
	"io"

	"github.com/ipfs/go-cid"
)

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (see cidutil.Sum).
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Close releases c if it holds resources.
func Close(c CAS) error {
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
