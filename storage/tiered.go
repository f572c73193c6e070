package storage

import (
	"errors"
	"io"

	"github.com/ipfs/go-cid"
)

// Tiered puts a fast cache in front of a persistent backing store.
//
// Put writes to Backing first and then to Cache, so a cached object is always
// also persisted. Get consults Cache, then Backing, and fills Cache on a
// backing hit.
type Tiered struct {
	Cache   CAS
	Backing CAS
}

var _ CAS = Tiered{}

func (t Tiered) Put(bytes []byte) (cid.Cid, error) {
	if t.Backing == nil || t.Cache == nil {
		return cid.Undef, errors.New("storage: Tiered requires Cache and Backing")
	}
	id, err := t.Backing.Put(bytes)
	if err != nil {
		return cid.Undef, err
	}
	cached, err := t.Cache.Put(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if cached != id {
		return cid.Undef, ErrCIDMismatch
	}
	return id, nil
}

func (t Tiered) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	if t.Cache != nil {
		b, err := t.Cache.Get(id)
		if err == nil {
			return b, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	if t.Backing == nil {
		return nil, ErrNotFound
	}
	b, err := t.Backing.Get(id)
	if err != nil {
		return nil, err
	}
	if t.Cache != nil {
		_, _ = t.Cache.Put(b)
	}
	return b, nil
}

func (t Tiered) Has(id cid.Cid) bool {
	if t.Cache != nil && t.Cache.Has(id) {
		return true
	}
	return t.Backing != nil && t.Backing.Has(id)
}

// Close closes both tiers, backing last.
func (t Tiered) Close() error {
	var errs []error
	if c, ok := t.Cache.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := t.Backing.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
