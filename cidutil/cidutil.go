// Package cidutil computes the content identifiers used for rendered
// artifacts and key fingerprints.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns the CIDv1 (raw codec, sha2-256 multihash) of data.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// String is Sum rendered in its default multibase form, or "" on failure.
func String(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		return ""
	}
	return id.String()
}

// Short returns the last n characters of the CID string, for display next to
// a full identifier elsewhere.
func Short(id cid.Cid, n int) string {
	s := id.String()
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
