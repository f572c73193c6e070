package tacit

import (
	"encoding/binary"
	"fmt"
)

// ValueLen is the number of bytes taken from each branch hash.
const ValueLen = 4

// Domain tags for compound artifacts.
const (
	TagReal = "real_p"
	TagImag = "imag_p"
)

// Hasher is the quick stretch profile.
type Hasher interface {
	Quick(in []byte) ([]byte, error)
}

// Value is one derived value, labeled with the domain tag it was derived
// under ("" for untagged).
type Value struct {
	Tag   string `json:"tag,omitempty"`
	Bytes []byte `json:"bytes"`
}

// BranchValues holds everything derived for one branch of one node.
type BranchValues struct {
	// Value is the untagged derivation. It is what the navigator folds into
	// the child's state.
	Value []byte
	// Tagged holds one value per requested tag, in request order.
	Tagged []Value
}

// Deriver computes branch values. It is pure and safe for concurrent use if
// its Hasher is.
type Deriver struct {
	hash Hasher
}

func NewDeriver(h Hasher) *Deriver {
	return &Deriver{hash: h}
}

// Derive returns the first ValueLen bytes of quick(state || be32(branch)),
// or, with a non-empty tag, of quick(quick(state || be32(branch)) || tag).
func (d *Deriver) Derive(state []byte, branch uint32, tag []byte) ([]byte, error) {
	h0, err := d.base(state, branch)
	if err != nil {
		return nil, err
	}
	if len(tag) == 0 {
		return truncate(h0), nil
	}
	return d.tagged(h0, tag)
}

// Branch derives the untagged value and one value per tag, hashing the
// shared prefix once.
func (d *Deriver) Branch(state []byte, branch uint32, tags []string) (BranchValues, error) {
	h0, err := d.base(state, branch)
	if err != nil {
		return BranchValues{}, err
	}
	out := BranchValues{Value: truncate(h0), Tagged: make([]Value, 0, len(tags))}
	for _, tag := range tags {
		if tag == "" {
			out.Tagged = append(out.Tagged, Value{Bytes: append([]byte(nil), out.Value...)})
			continue
		}
		v, err := d.tagged(h0, []byte(tag))
		if err != nil {
			return BranchValues{}, err
		}
		out.Tagged = append(out.Tagged, Value{Tag: tag, Bytes: v})
	}
	return out, nil
}

func (d *Deriver) base(state []byte, branch uint32) ([]byte, error) {
	in := make([]byte, len(state)+4)
	copy(in, state)
	binary.BigEndian.PutUint32(in[len(state):], branch)
	h0, err := d.hash.Quick(in)
	wipe(in)
	if err != nil {
		return nil, fmt.Errorf("tacit: derive branch %d: %w", branch, err)
	}
	if len(h0) < ValueLen {
		return nil, fmt.Errorf("tacit: hash output too short (%d bytes)", len(h0))
	}
	return h0, nil
}

func (d *Deriver) tagged(h0, tag []byte) ([]byte, error) {
	in := make([]byte, 0, len(h0)+len(tag))
	in = append(in, h0...)
	in = append(in, tag...)
	h1, err := d.hash.Quick(in)
	if err != nil {
		return nil, fmt.Errorf("tacit: derive tag %q: %w", tag, err)
	}
	if len(h1) < ValueLen {
		return nil, fmt.Errorf("tacit: hash output too short (%d bytes)", len(h1))
	}
	return truncate(h1), nil
}

func truncate(h []byte) []byte {
	return append([]byte(nil), h[:ValueLen]...)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
