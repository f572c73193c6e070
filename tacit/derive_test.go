package tacit

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"testing"
)

// shaHasher stands in for the quick profile; the derivation structure is
// what is under test.
type shaHasher struct{ calls int }

func (h *shaHasher) Quick(in []byte) ([]byte, error) {
	h.calls++
	sum := sha512.Sum512(in)
	return append(sum[:], sum[:]...), nil
}

func TestDeriveUntagged(t *testing.T) {
	h := &shaHasher{}
	d := NewDeriver(h)
	state := []byte("node state")

	got, err := d.Derive(state, 7, nil)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	want, _ := h.Quick(append(append([]byte(nil), state...), 0, 0, 0, 7))
	if !bytes.Equal(got, want[:ValueLen]) {
		t.Fatalf("Derive = %x, want %x", got, want[:ValueLen])
	}
	if !bytes.Equal(state, []byte("node state")) {
		t.Fatalf("state was modified")
	}
}

func TestDeriveTagged(t *testing.T) {
	h := &shaHasher{}
	d := NewDeriver(h)
	state := []byte("s")

	got, err := d.Derive(state, 1, []byte(TagReal))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	h0, _ := h.Quick([]byte{'s', 0, 0, 0, 1})
	h1, _ := h.Quick(append(append([]byte(nil), h0...), TagReal...))
	if !bytes.Equal(got, h1[:ValueLen]) {
		t.Fatalf("tagged Derive = %x, want %x", got, h1[:ValueLen])
	}

	im, _ := d.Derive(state, 1, []byte(TagImag))
	if bytes.Equal(got, im) {
		t.Fatalf("real and imaginary tags produced the same value")
	}
}

func TestBranchMatchesDerive(t *testing.T) {
	h := &shaHasher{}
	d := NewDeriver(h)
	state := []byte("state")

	bv, err := d.Branch(state, 3, []string{TagReal, TagImag, ""})
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}
	plain, _ := d.Derive(state, 3, nil)
	re, _ := d.Derive(state, 3, []byte(TagReal))
	im, _ := d.Derive(state, 3, []byte(TagImag))

	if !bytes.Equal(bv.Value, plain) {
		t.Fatalf("Branch.Value mismatch")
	}
	if bv.Tagged[0].Tag != TagReal || !bytes.Equal(bv.Tagged[0].Bytes, re) {
		t.Fatalf("real value mismatch")
	}
	if !bytes.Equal(bv.Tagged[1].Bytes, im) {
		t.Fatalf("imag value mismatch")
	}
	if bv.Tagged[2].Tag != "" || !bytes.Equal(bv.Tagged[2].Bytes, plain) {
		t.Fatalf("untagged entry mismatch")
	}
}

func TestDistinctBranchesDiffer(t *testing.T) {
	d := NewDeriver(&shaHasher{})
	a, _ := d.Derive([]byte("s"), 0, nil)
	b, _ := d.Derive([]byte("s"), 1, nil)
	if bytes.Equal(a, b) {
		t.Fatalf("branches 0 and 1 derived the same value")
	}
}

type failingHasher struct{}

var errBoom = errors.New("boom")

func (failingHasher) Quick([]byte) ([]byte, error) { return nil, errBoom }

func TestDerivePropagatesHashError(t *testing.T) {
	d := NewDeriver(failingHasher{})
	if _, err := d.Derive([]byte("s"), 0, nil); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped hash error, got %v", err)
	}
	if _, err := d.Branch([]byte("s"), 0, []string{TagReal}); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped hash error, got %v", err)
	}
}
