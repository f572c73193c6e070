package secret

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	src := []byte("greatwall state bytes")
	b := Seal(src)
	defer b.Destroy()

	got, err := b.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("Open returned %x, want %x", got, src)
	}
	if b.Len() != len(src) {
		t.Fatalf("Len = %d, want %d", b.Len(), len(src))
	}
}

func TestSealCopiesSource(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	b := Seal(src)
	defer b.Destroy()

	Wipe(src)
	got, err := b.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("sealed value changed after wiping the source: %x", got)
	}
}

func TestOpenReturnsIndependentCopies(t *testing.T) {
	b := Seal([]byte{9, 9})
	defer b.Destroy()

	a, _ := b.Open()
	a[0] = 0
	c, _ := b.Open()
	if c[0] != 9 {
		t.Fatalf("mutating an opened copy leaked into the box")
	}
}

func TestDestroy(t *testing.T) {
	b := Seal([]byte("x"))
	b.Destroy()
	b.Destroy()
	if _, err := b.Open(); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("Open after Destroy: got %v want ErrDestroyed", err)
	}
}

func TestEmptyBox(t *testing.T) {
	b := Seal(nil)
	got, err := b.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty value, got %x", got)
	}

	var nilBox *Box
	if _, err := nilBox.Open(); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("nil box Open: got %v", err)
	}
}
