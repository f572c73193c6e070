package secret

import (
	"errors"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when a Box is read after Destroy.
var ErrDestroyed = errors.New("secret: box destroyed")

// Box owns one secret byte string.
//
// A Box is safe for concurrent use. The zero value is an empty, usable Box.
type Box struct {
	mu        sync.Mutex
	enclave   *memguard.Enclave
	plain     []byte
	size      int
	destroyed bool
}

// Seal copies src into a new Box. The caller keeps ownership of src and may
// wipe it afterwards.
func Seal(src []byte) *Box {
	b := &Box{size: len(src)}
	if len(src) == 0 {
		return b
	}
	buf := make([]byte, len(src))
	copy(buf, src)
	if !Secure() {
		b.plain = buf
		return b
	}
	// NewEnclave wipes buf.
	b.enclave = memguard.NewEnclave(buf)
	return b
}

// Len returns the size of the sealed value.
func (b *Box) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Open returns a fresh copy of the sealed value. The caller owns the copy and
// should Wipe it when done.
func (b *Box) Open() ([]byte, error) {
	if b == nil {
		return nil, ErrDestroyed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return nil, ErrDestroyed
	}
	if b.size == 0 {
		return []byte{}, nil
	}
	if b.enclave == nil {
		out := make([]byte, len(b.plain))
		copy(out, b.plain)
		return out, nil
	}
	lb, err := b.enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("secret: open enclave: %w", err)
	}
	defer lb.Destroy()
	out := make([]byte, lb.Size())
	copy(out, lb.Bytes())
	return out, nil
}

// Destroy wipes the value. It is idempotent.
func (b *Box) Destroy() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	Wipe(b.plain)
	b.plain = nil
	b.enclave = nil
	b.destroyed = true
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Purge wipes every memguard-held value and the enclave key. Binaries call it
// on exit; afterwards sealed boxes can no longer be opened.
func Purge() {
	memguard.Purge()
}
