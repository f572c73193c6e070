package tacit

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/Yuri-SVB/Great-Wall/storage"
)

// Gallery renders branch values and keeps the resulting artifacts in a
// content-addressed store, so revisiting a node does not re-render. Only
// rendered artifacts are stored.
type Gallery struct {
	renderer Renderer
	store    storage.CAS

	mu   sync.Mutex
	memo map[[sha256.Size]byte]cid.Cid
}

// Entry is one stored artifact.
type Entry struct {
	CID      cid.Cid
	Artifact Artifact
}

func NewGallery(r Renderer, store storage.CAS) *Gallery {
	return &Gallery{renderer: r, store: store, memo: make(map[[sha256.Size]byte]cid.Cid)}
}

// Renderer returns the gallery's renderer.
func (g *Gallery) Renderer() Renderer { return g.renderer }

// Add renders values, or returns the previously stored artifact for the same
// values.
func (g *Gallery) Add(values []Value) (Entry, error) {
	key := memoKey(g.renderer.Kind(), values)

	g.mu.Lock()
	id, ok := g.memo[key]
	g.mu.Unlock()
	if ok {
		a, err := g.Load(id)
		if err == nil {
			return Entry{CID: id, Artifact: a}, nil
		}
		if !storage.IsNotFound(err) {
			return Entry{}, err
		}
	}

	a, err := g.renderer.Render(values)
	if err != nil {
		return Entry{}, err
	}
	b, err := a.Encode()
	if err != nil {
		return Entry{}, fmt.Errorf("tacit: encode artifact: %w", err)
	}
	id, err = g.store.Put(b)
	if err != nil {
		return Entry{}, fmt.Errorf("tacit: store artifact: %w", err)
	}

	g.mu.Lock()
	g.memo[key] = id
	g.mu.Unlock()
	return Entry{CID: id, Artifact: a}, nil
}

// Load fetches a stored artifact.
func (g *Gallery) Load(id cid.Cid) (Artifact, error) {
	b, err := g.store.Get(id)
	if err != nil {
		return Artifact{}, err
	}
	return DecodeArtifact(b)
}

// Len returns how many distinct value sets have been rendered.
func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.memo)
}

func memoKey(kind Kind, values []Value) [sha256.Size]byte {
	h := sha256.New()
	var n [4]byte
	write := func(b []byte) {
		binary.BigEndian.PutUint32(n[:], uint32(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	write([]byte(kind))
	for _, v := range values {
		write([]byte(v.Tag))
		write(v.Bytes)
	}
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}
