package tacit

import (
	"testing"

	"github.com/Yuri-SVB/Great-Wall/storage/memcas"
)

type countingRenderer struct {
	Renderer
	renders int
}

func (c *countingRenderer) Render(values []Value) (Artifact, error) {
	c.renders++
	return c.Renderer.Render(values)
}

func TestGalleryMemoizes(t *testing.T) {
	base, _ := NewRenderer(KindShape, Options{})
	r := &countingRenderer{Renderer: base}
	store := memcas.New()
	g := NewGallery(r, store)

	vals := []Value{{Bytes: []byte{7, 1, 2, 3}}}
	e1, err := g.Add(vals)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	e2, err := g.Add(vals)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e1.CID != e2.CID {
		t.Fatalf("re-adding the same values produced a different CID")
	}
	if r.renders != 1 {
		t.Fatalf("renders = %d, want 1", r.renders)
	}
	if e2.Artifact.Shape.Sides != 9 {
		t.Fatalf("sides = %d, want 9", e2.Artifact.Shape.Sides)
	}

	if _, err := g.Add([]Value{{Bytes: []byte{3, 1, 2, 3}}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if g.Len() != 2 || store.Len() != 2 {
		t.Fatalf("gallery len %d, store len %d", g.Len(), store.Len())
	}

	loaded, err := g.Load(e1.CID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Shape.Sides != 9 {
		t.Fatalf("loaded artifact mismatch")
	}
}
