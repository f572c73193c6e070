package greatwall

import (
	"github.com/Yuri-SVB/Great-Wall/secret"
	"github.com/Yuri-SVB/Great-Wall/treepath"
)

// StateCache maps a node's path to the node's state.
//
// An entry always holds exactly what re-deriving from the root along that
// path would produce. Entries are sealed in secret boxes and destroyed by
// Clear. Not safe for concurrent use; the Engine serializes access.
type StateCache struct {
	entries map[treepath.Key]*secret.Box
}

func NewStateCache() *StateCache {
	return &StateCache{entries: make(map[treepath.Key]*secret.Box)}
}

// Get returns the state stored for p.
func (c *StateCache) Get(p treepath.Path) (*secret.Box, bool) {
	b, ok := c.entries[p.Key()]
	return b, ok
}

// Has reports whether p is cached.
func (c *StateCache) Has(p treepath.Path) bool {
	_, ok := c.entries[p.Key()]
	return ok
}

// Put seals a copy of state under p, destroying any previous entry.
func (c *StateCache) Put(p treepath.Path, state []byte) *secret.Box {
	k := p.Key()
	if old, ok := c.entries[k]; ok {
		old.Destroy()
	}
	b := secret.Seal(state)
	c.entries[k] = b
	return b
}

// Len returns the number of cached nodes.
func (c *StateCache) Len() int { return len(c.entries) }

// Clear destroys every entry.
func (c *StateCache) Clear() {
	for k, b := range c.entries {
		b.Destroy()
		delete(c.entries, k)
	}
}
