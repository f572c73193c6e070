// Package treepath represents a root-to-node path in a GreatWall derivation
// tree.
package treepath

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLen is the deepest path the protocol allows.
const MaxLen = 256

// Separator joins branch numbers in the display form.
const Separator = " -> "

// Path is an ordered sequence of zero-based branch indices. The zero value is
// the empty (root) path.
type Path struct {
	elems []uint8
}

// Key is a comparable snapshot of a Path, suitable as a map key. Two keys are
// equal iff the paths they were taken from were equal at the time.
type Key struct {
	n     uint16
	elems [MaxLen]uint8
}

// Len returns the path length, which is also the node's level.
func (k Key) Len() int { return int(k.n) }

// Of builds a Path from zero-based branch indices.
func Of(branches ...int) (Path, error) {
	var p Path
	for _, b := range branches {
		if err := p.Append(b); err != nil {
			return Path{}, err
		}
	}
	return p, nil
}

// Len returns the number of elements.
func (p Path) Len() int { return len(p.elems) }

// At returns the zero-based branch index at position i.
func (p Path) At(i int) int { return int(p.elems[i]) }

// Branches returns a copy of the zero-based branch indices.
func (p Path) Branches() []int {
	out := make([]int, len(p.elems))
	for i, b := range p.elems {
		out[i] = int(b)
	}
	return out
}

// Append adds a zero-based branch index.
func (p *Path) Append(branch int) error {
	if branch < 0 || branch > 255 {
		return fmt.Errorf("treepath: branch %d out of range [0, 255]", branch)
	}
	if len(p.elems) >= MaxLen {
		return fmt.Errorf("treepath: path already at maximum length %d", MaxLen)
	}
	p.elems = append(p.elems, uint8(branch))
	return nil
}

// Pop removes and returns the last branch index. ok is false on the empty
// path.
func (p *Path) Pop() (branch int, ok bool) {
	n := len(p.elems)
	if n == 0 {
		return 0, false
	}
	branch = int(p.elems[n-1])
	p.elems = p.elems[:n-1]
	return branch, true
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	if len(p.elems) == 0 {
		return Path{}
	}
	return Path{elems: append([]uint8(nil), p.elems...)}
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	if len(p.elems) != len(o.elems) {
		return false
	}
	for i := range p.elems {
		if p.elems[i] != o.elems[i] {
			return false
		}
	}
	return true
}

// Key snapshots the path.
func (p Path) Key() Key {
	var k Key
	k.n = uint16(copy(k.elems[:], p.elems))
	return k
}

// Parent returns the path without its last element. The root is its own
// parent.
func (p Path) Parent() Path {
	if len(p.elems) == 0 {
		return Path{}
	}
	return Path{elems: append([]uint8(nil), p.elems[:len(p.elems)-1]...)}
}

// String renders branch numbers 1-based, e.g. "1 -> 3 -> 2". The root renders
// as "".
func (p Path) String() string {
	if len(p.elems) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, b := range p.elems {
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(strconv.Itoa(int(b) + 1))
	}
	return sb.String()
}

// Parse reads the display form produced by String.
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	var p Path
	for _, part := range strings.Split(s, "->") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Path{}, fmt.Errorf("treepath: parse %q: %w", part, err)
		}
		if n < 1 {
			return Path{}, fmt.Errorf("treepath: branch number %d must be >= 1", n)
		}
		if err := p.Append(n - 1); err != nil {
			return Path{}, err
		}
	}
	return p, nil
}
