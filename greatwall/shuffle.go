package greatwall

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// Shuffler produces the display order of a node's branches. Perm must return
// a permutation of [0, n).
type Shuffler interface {
	Perm(n int) []int
}

// NewShuffler returns a ChaCha8-backed Shuffler. A fixed seed gives a fixed
// sequence of permutations.
func NewShuffler(seed [32]byte) Shuffler {
	return rand.New(rand.NewChaCha8(seed))
}

func randomShuffler() Shuffler {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return NewShuffler(seed)
}

func validPerm(p []int, n int) bool {
	if len(p) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
