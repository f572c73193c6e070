package treepath

import (
	"fmt"
	"math/big"
)

// Ordinal returns the pre-order position of the node addressed by p in a
// complete arity-ary tree with height levels. The root has ordinal 0.
//
// A subtree rooted at level L holds (arity^(height-L) - 1) / (arity - 1)
// nodes, so descending to child b from level L skips 1 + b*S(L+1) nodes.
func (p Path) Ordinal(arity, height int) (*big.Int, error) {
	if arity < 2 {
		return nil, fmt.Errorf("treepath: arity must be >= 2, got %d", arity)
	}
	if len(p.elems) >= height {
		return nil, fmt.Errorf("treepath: path of length %d does not fit a tree of height %d", len(p.elems), height)
	}
	a := big.NewInt(int64(arity))
	aMinus1 := big.NewInt(int64(arity - 1))
	subtree := func(level int) *big.Int {
		s := new(big.Int).Exp(a, big.NewInt(int64(height-level)), nil)
		s.Sub(s, big.NewInt(1))
		return s.Quo(s, aMinus1)
	}

	idx := new(big.Int)
	one := big.NewInt(1)
	for level, b := range p.elems {
		if int(b) >= arity {
			return nil, fmt.Errorf("treepath: branch %d at level %d exceeds arity %d", b, level, arity)
		}
		step := subtree(level + 1)
		step.Mul(step, big.NewInt(int64(b)))
		idx.Add(idx, one)
		idx.Add(idx, step)
	}
	return idx, nil
}
