package greatwall

import "fmt"

// Topology limits.
const (
	MinDepth = 1
	MaxDepth = 256
	MinArity = 2
	MaxArity = 256
	MinTLP   = 1
	// MaxTLP is 24*7*4*3 long-hash iterations.
	MaxTLP = 2016
)

// Topology fixes the shape of one session's derivation tree.
type Topology struct {
	Depth         int `json:"depth" yaml:"depth"`
	Arity         int `json:"arity" yaml:"arity"`
	TLPIterations int `json:"tlp_iterations" yaml:"tlp_iterations"`
}

// Validate returns a KindConfig error for out-of-range values.
func (t Topology) Validate() error {
	if t.Depth < MinDepth || t.Depth > MaxDepth {
		return newError(KindConfig, RuleDepth, fmt.Sprintf("greatwall: depth %d out of range [%d, %d]", t.Depth, MinDepth, MaxDepth))
	}
	if t.Arity < MinArity || t.Arity > MaxArity {
		return newError(KindConfig, RuleArity, fmt.Sprintf("greatwall: arity %d out of range [%d, %d]", t.Arity, MinArity, MaxArity))
	}
	if t.TLPIterations < MinTLP || t.TLPIterations > MaxTLP {
		return newError(KindConfig, RuleTLP, fmt.Sprintf("greatwall: tlp iterations %d out of range [%d, %d]", t.TLPIterations, MinTLP, MaxTLP))
	}
	return nil
}

func (t Topology) String() string {
	return fmt.Sprintf("depth=%d arity=%d tlp=%d", t.Depth, t.Arity, t.TLPIterations)
}
