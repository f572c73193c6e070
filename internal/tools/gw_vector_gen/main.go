// gw_vector_gen prints derivation vectors: a seed, a topology, the
// underlying branch taken at each level, and the resulting secret. It drives
// the engine and checks the result against a direct recomputation.
package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/stretch"
	"github.com/Yuri-SVB/Great-Wall/tacit"
	"github.com/Yuri-SVB/Great-Wall/treepath"
)

type vector struct {
	seed     string
	topo     greatwall.Topology
	branches []int
}

var vectors = []vector{
	{"GreatWall", greatwall.Topology{Depth: 1, Arity: 2, TLPIterations: 1}, []int{0}},
	{"GreatWall", greatwall.Topology{Depth: 1, Arity: 2, TLPIterations: 1}, []int{1}},
	{"GreatWall", greatwall.Topology{Depth: 2, Arity: 4, TLPIterations: 1}, []int{2, 0}},
	{"correct horse battery staple", greatwall.Topology{Depth: 3, Arity: 3, TLPIterations: 2}, []int{1, 2, 0}},
}

func main() {
	fs := flag.NewFlagSet("gw_vector_gen", flag.ExitOnError)
	protocol := fs.Bool("protocol", false, "use the protocol profiles (slow, 1 GiB per long hash)")
	_ = fs.Parse(os.Args[1:])

	s := stretch.Protocol()
	if !*protocol {
		var err error
		s, err = stretch.New(
			stretch.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: stretch.OutputLen},
			stretch.Params{Time: 1, MemoryKiB: 256, Threads: 1, KeyLen: stretch.OutputLen},
		)
		if err != nil {
			panic(err)
		}
	}
	fmt.Printf("quick=%+v\nlong=%+v\n\n", s.QuickParams, s.LongParams)

	for _, v := range vectors {
		ka, err := viaEngine(s, v)
		if err != nil {
			panic(err)
		}
		want, err := recompute(s, v)
		if err != nil {
			panic(err)
		}
		if !bytes.Equal(ka, want) {
			panic(fmt.Sprintf("engine and recomputation disagree for %q %v", v.seed, v.branches))
		}
		p, _ := treepath.Of(v.branches...)
		fmt.Printf("seed=%q %s path=%q\nKA=%s\n\n", v.seed, v.topo, p.String(), hex.EncodeToString(ka))
	}
}

func viaEngine(s *stretch.Stretcher, v vector) ([]byte, error) {
	e := greatwall.New(greatwall.WithStretcher(s))
	defer e.Close()
	ctx := context.Background()
	if err := e.Configure(v.topo); err != nil {
		return nil, err
	}
	if err := e.SetSeed([]byte(v.seed)); err != nil {
		return nil, err
	}
	if err := e.Bootstrap(ctx); err != nil {
		return nil, err
	}
	for _, b := range v.branches {
		opts, err := e.ListOptions(ctx)
		if err != nil {
			return nil, err
		}
		pos := 0
		for _, c := range opts.Candidates {
			if c.Branch == b {
				pos = c.Position
			}
		}
		if err := e.Choose(ctx, pos); err != nil {
			return nil, err
		}
	}
	return e.Finish()
}

func recompute(s *stretch.Stretcher, v vector) ([]byte, error) {
	sa0 := []byte(v.seed)
	sa1, err := s.Quick(sa0)
	if err != nil {
		return nil, err
	}
	sa2, err := s.Long(context.Background(), sa1, v.topo.TLPIterations, nil)
	if err != nil {
		return nil, err
	}
	state, err := s.Quick(append(append([]byte(nil), sa0...), sa2...))
	if err != nil {
		return nil, err
	}
	d := tacit.NewDeriver(s)
	for _, b := range v.branches {
		val, err := d.Derive(state, uint32(b), nil)
		if err != nil {
			return nil, err
		}
		if state, err = s.Quick(append(append([]byte(nil), state...), val...)); err != nil {
			return nil, err
		}
	}
	return state, nil
}
