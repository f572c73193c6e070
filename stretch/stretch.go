// Package stretch wraps Argon2i in the two calibrated profiles used by the
// GreatWall protocol.
//
// The quick profile costs milliseconds and is used for every per-node
// operation. The long profile is the time-lock puzzle: it costs about one
// GiB of memory per call and is repeated a configurable number of times,
// each call consuming the previous output.
package stretch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"
)

// Salt is the protocol-wide salt: 32 ASCII zeros.
const Salt = "00000000000000000000000000000000"

// OutputLen is the size of every stretch output.
const OutputLen = 128

// Profile names reported to observers.
const (
	ProfileQuick = "quick"
	ProfileLong  = "long"
)

// Params configures one Argon2i invocation.
type Params struct {
	Time      uint32 `yaml:"time" json:"time"`
	MemoryKiB uint32 `yaml:"memory_kib" json:"memory_kib"`
	Threads   uint8  `yaml:"threads" json:"threads"`
	KeyLen    uint32 `yaml:"key_len" json:"key_len"`
}

var (
	// QuickParams is the protocol's quick profile.
	QuickParams = Params{Time: 32, MemoryKiB: 1024, Threads: 1, KeyLen: OutputLen}
	// LongParams is the protocol's long (time-lock) profile.
	LongParams = Params{Time: 8, MemoryKiB: 1 << 20, Threads: 1, KeyLen: OutputLen}
)

// Validate rejects parameter sets argon2 would panic on.
func (p Params) Validate() error {
	switch {
	case p.Time < 1:
		return fmt.Errorf("stretch: time must be >= 1")
	case p.Threads < 1:
		return fmt.Errorf("stretch: threads must be >= 1")
	case p.KeyLen < 4:
		return fmt.Errorf("stretch: key length must be >= 4")
	case p.MemoryKiB < 8*uint32(p.Threads):
		return fmt.Errorf("stretch: memory must be >= 8 KiB per thread")
	}
	return nil
}

// Observer receives the outcome of each hash call.
type Observer interface {
	ObserveStretch(profile string, d time.Duration, err error)
}

// HashError reports a failure inside the hash primitive, typically an
// allocation failure for the long profile.
type HashError struct {
	Profile string
	Err     error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("stretch: %s hash failed: %v", e.Profile, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// Stretcher runs the quick and long profiles. The zero value is not usable;
// use New or Protocol.
type Stretcher struct {
	QuickParams Params
	LongParams  Params
	Observer    Observer
}

// New returns a Stretcher for the given profiles.
func New(quick, long Params) (*Stretcher, error) {
	if err := quick.Validate(); err != nil {
		return nil, fmt.Errorf("quick profile: %w", err)
	}
	if err := long.Validate(); err != nil {
		return nil, fmt.Errorf("long profile: %w", err)
	}
	return &Stretcher{QuickParams: quick, LongParams: long}, nil
}

// Protocol returns a Stretcher with the protocol's fixed profiles.
func Protocol() *Stretcher {
	return &Stretcher{QuickParams: QuickParams, LongParams: LongParams}
}

// Quick hashes in with the quick profile. in is not modified.
func (s *Stretcher) Quick(in []byte) ([]byte, error) {
	return s.hash(ProfileQuick, s.QuickParams, in)
}

// Long applies the long profile iterations times, feeding each output back in
// as the next input. ctx is checked between iterations only; a hash call
// that has started runs to completion. onIteration, when non-nil, is called
// after each completed iteration.
func (s *Stretcher) Long(ctx context.Context, in []byte, iterations int, onIteration func(done, total int)) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("stretch: iterations must be >= 1, got %d", iterations)
	}
	cur := in
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := s.hash(ProfileLong, s.LongParams, cur)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			wipe(cur)
		}
		cur = next
		if onIteration != nil {
			onIteration(i+1, iterations)
		}
	}
	return cur, nil
}

func (s *Stretcher) hash(profile string, p Params, in []byte) (out []byte, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &HashError{Profile: profile, Err: fmt.Errorf("%v", r)}
		}
		if s.Observer != nil {
			s.Observer.ObserveStretch(profile, time.Since(start), err)
		}
	}()
	if verr := p.Validate(); verr != nil {
		return nil, &HashError{Profile: profile, Err: verr}
	}
	return argon2.Key(in, []byte(Salt), p.Time, p.MemoryKiB, p.Threads, p.KeyLen), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
