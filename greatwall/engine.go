// Package greatwall implements the GreatWall derivation engine: the root
// time-lock bootstrap, the tree navigation state machine and the memoized
// per-node state cache.
//
// An Engine is driven by one goroutine at a time. Cancel is the exception: it
// may be called from anywhere, and stops an in-flight bootstrap between
// long-hash iterations.
package greatwall

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Yuri-SVB/Great-Wall/passphrase"
	"github.com/Yuri-SVB/Great-Wall/secret"
	"github.com/Yuri-SVB/Great-Wall/stretch"
	"github.com/Yuri-SVB/Great-Wall/tacit"
	"github.com/Yuri-SVB/Great-Wall/treepath"
)

const tracerName = "github.com/Yuri-SVB/Great-Wall/greatwall"

// Stretcher is the pair of hash profiles the engine runs on.
// *stretch.Stretcher implements it.
type Stretcher interface {
	Quick(in []byte) ([]byte, error)
	Long(ctx context.Context, in []byte, iterations int, onIteration func(done, total int)) ([]byte, error)
}

// Phase is the navigator's coarse state.
type Phase int

const (
	PhaseRoot Phase = iota
	PhaseAtNode
	PhaseFinished
	PhaseCanceled
)

func (p Phase) String() string {
	switch p {
	case PhaseRoot:
		return "root"
	case PhaseAtNode:
		return "at-node"
	case PhaseFinished:
		return "finished"
	case PhaseCanceled:
		return "canceled"
	}
	return "unknown"
}

// Status is a point-in-time view of a session. It contains no secrets.
type Status struct {
	SessionID   string
	Phase       Phase
	Topology    Topology
	Configured  bool
	Seeded      bool
	Initialized bool
	Finished    bool
	Canceled    bool
	Level       int
	Path        treepath.Path
	CachedNodes int
}

// Engine is one GreatWall derivation session.
type Engine struct {
	stretcher   Stretcher
	deriver     *tacit.Deriver
	renderer    tacit.Renderer
	shuffler    Shuffler
	log         *zap.Logger
	rec         Recorder
	tracer      trace.Tracer
	parallelism int

	// canceled and cancelRun are the only fields touched without opMu.
	canceled  atomic.Bool
	cancelMu  sync.Mutex
	cancelRun context.CancelFunc

	status atomic.Pointer[Status]

	// opMu serializes driving operations. Everything below is guarded by it.
	opMu        sync.Mutex
	sessionID   uuid.UUID
	topo        Topology
	configured  bool
	sa0         *secret.Box
	initialized bool
	finished    bool
	level       int
	path        treepath.Path
	cache       *StateCache
	perm        []int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStretcher replaces the protocol's Argon2i profiles, e.g. with cheaper
// ones in tests.
func WithStretcher(s Stretcher) Option {
	return func(e *Engine) { e.stretcher = s }
}

// WithShuffler injects the source of display permutations.
func WithShuffler(s Shuffler) Option {
	return func(e *Engine) { e.shuffler = s }
}

// WithLogger sets the engine's logger. Secrets are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the measurement sink.
func WithMetrics(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// WithParallelism bounds the number of branches hashed concurrently by
// ListOptions. 1 hashes sequentially.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// WithRenderer selects the tacit-knowledge kind for the session. ListOptions
// derives the tagged values the renderer asks for.
func WithRenderer(r tacit.Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// New returns an unconfigured engine.
func New(opts ...Option) *Engine {
	e := &Engine{parallelism: 4}
	for _, opt := range opts {
		opt(e)
	}
	if e.stretcher == nil {
		e.stretcher = stretch.Protocol()
	}
	if e.shuffler == nil {
		e.shuffler = randomShuffler()
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.rec == nil {
		e.rec = nopRecorder{}
	}
	if e.parallelism < 1 {
		e.parallelism = 1
	}
	e.tracer = otel.Tracer(tracerName)
	e.deriver = tacit.NewDeriver(e.stretcher)
	e.cache = NewStateCache()
	e.sessionID = uuid.New()
	e.publish()
	return e
}

// Configure validates t and starts a fresh session with it. On error nothing
// changes.
func (e *Engine) Configure(t Topology) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e.opMu.Lock()
	defer e.release()

	e.resetLocked(true)
	e.topo = t
	e.configured = true
	e.log.Info("session configured",
		zap.String("session", e.sessionID.String()),
		zap.Int("depth", t.Depth),
		zap.Int("arity", t.Arity),
		zap.Int("tlp_iterations", t.TLPIterations))
	return nil
}

// SetSeed installs sa0. The engine keeps its own sealed copy; the caller may
// wipe entropy afterwards. Any navigation state is discarded.
func (e *Engine) SetSeed(entropy []byte) error {
	if len(entropy) == 0 {
		return newError(KindConfig, RuleEmptyEntropy, "greatwall: entropy must not be empty")
	}
	e.opMu.Lock()
	defer e.release()

	e.resetLocked(true)
	e.sa0 = secret.Seal(entropy)
	e.log.Info("seed installed", zap.String("session", e.sessionID.String()))
	return nil
}

// SetPassphrase decodes passphrase with dec and installs the result as the
// seed.
func (e *Engine) SetPassphrase(dec passphrase.Decoder, phrase string) error {
	entropy, err := dec.Decode(phrase)
	if err != nil {
		return wrapError(KindConfig, RulePassphrase, "greatwall: passphrase does not decode", err)
	}
	defer secret.Wipe(entropy)
	return e.SetSeed(entropy)
}

// Cancel stops the session. It is safe to call from any goroutine and more
// than once. An in-flight bootstrap stops at its next checkpoint; secrets
// are wiped as soon as no operation is running.
func (e *Engine) Cancel() {
	if e.canceled.Swap(true) {
		return
	}
	e.cancelMu.Lock()
	if e.cancelRun != nil {
		e.cancelRun()
	}
	e.cancelMu.Unlock()
	e.log.Info("session cancel requested", zap.String("session", e.Status().SessionID))
	if e.opMu.TryLock() {
		e.dropSecretsLocked()
		e.publish()
		e.opMu.Unlock()
	}
}

// Close cancels the session, waits for any running operation and wipes all
// secrets including the seed.
func (e *Engine) Close() error {
	e.Cancel()
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.resetLocked(false)
	e.publish()
	return nil
}

// Status returns a snapshot of the session. It never blocks on a running
// operation.
func (e *Engine) Status() Status {
	st := *e.status.Load()
	st.Canceled = e.canceled.Load()
	if st.Canceled {
		st.Phase = PhaseCanceled
	}
	st.Path = st.Path.Clone()
	return st
}

func (e *Engine) Level() int               { return e.Status().Level }
func (e *Engine) Path() treepath.Path      { return e.Status().Path }
func (e *Engine) Phase() Phase             { return e.Status().Phase }
func (e *Engine) Initialized() bool        { return e.Status().Initialized }
func (e *Engine) Finished() bool           { return e.Status().Finished }
func (e *Engine) Canceled() bool           { return e.canceled.Load() }
func (e *Engine) Topology() Topology       { return e.Status().Topology }
func (e *Engine) SessionID() string        { return e.Status().SessionID }
func (e *Engine) Renderer() tacit.Renderer { return e.renderer }

// release ends a driving operation. If Cancel ran while the operation held
// opMu, secrets are wiped here.
func (e *Engine) release() {
	if e.canceled.Load() {
		e.dropSecretsLocked()
	}
	e.publish()
	e.opMu.Unlock()
	if e.canceled.Load() && e.opMu.TryLock() {
		e.dropSecretsLocked()
		e.publish()
		e.opMu.Unlock()
	}
}

// resetLocked wipes the seed and every derived state. A new session also
// clears the canceled flag and gets a fresh id.
func (e *Engine) resetLocked(newSession bool) {
	e.dropSecretsLocked()
	if e.sa0 != nil {
		e.sa0.Destroy()
		e.sa0 = nil
	}
	if newSession {
		e.canceled.Store(false)
		e.sessionID = uuid.New()
	}
}

// dropSecretsLocked wipes the node states and returns navigation to the root.
// On a canceled session the seed goes too.
func (e *Engine) dropSecretsLocked() {
	e.cache.Clear()
	e.initialized = false
	e.finished = false
	e.level = 0
	e.path = treepath.Path{}
	e.perm = nil
	if e.canceled.Load() && e.sa0 != nil {
		e.sa0.Destroy()
		e.sa0 = nil
	}
}

func (e *Engine) publish() {
	st := &Status{
		SessionID:   e.sessionID.String(),
		Topology:    e.topo,
		Configured:  e.configured,
		Seeded:      e.sa0 != nil,
		Initialized: e.initialized,
		Finished:    e.finished,
		Level:       e.level,
		Path:        e.path.Clone(),
		CachedNodes: e.cache.Len(),
	}
	switch {
	case e.finished:
		st.Phase = PhaseFinished
	case e.initialized:
		st.Phase = PhaseAtNode
	default:
		st.Phase = PhaseRoot
	}
	e.status.Store(st)
}

// currentStateLocked opens the state of the current node.
func (e *Engine) currentStateLocked() ([]byte, error) {
	box, ok := e.cache.Get(e.path)
	if !ok {
		return nil, newError(KindInternal, RuleCacheMiss, fmt.Sprintf("greatwall: no cached state for level %d", e.level))
	}
	b, err := box.Open()
	if err != nil {
		return nil, wrapError(KindInternal, RuleCacheMiss, "greatwall: open cached state", err)
	}
	return b, nil
}

func (e *Engine) canceledError(rule, msg string) error {
	return wrapError(KindCanceled, rule, msg, ErrCanceled)
}

func hashError(msg string, err error) error {
	return wrapError(KindHash, RuleHashFailure, msg, err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
