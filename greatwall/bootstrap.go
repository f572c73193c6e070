package greatwall

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Yuri-SVB/Great-Wall/secret"
	"github.com/Yuri-SVB/Great-Wall/treepath"
)

// Bootstrap runs the root pipeline
//
//	sa1 = quick(sa0)
//	sa2 = long(sa1), repeated TLPIterations times
//	sa3 = quick(sa0 || sa2)
//
// and makes sa3 the state of the root node. Cancellation (Cancel or ctx) is
// observed before each stage, between long-hash iterations and before the
// result is committed; on cancellation the session is left uninitialized and
// flagged canceled. Bootstrap blocks for the whole time-lock puzzle and must
// not run on an interactive goroutine; see Start.
func (e *Engine) Bootstrap(ctx context.Context) error {
	return e.bootstrap(ctx, func(Event) {})
}

// Start runs Bootstrap on a new goroutine and reports through the returned
// channel. Progress events are dropped rather than block the bootstrap if the
// reader falls behind; the final Completed, Canceled or Failed event is
// always delivered, after which the channel is closed.
func (e *Engine) Start(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		err := e.bootstrap(ctx, func(ev Event) {
			// One slot stays free for the terminal event.
			if len(ch) < cap(ch)-1 {
				ch <- ev
			}
		})
		switch {
		case err == nil:
			ch <- Event{Type: EventCompleted}
		case IsCanceled(err):
			ch <- Event{Type: EventCanceled, Err: err, Kind: KindCanceled}
		default:
			ch <- Event{Type: EventFailed, Err: err, Kind: KindOf(err)}
		}
	}()
	return ch
}

func (e *Engine) bootstrap(ctx context.Context, emit func(Event)) (err error) {
	e.opMu.Lock()
	defer e.release()

	if !e.configured {
		return newError(KindConfig, RuleNotConfigured, "greatwall: topology not configured")
	}
	if e.canceled.Load() {
		return e.canceledError(RuleSessionCanceled, "greatwall: session canceled; configure and seed again")
	}
	if e.sa0 == nil {
		return newError(KindConfig, RuleNotConfigured, "greatwall: seed not set")
	}

	// A repeated bootstrap starts the tree over.
	e.dropSecretsLocked()
	e.publish()

	runCtx, cancel := context.WithCancel(ctx)
	e.cancelMu.Lock()
	e.cancelRun = cancel
	e.cancelMu.Unlock()
	defer func() {
		e.cancelMu.Lock()
		e.cancelRun = nil
		e.cancelMu.Unlock()
		cancel()
	}()

	started := time.Now()
	log := e.log.With(zap.String("session", e.sessionID.String()))
	runCtx, span := e.tracer.Start(runCtx, "greatwall.bootstrap")
	span.SetAttributes(
		attribute.Int("greatwall.depth", e.topo.Depth),
		attribute.Int("greatwall.arity", e.topo.Arity),
		attribute.Int("greatwall.tlp_iterations", e.topo.TLPIterations),
	)
	defer func() {
		outcome := OutcomeCompleted
		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "")
		case IsCanceled(err):
			outcome = OutcomeCanceled
			span.SetStatus(codes.Error, "canceled")
		default:
			outcome = OutcomeFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed")
		}
		span.End()
		d := time.Since(started)
		e.rec.Bootstrapped(outcome, d)
		log.Info("bootstrap finished", zap.String("outcome", outcome), zap.Duration("elapsed", d))
	}()

	checkpoint := func(stage string) error {
		if e.canceled.Load() || runCtx.Err() != nil {
			e.canceled.Store(true)
			log.Info("bootstrap canceled", zap.String("before", stage))
			return e.canceledError(RuleBootstrapCanceled, "greatwall: bootstrap canceled before "+stage)
		}
		return nil
	}

	sa0, err := e.sa0.Open()
	if err != nil {
		return wrapError(KindInternal, RuleNotConfigured, "greatwall: open seed", err)
	}
	defer secret.Wipe(sa0)

	if err := checkpoint(StageSA1); err != nil {
		return err
	}
	emit(Event{Type: EventProgress, Stage: StageSA1})
	sa1, err := e.stage(runCtx, StageSA1, func(context.Context) ([]byte, error) {
		return e.stretcher.Quick(sa0)
	})
	if err != nil {
		return err
	}
	defer secret.Wipe(sa1)

	if err := checkpoint(StageSA2); err != nil {
		return err
	}
	total := e.topo.TLPIterations
	emit(Event{Type: EventProgress, Stage: StageSA2, Total: total})
	sa2, err := e.stage(runCtx, StageSA2, func(ctx context.Context) ([]byte, error) {
		return e.stretcher.Long(ctx, sa1, total, func(done, total int) {
			emit(Event{Type: EventProgress, Stage: StageSA2, Done: done, Total: total})
		})
	})
	if err != nil {
		if isContextErr(err) {
			e.canceled.Store(true)
			return wrapError(KindCanceled, RuleBootstrapCanceled, "greatwall: bootstrap canceled during "+StageSA2, ErrCanceled)
		}
		return err
	}
	defer secret.Wipe(sa2)

	if err := checkpoint(StageSA3); err != nil {
		return err
	}
	emit(Event{Type: EventProgress, Stage: StageSA3})
	sa3, err := e.stage(runCtx, StageSA3, func(context.Context) ([]byte, error) {
		in := make([]byte, 0, len(sa0)+len(sa2))
		in = append(in, sa0...)
		in = append(in, sa2...)
		defer secret.Wipe(in)
		return e.stretcher.Quick(in)
	})
	if err != nil {
		return err
	}
	defer secret.Wipe(sa3)

	if err := checkpoint("commit"); err != nil {
		return err
	}
	e.cache.Put(treepath.Path{}, sa3)
	e.level = 0
	e.path = treepath.Path{}
	e.initialized = true
	return nil
}

// stage runs one pipeline step inside its own span.
func (e *Engine) stage(ctx context.Context, name string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, span := e.tracer.Start(ctx, "greatwall.bootstrap."+name)
	defer span.End()
	start := time.Now()
	out, err := fn(ctx)
	if err != nil {
		if isContextErr(err) {
			span.SetStatus(codes.Error, "canceled")
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return nil, hashError("greatwall: "+name+" stage failed", err)
	}
	e.log.Debug("bootstrap stage done",
		zap.String("session", e.sessionID.String()),
		zap.String("stage", name),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
