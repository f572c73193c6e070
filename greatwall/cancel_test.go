package greatwall

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCancelDuringBootstrap(t *testing.T) {
	bs := &blockingStretcher{Stretcher: testStretcher(t), started: make(chan struct{})}
	rec := &recordingRecorder{}
	e := newTestEngine(t, WithStretcher(bs), WithMetrics(rec))
	topo := Topology{Depth: 2, Arity: 3, TLPIterations: 5}
	if err := e.Configure(topo); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := e.SetSeed(seedE); err != nil {
		t.Fatalf("SetSeed: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- e.Bootstrap(context.Background()) }()
	<-bs.started

	// Status does not wait for the running bootstrap.
	if e.Initialized() {
		t.Fatalf("initialized while bootstrapping")
	}
	e.Cancel()
	e.Cancel()

	var err error
	select {
	case err = <-errc:
	case <-time.After(5 * time.Second):
		t.Fatalf("bootstrap did not stop after Cancel")
	}
	if !IsKind(err, KindCanceled) || RuleIDOf(err) != RuleBootstrapCanceled || !errors.Is(err, ErrCanceled) {
		t.Fatalf("Bootstrap: got %v", err)
	}
	st := e.Status()
	if st.Initialized || !st.Canceled || st.Phase != PhaseCanceled || st.Seeded || st.CachedNodes != 0 {
		t.Fatalf("unexpected status after cancel: %+v", st)
	}

	// Everything is refused until a fresh configure and seed.
	if err := e.Bootstrap(context.Background()); RuleIDOf(err) != RuleSessionCanceled {
		t.Fatalf("Bootstrap after cancel: got %v", err)
	}
	if _, err := e.ListOptions(context.Background()); !IsKind(err, KindCanceled) {
		t.Fatalf("ListOptions after cancel: got %v", err)
	}
	if err := e.Choose(context.Background(), 1); RuleIDOf(err) != RuleAfterCancel {
		t.Fatalf("Choose after cancel: got %v", err)
	}
	if err := e.GoBack(); RuleIDOf(err) != RuleAfterCancel {
		t.Fatalf("GoBack after cancel: got %v", err)
	}

	if err := e.Configure(topo); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := e.SetSeed(seedE); err != nil {
		t.Fatalf("SetSeed: %v", err)
	}
	if err := e.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap after reset: %v", err)
	}
	if !e.Initialized() || e.Canceled() {
		t.Fatalf("unexpected status after reset: %+v", e.Status())
	}
	if len(rec.outcomes) != 2 || rec.outcomes[0] != OutcomeCanceled || rec.outcomes[1] != OutcomeCompleted {
		t.Fatalf("outcomes = %v", rec.outcomes)
	}
}

func TestContextCancelStopsBootstrap(t *testing.T) {
	bs := &blockingStretcher{Stretcher: testStretcher(t), started: make(chan struct{})}
	e := newTestEngine(t, WithStretcher(bs))
	if err := e.Configure(Topology{Depth: 1, Arity: 2, TLPIterations: 3}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := e.SetSeed(seedE); err != nil {
		t.Fatalf("SetSeed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- e.Bootstrap(ctx) }()
	<-bs.started
	cancel()
	if err := <-errc; !IsCanceled(err) {
		t.Fatalf("Bootstrap: got %v", err)
	}
	if !e.Canceled() || e.Initialized() {
		t.Fatalf("unexpected status: %+v", e.Status())
	}
}

func TestCancelWipesNavigationState(t *testing.T) {
	e := bootstrapped(t, Topology{Depth: 3, Arity: 2, TLPIterations: 1}, seedE)
	chooseBranch(t, e, 0)
	chooseBranch(t, e, 1)
	e.Cancel()

	st := e.Status()
	if st.Level != 0 || st.Path.Len() != 0 || st.CachedNodes != 0 || st.Initialized {
		t.Fatalf("secrets survived Cancel: %+v", st)
	}
	if e.cache.Len() != 0 || e.sa0 != nil {
		t.Fatalf("cache or seed not wiped")
	}
}

func TestStartEvents(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Configure(Topology{Depth: 1, Arity: 2, TLPIterations: 3}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := e.SetSeed(seedE); err != nil {
		t.Fatalf("SetSeed: %v", err)
	}

	var events []Event
	for ev := range e.Start(context.Background()) {
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatalf("no events")
	}
	last := events[len(events)-1]
	if last.Type != EventCompleted || !last.Terminal() {
		t.Fatalf("last event = %+v", last)
	}
	var stages []string
	iterations := 0
	for _, ev := range events[:len(events)-1] {
		if ev.Type != EventProgress {
			t.Fatalf("non-progress event before the end: %+v", ev)
		}
		if ev.Stage == StageSA2 && ev.Done > 0 {
			iterations++
			continue
		}
		stages = append(stages, ev.Stage)
	}
	if len(stages) != 3 || stages[0] != StageSA1 || stages[1] != StageSA2 || stages[2] != StageSA3 {
		t.Fatalf("stages = %v", stages)
	}
	if iterations != 3 {
		t.Fatalf("iteration events = %d, want 3", iterations)
	}
	if !e.Initialized() {
		t.Fatalf("not initialized after Completed")
	}
}

func TestStartReportsCancel(t *testing.T) {
	bs := &blockingStretcher{Stretcher: testStretcher(t), started: make(chan struct{})}
	e := newTestEngine(t, WithStretcher(bs))
	if err := e.Configure(Topology{Depth: 1, Arity: 2, TLPIterations: 1}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := e.SetSeed(seedE); err != nil {
		t.Fatalf("SetSeed: %v", err)
	}
	ch := e.Start(context.Background())
	<-bs.started
	e.Cancel()

	var last Event
	for ev := range ch {
		last = ev
	}
	if last.Type != EventCanceled || last.Kind != KindCanceled {
		t.Fatalf("last event = %+v", last)
	}
}

func TestStartReportsFailure(t *testing.T) {
	e := newTestEngine(t)
	var last Event
	for ev := range e.Start(context.Background()) {
		last = ev
	}
	if last.Type != EventFailed || last.Kind != KindConfig {
		t.Fatalf("last event = %+v", last)
	}
}
