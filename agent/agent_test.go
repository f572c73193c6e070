package agent_test

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/Yuri-SVB/Great-Wall/agent"
	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/secret"
	"github.com/Yuri-SVB/Great-Wall/stretch"
	"github.com/Yuri-SVB/Great-Wall/tacit"
)

func TestMain(m *testing.M) {
	secret.Seal([]byte{1}).Destroy()
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}

var topo = greatwall.Topology{Depth: 2, Arity: 3, TLPIterations: 2}

func newEngine(t *testing.T, opts ...greatwall.Option) *greatwall.Engine {
	t.Helper()
	s, err := stretch.New(
		stretch.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: stretch.OutputLen},
		stretch.Params{Time: 1, MemoryKiB: 256, Threads: 1, KeyLen: stretch.OutputLen},
	)
	require.NoError(t, err)
	base := []greatwall.Option{greatwall.WithStretcher(s), greatwall.WithShuffler(greatwall.NewShuffler([32]byte{3}))}
	e := greatwall.New(append(base, opts...)...)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func serve(t *testing.T, srv *agent.Server) *agent.Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(agent.UnaryLogger(zap.NewNop())),
		grpc.ChainStreamInterceptor(agent.StreamLogger(zap.NewNop())),
	)
	agent.RegisterDerivationServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.DialContext(ctx) }
	c, err := agent.Dial("passthrough:///bufnet", agent.DialOptions{
		Extra: []grpc.DialOption{grpc.WithContextDialer(dialer)},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
		gs.Stop()
	})
	return c
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestRemoteDerivationMatchesLocal(t *testing.T) {
	seed := []byte("correct horse battery staple")
	renderer, err := tacit.NewRenderer(tacit.KindFractal, tacit.Options{})
	require.NoError(t, err)

	c := serve(t, &agent.Server{Engine: newEngine(t, greatwall.WithRenderer(renderer))})
	local := newEngine(t, greatwall.WithRenderer(renderer))

	require.NoError(t, c.Configure(ctx(t), topo))
	require.NoError(t, c.SetSeed(ctx(t), seed))
	require.NoError(t, local.Configure(topo))
	require.NoError(t, local.SetSeed(seed))

	var events []greatwall.Event
	require.NoError(t, c.Start(ctx(t), func(ev greatwall.Event) { events = append(events, ev) }))
	require.NotEmpty(t, events)
	assert.Equal(t, greatwall.EventCompleted, events[len(events)-1].Type)
	require.NoError(t, local.Bootstrap(ctx(t)))

	for level := 0; level < topo.Depth; level++ {
		remote, err := c.ListOptions(ctx(t))
		require.NoError(t, err)
		want, err := local.ListOptions(ctx(t))
		require.NoError(t, err)

		assert.Equal(t, level, remote.Level)
		require.Len(t, remote.Candidates, topo.Arity)
		for i, cand := range remote.Candidates {
			assert.Equal(t, want.Candidates[i].Position, cand.Position)
			assert.Equal(t, want.Candidates[i].Value, cand.Value)
			assert.Equal(t, want.Candidates[i].Display, cand.Display)
		}

		st, err := c.Choose(ctx(t), 2)
		require.NoError(t, err)
		assert.Equal(t, level+1, st.Level)
		require.NoError(t, local.Choose(ctx(t), 2))
	}

	ka, err := c.Finish(ctx(t))
	require.NoError(t, err)
	want, err := local.Finish()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(want, ka), "remote and local derivations differ")
	assert.Len(t, ka, stretch.OutputLen)

	st, err := c.Status(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, greatwall.PhaseFinished, st.Phase)
	assert.Equal(t, topo, st.Topology)
	assert.True(t, st.Path.Len() == 0, "path must not cross the wire")

	st, err = c.GoBack(ctx(t))
	require.NoError(t, err)
	assert.Equal(t, greatwall.PhaseAtNode, st.Phase)
	assert.Equal(t, topo.Depth-1, st.Level)
}

func TestRemoteErrorsKeepRuleIDs(t *testing.T) {
	c := serve(t, &agent.Server{Engine: newEngine(t)})

	err := c.Configure(ctx(t), greatwall.Topology{Depth: 0, Arity: 3, TLPIterations: 1})
	require.Error(t, err)
	assert.True(t, greatwall.IsKind(err, greatwall.KindConfig))
	assert.Equal(t, greatwall.RuleDepth, greatwall.RuleIDOf(err))

	_, err = c.Bootstrap(ctx(t))
	assert.Equal(t, greatwall.RuleNotConfigured, greatwall.RuleIDOf(err))

	require.NoError(t, c.Configure(ctx(t), topo))
	require.NoError(t, c.SetPassphrase(ctx(t), "alpha beta"))

	_, err = c.Choose(ctx(t), 1)
	assert.True(t, greatwall.IsKind(err, greatwall.KindTransition))
	assert.Equal(t, greatwall.RuleNotInitialized, greatwall.RuleIDOf(err))

	st, err := c.Bootstrap(ctx(t))
	require.NoError(t, err)
	assert.True(t, st.Initialized)

	_, err = c.Choose(ctx(t), 1)
	assert.Equal(t, greatwall.RuleNoOptionsListed, greatwall.RuleIDOf(err))

	_, err = c.ListOptions(ctx(t))
	require.NoError(t, err)
	_, err = c.Choose(ctx(t), topo.Arity+1)
	assert.Equal(t, greatwall.RuleBadChoice, greatwall.RuleIDOf(err))

	_, err = c.Finish(ctx(t))
	assert.Equal(t, greatwall.RuleFinishEarly, greatwall.RuleIDOf(err))

	require.NoError(t, c.Cancel(ctx(t)))
	_, err = c.ListOptions(ctx(t))
	assert.True(t, greatwall.IsCanceled(err))
	assert.Equal(t, greatwall.RuleSessionCanceled, greatwall.RuleIDOf(err))

	st, err = c.Status(ctx(t))
	require.NoError(t, err)
	assert.True(t, st.Canceled)
	assert.Equal(t, greatwall.PhaseCanceled, st.Phase)
	assert.False(t, st.Seeded)
}

func TestMissingEngine(t *testing.T) {
	c := serve(t, &agent.Server{})
	_, err := c.Status(ctx(t))
	require.Error(t, err)
	assert.Empty(t, greatwall.RuleIDOf(err))
}
