// Command greatwalld serves one GreatWall derivation session over gRPC for a
// local host application, with Prometheus metrics on a separate listener.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Yuri-SVB/Great-Wall/agent"
	"github.com/Yuri-SVB/Great-Wall/config"
	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/logging"
	"github.com/Yuri-SVB/Great-Wall/metrics"
	"github.com/Yuri-SVB/Great-Wall/secret"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	var (
		configPath    string
		listen        string
		metricsListen string
	)
	cmd := &cobra.Command{
		Use:           "greatwalld",
		Short:         "Serve a GreatWall derivation session over gRPC",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("listen") {
				cfg.Agent.Listen = listen
			}
			if cmd.Flags().Changed("metrics-listen") {
				cfg.Agent.MetricsListen = metricsListen
			}
			log, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log, nil)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "gRPC listen address (default from config)")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "metrics listen address; empty disables")
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(errOut, "greatwalld:", err)
		return 1
	}
	return 0
}

// listeners reports the bound addresses once serving starts.
type listeners struct {
	GRPC    net.Addr
	Metrics net.Addr
}

// serve runs until ctx is done or a listener fails. ready, if set, is called
// once both listeners are bound.
func serve(ctx context.Context, cfg config.Config, log *zap.Logger, ready func(listeners)) error {
	if !secret.Secure() {
		log.Warn("secrets are not held in locked memory")
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	stretcher, err := cfg.Stretcher()
	if err != nil {
		return err
	}
	stretcher.Observer = m
	if cfg.Overridden() {
		log.Warn("stretch profiles overridden; derived secrets will not match the standard protocol")
	}
	renderer, err := cfg.Renderer(nil)
	if err != nil {
		return err
	}
	dec, err := cfg.Decoder()
	if err != nil {
		return err
	}

	eng := greatwall.New(
		greatwall.WithStretcher(stretcher),
		greatwall.WithLogger(log.Named("engine")),
		greatwall.WithMetrics(m),
		greatwall.WithParallelism(cfg.Engine.Parallelism),
		greatwall.WithRenderer(renderer),
	)
	defer func() { _ = eng.Close() }()
	if err := eng.Configure(cfg.Topology); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.Agent.Listen)
	if err != nil {
		return err
	}
	rpcLog := log.Named("rpc")
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(agent.UnaryLogger(rpcLog)),
		grpc.ChainStreamInterceptor(agent.StreamLogger(rpcLog)),
	)
	agent.RegisterDerivationServer(gs, &agent.Server{Engine: eng, Decoder: dec, Log: rpcLog})

	var (
		mlis    net.Listener
		httpSrv *http.Server
	)
	if cfg.Agent.MetricsListen != "" {
		if mlis, err = net.Listen("tcp", cfg.Agent.MetricsListen); err != nil {
			_ = lis.Close()
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		httpSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	addrs := listeners{GRPC: lis.Addr()}
	if mlis != nil {
		addrs.Metrics = mlis.Addr()
	}
	log.Info("greatwalld listening",
		zap.Stringer("grpc", addrs.GRPC),
		zap.String("metrics", cfg.Agent.MetricsListen),
		zap.Stringer("topology", cfg.Topology))
	if ready != nil {
		ready(addrs)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gs.Serve(lis)
	})
	if httpSrv != nil {
		g.Go(func() error {
			if err := httpSrv.Serve(mlis); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("greatwalld shutting down")
		// A running bootstrap only stops between iterations; cancel it so
		// GracefulStop does not wait on it.
		eng.Cancel()
		gs.GracefulStop()
		if httpSrv != nil {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(sctx)
		}
		return nil
	})
	return g.Wait()
}
