package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/orbsim/internal/config"
	"github.com/xtding233/orbsim/internal/metrics"
	"github.com/xtding233/orbsim/internal/observability"
	"github.com/xtding233/orbsim/internal/preset"
	"github.com/xtding233/orbsim/internal/server"
)

func serveCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC simulation APIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(cfg.Level())
	entry := log.WithField("service", cfg.ServiceName)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OtelEndpoint,
		SampleRate:     cfg.TraceSampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			entry.WithError(err).Warn("tracer shutdown")
		}
	}()

	m := metrics.New()
	loader := preset.NewLoader(cfg.PresetDir)
	watcher := preset.WatchLoader(loader, cfg.WatchInterval, entry, func(string) { m.PresetReloaded() })

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	svc := server.NewService(loader, cat, server.Limits{
		DefaultTrials: cfg.DefaultTrials,
		MaxTrials:     cfg.MaxTrials,
		Workers:       cfg.Workers,
		MaxPulls:      cfg.MaxPulls,
		Timeout:       cfg.RunTimeout,
	}, m, entry)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	httpHandler := server.NewHTTPHandler(svc, entry).Routes(cfg.RunTimeout)
	grpcServer := server.NewGRPCServer(svc, entry)
	metricsServer := metrics.NewServer(m, cfg.MetricsPort, "/metrics", entry)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return server.ServeHTTP(gctx, cfg.HTTPPort, httpHandler, entry) })
	eg.Go(func() error { return grpcServer.Serve(gctx, lis) })
	eg.Go(func() error { return metricsServer.Run(gctx) })
	eg.Go(func() error {
		watcher.Run(gctx)
		return nil
	})

	entry.WithField("banners", len(loader.Names())).Info("orbsim started")
	err = eg.Wait()
	entry.Info("orbsim stopped")
	return err
}
