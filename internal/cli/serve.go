package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bpkcongli/schema-checker/internal/adapters/redis"
	"github.com/bpkcongli/schema-checker/internal/config"
	httpAdapter "github.com/bpkcongli/schema-checker/pkg/adapters/http"
	"github.com/bpkcongli/schema-checker/pkg/adapters/memory"
	"github.com/bpkcongli/schema-checker/pkg/metrics"
	"github.com/bpkcongli/schema-checker/pkg/persistence/middleware"
	"github.com/bpkcongli/schema-checker/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	// Port overrides server.port when positive.
	Port int
	// Collector, when set, is registered and exposed at /metrics. Its hooks
	// must already be attached to the catalog (see Options.Hooks).
	Collector *metrics.Collector
}

// NewRejectionStore opens the rejection log described by cfg. It returns a
// nil store when recording is disabled, a Redis store when an address is
// configured and an in-memory store otherwise. Payload keys matching
// server.mask_fields are masked before they are stored. The returned close
// function is never nil.
func NewRejectionStore(ctx context.Context, cfg *config.Config) (ports.RejectionStore, func() error, error) {
	noop := func() error { return nil }

	if !cfg.Server.RecordRejections {
		return nil, noop, nil
	}

	var mws []middleware.Middleware
	if len(cfg.Server.MaskFields) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Server.MaskFields)
		if err != nil {
			return nil, noop, err
		}
		mws = append(mws, pii)
	}

	if cfg.Redis.Addr == "" {
		return middleware.Chain(memory.NewStore(), mws...), noop, nil
	}

	opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
	if cfg.Redis.Prefix != "" {
		opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, noop, fmt.Errorf("redis %s unreachable: %w", cfg.Redis.Addr, err)
	}
	return middleware.Chain(store, mws...), store.Close, nil
}

// NewHandler builds the HTTP handler for env.
func NewHandler(ctx context.Context, env *Environment, opts ServeOptions) (http.Handler, func() error, error) {
	store, closeStore, err := NewRejectionStore(ctx, env.Config)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(env.Logger),
		httpAdapter.WithMaxBodyBytes(env.Config.Server.MaxBodyBytes),
	}
	if store != nil {
		handlerOpts = append(handlerOpts, httpAdapter.WithRejectionStore(store))
	}

	if opts.Collector != nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if err := opts.Collector.Register(reg); err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	handler, err := httpAdapter.NewHandler(env.Catalog, handlerOpts...)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return handler, closeStore, nil
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, env *Environment, opts ServeOptions) error {
	handler, closeStore, err := NewHandler(ctx, env, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	port := env.Config.Server.Port
	if opts.Port > 0 {
		port = opts.Port
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("Starting Schema Checker Server", "address", srv.Addr, "schemas", len(env.Catalog.Names()))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		env.Logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Error("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			return srv.Close()
		}
		env.Logger.Info("Schema Checker Server stopped gracefully")
		return nil
	}
}
