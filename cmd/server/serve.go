package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"digitalidentity/internal/identity/handler"
	identitymetrics "digitalidentity/internal/identity/metrics"
	"digitalidentity/internal/identity/notify"
	"digitalidentity/internal/identity/service"
	"digitalidentity/internal/identity/store"
	"digitalidentity/internal/identity/validation"
	"digitalidentity/internal/platform/config"
	"digitalidentity/internal/platform/httpserver"
	"digitalidentity/internal/platform/logger"
	"digitalidentity/internal/platform/metrics"
	"digitalidentity/internal/platform/middleware"
	"digitalidentity/pkg/platform/httputil"
	"digitalidentity/pkg/platform/middleware/metadata"
	"digitalidentity/pkg/platform/middleware/requesttime"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	backend, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := openPublisher(ctx, cfg.Notify, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	httpMetrics := metrics.New()
	identityMetrics := identitymetrics.New()

	svc, err := service.New(backend,
		service.WithLogger(log),
		service.WithMetrics(identityMetrics),
		service.WithClosureTTL(cfg.Identity.ClosureTTL),
	)
	if err != nil {
		return err
	}
	notifier := notify.NewClient(publisher,
		notify.WithLogger(log),
		notify.WithMetrics(identityMetrics),
		notify.WithPublishTimeout(cfg.Notify.PublishTimeout),
	)
	h := handler.New(svc, validation.New(backend), notifier, cfg.Identity, log, identityMetrics)

	srv := httpserver.New(cfg.Server, newRouter(h, backend, cfg, log, httpMetrics))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting digital identity service",
			"addr", cfg.Server.Addr,
			"store", cfg.Store.Backend,
			"notify", cfg.Notify.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Store.Backend != config.StoreRedis && cfg.Identity.PurgeInterval > 0 {
		purger := store.NewPurger(backend, cfg.Identity.PurgeInterval, log, identityMetrics)
		g.Go(func() error {
			return purger.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newRouter installs correlation before the request logger so log lines carry
// the request id.
func newRouter(h *handler.Handler, backend identityBackend, cfg config.Config, log *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log, m))
	r.Use(metadata.Correlation(log))
	r.Use(metadata.CallerMetadata)
	r.Use(middleware.Logger(log))
	r.Use(middleware.LatencyMiddleware(m))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(requesttime.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := backend.Ping(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Register(r)
	return r
}
