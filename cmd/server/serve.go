package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/soumil/jeeprep/internal/api"
	"github.com/soumil/jeeprep/internal/catalog"
	"github.com/soumil/jeeprep/internal/counter"
	"github.com/soumil/jeeprep/internal/gate"
	"github.com/soumil/jeeprep/internal/identity"
	"github.com/soumil/jeeprep/internal/live"
	"github.com/soumil/jeeprep/internal/metrics"
	"github.com/soumil/jeeprep/internal/middleware"
	"github.com/soumil/jeeprep/internal/mocktest"
	"github.com/soumil/jeeprep/internal/store"
	"github.com/soumil/jeeprep/web"
	"github.com/spf13/cobra"
)

const sweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cfg)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "version", version)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	m := metrics.New()
	hub := live.NewHub()

	reporter := counter.NewReporter(cfg.Report.URL, cfg.Report.Timeout, nil)
	helped := counter.New(repo,
		counter.WithReporter(reporter),
		counter.WithNotifier(hub.Broadcast),
		counter.WithNotifier(m.SetStudentsHelped),
	)
	m.SetStudentsHelped(helped.Read(cmd.Context()))
	if reporter != nil {
		slog.Info("Counter reporting enabled", "url", cfg.Report.URL)
	}

	cat := catalog.Default(cfg.MaterialsBaseURL)
	gates := gate.NewRegistry(cat.Codes())
	tests := mocktest.NewService(mocktest.DefaultBank, cfg.AttemptTTL)
	// Forwarding headers are client-controlled unless a proxy sets them.
	limitKey := middleware.PeerIP
	if cfg.TrustProxy {
		limitKey = identity.IPFromRequest
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, limitKey)

	// Initialize handlers.
	apiHandler := api.NewHandler(cat, gates, tests, helped, m, cfg)
	healthHandler := api.NewHealthHandler(repo)
	liveHandler := live.NewHandler(hub, helped, originPatterns(cfg.AllowedOrigins))

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.PeerAddr)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins, identity.SessionHeaderName))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/metrics", m.Handler())

	// Routes that carry a device and tab identity.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))
		apiHandler.RegisterRoutes(r, limiter.Handler)
		r.Get("/ws/counter", liveHandler.ServeHTTP)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// No WriteTimeout: /ws/counter holds connections open.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate.StartSweeper(ctx, sweepInterval, cfg.SessionTTL, map[string]gate.Evicter{
		"gates":        gates,
		"attempts":     tests,
		"rate_limiter": limiter,
	})

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or listener failure.
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	helped.Close()
	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}

// originPatterns converts CORS origins into the host patterns the websocket
// accept check expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			patterns = append(patterns, "*")
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}
