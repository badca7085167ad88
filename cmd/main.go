package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/matchday/internal/adapters/http/api"
	"github.com/okian/matchday/internal/adapters/provider"
	"github.com/okian/matchday/internal/adapters/repository"
	app "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/config"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Pick the store: Postgres when a database URL is configured, otherwise
	// the in-memory store (state rebuilds from the provider on restart, but
	// scores and the ledger do not survive).
	var store repository.Store
	if cfg.DatabaseURL != "" {
		pg, err := repository.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			os.Stderr.WriteString("failed to open database: " + err.Error() + "\n")
			return
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			os.Stderr.WriteString("failed to ensure schema: " + err.Error() + "\n")
			return
		}
		store = pg
		log.Info(ctx, "using postgres store")
	} else {
		store = repository.NewMemoryStore()
		log.Warn(ctx, "no database_url configured; scores will not survive restarts")
	}

	client := provider.NewHTTPClient(cfg.ProviderBaseURL,
		provider.WithToken(cfg.ProviderToken),
		provider.WithTimeout(time.Duration(cfg.ProviderTimeoutMS)*time.Millisecond),
	)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithProvider(client),
		app.WithTournament(cfg.TournamentID, cfg.TournamentName),
		app.WithPollInterval(time.Duration(cfg.PollIntervalSeconds)*time.Second),
		app.WithStartupRetryDelay(time.Duration(cfg.StartupRetryDelayMS)*time.Millisecond),
		app.WithSettleDelay(time.Duration(cfg.SettleDelayMS)*time.Millisecond),
		app.WithRecencyWindow(time.Duration(cfg.RecencyWindowHours)*time.Hour),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
