package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/swimconv/internal/adapters/http/api"
	"github.com/okian/swimconv/internal/adapters/http/site"
	"github.com/okian/swimconv/internal/adapters/http/swagger"
	app "github.com/okian/swimconv/internal/app"
	"github.com/okian/swimconv/internal/config"
	"github.com/okian/swimconv/pkg/logger"
	"github.com/okian/swimconv/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// The default Go collectors live on the default registry; ours is custom.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger depends on the config, so this goes straight to stderr.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat, Level: cfg.LogLevel}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

func newService(cfg *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Get().Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.JobQueueSize),
		app.WithJobStoreSize(cfg.JobStoreSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxBatchSize(cfg.MaxBatchSize),
		app.WithBatchParallelism(cfg.BatchParallelism),
		app.WithStrictEvents(cfg.StrictEvents),
	)
}

// newHandler registers the root, docs and business routes.
func newHandler(ctx context.Context, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater updates the process gauges until ctx is done.
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

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
