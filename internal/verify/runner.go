package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/pkg/logger"
)

const (
	directoryPermission = 0o750
	progressInterval    = time.Second
)

// Run generates samples, converts them on the server concurrently and
// compares every answer with the local engine. It returns ErrMismatch when
// any answer disagreed or failed.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Get().Named("verify")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting verification",
		logger.String("baseURL", config.BaseURL),
		logger.Int("times", config.NumTimes),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
	)

	client := newHTTPClient(config.Timeout)
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	samples := generateSamples(config.NumTimes, config.InvalidRatio)
	stats.Generated = len(samples)

	if config.OutputFile != "" {
		if err := saveSamples(config.OutputFile, samples); err != nil {
			log.Warn(ctx, "failed to save samples", logger.Error(err))
		}
	}

	if err := submitSamples(ctx, client, config, samples, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Mismatched > 0 || stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d mismatched, %d failed", ErrMismatch, stats.Mismatched, stats.Failed)
	}
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	status, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

// submitSamples posts every sample to /convert with at most config.Workers
// requests in flight.
func submitSamples(ctx context.Context, client *HTTPClient, config *Config, samples []Sample, stats *Stats) error {
	log := logger.Get().Named("verify")
	engine := conversion.NewEngine()
	url := config.BaseURL + "/convert"

	var (
		mu         sync.Mutex
		lastReport = time.Now()
	)
	record := func(s Sample, reason string, failed bool) {
		mu.Lock()
		defer mu.Unlock()

		stats.Submitted++
		switch {
		case failed:
			stats.Failed++
		case reason != "":
			stats.Mismatched++
		default:
			stats.Matched++
		}
		if reason != "" && len(stats.Mismatches) < maxReportedMismatches {
			stats.Mismatches = append(stats.Mismatches, Mismatch{Sample: s, Reason: reason})
		}
		if config.Verbose && time.Since(lastReport) >= progressInterval {
			lastReport = time.Now()
			log.Info(ctx, "progress",
				logger.Int("submitted", stats.Submitted),
				logger.Int("total", len(samples)),
				logger.Int("mismatched", stats.Mismatched),
			)
		}
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, s := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			status, body, err := client.PostJSON(gctx, url, s)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				record(s, err.Error(), true)
				return nil
			}
			record(s, compare(engine, s, status, body), false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}
	return nil
}

func saveSamples(filename string, samples []Sample) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal samples: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("matched", stats.Matched),
		logger.Int("mismatched", stats.Mismatched),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond),
	)
	for _, m := range stats.Mismatches {
		log.Warn(ctx, "mismatch",
			logger.String("time", m.Sample.Time),
			logger.String("event", m.Sample.Event),
			logger.String("from", m.Sample.From),
			logger.String("to", m.Sample.To),
			logger.String("reason", m.Reason),
		)
	}
}
