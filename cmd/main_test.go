package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/swimconv/internal/config"
	"github.com/okian/swimconv/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		_ = os.Setenv("SWIMCONV_ADDR", ":8080")
		_ = os.Setenv("SWIMCONV_JOB_QUEUE_SIZE", "100")
		_ = os.Setenv("SWIMCONV_WORKER_COUNT", "2")
		_ = os.Setenv("SWIMCONV_MAX_BATCH_SIZE", "2")
		defer func() {
			for _, k := range []string{"SWIMCONV_ADDR", "SWIMCONV_JOB_QUEUE_SIZE", "SWIMCONV_WORKER_COUNT", "SWIMCONV_MAX_BATCH_SIZE"} {
				_ = os.Unsetenv(k)
			}
		}()

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

		convey.Convey("When the service is built from it", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			svc := newService(cfg)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			stats := svc.GetStats()
			convey.So(stats["workerCount"], convey.ShouldEqual, 2)
			convey.So(stats["queueSize"], convey.ShouldEqual, 100)

			convey.Convey("Then the handler serves the API and the docs", func() {
				h := newHandler(ctx, svc)

				for _, path := range []string{"/healthz", "/stats", "/api-docs", "/openapi.yaml", "/standards?event=50_free&gender=men"} {
					w := httptest.NewRecorder()
					h.ServeHTTP(w, httptest.NewRequest("GET", path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}

				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusFound)

				w = httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest("POST", "/convert/batch", strings.NewReader(
					`{"from_course":"LCM","to_course":"SCY","times":[{"time":"1","event":"50_free"},{"time":"2","event":"50_free"},{"time":"3","event":"50_free"}]}`)))
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		_ = os.Setenv("SWIMCONV_ADDR", "")
		defer func() { _ = os.Unsetenv("SWIMCONV_ADDR") }()

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(cfg, convey.ShouldBeNil)
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a server on a free port", t, func() {
		cfg := config.New(context.Background())
		cfg.Addr = "127.0.0.1:0"
		cfg.WorkerCount = 1

		convey.Convey("When its context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg) }()

			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return after cancel")
				}
			})
		})

		convey.Convey("When the address cannot be bound", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			cfg.Addr = "256.0.0.1:99999"
			err := run(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
	})
}
