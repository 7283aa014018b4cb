package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/swimconv/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
				convey.So(cfg.JobQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 500)
				convey.So(cfg.StrictEvents, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SWIMCONV_ADDR", ":8080")
			_ = os.Setenv("SWIMCONV_JOB_QUEUE_SIZE", "64")
			_ = os.Setenv("SWIMCONV_WORKER_COUNT", "3")
			_ = os.Setenv("SWIMCONV_STRICT_EVENTS", "true")
			_ = os.Setenv("SWIMCONV_LOG_FORMAT", "JSON")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.JobQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.StrictEvents, convey.ShouldBeTrue)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
# service
addr: ":9090"
job_store_size: 200
max_batch_size: 50
worker_count: 24
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SWIMCONV_CONFIG", tmpFile)
			_ = os.Setenv("SWIMCONV_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.JobStoreSize, convey.ShouldEqual, 200)
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 50)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SWIMCONV_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SWIMCONV_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SWIMCONV_JOB_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SWIMCONV_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a size is not positive", func() {
			_ = os.Setenv("SWIMCONV_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "worker_count")
			})
		})

		convey.Convey("When the log format is unknown", func() {
			_ = os.Setenv("SWIMCONV_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"SWIMCONV_CONFIG",
		"SWIMCONV_ADDR",
		"SWIMCONV_LOG_FORMAT",
		"SWIMCONV_JOB_QUEUE_SIZE",
		"SWIMCONV_WORKER_COUNT",
		"SWIMCONV_STRICT_EVENTS",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "swimconv-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
