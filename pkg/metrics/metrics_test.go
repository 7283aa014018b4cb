package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func value(m prometheus.Metric) float64 {
	var d dto.Metric
	if err := m.Write(&d); err != nil {
		return -1
	}
	switch {
	case d.Counter != nil:
		return d.Counter.GetValue()
	case d.Gauge != nil:
		return d.Gauge.GetValue()
	}
	return -1
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("conv"),
				WithHistogramBuckets([]float64{0.1, 1, 10}),
				WithSizeBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors carry the configured names and labels", func() {
				m.conversions.WithLabelValues("LCM", "SCY", "exact").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_conv_conversions_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel(), ShouldNotBeEmpty)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording conversions", func() {
			before := value(globalManager.conversions.WithLabelValues("LCM", "SCY", "exact"))
			altBefore := value(globalManager.altitudeAdjustments)

			RecordConversion("LCM", "SCY", "exact", true)
			RecordConversion("LCM", "SCY", "exact", false)

			Convey("Then the counters move", func() {
				So(value(globalManager.conversions.WithLabelValues("LCM", "SCY", "exact")), ShouldEqual, before+2)
				So(value(globalManager.altitudeAdjustments), ShouldEqual, altBefore+1)
			})
		})

		Convey("When recording lookups and errors", func() {
			before := value(globalManager.standardsLookups.WithLabelValues(OutcomeEmpty))
			RecordStandardsLookup(OutcomeEmpty)
			So(value(globalManager.standardsLookups.WithLabelValues(OutcomeEmpty)), ShouldEqual, before+1)

			errBefore := value(globalManager.conversionErrors.WithLabelValues("malformed_time"))
			RecordConversionError("malformed_time")
			So(value(globalManager.conversionErrors.WithLabelValues("malformed_time")), ShouldEqual, errBefore+1)
		})

		Convey("When setting gauges", func() {
			UpdateQueueCapacity(64)
			UpdateQueueSize(16)
			UpdateQueueUtilization(0.25)
			UpdateJobStoreRecords(7)

			So(value(globalManager.queueCapacity), ShouldEqual, 64)
			So(value(globalManager.queueSize), ShouldEqual, 16)
			So(value(globalManager.queueUtilization), ShouldEqual, 0.25)
			So(value(globalManager.jobStoreRecords), ShouldEqual, 7)
		})

		Convey("When recording everything else", func() {
			So(func() {
				RecordUnmappedConversion("LCM", "SCY")
				RecordConversionLatency(0.2)
				RecordBatchSize(12)
				RecordPlausibilityCheck(OutcomeRejected)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordJob("done")
				RecordJobDuplicate()
				RecordJobStoreEviction()
				UpdateWorkerActiveCount(2)
				RecordWorkerProcessingLatency(3)
				RecordWorkerError()
				RecordHTTPRequest("/convert", "POST", "200")
				RecordHTTPRequestDuration("/convert", "POST", "200", 1.5)
				RecordErrorByComponent("api", "validation")
				RecordErrorByEndpoint("/convert", "POST", "malformed_time")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When exposing the registry", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			Convey("Then only service collectors are present", func() {
				for _, mf := range families {
					So(strings.HasPrefix(mf.GetName(), "swimconv_engine_"), ShouldBeTrue)
				}
			})
		})
	})
}
