package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording reconciliation metrics", func() {
			Convey("Then it should record polls", func() {
				So(func() {
					RecordPoll()
					RecordPoll()
					RecordPoll()
				}, ShouldNotPanic)
			})

			Convey("And it should record poll errors", func() {
				So(func() {
					RecordPollError()
					RecordPollError()
				}, ShouldNotPanic)
			})

			Convey("And it should record poll duration", func() {
				So(func() {
					RecordPollDuration(100.0)
					RecordPollDuration(150.0)
					RecordPollDuration(200.0)
				}, ShouldNotPanic)
			})

			Convey("And it should update match counts", func() {
				So(func() {
					UpdateMatchCounts(10, 2, 50)
					UpdateMatchCounts(9, 3, 50)
					UpdateMatchCounts(0, 0, 0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording settlement metrics", func() {
			Convey("Then it should record settled completions", func() {
				So(func() {
					RecordCompletionSettled()
					RecordCompletionSettled()
				}, ShouldNotPanic)
			})

			Convey("And it should record scored users", func() {
				So(func() {
					RecordUserScored()
					RecordUserScored()
					RecordUserScored()
				}, ShouldNotPanic)
			})

			Convey("And it should record scoring errors", func() {
				So(func() {
					RecordScoringError()
					RecordScoringError()
				}, ShouldNotPanic)
			})

			Convey("And it should record settle duration", func() {
				So(func() {
					RecordSettleDuration(25.0)
					RecordSettleDuration(50.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording prediction metrics", func() {
			Convey("Then it should record accepted predictions", func() {
				So(func() {
					RecordPredictionAccepted()
					RecordPredictionAccepted()
				}, ShouldNotPanic)
			})

			Convey("And it should record rejected predictions by reason", func() {
				So(func() {
					RecordPredictionRejected("match_started")
					RecordPredictionRejected("unknown_match")
					RecordPredictionRejected("invalid_probability")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording leaderboard metrics", func() {
			Convey("Then it should record rebuilds", func() {
				So(func() {
					RecordLeaderboardRebuild()
					RecordLeaderboardRebuild()
				}, ShouldNotPanic)
			})

			Convey("And it should record rebuild errors", func() {
				So(func() {
					RecordLeaderboardError()
					RecordLeaderboardError()
				}, ShouldNotPanic)
			})

			Convey("And it should update snapshot size", func() {
				So(func() {
					UpdateLeaderboardSize(100)
					UpdateLeaderboardSize(250)
					UpdateLeaderboardSize(0)
				}, ShouldNotPanic)
			})

			Convey("And it should record rebuild duration", func() {
				So(func() {
					RecordLeaderboardRebuildDuration(5.0)
					RecordLeaderboardRebuildDuration(15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording recency window metrics", func() {
			Convey("Then it should update window size", func() {
				So(func() {
					UpdateRecencyWindowSize(3)
					UpdateRecencyWindowSize(0)
				}, ShouldNotPanic)
			})

			Convey("And it should record expiries", func() {
				So(func() {
					RecordRecencyExpiry(1)
					RecordRecencyExpiry(2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/predictions", "POST", "202")
					RecordHTTPRequest("/leaderboard", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/predictions", "POST", "202", 10.0)
					RecordHTTPRequestDuration("/leaderboard", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system memory usage", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024 * 100)
					UpdateSystemMemoryUsage(1024 * 1024 * 200)
				}, ShouldNotPanic)
			})

			Convey("And it should update system goroutine count", func() {
				So(func() {
					UpdateSystemGoroutineCount(100)
					UpdateSystemGoroutineCount(200)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsEdgeCases(t *testing.T) {
	Convey("Given metrics edge cases", t, func() {
		Convey("When recording metrics with edge values", func() {
			Convey("And using zero values", func() {
				So(func() {
					UpdateMatchCounts(0, 0, 0)
					UpdateLeaderboardSize(0)
					RecordPollDuration(0.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 0.0)
				}, ShouldNotPanic)
			})

			Convey("And using very large values", func() {
				So(func() {
					UpdateMatchCounts(1000000, 1000000, 1000000)
					UpdateLeaderboardSize(10000000)
					RecordPollDuration(10000.0)
					RecordHTTPRequestDuration("/test", "GET", "200", 30000.0)
				}, ShouldNotPanic)
			})

			Convey("And using empty strings", func() {
				So(func() {
					RecordHTTPRequest("", "", "200")
					RecordHTTPRequestDuration("", "", "200", 10.0)
					RecordPredictionRejected("")
				}, ShouldNotPanic)
			})

			Convey("And using special characters in labels", func() {
				So(func() {
					RecordHTTPRequest("/matches?phase=live", "GET", "200")
					RecordPredictionRejected("reason-with-dash")
					RecordHTTPRequest("/users/abc.def", "GET", "404")
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics concurrency", t, func() {
		Convey("When recording metrics concurrently", func() {
			done := make(chan bool, 10)

			for i := 0; i < 10; i++ {
				go func(id int) {
					for j := 0; j < 100; j++ {
						RecordPoll()
						UpdateMatchCounts(j, j, j)
						RecordPollDuration(float64(j))
						RecordHTTPRequest("/test", "GET", "200")
					}
					done <- true
				}(i)
			}

			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then it should handle concurrent access without panics", func() {
				So(true, ShouldBeTrue) // If we get here, no panics occurred
			})
		})
	})
}

func TestMetricsOptionsValidation(t *testing.T) {
	Convey("Given metrics options validation", t, func() {
		Convey("When creating with empty namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(WithNamespace(""), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil histogram buckets", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with nil custom labels", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(WithCustomLabels(nil), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with zero refresh interval", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(WithRefreshInterval(0), WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}
