// Package metrics exposes Prometheus metrics for recordings and screenshots.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vidrec"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	recordingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recordings_total",
		Help:      "Recordings by outcome: started, startup failure, probed, probe failure",
	}, []string{"result"})

	recordingActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "recording",
		Name:      "active",
		Help:      "1 while an encoder is recording",
	})

	recordingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "recording",
		Name:      "duration_seconds",
		Help:      "Wall time between start and stop",
		Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
	})

	artifactDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "artifact",
		Name:      "duration_seconds",
		Help:      "Media duration of the last probed artifact",
	})

	forcedKills = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_kills_total",
		Help:      "Processes killed after outliving their wait",
	}, []string{"operation"})

	screenshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screenshots_total",
		Help:      "Screenshots by outcome",
	}, []string{"result"})
)

// Recording outcome label values.
const (
	RecordingStarted     = "started"
	RecordingStartFailed = "start_failed"
	RecordingProbed      = "probed"
	RecordingProbeFailed = "probe_failed"
)
