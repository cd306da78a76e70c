package metrics

import (
	"github.com/smazurov/vidrec/internal/events"
)

// Attach feeds the collectors from bus and returns a function that detaches them.
func Attach(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(events.RecordingStartedEvent) {
			recordingsTotal.WithLabelValues(RecordingStarted).Inc()
			recordingActive.Set(1)
		}),
		bus.Subscribe(func(events.RecordingFailedEvent) {
			recordingsTotal.WithLabelValues(RecordingStartFailed).Inc()
			recordingActive.Set(0)
		}),
		bus.Subscribe(func(e events.RecordingStoppedEvent) {
			recordingActive.Set(0)
			recordingDuration.Observe(e.ProcessSeconds)
			if e.Error != "" {
				recordingsTotal.WithLabelValues(RecordingProbeFailed).Inc()
				return
			}
			recordingsTotal.WithLabelValues(RecordingProbed).Inc()
			artifactDuration.Set(e.ArtifactSeconds)
		}),
		bus.Subscribe(func(events.RecordingExitedEvent) {
			recordingActive.Set(0)
		}),
		bus.Subscribe(func(e events.ProcessKilledEvent) {
			forcedKills.WithLabelValues(e.Operation).Inc()
		}),
		bus.Subscribe(func(events.ScreenshotCapturedEvent) {
			screenshotsTotal.WithLabelValues(ResultSuccess).Inc()
		}),
		bus.Subscribe(func(events.ScreenshotFailedEvent) {
			screenshotsTotal.WithLabelValues(ResultFailure).Inc()
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
