package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/vidrec/internal/api/models"
	"github.com/smazurov/vidrec/internal/events"
)

// registerSSERoutes registers the recorder event stream.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil {
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time recording, screenshot and process events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"connected":           models.ConnectedEvent{},
		"recording-started":   events.RecordingStartedEvent{},
		"recording-failed":    events.RecordingFailedEvent{},
		"recording-stopped":   events.RecordingStoppedEvent{},
		"recording-exited":    events.RecordingExitedEvent{},
		"process-killed":      events.ProcessKilledEvent{},
		"screenshot-captured": events.ScreenshotCapturedEvent{},
		"screenshot-failed":   events.ScreenshotFailedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.RecordingStartedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RecordingFailedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RecordingStoppedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RecordingExitedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProcessKilledEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ScreenshotCapturedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ScreenshotFailedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		if err := send.Data(models.ConnectedEvent{
			Message:   "SSE connection established",
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
