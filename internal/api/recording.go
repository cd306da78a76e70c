package api

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/vidrec/internal/api/models"
	"github.com/smazurov/vidrec/internal/recorder"
)

func (s *Server) recordingResponse() *models.RecordingResponse {
	pt, ok := s.recorder.ProcessTime()
	return &models.RecordingResponse{
		Body: models.NewRecordingData(s.recorder.Status(), pt, ok),
	}
}

func (s *Server) registerRecordingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-recording",
		Method:      http.MethodGet,
		Path:        "/api/recording",
		Summary:     "Recording status",
		Description: "Current session state, timestamps and the last probed artifact",
		Tags:        []string{"recording"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.RecordingResponse, error) {
		return s.recordingResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "start-recording",
		Method:        http.MethodPost,
		Path:          "/api/recording/start",
		Summary:       "Start recording",
		Description:   "Launch the encoder and wait out its warm-up window",
		Tags:          []string{"recording"},
		DefaultStatus: http.StatusCreated,
		Security:      withAuth(),
		Errors:        []int{401, 409, 500},
	}, func(_ context.Context, _ *struct{}) (*models.RecordingResponse, error) {
		if _, err := s.recorder.Start(); err != nil {
			if errors.Is(err, recorder.ErrAlreadyRunning) {
				return nil, huma.Error409Conflict("recording already running")
			}
			if errors.Is(err, recorder.ErrEncoderExited) {
				return nil, huma.Error409Conflict("encoder exited, stop the recording to collect it")
			}
			s.logger.Error("Failed to start recording", "error", err)
			return nil, huma.Error500InternalServerError(err.Error())
		}
		return s.recordingResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-recording",
		Method:      http.MethodPost,
		Path:        "/api/recording/stop",
		Summary:     "Stop recording",
		Description: "Stop the encoder gracefully, force kill on timeout, then probe the output",
		Tags:        []string{"recording"},
		Security:    withAuth(),
		Errors:      []int{401, 409, 500},
	}, func(_ context.Context, _ *struct{}) (*models.RecordingResponse, error) {
		if _, err := s.recorder.Stop(); err != nil {
			if errors.Is(err, recorder.ErrNotRunning) {
				return nil, huma.Error409Conflict("no recording in progress")
			}
			s.logger.Error("Failed to stop recording", "error", err)
			return nil, huma.Error500InternalServerError(err.Error())
		}
		return s.recordingResponse(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "discard-recording",
		Method:        http.MethodDelete,
		Path:          "/api/recording",
		Summary:       "Discard recording",
		Description:   "Delete the recorded output file",
		Tags:          []string{"recording"},
		DefaultStatus: http.StatusNoContent,
		Security:      withAuth(),
		Errors:        []int{401, 404, 409, 500},
	}, func(_ context.Context, _ *struct{}) (*struct{}, error) {
		if st := s.recorder.Status().State; st == recorder.StateRunning || st == recorder.StateExited {
			return nil, huma.Error409Conflict("stop the recording before discarding it")
		}
		if err := s.recorder.Discard(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, huma.Error404NotFound("recording output not found")
			}
			return nil, huma.Error500InternalServerError(err.Error())
		}
		return nil, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "take-screenshot",
		Method:      http.MethodPost,
		Path:        "/api/screenshot",
		Summary:     "Screenshot",
		Description: "Capture a single frame from the video input",
		Tags:        []string{"screenshot"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 500},
	}, func(_ context.Context, input *models.ScreenshotRequest) (*models.ScreenshotResponse, error) {
		if strings.HasPrefix(input.Body.Path, "-") {
			return nil, huma.Error422UnprocessableEntity("path must not start with '-'")
		}
		path := s.recorder.Screenshot(input.Body.Path)
		if path == "" {
			return nil, huma.Error500InternalServerError("screenshot failed")
		}
		return &models.ScreenshotResponse{Body: models.ScreenshotData{Path: path}}, nil
	})
}
