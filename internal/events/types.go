package events

// Event type constants for kelindar/event.
const (
	TypeRecordingStarted uint32 = iota + 1
	TypeRecordingFailed
	TypeRecordingStopped
	TypeProcessKilled
	TypeScreenshotCaptured
	TypeScreenshotFailed
	TypeRecordingExited
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// RecordingStartedEvent is published once the encoder survives its warm-up window.
type RecordingStartedEvent struct {
	PID       int    `json:"pid" example:"4242" doc:"Encoder process ID"`
	Output    string `json:"output" example:"/tmp/out.mp4" doc:"Recording output path"`
	Command   string `json:"command" doc:"Command line passed to the shell"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Start timestamp"`
}

// Type returns the event type identifier for RecordingStartedEvent.
func (e RecordingStartedEvent) Type() uint32 { return TypeRecordingStarted }

// RecordingFailedEvent is published when the encoder exits during warm-up.
type RecordingFailedEvent struct {
	Output    string   `json:"output" example:"/tmp/out.mp4" doc:"Recording output path"`
	ExitCode  int      `json:"exit_code" example:"1" doc:"Encoder exit code"`
	LogTail   []string `json:"log_tail" doc:"Last lines of the encoder log"`
	Timestamp string   `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Failure timestamp"`
}

// Type returns the event type identifier for RecordingFailedEvent.
func (e RecordingFailedEvent) Type() uint32 { return TypeRecordingFailed }

// RecordingStoppedEvent is published after Stop, whether or not probing succeeded.
type RecordingStoppedEvent struct {
	Output          string  `json:"output" example:"/tmp/out.mp4" doc:"Recording output path"`
	ProcessSeconds  float64 `json:"process_seconds" example:"12.4" doc:"Wall time between start and stop"`
	ArtifactSeconds float64 `json:"artifact_seconds,omitempty" example:"12.0" doc:"Duration reported by the prober"`
	Forced          bool    `json:"forced" doc:"Encoder had to be killed"`
	Error           string  `json:"error,omitempty" doc:"Artifact probe error, if any"`
	Timestamp       string  `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Stop timestamp"`
}

// Type returns the event type identifier for RecordingStoppedEvent.
func (e RecordingStoppedEvent) Type() uint32 { return TypeRecordingStopped }

// ProcessKilledEvent is published when a process outlived its wait and was killed.
type ProcessKilledEvent struct {
	Operation string `json:"operation" example:"record" doc:"record or screenshot"`
	PID       int    `json:"pid" example:"4242" doc:"Killed process ID"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Kill timestamp"`
}

// Type returns the event type identifier for ProcessKilledEvent.
func (e ProcessKilledEvent) Type() uint32 { return TypeProcessKilled }

// ScreenshotCapturedEvent is published when a screenshot command exits cleanly.
type ScreenshotCapturedEvent struct {
	Path      string `json:"path" example:"/tmp/shot.png" doc:"Screenshot file"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Capture timestamp"`
}

// Type returns the event type identifier for ScreenshotCapturedEvent.
func (e ScreenshotCapturedEvent) Type() uint32 { return TypeScreenshotCaptured }

// ScreenshotFailedEvent is published when a screenshot command fails or is killed.
type ScreenshotFailedEvent struct {
	Path      string `json:"path" example:"/tmp/shot.png" doc:"Requested screenshot file"`
	ExitCode  int    `json:"exit_code" example:"1" doc:"Process exit code"`
	Error     string `json:"error,omitempty" doc:"Failure description"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Failure timestamp"`
}

// Type returns the event type identifier for ScreenshotFailedEvent.
func (e ScreenshotFailedEvent) Type() uint32 { return TypeScreenshotFailed }

// RecordingExitedEvent is published when the encoder exits on its own after
// warm-up. The session still holds it until Stop.
type RecordingExitedEvent struct {
	Output    string `json:"output" example:"/tmp/out.mp4" doc:"Recording output path"`
	PID       int    `json:"pid" example:"4242" doc:"Encoder process ID"`
	ExitCode  int    `json:"exit_code" example:"1" doc:"Encoder exit code"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Exit timestamp"`
}

// Type returns the event type identifier for RecordingExitedEvent.
func (e RecordingExitedEvent) Type() uint32 { return TypeRecordingExited }
