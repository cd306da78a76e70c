package recorder

import (
	"time"

	"github.com/smazurov/vidrec/internal/probe"
)

// State is the lifecycle position of a Session.
type State string

// Session states.
const (
	StateIdle    State = "idle"    // never started, or last start failed
	StateRunning State = "running" // encoder alive past warm-up
	StateExited  State = "exited"  // encoder died after warm-up, awaiting Stop
	StateStopped State = "stopped" // last recording stopped
)

// Status is a point-in-time snapshot of a Session.
type Status struct {
	State     State
	PID       int
	ExitCode  int // set in StateExited
	Output    string
	LogFile   string
	StartedAt time.Time
	StoppedAt time.Time
	Video     *probe.Artifact
}
