package recorder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDependencyNotFound is returned by New when the encoder binary cannot be located.
	ErrDependencyNotFound = errors.New("encoder binary not found")

	// ErrStartupFailure is wrapped by StartupError.
	ErrStartupFailure = errors.New("encoder exited during startup")

	// ErrArtifactProbe is wrapped around the last probe error returned by Stop.
	ErrArtifactProbe = errors.New("artifact probe failed")

	// ErrAlreadyRunning is returned by Start while a recording is in progress.
	ErrAlreadyRunning = errors.New("recording already running")

	// ErrEncoderExited is returned by Start when the previous encoder exited
	// on its own and has not been collected with Stop.
	ErrEncoderExited = errors.New("encoder exited, stop the recording to collect it")

	// ErrNotRunning is returned by Stop when no recording is in progress.
	ErrNotRunning = errors.New("no recording running")
)

// StartupError reports an encoder that exited inside the warm-up window,
// or could not be spawned at all.
type StartupError struct {
	ExitCode int
	LogFile  string
	LogTail  []string
	Err      error
}

func (e *StartupError) Error() string {
	var b strings.Builder
	b.WriteString(ErrStartupFailure.Error())
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	} else {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if len(e.LogTail) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.LogTail, " | "))
	}
	return b.String()
}

func (e *StartupError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrStartupFailure, e.Err}
	}
	return []error{ErrStartupFailure}
}
