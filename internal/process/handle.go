package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/smazurov/vidrec/internal/logging"
)

// Handle owns one running subprocess.
type Handle struct {
	cmd    *exec.Cmd
	logger logging.Logger

	stdinMu     sync.Mutex
	stdin       io.WriteCloser
	stdinClosed bool

	done    chan struct{}
	waitErr error
}

func newHandle(cmd *exec.Cmd, stdin io.WriteCloser, logger logging.Logger) *Handle {
	h := &Handle{
		cmd:    cmd,
		logger: logger,
		stdin:  stdin,
		done:   make(chan struct{}),
	}
	go func() {
		h.waitErr = cmd.Wait()
		close(h.done)
	}()
	return h
}

// PID returns the process id of the shell running the command.
func (h *Handle) PID() int {
	return h.cmd.Process.Pid
}

// WriteStdin writes s to the subprocess's standard input.
func (h *Handle) WriteStdin(s string) error {
	h.stdinMu.Lock()
	defer h.stdinMu.Unlock()
	if h.stdinClosed {
		return os.ErrClosed
	}
	_, err := io.WriteString(h.stdin, s)
	return err
}

// CloseStdin closes standard input. Closing twice is a no-op.
func (h *Handle) CloseStdin() error {
	h.stdinMu.Lock()
	defer h.stdinMu.Unlock()
	if h.stdinClosed {
		return nil
	}
	h.stdinClosed = true
	if err := h.stdin.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

// Done is closed once the subprocess has exited and been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Exited reports whether the subprocess has exited.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait waits up to timeout for the subprocess to exit and reports whether it did.
func (h *Handle) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		return h.Exited()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-h.done:
		return true
	case <-timer.C:
		return false
	}
}

// ExitCode returns the exit code, or -1 while the subprocess is running.
// A subprocess killed by a signal reports 128+signal on POSIX.
func (h *Handle) ExitCode() int {
	if !h.Exited() {
		return -1
	}
	if h.cmd.ProcessState != nil {
		return exitCode(h.cmd.ProcessState)
	}
	return exitCodeFromError(h.waitErr)
}

// Kill terminates the subprocess, escalating to a hard kill if it is still
// alive after grace.
func (h *Handle) Kill(grace time.Duration) error {
	if h.Exited() {
		return nil
	}

	pid := h.PID()
	if err := terminate(h.cmd.Process); err != nil {
		h.logger.Warn("Failed to terminate process", "pid", pid, "error", err)
	}
	if h.Wait(grace) {
		return nil
	}

	h.logger.Warn("Process ignored termination, killing", "pid", pid, "grace", grace)
	if err := forceKill(h.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		h.logger.Error("Failed to kill process", "pid", pid, "error", err)
	}
	if !h.Wait(grace) {
		return fmt.Errorf("process %d did not exit after kill", pid)
	}
	return nil
}

// WaitOrKill waits up to timeout for a normal exit, then kills the
// subprocess. It reports whether the kill was needed.
func (h *Handle) WaitOrKill(timeout, grace time.Duration) bool {
	if h.Wait(timeout) {
		return false
	}
	h.logger.Warn("Process did not exit in time, forcing kill", "pid", h.PID(), "timeout", timeout)
	if err := h.Kill(grace); err != nil {
		h.logger.Error("Forced kill failed", "pid", h.PID(), "error", err)
	}
	return true
}

// exitCodeFromError extracts exit code from process error.
// Returns 0 for nil error, the exit code for ExitError, or 1 for other errors.
func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
