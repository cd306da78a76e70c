package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/smazurov/vidrec/internal/events"
	"github.com/smazurov/vidrec/internal/ffmpeg"
	"github.com/smazurov/vidrec/internal/logging"
	"github.com/smazurov/vidrec/internal/probe"
	"github.com/smazurov/vidrec/internal/process"
)

const startupTailLines = 2

// Session records one output file at a time.
type Session struct {
	cfg     Config
	binary  string
	options *ffmpeg.Options

	logger   logging.Logger
	spawner  process.Spawner
	prober   probe.Prober
	bus      *events.Bus
	lookPath func(string) (string, error)

	// opMu serializes Start, Stop and Discard.
	opMu sync.Mutex

	mu        sync.Mutex
	handle    *process.Handle
	logFile   *os.File
	startedAt time.Time
	stoppedAt time.Time
	video     *probe.Artifact
	stopped   bool
	stopping  bool
}

// New validates cfg, locates the encoder binary and returns an idle session.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg.applyDefaults()

	s := &Session{
		cfg:      cfg,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.GetLogger("recorder")
	}
	if s.spawner == nil {
		s.spawner = process.NewSpawner(logging.GetLogger("process"))
	}
	if s.prober == nil {
		s.prober = probe.NewFFprobe(cfg.ProbeBinary)
	}

	binary, err := s.lookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDependencyNotFound, cfg.Binary, err)
	}
	s.binary = binary

	options, err := ffmpeg.NewOptions(cfg.Video, cfg.Audio, cfg.Output, cfg.Advanced, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	s.options = options

	s.logger.Debug("Recorder session created", "binary", binary, "output", options.Output(), "log_file", options.LogFile())
	return s, nil
}

// Options returns the immutable encoder options.
func (s *Session) Options() *ffmpeg.Options {
	return s.options
}

// Binary returns the resolved encoder path.
func (s *Session) Binary() string {
	return s.binary
}

// Video returns the artifact of the last successful Stop, or nil.
func (s *Session) Video() *probe.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

// ProcessTime returns the wall time between the last start and stop.
// ok is false until both have happened.
func (s *Session) ProcessTime() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() || s.stoppedAt.IsZero() {
		return 0, false
	}
	return s.stoppedAt.Sub(s.startedAt), true
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:     StateIdle,
		Output:    s.options.Output(),
		LogFile:   s.options.LogFile(),
		StartedAt: s.startedAt,
		StoppedAt: s.stoppedAt,
		Video:     s.video,
	}
	switch {
	case s.handle != nil && s.handle.Exited():
		st.State = StateExited
		st.PID = s.handle.PID()
		st.ExitCode = s.handle.ExitCode()
	case s.handle != nil:
		st.State = StateRunning
		st.PID = s.handle.PID()
	case s.stopped:
		st.State = StateStopped
	}
	return st
}

// Start launches the encoder and waits through the warm-up window.
// The returned handle stays owned by the session.
func (s *Session) Start() (*process.Handle, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.handle != nil {
		exited := s.handle.Exited()
		s.mu.Unlock()
		if exited {
			return nil, ErrEncoderExited
		}
		return nil, ErrAlreadyRunning
	}
	s.video = nil
	s.startedAt = time.Time{}
	s.stoppedAt = time.Time{}
	s.stopped = false
	s.mu.Unlock()

	command := ffmpeg.BuildRecordCommand(s.binary, s.options, s.spawner.Quote)
	logPath := s.options.LogFile()

	// unbuffered, every encoder write lands in the file
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open encoder log: %w", err)
	}

	handle, err := s.spawner.Spawn(command, logFile)
	if err != nil {
		logFile.Close()
		serr := &StartupError{ExitCode: -1, LogFile: logPath, Err: err}
		s.publishFailed(serr)
		return nil, serr
	}
	startedAt := time.Now()

	s.logger.Debug("Encoder spawned, warming up", "pid", handle.PID(), "warm_up", s.cfg.WarmUp)

	if handle.Wait(s.cfg.WarmUp) {
		_ = handle.CloseStdin()
		logFile.Close()

		lines, readErr := ffmpeg.ReadLogLines(logPath)
		if readErr != nil {
			s.logger.Warn("Failed to read encoder log", "path", logPath, "error", readErr)
		}
		s.relayLog(lines)

		serr := &StartupError{
			ExitCode: handle.ExitCode(),
			LogFile:  logPath,
			LogTail:  ffmpeg.Tail(lines, startupTailLines),
		}
		s.logger.Error("Encoder exited during warm-up", "exit_code", serr.ExitCode, "log_file", logPath)
		s.publishFailed(serr)
		return nil, serr
	}

	s.mu.Lock()
	s.handle = handle
	s.logFile = logFile
	s.startedAt = startedAt
	s.mu.Unlock()

	s.logger.Info("Recording started", "pid", handle.PID(), "output", s.options.Output())
	s.publish(events.RecordingStartedEvent{
		PID:       handle.PID(),
		Output:    s.options.Output(),
		Command:   command,
		Timestamp: startedAt.Format(time.RFC3339),
	})
	go s.watchExit(handle)
	return handle, nil
}

// watchExit reports an encoder that exits before Stop is called.
func (s *Session) watchExit(handle *process.Handle) {
	<-handle.Done()

	s.mu.Lock()
	unexpected := s.handle == handle && !s.stopping
	s.mu.Unlock()
	if !unexpected {
		return
	}

	s.logger.Warn("Encoder exited before stop", "pid", handle.PID(), "exit_code", handle.ExitCode())
	s.publish(events.RecordingExitedEvent{
		Output:    s.options.Output(),
		PID:       handle.PID(),
		ExitCode:  handle.ExitCode(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Stop ends the recording and probes the output file. Stdin and the log file
// are closed before waiting, whether or not the encoder has to be killed.
// An encoder that already exited on its own is reaped the same way.
func (s *Session) Stop() (*probe.Artifact, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	handle, logFile := s.handle, s.logFile
	if handle == nil {
		s.mu.Unlock()
		return nil, ErrNotRunning
	}
	s.stoppedAt = time.Now()
	s.stopping = true
	s.mu.Unlock()

	pid := handle.PID()
	if err := handle.WriteStdin("q\n"); err != nil {
		s.logger.Warn("Failed to send quit to encoder", "pid", pid, "error", err)
	}
	if err := handle.CloseStdin(); err != nil {
		s.logger.Warn("Failed to close encoder stdin", "pid", pid, "error", err)
	}
	if err := logFile.Close(); err != nil {
		s.logger.Warn("Failed to close encoder log", "path", logFile.Name(), "error", err)
	}

	forced := handle.WaitOrKill(s.cfg.StopTimeout, s.cfg.KillGrace)
	if forced {
		s.logger.Warn("Encoder killed after stop timeout", "pid", pid, "timeout", s.cfg.StopTimeout)
		s.publish(events.ProcessKilledEvent{
			Operation: "record",
			PID:       pid,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}

	s.mu.Lock()
	s.handle = nil
	s.logFile = nil
	s.stopped = true
	s.stopping = false
	elapsed := s.stoppedAt.Sub(s.startedAt)
	s.mu.Unlock()

	s.logger.Info("Recording stopped", "pid", pid, "exit_code", handle.ExitCode(), "elapsed", elapsed, "forced", forced)

	artifact, err := s.prepareArtifact(context.Background())

	s.mu.Lock()
	s.video = artifact
	s.mu.Unlock()

	ev := events.RecordingStoppedEvent{
		Output:         s.options.Output(),
		ProcessSeconds: elapsed.Seconds(),
		Forced:         forced,
		Timestamp:      time.Now().Format(time.RFC3339),
	}
	if artifact != nil {
		ev.ArtifactSeconds = artifact.Duration.Seconds()
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.publish(ev)

	return artifact, err
}

// Screenshot captures a single frame of the video input into filename.
// It returns filename on success and "" on failure; the recording and its
// artifact are not touched.
func (s *Session) Screenshot(filename string) string {
	command := ffmpeg.BuildScreenshotCommand(s.binary, s.options.Video(), filename, s.spawner.Quote)

	handle, err := s.spawner.Spawn(command, nil)
	if err != nil {
		s.logger.Error("Failed to spawn screenshot", "path", filename, "error", err)
		s.publishScreenshotFailed(filename, -1, err.Error())
		return ""
	}
	_ = handle.CloseStdin()

	if handle.WaitOrKill(s.cfg.StopTimeout, s.cfg.KillGrace) {
		s.logger.Error("Screenshot timed out", "path", filename, "timeout", s.cfg.StopTimeout)
		s.publish(events.ProcessKilledEvent{
			Operation: "screenshot",
			PID:       handle.PID(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		s.publishScreenshotFailed(filename, handle.ExitCode(), "timed out")
		return ""
	}

	if code := handle.ExitCode(); code != 0 {
		s.logger.Error("Screenshot failed", "path", filename, "exit_code", code)
		s.publishScreenshotFailed(filename, code, fmt.Sprintf("exit code %d", code))
		return ""
	}

	s.logger.Info("Screenshot captured", "path", filename)
	s.publish(events.ScreenshotCapturedEvent{
		Path:      filename,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return filename
}

// Discard removes the output file. Filesystem errors are returned unchanged.
func (s *Session) Discard() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := os.Remove(s.options.Output()); err != nil {
		return err
	}
	s.logger.Info("Recording discarded", "output", s.options.Output())
	return nil
}

// prepareArtifact probes the output, retrying transient errors.
func (s *Session) prepareArtifact(ctx context.Context) (*probe.Artifact, error) {
	output := s.options.Output()

	var err error
	for attempt := 1; attempt <= s.cfg.ProbeAttempts; attempt++ {
		var artifact *probe.Artifact
		artifact, err = s.prober.Probe(ctx, output)
		if err == nil {
			s.logger.Debug("Artifact probed", "path", output, "attempt", attempt, "duration", artifact.Duration)
			return artifact, nil
		}
		if !probe.IsTransient(err) || attempt == s.cfg.ProbeAttempts {
			break
		}
		s.logger.Debug("Artifact not ready, retrying", "path", output, "attempt", attempt, "error", err)
		time.Sleep(s.cfg.ProbeDelay)
	}

	s.logger.Error("Failed to probe artifact", "path", output, "error", err)
	return nil, fmt.Errorf("%w: %s: %w", ErrArtifactProbe, output, err)
}

// relayLog re-logs encoder diagnostics at their own level.
func (s *Session) relayLog(lines []string) {
	for _, line := range lines {
		level, msg := ffmpeg.ParseLogLevel(line)
		switch ffmpeg.SlogLevel(level) {
		case slog.LevelError:
			s.logger.Error("ffmpeg", "line", msg)
		case slog.LevelWarn:
			s.logger.Warn("ffmpeg", "line", msg)
		case slog.LevelInfo:
			s.logger.Info("ffmpeg", "line", msg)
		default:
			s.logger.Debug("ffmpeg", "line", msg)
		}
	}
}

func (s *Session) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Session) publishFailed(serr *StartupError) {
	s.publish(events.RecordingFailedEvent{
		Output:    s.options.Output(),
		ExitCode:  serr.ExitCode,
		LogTail:   serr.LogTail,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Session) publishScreenshotFailed(path string, code int, reason string) {
	s.publish(events.ScreenshotFailedEvent{
		Path:      path,
		ExitCode:  code,
		Error:     reason,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// IsStartupFailure reports whether err came from an encoder that died during warm-up.
func IsStartupFailure(err error) bool {
	return errors.Is(err, ErrStartupFailure)
}
