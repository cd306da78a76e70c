package recorder

import (
	"time"

	"github.com/smazurov/vidrec/internal/events"
	"github.com/smazurov/vidrec/internal/ffmpeg"
	"github.com/smazurov/vidrec/internal/logging"
	"github.com/smazurov/vidrec/internal/probe"
	"github.com/smazurov/vidrec/internal/process"
)

// Defaults for Config timing fields left at zero.
const (
	DefaultBinary        = "ffmpeg"
	DefaultWarmUp        = 1500 * time.Millisecond
	DefaultStopTimeout   = 5 * time.Second
	DefaultKillGrace     = 2 * time.Second
	DefaultProbeAttempts = 3
	DefaultProbeDelay    = time.Second
)

// Config describes one recording session.
type Config struct {
	// Binary is the encoder executable, looked up in PATH unless absolute.
	Binary string
	// ProbeBinary is the ffprobe executable used when no Prober is injected.
	ProbeBinary string

	Video    ffmpeg.Input
	Audio    *ffmpeg.Input
	Output   string
	Advanced map[string]string
	// LogFile receives encoder stdout and stderr; defaults next to Output.
	LogFile string

	WarmUp        time.Duration
	StopTimeout   time.Duration
	KillGrace     time.Duration
	ProbeAttempts int
	// ProbeDelay separates probe attempts; a negative value disables it.
	ProbeDelay time.Duration
}

func (c *Config) applyDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.WarmUp <= 0 {
		c.WarmUp = DefaultWarmUp
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.KillGrace <= 0 {
		c.KillGrace = DefaultKillGrace
	}
	if c.ProbeAttempts <= 0 {
		c.ProbeAttempts = DefaultProbeAttempts
	}
	if c.ProbeDelay < 0 {
		c.ProbeDelay = 0
	} else if c.ProbeDelay == 0 {
		c.ProbeDelay = DefaultProbeDelay
	}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSpawner replaces the platform process spawner.
func WithSpawner(spawner process.Spawner) Option {
	return func(s *Session) {
		s.spawner = spawner
	}
}

// WithProber replaces the ffprobe-backed artifact prober.
func WithProber(prober probe.Prober) Option {
	return func(s *Session) {
		s.prober = prober
	}
}

// WithEventBus publishes session events to bus.
func WithEventBus(bus *events.Bus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithLookPath replaces exec.LookPath for locating the encoder binary.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(s *Session) {
		s.lookPath = lookPath
	}
}
