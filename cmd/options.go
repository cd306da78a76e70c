package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smazurov/vidrec/internal/config"
	"github.com/smazurov/vidrec/internal/ffmpeg"
	"github.com/smazurov/vidrec/internal/logging"
	"github.com/smazurov/vidrec/internal/recorder"
)

// Options for the CLI - flat structure with toml mapping.
// Durations are strings ("1.5s") and key=value lists are comma separated.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"vidrec.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// Auth settings, empty disables basic auth
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Encoder settings
	EncoderBinary string `help:"ffmpeg executable" default:"ffmpeg" toml:"encoder.binary" env:"ENCODER_BINARY"`
	ProbeBinary   string `help:"ffprobe executable" default:"ffprobe" toml:"encoder.probe_binary" env:"PROBE_BINARY"`

	// Capture inputs, empty video format and device pick the platform screen grabber
	VideoFormat string `help:"Video input format (x11grab, avfoundation, gdigrab)" default:"" toml:"video.format" env:"VIDEO_FORMAT"`
	VideoDevice string `help:"Video input device (:0.0, 1:none, desktop, title=<window>)" default:"" toml:"video.device" env:"VIDEO_DEVICE"`
	VideoParams string `help:"Video input parameters as key=value,..." default:"" toml:"video.params" env:"VIDEO_PARAMS"`
	AudioFormat string `help:"Audio input format (pulse, alsa, dshow)" default:"" toml:"audio.format" env:"AUDIO_FORMAT"`
	AudioDevice string `help:"Audio input device" default:"" toml:"audio.device" env:"AUDIO_DEVICE"`
	AudioParams string `help:"Audio input parameters as key=value,..." default:"" toml:"audio.params" env:"AUDIO_PARAMS"`

	// Recording settings
	Output   string `help:"Recording output file" short:"o" default:"recording.mp4" toml:"recorder.output" env:"RECORDER_OUTPUT"`
	Advanced string `help:"Extra encoder flags as key=value,... (c:v=libx264,preset=veryfast)" default:"" toml:"recorder.advanced" env:"RECORDER_ADVANCED"`
	LogFile  string `help:"Encoder log file, defaults to <output>.ffmpeg.log" default:"" toml:"recorder.log_file" env:"RECORDER_LOG_FILE"`

	// Process timing
	WarmUp        string `help:"Startup window the encoder must survive" default:"1.5s" toml:"recorder.warm_up" env:"RECORDER_WARM_UP"`
	StopTimeout   string `help:"Wait for a graceful encoder exit before killing it" default:"5s" toml:"recorder.stop_timeout" env:"RECORDER_STOP_TIMEOUT"`
	KillGrace     string `help:"Wait between SIGTERM and SIGKILL" default:"2s" toml:"recorder.kill_grace" env:"RECORDER_KILL_GRACE"`
	ProbeAttempts int    `help:"Artifact probe attempts" default:"3" toml:"recorder.probe_attempts" env:"RECORDER_PROBE_ATTEMPTS"`
	ProbeDelay    string `help:"Delay between artifact probe attempts" default:"1s" toml:"recorder.probe_delay" env:"RECORDER_PROBE_DELAY"`

	// Features settings
	MetricsEnabled bool `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"features.metrics_enabled" env:"FEATURES_METRICS_ENABLED"`
	WatchConfig    bool `help:"Reload logging levels when the config file changes" default:"true" toml:"features.watch_config" env:"FEATURES_WATCH_CONFIG"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingRecorder string `help:"Recorder logging level" default:"info" toml:"logging.recorder" env:"LOGGING_RECORDER"`
	LoggingProcess  string `help:"Process launcher logging level" default:"info" toml:"logging.process" env:"LOGGING_PROCESS"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP     string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingConfig   string `help:"Config watcher logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
}

// Logging returns the logging configuration selected by the options.
func (o *Options) Logging() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"recorder": o.LoggingRecorder,
			"process":  o.LoggingProcess,
			"api":      o.LoggingAPI,
			"http":     o.LoggingHTTP,
			"config":   o.LoggingConfig,
		},
	}
}

// RecorderConfig converts the flat options into a recorder configuration.
func (o *Options) RecorderConfig() (recorder.Config, error) {
	video := ffmpeg.DefaultInput()
	if o.VideoFormat != "" {
		video.Format = o.VideoFormat
	}
	if o.VideoDevice != "" {
		video.Device = o.VideoDevice
	}
	params, err := parsePairs(o.VideoParams)
	if err != nil {
		return recorder.Config{}, fmt.Errorf("video params: %w", err)
	}
	video.Params = params

	var audio *ffmpeg.Input
	if o.AudioFormat != "" || o.AudioDevice != "" {
		if o.AudioFormat == "" || o.AudioDevice == "" {
			return recorder.Config{}, errors.New("audio input needs both format and device")
		}
		params, err := parsePairs(o.AudioParams)
		if err != nil {
			return recorder.Config{}, fmt.Errorf("audio params: %w", err)
		}
		audio = &ffmpeg.Input{Format: o.AudioFormat, Device: o.AudioDevice, Params: params}
	}

	advanced, err := parsePairs(o.Advanced)
	if err != nil {
		return recorder.Config{}, fmt.Errorf("advanced: %w", err)
	}

	cfg := recorder.Config{
		Binary:        o.EncoderBinary,
		ProbeBinary:   o.ProbeBinary,
		Video:         video,
		Audio:         audio,
		Output:        o.Output,
		Advanced:      advanced,
		LogFile:       o.LogFile,
		ProbeAttempts: o.ProbeAttempts,
	}

	timings := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"warm-up", o.WarmUp, &cfg.WarmUp},
		{"stop-timeout", o.StopTimeout, &cfg.StopTimeout},
		{"kill-grace", o.KillGrace, &cfg.KillGrace},
		{"probe-delay", o.ProbeDelay, &cfg.ProbeDelay},
	}
	for _, tm := range timings {
		if tm.value == "" {
			continue
		}
		d, err := time.ParseDuration(tm.value)
		if err != nil {
			return recorder.Config{}, fmt.Errorf("%s: %w", tm.name, err)
		}
		*tm.dst = d
	}

	return cfg, nil
}

// NewSession builds a recorder session from the options.
func (o *Options) NewSession(opts ...recorder.Option) (*recorder.Session, error) {
	cfg, err := o.RecorderConfig()
	if err != nil {
		return nil, err
	}
	return recorder.New(cfg, opts...)
}

func parsePairs(value string) (map[string]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	return config.ParsePairs(strings.Split(value, ","))
}
