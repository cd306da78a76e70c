package cmd

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/vidrec/internal/ffmpeg"
)

func defaultOptions() *Options {
	return &Options{
		EncoderBinary: "ffmpeg",
		ProbeBinary:   "ffprobe",
		Output:        "recording.mp4",
		WarmUp:        "1.5s",
		StopTimeout:   "5s",
		KillGrace:     "2s",
		ProbeAttempts: 3,
		ProbeDelay:    "1s",
		LoggingLevel:  "info",
		LoggingFormat: "text",
	}
}

func TestRecorderConfigDefaults(t *testing.T) {
	cfg, err := defaultOptions().RecorderConfig()
	if err != nil {
		t.Fatalf("RecorderConfig() error = %v", err)
	}

	want := ffmpeg.DefaultInput()
	if cfg.Video.Format != want.Format || cfg.Video.Device != want.Device {
		t.Errorf("Video = %+v, want platform default %+v", cfg.Video, want)
	}
	if cfg.Audio != nil {
		t.Errorf("Audio = %+v, want nil", cfg.Audio)
	}
	if cfg.WarmUp != 1500*time.Millisecond || cfg.StopTimeout != 5*time.Second {
		t.Errorf("timings = %v / %v", cfg.WarmUp, cfg.StopTimeout)
	}
	if cfg.KillGrace != 2*time.Second || cfg.ProbeDelay != time.Second || cfg.ProbeAttempts != 3 {
		t.Errorf("kill/probe = %v / %v / %d", cfg.KillGrace, cfg.ProbeDelay, cfg.ProbeAttempts)
	}
	if cfg.Advanced != nil {
		t.Errorf("Advanced = %v, want nil", cfg.Advanced)
	}
}

func TestRecorderConfigInputs(t *testing.T) {
	opts := defaultOptions()
	opts.VideoFormat = "gdigrab"
	opts.VideoDevice = "title=Notepad"
	opts.VideoParams = "framerate=30, draw_mouse=0"
	opts.AudioFormat = "pulse"
	opts.AudioDevice = "default"
	opts.AudioParams = "channels=2"
	opts.Advanced = "c:v=libx264,preset=veryfast,an"
	opts.LogFile = "/tmp/enc.log"

	cfg, err := opts.RecorderConfig()
	if err != nil {
		t.Fatalf("RecorderConfig() error = %v", err)
	}

	if cfg.Video.Format != "gdigrab" || cfg.Video.Device != "title=Notepad" {
		t.Errorf("Video = %+v", cfg.Video)
	}
	if !reflect.DeepEqual(cfg.Video.Params, map[string]string{"framerate": "30", "draw_mouse": "0"}) {
		t.Errorf("Video.Params = %v", cfg.Video.Params)
	}
	if cfg.Audio == nil || cfg.Audio.Format != "pulse" || cfg.Audio.Params["channels"] != "2" {
		t.Errorf("Audio = %+v", cfg.Audio)
	}
	wantAdvanced := map[string]string{"c:v": "libx264", "preset": "veryfast", "an": ""}
	if !reflect.DeepEqual(cfg.Advanced, wantAdvanced) {
		t.Errorf("Advanced = %v, want %v", cfg.Advanced, wantAdvanced)
	}
	if cfg.LogFile != "/tmp/enc.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

func TestRecorderConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   string
	}{
		{"bad warm-up", func(o *Options) { o.WarmUp = "soon" }, "warm-up"},
		{"bad stop timeout", func(o *Options) { o.StopTimeout = "5" }, "stop-timeout"},
		{"bad probe delay", func(o *Options) { o.ProbeDelay = "x" }, "probe-delay"},
		{"audio without device", func(o *Options) { o.AudioFormat = "pulse" }, "audio"},
		{"bad advanced pair", func(o *Options) { o.Advanced = "=libx264" }, "advanced"},
		{"bad video params", func(o *Options) { o.VideoParams = "=30" }, "video params"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.mutate(opts)
			_, err := opts.RecorderConfig()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestEmptyTimingsKeepRecorderDefaults(t *testing.T) {
	opts := defaultOptions()
	opts.WarmUp = ""
	opts.KillGrace = ""

	cfg, err := opts.RecorderConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WarmUp != 0 || cfg.KillGrace != 0 {
		t.Errorf("empty timings should stay zero for recorder defaults, got %v / %v", cfg.WarmUp, cfg.KillGrace)
	}
}

func TestLoggingConfig(t *testing.T) {
	opts := defaultOptions()
	opts.LoggingFormat = "json"
	opts.LoggingRecorder = "debug"
	opts.LoggingHTTP = "warn"

	cfg := opts.Logging()
	if cfg.Level != "info" || cfg.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Modules["recorder"] != "debug" || cfg.Modules["http"] != "warn" {
		t.Errorf("Modules = %v", cfg.Modules)
	}
}

func TestNewSessionMissingEncoder(t *testing.T) {
	opts := defaultOptions()
	opts.EncoderBinary = "vidrec-no-such-encoder"

	if _, err := opts.NewSession(); err == nil {
		t.Fatal("expected dependency error")
	}
}
