package ffmpeg

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel string
		wantMsg   string
	}{
		{"[info] Stream mapping:", "info", "Stream mapping:"},
		{"[error] Conversion failed!", "error", "Conversion failed!"},
		{"[x11grab @ 0x55d1] [warning] Capture area too large", "warning", "[x11grab @ 0x55d1] Capture area too large"},
		{"[x11grab @ 0x55d1] plain component line", "info", "[x11grab @ 0x55d1] plain component line"},
		{"Unknown input format: 'bogus'", "error", "Unknown input format: 'bogus'"},
		{":0.0: No such file or directory", "error", ":0.0: No such file or directory"},
		{"frame=  120 fps= 30 q=-1.0 size=1024kB", "info", "frame=  120 fps= 30 q=-1.0 size=1024kB"},
		{"", "info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			level, msg := ParseLogLevel(tt.line)
			if level != tt.wantLevel {
				t.Errorf("ParseLogLevel(%q) level = %q, want %q", tt.line, level, tt.wantLevel)
			}
			if msg != tt.wantMsg {
				t.Errorf("ParseLogLevel(%q) msg = %q, want %q", tt.line, msg, tt.wantMsg)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"fatal":   slog.LevelError,
		"error":   slog.LevelError,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := SlogLevel(in); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
