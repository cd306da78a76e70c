package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func resetState(t *testing.T) {
	t.Helper()
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	mutex.Unlock()
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	mutex.Lock()
	prev := output
	output = &buf
	mutex.Unlock()
	t.Cleanup(func() {
		mutex.Lock()
		output = prev
		mutex.Unlock()
	})
	return &buf
}

func TestModuleLevelOverride(t *testing.T) {
	resetState(t)

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"recorder": "debug",
			"api":      "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"recorder", true, true, true},
		{"api", false, false, true},
		{"process", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()

			gotDebug := handler.Enabled(context.Background(), slog.LevelDebug)
			gotInfo := handler.Enabled(context.Background(), slog.LevelInfo)
			gotWarn := handler.Enabled(context.Background(), slog.LevelWarn)

			if gotDebug != tt.wantDebug {
				t.Errorf("module %q: Debug enabled = %v, want %v", tt.module, gotDebug, tt.wantDebug)
			}
			if gotInfo != tt.wantInfo {
				t.Errorf("module %q: Info enabled = %v, want %v", tt.module, gotInfo, tt.wantInfo)
			}
			if gotWarn != tt.wantWarn {
				t.Errorf("module %q: Warn enabled = %v, want %v", tt.module, gotWarn, tt.wantWarn)
			}
		})
	}
}

func TestModuleLoggerWritesModuleAttr(t *testing.T) {
	resetState(t)
	buf := captureOutput(t)

	Initialize(Config{Level: "debug", Format: "text"})
	GetLogger("recorder").Debug("encoder spawned", "pid", 42)

	out := buf.String()
	for _, want := range []string{"encoder spawned", "module=recorder", "pid=42", "level=DEBUG"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	resetState(t)
	buf := captureOutput(t)

	Initialize(Config{Level: "info", Format: "json"})
	GetLogger("api").Info("listening", "addr", ":8090")

	out := buf.String()
	if !strings.Contains(out, `"module":"api"`) || !strings.Contains(out, `"addr":":8090"`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestReinitializeUpdatesCachedLogger(t *testing.T) {
	resetState(t)
	captureOutput(t)

	Initialize(Config{Level: "info", Format: "text"})
	logger := GetLogger("recorder")
	if logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be disabled at info level")
	}

	Initialize(Config{Level: "info", Format: "text", Modules: map[string]string{"recorder": "debug"}})

	if GetLogger("recorder") != logger {
		t.Error("logger should stay cached when format is unchanged")
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("cached logger should follow the reloaded module level")
	}
	if got := Level("recorder"); got != slog.LevelDebug {
		t.Errorf("Level(recorder) = %v, want DEBUG", got)
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState(t)
	captureOutput(t)

	before := GetLogger("process")
	if before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Logger created before Initialize should NOT have debug enabled")
	}

	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"process": "debug"},
	})

	if !GetLogger("process").Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("process logger should have debug enabled after Initialize")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	resetState(t)
	captureOutput(t)

	Initialize(Config{Level: "loud", Modules: map[string]string{"api": "silent"}})

	if got := Level("api"); got != slog.LevelInfo {
		t.Errorf("Level(api) = %v, want INFO", got)
	}
}

func TestFanoutHandlerDebugOutput(t *testing.T) {
	var buf bytes.Buffer

	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewFanoutHandler(debugHandler, infoHandler)).With("module", "test")

	logger.Debug("debug only message")
	logger.Info("both handlers")

	output := buf.String()
	if count := strings.Count(output, "debug only message"); count != 1 {
		t.Errorf("Expected 1 debug message, got %d. Output: %s", count, output)
	}
	if count := strings.Count(output, "both handlers"); count != 2 {
		t.Errorf("Expected 2 info messages, got %d. Output: %s", count, output)
	}
}

func TestJournalFields(t *testing.T) {
	fields := make(map[string]string)
	appendJournalField(fields, "", slog.String("module", "recorder"))
	appendJournalField(fields, "proc_", slog.Int("pid", 7))
	appendJournalField(fields, "", slog.Group("probe", slog.Bool("retry", true)))
	appendJournalField(fields, "", slog.Float64("seconds", 1.5))
	appendJournalField(fields, "", slog.Attr{})

	want := map[string]string{
		"MODULE":      "recorder",
		"PROC_PID":    "7",
		"PROBE_RETRY": "true",
		"SECONDS":     "1.5",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestJournalHandlerFollowsLevelVar(t *testing.T) {
	lv := &slog.LevelVar{}
	lv.Set(slog.LevelWarn)
	h := NewJournalHandler(lv)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	lv.Set(slog.LevelDebug)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be enabled after lowering the LevelVar")
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			switch {
			case tt.isNil && got != nil:
				t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
			case !tt.isNil && got == nil:
				t.Errorf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
			case !tt.isNil && *got != tt.want:
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}
