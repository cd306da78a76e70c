package process

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts in these tests need sh")
	}
}

func spawn(t *testing.T, command string, output *os.File) *Handle {
	t.Helper()
	h, err := NewSpawner(testLogger()).Spawn(command, output)
	if err != nil {
		t.Fatalf("Spawn(%q) failed: %v", command, err)
	}
	t.Cleanup(func() {
		_ = h.CloseStdin()
		_ = h.Kill(100 * time.Millisecond)
	})
	return h
}

func TestSpawnRedirectsOutput(t *testing.T) {
	skipOnWindows(t)

	logPath := filepath.Join(t.TempDir(), "out.log")
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer logFile.Close()

	h := spawn(t, `echo to-stdout; echo to-stderr >&2`, logFile)
	if !h.Wait(2 * time.Second) {
		t.Fatal("process did not exit")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"to-stdout", "to-stderr"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q: %q", want, data)
		}
	}
	if code := h.ExitCode(); code != 0 {
		t.Errorf("ExitCode() = %d, want 0", code)
	}
}

func TestSpawnEmptyCommand(t *testing.T) {
	if _, err := NewSpawner(testLogger()).Spawn("", nil); err == nil {
		t.Error("Spawn(\"\") expected error")
	}
}

func TestExitCode(t *testing.T) {
	skipOnWindows(t)

	h := spawn(t, "exit 3", nil)
	if !h.Wait(2 * time.Second) {
		t.Fatal("process did not exit")
	}
	if code := h.ExitCode(); code != 3 {
		t.Errorf("ExitCode() = %d, want 3", code)
	}
}

func TestExitCodeWhileRunning(t *testing.T) {
	skipOnWindows(t)

	h := spawn(t, "sleep 10", nil)
	if h.Exited() {
		t.Fatal("process exited immediately")
	}
	if code := h.ExitCode(); code != -1 {
		t.Errorf("ExitCode() while running = %d, want -1", code)
	}
}

func TestStdinQuitHandshake(t *testing.T) {
	skipOnWindows(t)

	// exits 0 only after reading "q" from stdin
	h := spawn(t, `read cmd; [ "$cmd" = q ] && exit 0; exit 9`, nil)
	if h.Wait(100 * time.Millisecond) {
		t.Fatal("process exited before receiving input")
	}

	if err := h.WriteStdin("q\n"); err != nil {
		t.Fatalf("WriteStdin() failed: %v", err)
	}
	if err := h.CloseStdin(); err != nil {
		t.Fatalf("CloseStdin() failed: %v", err)
	}
	if err := h.CloseStdin(); err != nil {
		t.Errorf("second CloseStdin() = %v, want nil", err)
	}
	if err := h.WriteStdin("q\n"); err == nil {
		t.Error("WriteStdin() after close expected error")
	}

	if forced := h.WaitOrKill(2*time.Second, 100*time.Millisecond); forced {
		t.Error("WaitOrKill() forced a kill for a process that quit")
	}
	if code := h.ExitCode(); code != 0 {
		t.Errorf("ExitCode() = %d, want 0", code)
	}
}

func TestWaitTimeout(t *testing.T) {
	skipOnWindows(t)

	h := spawn(t, "sleep 10", nil)
	start := time.Now()
	if h.Wait(50 * time.Millisecond) {
		t.Fatal("Wait() reported exit for a sleeping process")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait() returned after %v, want at least 50ms", elapsed)
	}
}

func TestKillTerminates(t *testing.T) {
	skipOnWindows(t)

	h := spawn(t, "sleep 10", nil)
	if err := h.Kill(500 * time.Millisecond); err != nil {
		t.Fatalf("Kill() failed: %v", err)
	}
	if !h.Exited() {
		t.Fatal("process still running after Kill()")
	}
	if code := h.ExitCode(); code == 0 {
		t.Errorf("ExitCode() after kill = 0, want non-zero")
	}
}

func TestKillEscalatesPastIgnoredTerm(t *testing.T) {
	skipOnWindows(t)

	h := spawn(t, `trap '' TERM INT; while :; do sleep 0.05; done`, nil)
	time.Sleep(50 * time.Millisecond)

	forced := h.WaitOrKill(50*time.Millisecond, 100*time.Millisecond)
	if !forced {
		t.Fatal("WaitOrKill() did not report a forced kill")
	}
	if !h.Exited() {
		t.Fatal("process survived escalation to SIGKILL")
	}
	// 128 + 9 for SIGKILL
	if code := h.ExitCode(); code != 137 {
		t.Errorf("ExitCode() = %d, want 137", code)
	}
}

func TestKillAfterExit(t *testing.T) {
	skipOnWindows(t)

	h := spawn(t, "true", nil)
	if !h.Wait(2 * time.Second) {
		t.Fatal("process did not exit")
	}
	if err := h.Kill(10 * time.Millisecond); err != nil {
		t.Errorf("Kill() on exited process = %v, want nil", err)
	}
}

func TestQuote(t *testing.T) {
	skipOnWindows(t)

	sp := NewSpawner(testLogger())
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"/tmp/out.mp4", "/tmp/out.mp4"},
		{":0.0+10,20", ":0.0+10,20"},
		{"my file.mp4", "'my file.mp4'"},
		{"it's", `'it'"'"'s'`},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := sp.Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuotedArgumentsSurviveShell(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "it's a file.txt")
	sp := NewSpawner(testLogger())

	h := spawn(t, "touch "+sp.Quote(target), nil)
	if !h.Wait(2 * time.Second) {
		t.Fatal("process did not exit")
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("quoted path not created: %v", err)
	}
}
