package systemd

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/vidrec/internal/events"
)

type recordedNotify struct {
	mu     sync.Mutex
	states []string
	err    error
}

func (r *recordedNotify) notify(state string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return r.err == nil, r.err
}

func (r *recordedNotify) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.states...)
}

func newTestNotifier() (*Notifier, *recordedNotify) {
	rec := &recordedNotify{}
	return &Notifier{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		notify: rec.notify,
	}, rec
}

func TestReadyAndStopping(t *testing.T) {
	n, rec := newTestNotifier()
	n.Ready()
	n.Stopping()

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "READY=1" || got[1] != "STOPPING=1" {
		t.Errorf("states = %v", got)
	}
}

func TestStatusFormatting(t *testing.T) {
	n, rec := newTestNotifier()
	n.Status("Recording to %s", "out.mp4")

	if got := rec.snapshot(); len(got) != 1 || got[0] != "STATUS=Recording to out.mp4" {
		t.Errorf("states = %v", got)
	}
}

func TestNotifyErrorIsLoggedNotFatal(t *testing.T) {
	n, rec := newTestNotifier()
	rec.err = errors.New("socket gone")
	n.Ready()

	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("states = %v", got)
	}
}

func TestAttachMirrorsRecordingEvents(t *testing.T) {
	n, rec := newTestNotifier()
	bus := events.New()
	detach := n.Attach(bus)

	bus.Publish(events.RecordingStartedEvent{PID: 7, Output: "out.mp4"})
	waitForStates(t, rec, 1)
	bus.Publish(events.RecordingStoppedEvent{Output: "out.mp4", ProcessSeconds: 2.5})
	waitForStates(t, rec, 2)

	got := rec.snapshot()
	if got[0] != "STATUS=Recording to out.mp4 (pid 7)" {
		t.Errorf("start status = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "STATUS=Stopped out.mp4 after 2.5s") {
		t.Errorf("stop status = %q", got[1])
	}

	detach()
	bus.Publish(events.RecordingFailedEvent{ExitCode: 1})
	time.Sleep(50 * time.Millisecond)
	if len(rec.snapshot()) != 2 {
		t.Error("detached notifier still received events")
	}
}

func TestAttachReportsEncoderExit(t *testing.T) {
	n, rec := newTestNotifier()
	bus := events.New()
	defer n.Attach(bus)()

	bus.Publish(events.RecordingExitedEvent{PID: 7, Output: "out.mp4", ExitCode: 3})
	waitForStates(t, rec, 1)

	want := "STATUS=Encoder exited unexpectedly (exit code 3), stop to collect out.mp4"
	if got := rec.snapshot()[0]; got != want {
		t.Errorf("exit status = %q, want %q", got, want)
	}
}

func waitForStates(t *testing.T, rec *recordedNotify, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(rec.snapshot()) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("got %d notifications, want %d", len(rec.snapshot()), n)
}
