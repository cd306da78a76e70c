// Package systemd reports vidrec service state to the service manager.
package systemd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/smazurov/vidrec/internal/events"
	"github.com/smazurov/vidrec/internal/logging"
)

// Notifier sends sd_notify messages. Outside a Type=notify unit every
// call is a no-op.
type Notifier struct {
	logger logging.Logger
	notify func(state string) (bool, error)
}

// NewNotifier creates a notifier on $NOTIFY_SOCKET.
func NewNotifier(logger logging.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		notify: func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		},
	}
}

// Ready tells systemd the API is serving.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping tells systemd shutdown has begun.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(format string, args ...any) {
	n.send("STATUS=" + fmt.Sprintf(format, args...))
}

// Attach mirrors recording events into the unit status line.
func (n *Notifier) Attach(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.RecordingStartedEvent) {
			n.Status("Recording to %s (pid %d)", e.Output, e.PID)
		}),
		bus.Subscribe(func(e events.RecordingFailedEvent) {
			n.Status("Encoder failed to start (exit code %d)", e.ExitCode)
		}),
		bus.Subscribe(func(e events.RecordingExitedEvent) {
			n.Status("Encoder exited unexpectedly (exit code %d), stop to collect %s", e.ExitCode, e.Output)
		}),
		bus.Subscribe(func(e events.RecordingStoppedEvent) {
			if e.Error != "" {
				n.Status("Stopped %s, probe failed", e.Output)
				return
			}
			n.Status("Stopped %s after %.1fs", e.Output, e.ProcessSeconds)
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("sd_notify sent", "state", state)
	}
}
