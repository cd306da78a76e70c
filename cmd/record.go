package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smazurov/vidrec/internal/api/models"
	"github.com/smazurov/vidrec/internal/logging"
	"github.com/smazurov/vidrec/internal/probe"
	"github.com/smazurov/vidrec/internal/process"
	"github.com/smazurov/vidrec/internal/recorder"
	"github.com/spf13/cobra"
)

// session is the recorder surface used by the one-shot commands.
type session interface {
	Start() (*process.Handle, error)
	Stop() (*probe.Artifact, error)
	Discard() error
	Status() recorder.Status
	ProcessTime() (time.Duration, bool)
}

// CreateRecordCmd creates the record command.
func CreateRecordCmd(options func() *Options) *cobra.Command {
	var duration time.Duration
	var discard bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record until interrupted or for a fixed duration",
		Long: `Starts the encoder, waits for SIGINT, SIGTERM or the --duration timer, ` +
			`then stops it gracefully and prints the probed recording as JSON.`,
		Args: cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			logger := logging.GetLogger("main")

			s, err := options().NewSession()
			if err != nil {
				logger.Error("Failed to create recorder session", "error", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runRecording(ctx, s, duration, discard, c.OutOrStdout(), logger); err != nil {
				logger.Error("Recording failed", "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Stop after this long (0 waits for a signal)")
	cmd.Flags().BoolVar(&discard, "discard", false, "Delete the output after probing it")

	return cmd
}

// runRecording drives one start/stop cycle and writes the final status to w.
func runRecording(ctx context.Context, s session, duration time.Duration, discard bool, w io.Writer, logger logging.Logger) error {
	handle, err := s.Start()
	if err != nil {
		return err
	}
	logger.Info("Recording started", "output", s.Status().Output, "pid", s.Status().PID)

	var exited <-chan struct{}
	if handle != nil {
		exited = handle.Done()
	}
	var timer <-chan time.Time
	if duration > 0 {
		t := time.NewTimer(duration)
		defer t.Stop()
		timer = t.C
	}

	select {
	case <-ctx.Done():
		logger.Info("Received signal, stopping recording")
	case <-timer:
		logger.Info("Recording duration reached", "duration", duration)
	case <-exited:
		logger.Warn("Encoder exited before stop was requested")
	}

	if _, err := s.Stop(); err != nil {
		return err
	}

	pt, ok := s.ProcessTime()
	data := models.NewRecordingData(s.Status(), pt, ok)

	if discard {
		if err := s.Discard(); err != nil {
			return err
		}
		logger.Info("Recording discarded", "output", data.Output)
	}

	return writeJSON(w, data)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
