package cmd

import (
	"context"
	"os"
	"time"

	"github.com/smazurov/vidrec/internal/api/models"
	"github.com/smazurov/vidrec/internal/logging"
	"github.com/smazurov/vidrec/internal/probe"
	"github.com/spf13/cobra"
)

const probeTimeout = 30 * time.Second

// CreateProbeCmd creates the probe command.
func CreateProbeCmd(options func() *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "probe [file]",
		Short: "Print container and stream details of a media file",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			logger := logging.GetLogger("main")

			ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
			defer cancel()

			artifact, err := probe.NewFFprobe(options().ProbeBinary).Probe(ctx, args[0])
			if err != nil {
				logger.Error("Probe failed", "path", args[0], "error", err, "transient", probe.IsTransient(err))
				os.Exit(1)
			}

			if err := writeJSON(c.OutOrStdout(), models.NewArtifactData(artifact)); err != nil {
				logger.Error("Failed to write probe result", "error", err)
				os.Exit(1)
			}
		},
	}
}
