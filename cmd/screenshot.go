package cmd

import (
	"fmt"
	"os"

	"github.com/smazurov/vidrec/internal/logging"
	"github.com/spf13/cobra"
)

// CreateScreenshotCmd creates the screenshot command.
func CreateScreenshotCmd(options func() *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "screenshot [file]",
		Short: "Capture a single frame from the video input",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			logger := logging.GetLogger("main")

			s, err := options().NewSession()
			if err != nil {
				logger.Error("Failed to create recorder session", "error", err)
				os.Exit(1)
			}

			path := s.Screenshot(args[0])
			if path == "" {
				logger.Error("Screenshot failed", "path", args[0])
				os.Exit(1)
			}
			fmt.Fprintln(c.OutOrStdout(), path)
		},
	}
}
