package main

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/vidrec/cmd"
	"github.com/smazurov/vidrec/internal/config"
	"github.com/smazurov/vidrec/internal/logging"
)

func main() {
	var cli humacli.CLI
	var options *cmd.Options

	cli = humacli.New(func(hooks humacli.Hooks, opts *cmd.Options) {
		// Layer TOML and env values under explicit flags
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.Logging())
		options = opts

		// Default command serves the control API
		cmd.Serve(hooks, opts)
	})

	root := cli.Root()
	root.Use = "vidrec"
	root.Short = "Record the screen with ffmpeg and control it over HTTP"

	getOptions := func() *cmd.Options { return options }
	root.AddCommand(
		cmd.CreateRecordCmd(getOptions),
		cmd.CreateScreenshotCmd(getOptions),
		cmd.CreateProbeCmd(getOptions),
		cmd.CreateVersionCmd(),
	)

	cli.Run()
}
