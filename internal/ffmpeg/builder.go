package ffmpeg

import (
	"maps"
	"strings"
)

// OverwriteFlag is the global flag that lets ffmpeg replace an existing output.
const OverwriteFlag = "-y"

// QuoteFunc quotes one argument for the shell the command is handed to.
type QuoteFunc func(arg string) string

// BuildRecordCommand builds the continuous recording command line.
func BuildRecordCommand(binary string, opts *Options, quote QuoteFunc) string {
	args := append([]string{binary, OverwriteFlag}, opts.Args()...)
	return join(args, quote)
}

// BuildScreenshotCommand builds a command that grabs exactly one frame of
// input at 1 fps into filename, replacing any existing file.
func BuildScreenshotCommand(binary string, input Input, filename string, quote QuoteFunc) string {
	params := maps.Clone(input.Params)
	if params == nil {
		params = make(map[string]string, 1)
	}
	// fixed rate, the grab is a single frame
	delete(params, "framerate")
	delete(params, "-framerate")
	params["framerate"] = "1"

	args := []string{binary, OverwriteFlag, "-f", input.Format}
	args = append(args, flagArgs(params)...)
	args = append(args, "-i", input.Device, "-frames:v", "1", FileArg(filename))
	return join(args, quote)
}

// BuildProbeArgs returns the ffprobe arguments that describe path as JSON.
func BuildProbeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		FileArg(path),
	}
}

// FileArg returns path in a form ffmpeg cannot read as an option.
func FileArg(path string) string {
	if strings.HasPrefix(path, "-") {
		return "./" + path
	}
	return path
}

func join(args []string, quote QuoteFunc) string {
	var cmd strings.Builder
	for i, arg := range args {
		if i > 0 {
			cmd.WriteByte(' ')
		}
		if quote != nil {
			arg = quote(arg)
		}
		cmd.WriteString(arg)
	}
	return cmd.String()
}
