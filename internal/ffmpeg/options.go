package ffmpeg

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
)

// Input describes one capture source: the demuxer (-f), its device string (-i)
// and demuxer parameters placed before -i (framerate, video_size, ...).
type Input struct {
	Format string            `json:"format" toml:"format"`
	Device string            `json:"device" toml:"device"`
	Params map[string]string `json:"params,omitempty" toml:"params"`
}

// Args renders the input as ffmpeg arguments.
func (in Input) Args() []string {
	args := []string{"-f", in.Format}
	args = append(args, flagArgs(in.Params)...)
	return append(args, "-i", in.Device)
}

// DefaultInput returns the full-screen capture input for the current platform.
func DefaultInput() Input {
	switch runtime.GOOS {
	case "darwin":
		return Input{Format: "avfoundation", Device: "1:none"}
	case "windows":
		return Input{Format: "gdigrab", Device: "desktop"}
	default:
		return Input{Format: "x11grab", Device: ":0.0"}
	}
}

// Options is the immutable description of one recording.
type Options struct {
	video    Input
	audio    *Input
	output   string
	advanced map[string]string
	logFile  string
}

// NewOptions validates and copies the caller's recording description.
// An empty logFile defaults to "<output>.ffmpeg.log".
func NewOptions(video Input, audio *Input, output string, advanced map[string]string, logFile string) (*Options, error) {
	if output == "" {
		return nil, errors.New("output path is required")
	}
	if video.Format == "" || video.Device == "" {
		return nil, fmt.Errorf("video input requires format and device, got %q %q", video.Format, video.Device)
	}
	if audio != nil && (audio.Format == "" || audio.Device == "") {
		return nil, fmt.Errorf("audio input requires format and device, got %q %q", audio.Format, audio.Device)
	}
	if logFile == "" {
		logFile = output + ".ffmpeg.log"
	}

	o := &Options{
		video:    copyInput(video),
		output:   output,
		advanced: maps.Clone(advanced),
		logFile:  logFile,
	}
	if audio != nil {
		a := copyInput(*audio)
		o.audio = &a
	}
	return o, nil
}

func copyInput(in Input) Input {
	in.Params = maps.Clone(in.Params)
	return in
}

// Video returns the video input.
func (o *Options) Video() Input { return copyInput(o.video) }

// Audio returns the audio input, or nil when recording video only.
func (o *Options) Audio() *Input {
	if o.audio == nil {
		return nil
	}
	a := copyInput(*o.audio)
	return &a
}

// Output returns the destination file path.
func (o *Options) Output() string { return o.output }

// LogFile returns the path ffmpeg's stdout/stderr is redirected to.
func (o *Options) LogFile() string { return o.logFile }

// Advanced returns a copy of the extra output flags.
func (o *Options) Advanced() map[string]string { return maps.Clone(o.advanced) }

// Args returns the rendered argument list: inputs, advanced flags, output.
func (o *Options) Args() []string {
	args := o.video.Args()
	if o.audio != nil {
		args = append(args, o.audio.Args()...)
	}
	args = append(args, flagArgs(o.advanced)...)
	return append(args, FileArg(o.output))
}

// flagArgs renders a flag map sorted by key. Keys may be given with or
// without the leading dash; an empty value renders the flag alone.
func flagArgs(flags map[string]string) []string {
	keys := slices.Sorted(maps.Keys(flags))
	args := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		if k == "" {
			continue
		}
		name := k
		if name[0] != '-' {
			name = "-" + name
		}
		args = append(args, name)
		if v := flags[k]; v != "" {
			args = append(args, v)
		}
	}
	return args
}
