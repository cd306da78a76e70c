package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/smazurov/vidrec/internal/ffmpeg"
)

// Prober reads metadata of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (*Artifact, error)
}

// FFprobe probes files with the ffprobe binary.
type FFprobe struct {
	// Binary is the ffprobe executable; empty means "ffprobe" from PATH.
	Binary string
}

// NewFFprobe returns a prober that runs binary.
func NewFFprobe(binary string) *FFprobe {
	return &FFprobe{Binary: binary}
}

// Probe implements Prober.
func (p *FFprobe) Probe(ctx context.Context, path string) (*Artifact, error) {
	// Opening first surfaces EACCES/EAGAIN from the OS unchanged.
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return nil, err
	}

	binary := p.Binary
	if binary == "" {
		binary = "ffprobe"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, ffmpeg.BuildProbeArgs(path)...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &Error{Path: path, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	a, err := ParseJSON(out)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	a.Path = path
	if a.Size == 0 {
		a.Size = info.Size()
	}
	return a, nil
}

// Error is a failed ffprobe run.
type Error struct {
	Path   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffprobe %q: %v: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffprobe %q: %v", e.Path, e.Err)
}

// Unwrap exposes both the run error and, when ffprobe's message names one,
// the matching OS error so errors.Is sees transient failures.
func (e *Error) Unwrap() []error {
	errs := []error{e.Err}
	if errno := errnoFromMessage(e.Stderr); errno != nil {
		errs = append(errs, errno)
	}
	return errs
}

// ParseJSON converts raw ffprobe JSON output into an Artifact.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Artifact, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if raw.Format.FormatName == "" && len(raw.Streams) == 0 {
		return nil, errors.New("ffprobe returned no format or streams")
	}

	a := &Artifact{
		Path:       raw.Format.Filename,
		Size:       parseInt64(raw.Format.Size),
		Duration:   parseSeconds(raw.Format.Duration),
		FormatName: raw.Format.FormatName,
		BitRate:    parseInt64(raw.Format.BitRate),
		Streams:    make([]Stream, 0, len(raw.Streams)),
	}
	for _, s := range raw.Streams {
		a.Streams = append(a.Streams, Stream{
			Index:      s.Index,
			CodecType:  s.CodecType,
			CodecName:  s.CodecName,
			Width:      s.Width,
			Height:     s.Height,
			FrameRate:  s.AvgFrameRate,
			PixFmt:     s.PixFmt,
			SampleRate: int(parseInt64(s.SampleRate)),
			Channels:   s.Channels,
		})
	}
	return a, nil
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	PixFmt       string `json:"pix_fmt"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Channels     int    `json:"channels"`
	SampleRate   string `json:"sample_rate"`
}

// ffprobe returns numbers as strings
func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
