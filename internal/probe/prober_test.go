package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "pix_fmt": "yuv420p",
     "width": 1920, "height": 1080, "avg_frame_rate": "30/1"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "sample_rate": "48000"}
  ],
  "format": {"filename": "out.mp4", "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
             "duration": "12.500000", "size": "1048576", "bit_rate": "671088"}
}`

func TestParseJSON(t *testing.T) {
	a, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	if a.Duration != 12500*time.Millisecond {
		t.Errorf("Duration = %v, want 12.5s", a.Duration)
	}
	if a.Size != 1048576 {
		t.Errorf("Size = %d, want 1048576", a.Size)
	}
	if a.BitRate != 671088 {
		t.Errorf("BitRate = %d, want 671088", a.BitRate)
	}
	if got := a.VideoCodec(); got != "h264" {
		t.Errorf("VideoCodec() = %q, want h264", got)
	}
	if got := a.Resolution(); got != "1920x1080" {
		t.Errorf("Resolution() = %q, want 1920x1080", got)
	}
	audio := a.AudioStream()
	if audio == nil {
		t.Fatal("AudioStream() = nil")
	}
	if audio.SampleRate != 48000 || audio.Channels != 2 {
		t.Errorf("audio = %+v, want 48000Hz stereo", audio)
	}
}

func TestParseJSONRejectsEmpty(t *testing.T) {
	for _, input := range []string{`{}`, `not json`} {
		if _, err := ParseJSON([]byte(input)); err == nil {
			t.Errorf("ParseJSON(%q) expected error", input)
		}
	}
}

func TestArtifactWithoutVideo(t *testing.T) {
	a := &Artifact{Streams: []Stream{{CodecType: "audio", CodecName: "opus"}}}
	if a.VideoStream() != nil {
		t.Error("VideoStream() should be nil")
	}
	if a.VideoCodec() != "" {
		t.Errorf("VideoCodec() = %q, want empty", a.VideoCodec())
	}
	if a.Resolution() != "unknown" {
		t.Errorf("Resolution() = %q, want unknown", a.Resolution())
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eagain", syscall.EAGAIN, true},
		{"ebusy", fmt.Errorf("open: %w", syscall.EBUSY), true},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, true},
		{"eacces", &fs.PathError{Op: "open", Path: "x", Err: syscall.EACCES}, true},
		{"missing", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, false},
		{"other", errors.New("invalid data found"), false},
		{"ffprobe eagain", &Error{Path: "x", Stderr: "x: Resource temporarily unavailable", Err: errors.New("exit status 1")}, true},
		{"ffprobe denied", &Error{Path: "x", Stderr: "x: Permission denied", Err: errors.New("exit status 1")}, true},
		{"ffprobe file in use", &Error{Path: "x", Stderr: "x: The process cannot access the file because it is being used by another process.", Err: errors.New("exit status 1")}, true},
		{"ffprobe invalid", &Error{Path: "x", Stderr: "x: Invalid data found when processing input", Err: errors.New("exit status 1")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestProbeMissingFile(t *testing.T) {
	p := NewFFprobe("ffprobe")
	_, err := p.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Probe() error = %v, want fs.ErrNotExist", err)
	}
	if IsTransient(err) {
		t.Error("missing file must not be transient")
	}
}

func TestProbeWithFakeBinary(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()

	media := filepath.Join(dir, "out.mp4")
	if err := os.WriteFile(media, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "probe.json")
	if err := os.WriteFile(jsonPath, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat '" + jsonPath + "'\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	a, err := NewFFprobe(bin).Probe(context.Background(), media)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if a.Path != media {
		t.Errorf("Path = %q, want %q", a.Path, media)
	}
	if a.VideoCodec() != "h264" {
		t.Errorf("VideoCodec() = %q, want h264", a.VideoCodec())
	}
}

func TestProbeBinaryFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()

	media := filepath.Join(dir, "out.mp4")
	if err := os.WriteFile(media, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho \"out.mp4: Resource temporarily unavailable\" >&2\nexit 1\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewFFprobe(bin).Probe(context.Background(), media)
	if err == nil {
		t.Fatal("Probe() expected error")
	}
	if !errors.Is(err, syscall.EAGAIN) {
		t.Errorf("Probe() error = %v, want EAGAIN in chain", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Stderr == "" {
		t.Errorf("Probe() error should be *Error with stderr, got %#v", err)
	}
}
