package probe

import (
	"fmt"
	"time"
)

// Artifact describes a finished output file.
type Artifact struct {
	Path       string        `json:"path"`
	Size       int64         `json:"size"`
	Duration   time.Duration `json:"duration"`
	FormatName string        `json:"format_name"`
	BitRate    int64         `json:"bit_rate"`
	Streams    []Stream      `json:"streams"`
}

// Stream is one elementary stream inside the artifact.
type Stream struct {
	Index      int    `json:"index"`
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	FrameRate  string `json:"frame_rate,omitempty"`
	PixFmt     string `json:"pix_fmt,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// VideoStream returns the first video stream, or nil.
func (a *Artifact) VideoStream() *Stream {
	return a.firstOf("video")
}

// AudioStream returns the first audio stream, or nil.
func (a *Artifact) AudioStream() *Stream {
	return a.firstOf("audio")
}

// VideoCodec returns the codec of the first video stream, or "".
func (a *Artifact) VideoCodec() string {
	if s := a.VideoStream(); s != nil {
		return s.CodecName
	}
	return ""
}

// Resolution returns "WxH" of the first video stream, or "unknown".
func (a *Artifact) Resolution() string {
	s := a.VideoStream()
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (a *Artifact) firstOf(codecType string) *Stream {
	for i := range a.Streams {
		if a.Streams[i].CodecType == codecType {
			return &a.Streams[i]
		}
	}
	return nil
}
