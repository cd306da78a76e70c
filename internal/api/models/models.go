package models

import (
	"time"

	"github.com/smazurov/vidrec/internal/probe"
	"github.com/smazurov/vidrec/internal/recorder"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2026-01-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Recording models
type StreamData struct {
	Index      int    `json:"index" example:"0" doc:"Stream index in the container"`
	CodecType  string `json:"codec_type" example:"video" doc:"video, audio, subtitle or data"`
	CodecName  string `json:"codec_name" example:"h264" doc:"Codec name"`
	Width      int    `json:"width,omitempty" example:"1920" doc:"Frame width"`
	Height     int    `json:"height,omitempty" example:"1080" doc:"Frame height"`
	FrameRate  string `json:"frame_rate,omitempty" example:"30/1" doc:"Average frame rate"`
	SampleRate int    `json:"sample_rate,omitempty" example:"48000" doc:"Audio sample rate"`
	Channels   int    `json:"channels,omitempty" example:"2" doc:"Audio channel count"`
}

type ArtifactData struct {
	Path            string       `json:"path" example:"/tmp/out.mp4" doc:"Output file"`
	Size            int64        `json:"size" example:"1048576" doc:"File size in bytes"`
	DurationSeconds float64      `json:"duration_seconds" example:"12.5" doc:"Media duration"`
	FormatName      string       `json:"format_name" example:"mov,mp4,m4a,3gp,3g2,mj2" doc:"Container format"`
	BitRate         int64        `json:"bit_rate" example:"671088" doc:"Overall bit rate"`
	VideoCodec      string       `json:"video_codec,omitempty" example:"h264" doc:"Codec of the first video stream"`
	Resolution      string       `json:"resolution" example:"1920x1080" doc:"Resolution of the first video stream"`
	Streams         []StreamData `json:"streams" doc:"Elementary streams"`
}

type RecordingData struct {
	State          string        `json:"state" enum:"idle,running,exited,stopped" example:"running" doc:"Session state"`
	PID            int           `json:"pid,omitempty" example:"4242" doc:"Encoder process ID while running"`
	ExitCode       int           `json:"exit_code,omitempty" example:"1" doc:"Encoder exit code once it exited on its own"`
	Output         string        `json:"output" example:"/tmp/out.mp4" doc:"Recording output path"`
	LogFile        string        `json:"log_file" example:"/tmp/out.mp4.ffmpeg.log" doc:"Encoder log file"`
	StartedAt      *time.Time    `json:"started_at,omitempty" doc:"Start of the current or last recording"`
	StoppedAt      *time.Time    `json:"stopped_at,omitempty" doc:"Stop of the last recording"`
	ProcessSeconds float64       `json:"process_seconds,omitempty" example:"12.8" doc:"Wall time between start and stop"`
	Video          *ArtifactData `json:"video,omitempty" doc:"Probed output of the last recording"`
}

type RecordingResponse struct {
	Body RecordingData
}

// Screenshot models
type ScreenshotRequest struct {
	Body struct {
		Path string `json:"path" minLength:"1" example:"/tmp/shot.png" doc:"File to write the frame to"`
	}
}

type ScreenshotData struct {
	Path string `json:"path" example:"/tmp/shot.png" doc:"Written screenshot file"`
}

type ScreenshotResponse struct {
	Body ScreenshotData
}

// ConnectedEvent is the first message on an event stream.
type ConnectedEvent struct {
	Message   string `json:"message" example:"connected" doc:"Connection message"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Connection timestamp"`
}

// NewArtifactData converts a probed artifact for the API.
func NewArtifactData(a *probe.Artifact) *ArtifactData {
	if a == nil {
		return nil
	}
	data := &ArtifactData{
		Path:            a.Path,
		Size:            a.Size,
		DurationSeconds: a.Duration.Seconds(),
		FormatName:      a.FormatName,
		BitRate:         a.BitRate,
		VideoCodec:      a.VideoCodec(),
		Resolution:      a.Resolution(),
		Streams:         make([]StreamData, 0, len(a.Streams)),
	}
	for _, s := range a.Streams {
		data.Streams = append(data.Streams, StreamData{
			Index:      s.Index,
			CodecType:  s.CodecType,
			CodecName:  s.CodecName,
			Width:      s.Width,
			Height:     s.Height,
			FrameRate:  s.FrameRate,
			SampleRate: s.SampleRate,
			Channels:   s.Channels,
		})
	}
	return data
}

// NewRecordingData converts a session status for the API.
func NewRecordingData(st recorder.Status, processTime time.Duration, ok bool) RecordingData {
	data := RecordingData{
		State:   string(st.State),
		PID:      st.PID,
		ExitCode: st.ExitCode,
		Output:   st.Output,
		LogFile:  st.LogFile,
		Video:    NewArtifactData(st.Video),
	}
	if !st.StartedAt.IsZero() {
		t := st.StartedAt
		data.StartedAt = &t
	}
	if !st.StoppedAt.IsZero() {
		t := st.StoppedAt
		data.StoppedAt = &t
	}
	if ok {
		data.ProcessSeconds = processTime.Seconds()
	}
	return data
}
