package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
)

// Fixed encode settings. Every job produces the same packaging: a VOD HLS
// playlist with one-second segments.
const (
	videoCodec   = "libx264"
	videoPreset  = "medium"
	videoBitrate = "5000k"
	videoMaxrate = "5350k"
	videoBufsize = "7500k"
	audioCodec   = "aac"
	audioBitrate = "192k"
	segmentTime  = "1"

	segmentFilePattern = "segment_%03d" + models.SegmentSuffix
)

// Transcoder turns an input media file into a segmented playlist inside
// outputDir, or fails.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputDir string) error
}

type ffmpegTranscoder struct{}

func NewFFmpegTranscoder() Transcoder {
	return &ffmpegTranscoder{}
}

func (t *ffmpegTranscoder) Transcode(ctx context.Context, inputPath, outputDir string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", buildArgs(inputPath, outputDir)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg hls packaging failed: %v, stderr: %s", err, stderr.String())
	}
	return nil
}

func buildArgs(inputPath, outputDir string) []string {
	return []string{
		"-i", inputPath,
		"-c:v", videoCodec, "-preset", videoPreset,
		"-b:v", videoBitrate, "-maxrate", videoMaxrate, "-bufsize", videoBufsize,
		"-c:a", audioCodec, "-b:a", audioBitrate,
		"-strict", "experimental", "-movflags", "+faststart",
		"-f", "hls", "-hls_time", segmentTime, "-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(outputDir, segmentFilePattern),
		filepath.Join(outputDir, models.PlaylistFile),
	}
}
