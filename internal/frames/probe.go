package frames

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// VideoInfo is the up-front metadata for a frame stream: the source frame
// rate and the total number of frames it will produce.
type VideoInfo struct {
	FPS         float64
	TotalFrames int
}

// Probe reads the stream metadata once, before decoding starts. Frame
// counting decodes the whole container index, so it is the slow part of
// session setup.
func Probe(ctx context.Context, inputPath string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-count_frames",
		"-show_entries", "stream=r_frame_rate,nb_read_frames",
		"-of", "csv=p=0",
		inputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %v output: %s", err, string(output))
	}

	trimmed := strings.TrimSpace(string(output))
	trimmed = strings.TrimRight(trimmed, ",")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("unexpected ffprobe output: %s", trimmed)
	}

	fps, err := parseFrameRate(parts[0])
	if err != nil {
		return nil, err
	}
	totalFrames, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid frame count %q: %v", parts[1], err)
	}

	return &VideoInfo{
		FPS:         fps,
		TotalFrames: totalFrames,
	}, nil
}

// parseFrameRate handles ffprobe's rational notation, e.g. "30000/1001".
func parseFrameRate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	num, den, found := strings.Cut(raw, "/")
	if !found {
		fps, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid frame rate %q: %v", raw, err)
		}
		return fps, nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate numerator %q: %v", num, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid frame rate denominator %q", den)
	}
	return n / d, nil
}
