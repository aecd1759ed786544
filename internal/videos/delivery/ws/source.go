package ws

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-stream/internal/frames"
)

// FrameSource feeds a session with decoded frames and the metadata read once
// up front. Next returns io.EOF when the source is exhausted.
type FrameSource interface {
	Info() (fps float64, totalFrames int)
	Next() ([]byte, error)
	Close() error
}

type ffmpegSource struct {
	info    *frames.VideoInfo
	decoder *frames.Decoder
}

func openFFmpegSource(ctx context.Context, inputPath string) (FrameSource, error) {
	info, err := frames.Probe(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	return &ffmpegSource{
		info:    info,
		decoder: frames.NewDecoder(ctx, inputPath),
	}, nil
}

func (f *ffmpegSource) Info() (float64, int) {
	return f.info.FPS, f.info.TotalFrames
}

func (f *ffmpegSource) Next() ([]byte, error) {
	return f.decoder.Next()
}

func (f *ffmpegSource) Close() error {
	return f.decoder.Close()
}
