package frames

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Scanner buffer bounds. A single 1080p JPEG at the quality below stays well
// under a megabyte; the cap leaves room for outliers.
const (
	scanBufferSize = 1 << 20
	maxFrameSize   = 32 << 20
	jpegQuality    = "4"
	jpegEndMarker  = "\xff\xd9"
)

// Decoder reads a video file and yields every frame as a JPEG still, strictly
// in presentation order. One decoder owns one ffmpeg process; it is not safe
// for concurrent use.
type Decoder struct {
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	scanner *bufio.Scanner
	stderr  bytes.Buffer
	started bool
}

// NewDecoder prepares an MJPEG pipe over the given source file.
func NewDecoder(ctx context.Context, inputPath string) *Decoder {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-an",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-q:v", jpegQuality,
		"pipe:1",
	)
	return &Decoder{cmd: cmd}
}

// Next returns the next frame's JPEG bytes, or io.EOF once the source is
// exhausted. The first call starts the decode process.
func (d *Decoder) Next() ([]byte, error) {
	if !d.started {
		if err := d.start(); err != nil {
			return nil, err
		}
	}

	if d.scanner.Scan() {
		frame := make([]byte, len(d.scanner.Bytes()))
		copy(frame, d.scanner.Bytes())
		return frame, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("frame scan failed: %w", err)
	}

	// Already exhausted and reaped.
	if d.cmd == nil {
		return nil, io.EOF
	}
	if err := d.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed: %v, stderr: %s", err, d.stderr.String())
	}
	d.cmd = nil
	return nil, io.EOF
}

func (d *Decoder) start() error {
	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open decode pipe: %w", err)
	}
	d.cmd.Stderr = &d.stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	d.stdout = stdout
	d.scanner = bufio.NewScanner(stdout)
	d.scanner.Buffer(make([]byte, scanBufferSize), maxFrameSize)
	d.scanner.Split(splitJPEGFrames)
	d.started = true
	return nil
}

// Close releases the decode process. Safe to call after Next returned io.EOF.
func (d *Decoder) Close() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	if d.stdout != nil {
		d.stdout.Close()
	}
	d.cmd.Process.Kill()
	d.cmd.Wait()
	d.cmd = nil
	return nil
}

// splitJPEGFrames tokenizes an MJPEG byte stream on the JPEG end-of-image
// marker. Baseline JPEG carries EOI only at the end of a picture, so the
// marker is an unambiguous frame boundary here.
func splitJPEGFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if idx := bytes.Index(data, []byte(jpegEndMarker)); idx >= 0 {
		end := idx + len(jpegEndMarker)
		return end, data[:end], nil
	}
	if atEOF {
		if len(data) == 0 {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("truncated jpeg frame of %d bytes", len(data))
	}
	return 0, nil, nil
}
