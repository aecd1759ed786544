package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/websocket"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/httpErrors"
)

// Client → server events.
const (
	eventGetVideoStream = "get_video_stream"
	eventDrawOnImage    = "draw_on_image"
)

// Server → client events.
const (
	eventStreamVideo = "stream_video"
	eventStreamEnd   = "stream_end"
	eventError       = "error"
	eventDrawAck     = "draw_ack"
)

const (
	streamStatusCompleted = "completed"
	streamStatusFailed    = "failed"
)

type clientEvent struct {
	Event      string            `json:"event"`
	ClerkToken string            `json:"clerk_token"`
	FileKey    string            `json:"file_key"`
	FrameIndex int               `json:"frame_index"`
	Lines      []models.DrawLine `json:"lines"`
}

type serverEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type streamEndData struct {
	FileKey string `json:"file_key"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

type errorData struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// session serializes every write to one connection and dies with it.
type session struct {
	h    *StreamHandlers
	conn *websocket.Conn
	ctx  context.Context
}

func newSession(h *StreamHandlers, conn *websocket.Conn, ctx context.Context) *session {
	return &session{h: h, conn: conn, ctx: ctx}
}

func (s *session) run() {
	defer s.conn.Close()
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.h.logger.Infof("Client disconnected: %s", s.conn.RemoteAddr())
			return
		}

		var event clientEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			s.sendError(http.StatusBadRequest, "malformed event payload")
			continue
		}

		switch event.Event {
		case eventGetVideoStream:
			s.handleStream(&event)
		case eventDrawOnImage:
			s.handleDraw(&event)
		default:
			s.sendError(http.StatusBadRequest, "unknown event")
		}
	}
}

// handleStream drives one full frame stream: authenticate, fetch the source
// to a scratch file, then push every frame in order followed by a terminal
// status event.
func (s *session) handleStream(event *clientEvent) {
	userID, ok := s.authenticate(event)
	if !ok {
		return
	}
	if event.FileKey == "" {
		s.sendError(http.StatusBadRequest, "missing file_key")
		return
	}

	localPath, err := s.fetchOriginal(userID, event.FileKey)
	if err != nil {
		s.h.logger.Errorf("frame stream fetch failed for %s/%s: %v", userID, event.FileKey, err)
		s.sendError(httpErrors.ErrorStatus(err))
		return
	}
	defer os.Remove(localPath)

	source, err := s.h.openSource(s.ctx, localPath)
	if err != nil {
		s.h.logger.Errorf("frame stream decode open failed for %s/%s: %v", userID, event.FileKey, err)
		s.sendError(http.StatusInternalServerError, "failed to open video for decoding")
		return
	}
	defer source.Close()

	fps, totalFrames := source.Info()

	status := streamStatusCompleted
	reason := ""
	for frameIndex := 0; ; frameIndex++ {
		frame, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.h.logger.Errorf("frame decode failed for %s/%s at frame %d: %v", userID, event.FileKey, frameIndex, err)
			status = streamStatusFailed
			reason = "frame decode failed"
			break
		}

		msg := &models.FrameMessage{
			FrameImage:  frame,
			FrameCount:  frameIndex,
			TotalFrames: totalFrames,
			FPS:         fps,
			FileKey:     event.FileKey,
		}
		if err := s.send(eventStreamVideo, msg); err != nil {
			// Client is gone; nothing left to deliver, terminal event included.
			return
		}
	}

	s.send(eventStreamEnd, &streamEndData{
		FileKey: event.FileKey,
		Status:  status,
		Error:   reason,
	})
}

// handleDraw verifies the sender and acknowledges the annotation. The lines
// are logged only.
func (s *session) handleDraw(event *clientEvent) {
	userID, ok := s.authenticate(event)
	if !ok {
		return
	}

	pointCount := 0
	for _, line := range event.Lines {
		pointCount += len(line.Points)
	}
	s.h.logger.Infof("Draw event from %s on %s frame %d: %d lines, %d points",
		userID, event.FileKey, event.FrameIndex, len(event.Lines), pointCount)

	s.send(eventDrawAck, map[string]interface{}{
		"file_key":    event.FileKey,
		"frame_index": event.FrameIndex,
	})
}

func (s *session) authenticate(event *clientEvent) (string, bool) {
	if event.ClerkToken == "" {
		s.sendError(http.StatusUnauthorized, "Authorization token is missing")
		return "", false
	}
	userID, err := s.h.verifier.UserID(s.ctx, event.ClerkToken)
	if err != nil {
		s.h.logger.Errorf("frame stream token rejected: %v", err)
		s.sendError(http.StatusUnauthorized, "Invalid token")
		return "", false
	}
	return userID, true
}

// fetchOriginal downloads the asset's original object into a private scratch
// file and returns its path. The caller removes the file on every exit path.
func (s *session) fetchOriginal(userID, fileKey string) (string, error) {
	key, err := s.h.videoUC.GetOriginalKey(s.ctx, userID, fileKey)
	if err != nil {
		return "", err
	}

	body, err := s.h.awsRepo.GetObject(s.ctx, key)
	if err != nil {
		return "", errors.Join(httpErrors.ErrStorage, err)
	}
	defer body.Close()

	tempFile, err := os.CreateTemp("", "frame_stream_*"+filepath.Ext(key))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tempFile, body); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", err
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}
	return tempFile.Name(), nil
}

func (s *session) send(event string, data interface{}) error {
	return s.conn.WriteJSON(&serverEvent{Event: event, Data: data})
}

func (s *session) sendError(status int, message string) {
	s.send(eventError, &errorData{Status: status, Error: message})
}
