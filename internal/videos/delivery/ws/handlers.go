package ws

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/clerk"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
)

// StreamHandlers owns the persistent frame channel. Each accepted connection
// gets its own session; a session streams to exactly one client.
type StreamHandlers struct {
	cfg      *config.Config
	videoUC  videos.UseCase
	awsRepo  videos.AWSRepository
	verifier clerk.Verifier
	logger   logger.Logger

	upgrader   websocket.Upgrader
	openSource func(ctx context.Context, inputPath string) (FrameSource, error)
}

func NewStreamHandlers(
	cfg *config.Config,
	videoUC videos.UseCase,
	awsRepo videos.AWSRepository,
	verifier clerk.Verifier,
	log logger.Logger,
) *StreamHandlers {
	return &StreamHandlers{
		cfg:      cfg,
		videoUC:  videoUC,
		awsRepo:  awsRepo,
		verifier: verifier,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		openSource: openFFmpegSource,
	}
}

// ServeWS upgrades the request and runs the session until the client goes
// away. The session is the terminal consumer of the connection.
func (h *StreamHandlers) ServeWS() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			h.logger.Errorf("websocket upgrade failed: %v", err)
			return err
		}

		sess := newSession(h, conn, c.Request().Context())
		h.logger.Infof("Client connected: %s", conn.RemoteAddr())
		sess.run()
		return nil
	}
}
