package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

type videoHandlers struct {
	videoUC videos.UseCase
	logger  logger.Logger
}

func NewVideoHandlers(videoUC videos.UseCase, log logger.Logger) videos.Handlers {
	return &videoHandlers{
		videoUC: videoUC,
		logger:  log,
	}
}

// UploadVideo accepts a multipart upload, stores the original and kicks off
// the background transcode. The response carries the fresh asset key and the
// original's storage key; it never waits for the transcode.
func (h *videoHandlers) UploadVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file part"})
		}
		if fileHeader.Filename == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No selected file"})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unreadable file part"})
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unreadable file part"})
		}

		resp, err := h.videoUC.UploadVideo(c.Request().Context(), userID, &models.UploadInput{
			FileName: fileHeader.Filename,
			Content:  content,
		})
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// StreamPlaylist returns the presigned playlist plus its presigned segment
// URLs for one asset.
func (h *videoHandlers) StreamPlaylist() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.QueryParam("user_id")
		fileKey := c.QueryParam("file_key")
		if userID == "" || fileKey == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing user_id or file_key"})
		}

		playlist, err := h.videoUC.GetSignedPlaylist(c.Request().Context(), userID, fileKey)
		if err != nil {
			h.logger.Errorf("StreamPlaylist error: %v, RequestID: %s", err, utils.GetRequestID(c))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error generating presigned URL"})
		}
		return c.JSON(http.StatusOK, playlist)
	}
}

func (h *videoHandlers) GetJobStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileKey := c.Param("file_key")
		if fileKey == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing file_key"})
		}
		state, err := h.videoUC.GetJobState(fileKey)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, state)
	}
}

func (h *videoHandlers) ListVideos() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		list, err := h.videoUC.ListVideos(c.Request().Context(), userID, pagination)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *videoHandlers) GetVideoByKey() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		video, err := h.videoUC.GetVideo(c.Request().Context(), userID, c.Param("file_key"))
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, video)
	}
}

func (h *videoHandlers) DeleteVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		if err := h.videoUC.DeleteVideo(c.Request().Context(), userID, c.Param("file_key")); err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Video deleted successfully"})
	}
}
