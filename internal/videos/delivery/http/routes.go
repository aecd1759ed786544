package http

import (
	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/cloud-video-stream/internal/middleware"
	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
)

func MapVideoRoutes(videoGroup *echo.Group, h videos.Handlers, mw *middleware.MiddlewareManager) {
	auth := mw.AuthBearerMiddleware()

	videoGroup.POST("/upload", h.UploadVideo(), auth)
	videoGroup.GET("/stream", h.StreamPlaylist())
	videoGroup.GET("/jobs/:file_key", h.GetJobStatus(), auth)
	videoGroup.GET("/list", h.ListVideos(), auth)
	videoGroup.GET("/:file_key", h.GetVideoByKey(), auth)
	videoGroup.DELETE("/:file_key", h.DeleteVideo(), auth)
}
