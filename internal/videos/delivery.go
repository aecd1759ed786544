package videos

import "github.com/labstack/echo/v4"

type Handlers interface {
	UploadVideo() echo.HandlerFunc
	StreamPlaylist() echo.HandlerFunc
	GetJobStatus() echo.HandlerFunc
	ListVideos() echo.HandlerFunc
	GetVideoByKey() echo.HandlerFunc
	DeleteVideo() echo.HandlerFunc
}
