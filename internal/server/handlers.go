package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/cloud-video-stream/internal/middleware"
	"github.com/amankumarsingh77/cloud-video-stream/internal/transcoder"
	videoHttp "github.com/amankumarsingh77/cloud-video-stream/internal/videos/delivery/http"
	videoWs "github.com/amankumarsingh77/cloud-video-stream/internal/videos/delivery/ws"
	videoRepository "github.com/amankumarsingh77/cloud-video-stream/internal/videos/repository"
	videoUsecase "github.com/amankumarsingh77/cloud-video-stream/internal/videos/usecase"
	"github.com/amankumarsingh77/cloud-video-stream/internal/worker"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

func (s *Server) MapHandlers(ctx context.Context, e *echo.Echo) error {
	vAWSRepo := videoRepository.NewAwsRepository(s.s3Client, s.preSignClient, s.cfg.S3.Bucket)
	vRepo := videoRepository.NewVideoRepo(s.db)
	vRedisRepo := videoRepository.NewVideoRedisRepo(s.redisClient)

	pool := worker.NewPool(s.cfg, vAWSRepo, vRedisRepo, transcoder.NewFFmpegTranscoder(), s.logger)
	pool.Start(ctx)

	videoUC := videoUsecase.NewVideoUseCase(s.cfg, vRepo, vAWSRepo, pool, s.logger)

	videoHandlers := videoHttp.NewVideoHandlers(videoUC, s.logger)
	streamHandlers := videoWs.NewStreamHandlers(s.cfg, videoUC, vAWSRepo, s.verifier, s.logger)

	mw := middleware.NewMiddlewareManager(s.verifier, s.cfg, []string{"*"}, s.logger)

	videoGroup := e.Group("/video")
	videoHttp.MapVideoRoutes(videoGroup, videoHandlers, mw)
	videoGroup.GET("/ws", streamHandlers.ServeWS())

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
