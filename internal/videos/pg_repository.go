package videos

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

// Repository is the durable upload catalog. It records who uploaded what and
// when; transcode state never lands here.
type Repository interface {
	CreateVideo(ctx context.Context, video *models.VideoFile) (*models.VideoFile, error)
	GetVideoByKey(ctx context.Context, userID, fileKey string) (*models.VideoFile, error)
	GetVideos(ctx context.Context, userID string, pagination *utils.Pagination) (*models.VideoList, error)
	DeleteVideo(ctx context.Context, userID, fileKey string) error
}
