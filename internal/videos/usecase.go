package videos

import (
	"context"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

type UseCase interface {
	UploadVideo(ctx context.Context, userID string, input *models.UploadInput) (*models.UploadResponse, error)
	GetSignedPlaylist(ctx context.Context, userID, fileKey string) (*models.SignedPlaylist, error)
	GetOriginalKey(ctx context.Context, userID, fileKey string) (string, error)
	GetJobState(fileKey string) (*models.JobState, error)
	ListVideos(ctx context.Context, userID string, pagination *utils.Pagination) (*models.VideoList, error)
	GetVideo(ctx context.Context, userID, fileKey string) (*models.VideoFile, error)
	DeleteVideo(ctx context.Context, userID, fileKey string) error
}

// JobService is the in-process background transcode queue the upload path
// hands work to. Submit never blocks on the job itself.
type JobService interface {
	Submit(ctx context.Context, job *models.TranscodeJob) error
	State(fileKey string) (*models.JobState, bool)
}
