package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

type videoRepo struct {
	db *sqlx.DB
}

func NewVideoRepo(db *sqlx.DB) videos.Repository {
	return &videoRepo{db: db}
}

func (r *videoRepo) CreateVideo(ctx context.Context, video *models.VideoFile) (*models.VideoFile, error) {
	created := &models.VideoFile{}
	if err := r.db.QueryRowxContext(
		ctx,
		createVideoQuery,
		video.UserID,
		video.FileKey,
		video.FileName,
		video.FileSize,
		video.S3Key,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("videoRepo.CreateVideo: %w", err)
	}
	return created, nil
}

func (r *videoRepo) GetVideoByKey(ctx context.Context, userID, fileKey string) (*models.VideoFile, error) {
	video := &models.VideoFile{}
	if err := r.db.GetContext(ctx, video, getVideoByKeyQuery, userID, fileKey); err != nil {
		return nil, fmt.Errorf("videoRepo.GetVideoByKey: %w", err)
	}
	return video, nil
}

func (r *videoRepo) GetVideos(ctx context.Context, userID string, pagination *utils.Pagination) (*models.VideoList, error) {
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, getVideosCountQuery, userID); err != nil {
		return nil, fmt.Errorf("videoRepo.GetVideos.count: %w", err)
	}

	if totalCount == 0 {
		return &models.VideoList{
			Videos:     make([]*models.VideoFile, 0),
			TotalCount: 0,
			Page:       pagination.Page,
			PageSize:   pagination.Size,
			HasMore:    false,
		}, nil
	}

	rows, err := r.db.QueryxContext(ctx, getVideosQuery, userID, pagination.GetOffset(), pagination.GetLimit())
	if err != nil {
		return nil, fmt.Errorf("videoRepo.GetVideos: %w", err)
	}
	defer rows.Close()

	videoList := make([]*models.VideoFile, 0, pagination.GetLimit())
	for rows.Next() {
		video := &models.VideoFile{}
		if err := rows.StructScan(video); err != nil {
			return nil, fmt.Errorf("videoRepo.GetVideos.scan: %w", err)
		}
		videoList = append(videoList, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("videoRepo.GetVideos.rows: %w", err)
	}

	return &models.VideoList{
		Videos:     videoList,
		TotalCount: totalCount,
		Page:       pagination.Page,
		PageSize:   pagination.Size,
		HasMore:    utils.GetHasMore(pagination.Page, totalCount, pagination.Size),
	}, nil
}

func (r *videoRepo) DeleteVideo(ctx context.Context, userID, fileKey string) error {
	res, err := r.db.ExecContext(ctx, deleteVideoQuery, userID, fileKey)
	if err != nil {
		return fmt.Errorf("videoRepo.DeleteVideo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("videoRepo.DeleteVideo.rowsAffected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
