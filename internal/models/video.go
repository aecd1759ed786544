package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoFile is one catalog row for an uploaded original. Transcode state is
// deliberately absent here: it lives only in the in-process job registry.
type VideoFile struct {
	VideoID    uuid.UUID `json:"video_id" db:"video_id" validate:"omitempty"`
	UserID     string    `json:"user_id" db:"user_id" validate:"required"`
	FileKey    string    `json:"file_key" db:"file_key" validate:"required"`
	FileName   string    `json:"file_name" db:"file_name" validate:"required,lte=255"`
	FileSize   int64     `json:"file_size" db:"file_size" validate:"omitempty"`
	S3Key      string    `json:"s3_key" db:"s3_key" validate:"required,lte=255"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at" validate:"omitempty"`
}

type VideoList struct {
	Videos     []*VideoFile `json:"videos"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	HasMore    bool         `json:"has_more"`
}
