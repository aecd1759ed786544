package models

// UploadInput carries one multipart upload into the ingest path.
type UploadInput struct {
	FileName string `json:"filename" validate:"required,lte=255"`
	Content  []byte `json:"-" validate:"required"`
}

type UploadResponse struct {
	FileKey string `json:"file_key"`
	S3Key   string `json:"s3_key"`
}
