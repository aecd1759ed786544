package usecase

import (
	"bytes"
	"context"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

const playlistContentType = "application/vnd.apple.mpegurl"

type videoUC struct {
	cfg       *config.Config
	videoRepo videos.Repository
	awsRepo   videos.AWSRepository
	jobs      videos.JobService
	logger    logger.Logger
}

func NewVideoUseCase(
	cfg *config.Config,
	videoRepo videos.Repository,
	awsRepo videos.AWSRepository,
	jobs videos.JobService,
	log logger.Logger,
) videos.UseCase {
	return &videoUC{
		cfg:       cfg,
		videoRepo: videoRepo,
		awsRepo:   awsRepo,
		jobs:      jobs,
		logger:    log,
	}
}

// UploadVideo stores the original object, records it in the catalog and hands
// the transcode to the background pool. The response never waits on the job.
func (v *videoUC) UploadVideo(ctx context.Context, userID string, input *models.UploadInput) (*models.UploadResponse, error) {
	if userID == "" {
		return nil, httpErrors.NewAuthError("missing user id")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		v.logger.Errorf("UploadVideo - ValidateStruct error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrBadRequest, err.Error())
	}

	fileKey := uuid.New().String()
	s3Key := models.OriginalKey(userID, fileKey, input.FileName)

	v.logger.Infof("Uploading original file to storage: %s", s3Key)
	if err := v.awsRepo.PutObject(ctx, s3Key, contentTypeFor(input.FileName), bytes.NewReader(input.Content)); err != nil {
		v.logger.Errorf("UploadVideo - PutObject error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}

	if _, err := v.videoRepo.CreateVideo(ctx, &models.VideoFile{
		UserID:   userID,
		FileKey:  fileKey,
		FileName: input.FileName,
		FileSize: int64(len(input.Content)),
		S3Key:    s3Key,
	}); err != nil {
		// The original is already stored and the transcode can still run, so a
		// catalog miss only loses the history row.
		v.logger.Warnf("UploadVideo - CreateVideo error: %v", err)
	}

	if err := v.jobs.Submit(ctx, &models.TranscodeJob{
		UserID:      userID,
		FileKey:     fileKey,
		Content:     input.Content,
		SubmittedAt: time.Now(),
	}); err != nil {
		v.logger.Errorf("UploadVideo - Submit transcode job error: %v", err)
	}

	return &models.UploadResponse{
		FileKey: fileKey,
		S3Key:   s3Key,
	}, nil
}

// GetSignedPlaylist rebuilds the time-boxed playlist view: presign every
// segment under the asset, rewrite the stored playlist to reference those
// URLs, republish it under the signed key and presign that.
func (v *videoUC) GetSignedPlaylist(ctx context.Context, userID, fileKey string) (*models.SignedPlaylist, error) {
	if userID == "" || fileKey == "" {
		return nil, errors.Wrap(httpErrors.ErrBadRequest, "missing user_id or file_key")
	}

	prefix := models.AssetPrefix(userID, fileKey)
	playlistKey := models.PlaylistKey(userID, fileKey)
	expiry := v.cfg.S3.PresignExpiry()

	if _, err := v.awsRepo.GetPresignedURL(ctx, playlistKey, expiry); err != nil {
		v.logger.Errorf("GetSignedPlaylist - presign playlist error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}

	keys, err := v.awsRepo.ListObjects(ctx, prefix)
	if err != nil {
		v.logger.Errorf("GetSignedPlaylist - ListObjects error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}

	segmentURLs := make(map[string]string)
	for _, key := range keys {
		if !strings.HasSuffix(key, models.SegmentSuffix) {
			continue
		}
		url, err := v.awsRepo.GetPresignedURL(ctx, key, expiry)
		if err != nil {
			v.logger.Errorf("GetSignedPlaylist - presign segment error: %v", err)
			return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
		}
		segmentURLs[key] = url
	}

	body, err := v.awsRepo.GetObject(ctx, playlistKey)
	if err != nil {
		v.logger.Errorf("GetSignedPlaylist - GetObject error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}
	playlistContent, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		v.logger.Errorf("GetSignedPlaylist - read playlist error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}

	rewritten := rewritePlaylist(string(playlistContent), prefix, segmentURLs)

	signedKey := models.SignedPlaylistKey(userID, fileKey)
	if err := v.awsRepo.PutObject(ctx, signedKey, playlistContentType, strings.NewReader(rewritten)); err != nil {
		v.logger.Errorf("GetSignedPlaylist - publish signed playlist error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}

	playlistURL, err := v.awsRepo.GetPresignedURL(ctx, signedKey, expiry)
	if err != nil {
		v.logger.Errorf("GetSignedPlaylist - presign signed playlist error: %v", err)
		return nil, errors.Wrap(httpErrors.ErrStorage, err.Error())
	}

	segmentKeys := make([]string, 0, len(segmentURLs))
	for key := range segmentURLs {
		segmentKeys = append(segmentKeys, key)
	}
	sort.Strings(segmentKeys)

	segments := make([]models.SegmentURL, 0, len(segmentKeys))
	for _, key := range segmentKeys {
		segments = append(segments, models.SegmentURL{Key: key, URL: segmentURLs[key]})
	}

	return &models.SignedPlaylist{
		PlaylistURL: playlistURL,
		Segments:    segments,
	}, nil
}

// rewritePlaylist substitutes segment lines with their presigned URLs. It is
// a pure textual pass: line count and every non-segment line stay untouched,
// so directives and comments survive byte for byte. Lines already rewritten
// to full URLs fall through the map lookup and stay as they are.
func rewritePlaylist(playlist, prefix string, segmentURLs map[string]string) string {
	lines := strings.Split(playlist, "\n")
	for i, line := range lines {
		if !strings.HasSuffix(line, models.SegmentSuffix) {
			continue
		}
		if url, ok := segmentURLs[prefix+line]; ok {
			lines[i] = url
		}
	}
	return strings.Join(lines, "\n")
}

// GetOriginalKey resolves the stored original object for an asset. Storage is
// the source of truth; the extension is whatever the upload carried.
func (v *videoUC) GetOriginalKey(ctx context.Context, userID, fileKey string) (string, error) {
	if userID == "" || fileKey == "" {
		return "", errors.Wrap(httpErrors.ErrBadRequest, "missing user_id or file_key")
	}

	prefix := models.AssetPrefix(userID, fileKey)
	keys, err := v.awsRepo.ListObjects(ctx, prefix)
	if err != nil {
		return "", errors.Wrap(httpErrors.ErrStorage, err.Error())
	}
	for _, key := range keys {
		if strings.HasPrefix(strings.TrimPrefix(key, prefix), models.OriginalBaseName+".") {
			return key, nil
		}
	}
	return "", errors.Wrapf(httpErrors.ErrNotFound, "no original object under %s", prefix)
}

func (v *videoUC) GetJobState(fileKey string) (*models.JobState, error) {
	state, ok := v.jobs.State(fileKey)
	if !ok {
		return nil, errors.Wrapf(httpErrors.ErrNotFound, "no transcode job for %s", fileKey)
	}
	return state, nil
}

func (v *videoUC) ListVideos(ctx context.Context, userID string, pagination *utils.Pagination) (*models.VideoList, error) {
	if pagination == nil {
		pagination = &utils.Pagination{}
	}
	pagination.Normalize()

	list, err := v.videoRepo.GetVideos(ctx, userID, pagination)
	if err != nil {
		v.logger.Errorf("ListVideos - GetVideos error: %v", err)
		return nil, err
	}
	return list, nil
}

func (v *videoUC) GetVideo(ctx context.Context, userID, fileKey string) (*models.VideoFile, error) {
	if fileKey == "" {
		return nil, errors.Wrap(httpErrors.ErrBadRequest, "missing file_key")
	}
	video, err := v.videoRepo.GetVideoByKey(ctx, userID, fileKey)
	if err != nil {
		v.logger.Errorf("GetVideo - GetVideoByKey error: %v", err)
		return nil, err
	}
	return video, nil
}

// DeleteVideo removes the stored objects under the asset prefix, then the
// catalog row.
func (v *videoUC) DeleteVideo(ctx context.Context, userID, fileKey string) error {
	if fileKey == "" {
		return errors.Wrap(httpErrors.ErrBadRequest, "missing file_key")
	}

	prefix := models.AssetPrefix(userID, fileKey)
	keys, err := v.awsRepo.ListObjects(ctx, prefix)
	if err != nil {
		v.logger.Errorf("DeleteVideo - ListObjects error: %v", err)
		return errors.Wrap(httpErrors.ErrStorage, err.Error())
	}
	for _, key := range keys {
		if err := v.awsRepo.RemoveObject(ctx, key); err != nil {
			v.logger.Errorf("DeleteVideo - RemoveObject error: %v", err)
			return errors.Wrap(httpErrors.ErrStorage, err.Error())
		}
	}

	if err := v.videoRepo.DeleteVideo(ctx, userID, fileKey); err != nil {
		v.logger.Errorf("DeleteVideo - catalog delete error: %v", err)
		return err
	}
	return nil
}

func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
