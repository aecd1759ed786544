package usecase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/httpErrors"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"

	"github.com/pkg/errors"
)

func newTestLogger() logger.Logger {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "Development"},
		Logger: config.Logger{Level: "error", Encoding: "console"},
	}
	log := logger.NewApiLogger(cfg)
	log.InitLogger()
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		S3: config.S3Config{Bucket: "test-bucket", PresignExpiryMinute: 60},
	}
}

type fakeAWSRepo struct {
	objects    map[string][]byte
	putKeys    []string
	putErr     error
	listErr    error
	presignErr error
	removed    []string
}

func newFakeAWSRepo() *fakeAWSRepo {
	return &fakeAWSRepo{objects: make(map[string][]byte)}
}

func (f *fakeAWSRepo) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = content
	f.putKeys = append(f.putKeys, key)
	return nil
}

func (f *fakeAWSRepo) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	content, ok := f.objects[key]
	if !ok {
		return nil, errors.Errorf("no such key %s", key)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *fakeAWSRepo) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	keys := make([]string, 0)
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeAWSRepo) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://signed.example.com/" + key + "?sig=test", nil
}

func (f *fakeAWSRepo) RemoveObject(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

type fakeVideoRepo struct {
	created   []*models.VideoFile
	createErr error
	deleteErr error
}

func (f *fakeVideoRepo) CreateVideo(ctx context.Context, video *models.VideoFile) (*models.VideoFile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, video)
	return video, nil
}

func (f *fakeVideoRepo) GetVideoByKey(ctx context.Context, userID, fileKey string) (*models.VideoFile, error) {
	for _, video := range f.created {
		if video.UserID == userID && video.FileKey == fileKey {
			return video, nil
		}
	}
	return nil, errors.Wrap(httpErrors.ErrNotFound, "video not found")
}

func (f *fakeVideoRepo) GetVideos(ctx context.Context, userID string, pagination *utils.Pagination) (*models.VideoList, error) {
	videoList := make([]*models.VideoFile, 0)
	for _, video := range f.created {
		if video.UserID == userID {
			videoList = append(videoList, video)
		}
	}
	return &models.VideoList{
		Videos:     videoList,
		TotalCount: len(videoList),
		Page:       pagination.Page,
		PageSize:   pagination.Size,
	}, nil
}

func (f *fakeVideoRepo) DeleteVideo(ctx context.Context, userID, fileKey string) error {
	return f.deleteErr
}

type fakeJobService struct {
	submitted []*models.TranscodeJob
	submitErr error
	states    map[string]*models.JobState
}

func (f *fakeJobService) Submit(ctx context.Context, job *models.TranscodeJob) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, job)
	return nil
}

func (f *fakeJobService) State(fileKey string) (*models.JobState, bool) {
	state, ok := f.states[fileKey]
	return state, ok
}

func TestUploadVideo(t *testing.T) {
	ctx := context.Background()

	t.Run("stores original then submits transcode job", func(t *testing.T) {
		awsRepo := newFakeAWSRepo()
		videoRepo := &fakeVideoRepo{}
		jobs := &fakeJobService{}
		uc := NewVideoUseCase(newTestConfig(), videoRepo, awsRepo, jobs, newTestLogger())

		resp, err := uc.UploadVideo(ctx, "user_1", &models.UploadInput{
			FileName: "clip.mp4",
			Content:  []byte("fake video bytes"),
		})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.NotEmpty(t, resp.FileKey)
		assert.Equal(t, "user_1/"+resp.FileKey+"/original.mp4", resp.S3Key)
		assert.Equal(t, []byte("fake video bytes"), awsRepo.objects[resp.S3Key])

		require.Len(t, videoRepo.created, 1)
		assert.Equal(t, resp.FileKey, videoRepo.created[0].FileKey)

		require.Len(t, jobs.submitted, 1)
		assert.Equal(t, resp.FileKey, jobs.submitted[0].FileKey)
		assert.Equal(t, "user_1", jobs.submitted[0].UserID)
	})

	t.Run("keeps the upload extension", func(t *testing.T) {
		awsRepo := newFakeAWSRepo()
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, &fakeJobService{}, newTestLogger())

		resp, err := uc.UploadVideo(ctx, "user_1", &models.UploadInput{
			FileName: "holiday.MOV",
			Content:  []byte("x"),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(resp.S3Key, "/original.mov"))
	})

	t.Run("rejects empty content before touching storage", func(t *testing.T) {
		awsRepo := newFakeAWSRepo()
		jobs := &fakeJobService{}
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, jobs, newTestLogger())

		resp, err := uc.UploadVideo(ctx, "user_1", &models.UploadInput{FileName: "clip.mp4"})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, httpErrors.ErrBadRequest))
		assert.Empty(t, awsRepo.putKeys)
		assert.Empty(t, jobs.submitted)
	})

	t.Run("rejects missing user id", func(t *testing.T) {
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, newFakeAWSRepo(), &fakeJobService{}, newTestLogger())

		_, err := uc.UploadVideo(ctx, "", &models.UploadInput{FileName: "clip.mp4", Content: []byte("x")})
		require.Error(t, err)
		status, _ := httpErrors.ErrorStatus(err)
		assert.Equal(t, 401, status)
	})

	t.Run("no job is submitted when the original cannot be stored", func(t *testing.T) {
		awsRepo := newFakeAWSRepo()
		awsRepo.putErr = errors.New("bucket unavailable")
		jobs := &fakeJobService{}
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, jobs, newTestLogger())

		_, err := uc.UploadVideo(ctx, "user_1", &models.UploadInput{FileName: "clip.mp4", Content: []byte("x")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpErrors.ErrStorage))
		assert.Empty(t, jobs.submitted)
	})

	t.Run("catalog failure does not fail the upload", func(t *testing.T) {
		videoRepo := &fakeVideoRepo{createErr: errors.New("db down")}
		jobs := &fakeJobService{}
		uc := NewVideoUseCase(newTestConfig(), videoRepo, newFakeAWSRepo(), jobs, newTestLogger())

		resp, err := uc.UploadVideo(ctx, "user_1", &models.UploadInput{FileName: "clip.mp4", Content: []byte("x")})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.FileKey)
		require.Len(t, jobs.submitted, 1)
	})
}

func TestGetSignedPlaylist(t *testing.T) {
	ctx := context.Background()

	const playlist = "#EXTM3U\n" +
		"#EXT-X-VERSION:3\n" +
		"#EXT-X-TARGETDURATION:1\n" +
		"#EXTINF:1.0,\n" +
		"segment_000.ts\n" +
		"#EXTINF:1.0,\n" +
		"segment_001.ts\n" +
		"#EXT-X-ENDLIST\n"

	setup := func() (*fakeAWSRepo, string) {
		awsRepo := newFakeAWSRepo()
		prefix := "user_1/key_1/"
		awsRepo.objects[prefix+"original.mp4"] = []byte("original")
		awsRepo.objects[prefix+"output.m3u8"] = []byte(playlist)
		awsRepo.objects[prefix+"segment_000.ts"] = []byte("seg0")
		awsRepo.objects[prefix+"segment_001.ts"] = []byte("seg1")
		return awsRepo, prefix
	}

	t.Run("rewrites segment lines and publishes the signed playlist", func(t *testing.T) {
		awsRepo, prefix := setup()
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, &fakeJobService{}, newTestLogger())

		signed, err := uc.GetSignedPlaylist(ctx, "user_1", "key_1")
		require.NoError(t, err)

		assert.Contains(t, signed.PlaylistURL, prefix+"output_signed.m3u8")

		require.Len(t, signed.Segments, 2)
		assert.Equal(t, prefix+"segment_000.ts", signed.Segments[0].Key)
		assert.Equal(t, prefix+"segment_001.ts", signed.Segments[1].Key)
		for _, segment := range signed.Segments {
			assert.Contains(t, segment.URL, segment.Key)
		}

		stored := string(awsRepo.objects[prefix+"output_signed.m3u8"])
		assert.NotContains(t, stored, "\nsegment_000.ts\n")
		assert.Contains(t, stored, "https://signed.example.com/"+prefix+"segment_000.ts")
		assert.Contains(t, stored, "https://signed.example.com/"+prefix+"segment_001.ts")

		// Directives survive untouched and the line count is preserved.
		assert.True(t, strings.HasPrefix(stored, "#EXTM3U\n"))
		assert.Contains(t, stored, "#EXT-X-ENDLIST")
		assert.Equal(t, len(strings.Split(playlist, "\n")), len(strings.Split(stored, "\n")))
	})

	t.Run("a second call over the signed playlist is stable", func(t *testing.T) {
		awsRepo, prefix := setup()
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, &fakeJobService{}, newTestLogger())

		first, err := uc.GetSignedPlaylist(ctx, "user_1", "key_1")
		require.NoError(t, err)
		second, err := uc.GetSignedPlaylist(ctx, "user_1", "key_1")
		require.NoError(t, err)

		assert.Equal(t, len(first.Segments), len(second.Segments))
		stored := string(awsRepo.objects[prefix+"output_signed.m3u8"])
		assert.Contains(t, stored, "https://signed.example.com/"+prefix+"segment_000.ts")
	})

	t.Run("missing identifiers are rejected", func(t *testing.T) {
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, newFakeAWSRepo(), &fakeJobService{}, newTestLogger())

		_, err := uc.GetSignedPlaylist(ctx, "", "key_1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpErrors.ErrBadRequest))

		_, err = uc.GetSignedPlaylist(ctx, "user_1", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpErrors.ErrBadRequest))
	})

	t.Run("storage failures surface as storage errors", func(t *testing.T) {
		awsRepo, _ := setup()
		awsRepo.presignErr = errors.New("presign refused")
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, &fakeJobService{}, newTestLogger())

		_, err := uc.GetSignedPlaylist(ctx, "user_1", "key_1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpErrors.ErrStorage))
	})
}

func TestRewritePlaylist(t *testing.T) {
	prefix := "user_1/key_1/"
	segmentURLs := map[string]string{
		prefix + "segment_000.ts": "https://signed.example.com/a",
		prefix + "segment_001.ts": "https://signed.example.com/b",
	}

	t.Run("replaces only known segment lines", func(t *testing.T) {
		in := "#EXTM3U\nsegment_000.ts\nsegment_001.ts\nsegment_999.ts\n#EXT-X-ENDLIST"
		out := rewritePlaylist(in, prefix, segmentURLs)

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "#EXTM3U", lines[0])
		assert.Equal(t, "https://signed.example.com/a", lines[1])
		assert.Equal(t, "https://signed.example.com/b", lines[2])
		assert.Equal(t, "segment_999.ts", lines[3])
		assert.Equal(t, "#EXT-X-ENDLIST", lines[4])
	})

	t.Run("already rewritten lines pass through", func(t *testing.T) {
		in := "#EXTM3U\nhttps://signed.example.com/a\n#EXT-X-ENDLIST"
		assert.Equal(t, in, rewritePlaylist(in, prefix, segmentURLs))
	})

	t.Run("empty playlist stays empty", func(t *testing.T) {
		assert.Equal(t, "", rewritePlaylist("", prefix, segmentURLs))
	})
}

func TestGetOriginalKey(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the original whatever its extension", func(t *testing.T) {
		awsRepo := newFakeAWSRepo()
		awsRepo.objects["user_1/key_1/original.webm"] = []byte("x")
		awsRepo.objects["user_1/key_1/output.m3u8"] = []byte("x")
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, &fakeJobService{}, newTestLogger())

		key, err := uc.GetOriginalKey(ctx, "user_1", "key_1")
		require.NoError(t, err)
		assert.Equal(t, "user_1/key_1/original.webm", key)
	})

	t.Run("missing asset is a not found error", func(t *testing.T) {
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, newFakeAWSRepo(), &fakeJobService{}, newTestLogger())

		_, err := uc.GetOriginalKey(ctx, "user_1", "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpErrors.ErrNotFound))
	})
}

func TestGetJobState(t *testing.T) {
	jobs := &fakeJobService{states: map[string]*models.JobState{
		"key_1": {FileKey: "key_1", Status: models.JobStatusPending},
	}}
	uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, newFakeAWSRepo(), jobs, newTestLogger())

	state, err := uc.GetJobState("key_1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, state.Status)

	_, err = uc.GetJobState("unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpErrors.ErrNotFound))
}

func TestDeleteVideo(t *testing.T) {
	ctx := context.Background()

	t.Run("removes every object under the asset prefix", func(t *testing.T) {
		awsRepo := newFakeAWSRepo()
		awsRepo.objects["user_1/key_1/original.mp4"] = []byte("x")
		awsRepo.objects["user_1/key_1/output.m3u8"] = []byte("x")
		awsRepo.objects["user_1/key_1/segment_000.ts"] = []byte("x")
		awsRepo.objects["user_1/key_2/original.mp4"] = []byte("keep")
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, awsRepo, &fakeJobService{}, newTestLogger())

		require.NoError(t, uc.DeleteVideo(ctx, "user_1", "key_1"))
		assert.Len(t, awsRepo.removed, 3)
		assert.Contains(t, awsRepo.objects, "user_1/key_2/original.mp4")
	})

	t.Run("missing file key is rejected", func(t *testing.T) {
		uc := NewVideoUseCase(newTestConfig(), &fakeVideoRepo{}, newFakeAWSRepo(), &fakeJobService{}, newTestLogger())
		err := uc.DeleteVideo(ctx, "user_1", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, httpErrors.ErrBadRequest))
	})
}
