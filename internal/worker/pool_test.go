package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
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

func newPoolConfig() *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			WorkerCount: 1,
			QueueSize:   4,
			MaxCPUUsage: 100,
			LockTTLMin:  30,
		},
	}
}

type recordingAWSRepo struct {
	mu      sync.Mutex
	putKeys []string
	putErr  error
}

func (r *recordingAWSRepo) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	r.putKeys = append(r.putKeys, key)
	return nil
}

func (r *recordingAWSRepo) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingAWSRepo) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (r *recordingAWSRepo) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "", nil
}

func (r *recordingAWSRepo) RemoveObject(ctx context.Context, key string) error {
	return nil
}

func (r *recordingAWSRepo) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.putKeys))
	copy(keys, r.putKeys)
	return keys
}

type memoryLockRepo struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{locks: make(map[string]bool)}
}

func (m *memoryLockRepo) AcquireAssetLock(ctx context.Context, fileKey string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[fileKey] {
		return false, nil
	}
	m.locks[fileKey] = true
	return true, nil
}

func (m *memoryLockRepo) ReleaseAssetLock(ctx context.Context, fileKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, fileKey)
	return nil
}

func (m *memoryLockRepo) held(fileKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[fileKey]
}

// fakeTranscoder writes the artifacts a real run would leave in outputDir.
type fakeTranscoder struct {
	segmentCount int
	err          error
}

func (f *fakeTranscoder) Transcode(ctx context.Context, inputPath, outputDir string) error {
	if f.err != nil {
		return f.err
	}
	if err := os.WriteFile(filepath.Join(outputDir, models.PlaylistFile), []byte("#EXTM3U\n"), 0o644); err != nil {
		return err
	}
	for i := 0; i < f.segmentCount; i++ {
		name := filepath.Join(outputDir, fmt.Sprintf("segment_%03d%s", i, models.SegmentSuffix))
		if err := os.WriteFile(name, []byte("seg"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func waitForTerminalState(t *testing.T, pool *Pool, fileKey string) *models.JobState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal state", fileKey)
		case <-time.After(10 * time.Millisecond):
		}
		state, ok := pool.State(fileKey)
		if ok && state.Status != models.JobStatusPending {
			return state
		}
	}
}

func TestPoolProcessesJob(t *testing.T) {
	awsRepo := &recordingAWSRepo{}
	locks := newMemoryLockRepo()
	pool := NewPool(newPoolConfig(), awsRepo, locks, &fakeTranscoder{segmentCount: 2}, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	job := &models.TranscodeJob{
		UserID:      "user_1",
		FileKey:     "key_1",
		Content:     []byte("fake video"),
		SubmittedAt: time.Now(),
	}
	require.NoError(t, pool.Submit(ctx, job))

	state := waitForTerminalState(t, pool, "key_1")
	assert.Equal(t, models.JobStatusSucceeded, state.Status)

	keys := awsRepo.keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "user_1/key_1/output.m3u8", keys[0])
	assert.Equal(t, "user_1/key_1/segment_000.ts", keys[1])
	assert.Equal(t, "user_1/key_1/segment_001.ts", keys[2])

	assert.Eventually(t, func() bool { return !locks.held("key_1") },
		time.Second, 10*time.Millisecond, "lock should be released after the job")
}

func TestPoolRejectsDuplicateSubmit(t *testing.T) {
	awsRepo := &recordingAWSRepo{}
	locks := newMemoryLockRepo()
	pool := NewPool(newPoolConfig(), awsRepo, locks, &fakeTranscoder{segmentCount: 1}, newTestLogger())

	// No workers started, so the first job keeps the lock.
	ctx := context.Background()
	job := &models.TranscodeJob{UserID: "user_1", FileKey: "key_1", Content: []byte("x"), SubmittedAt: time.Now()}
	require.NoError(t, pool.Submit(ctx, job))

	err := pool.Submit(ctx, job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")
}

func TestPoolTranscodeFailure(t *testing.T) {
	awsRepo := &recordingAWSRepo{}
	locks := newMemoryLockRepo()
	pool := NewPool(newPoolConfig(), awsRepo, locks, &fakeTranscoder{err: errors.New("encode exploded")}, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	job := &models.TranscodeJob{UserID: "user_1", FileKey: "key_1", Content: []byte("x"), SubmittedAt: time.Now()}
	require.NoError(t, pool.Submit(ctx, job))

	state := waitForTerminalState(t, pool, "key_1")
	assert.Equal(t, models.JobStatusFailed, state.Status)
	assert.Contains(t, state.Error, "encode exploded")
	assert.Empty(t, awsRepo.keys())

	assert.Eventually(t, func() bool { return !locks.held("key_1") },
		time.Second, 10*time.Millisecond)
}

func TestPoolUploadFailure(t *testing.T) {
	awsRepo := &recordingAWSRepo{putErr: errors.New("bucket down")}
	locks := newMemoryLockRepo()
	pool := NewPool(newPoolConfig(), awsRepo, locks, &fakeTranscoder{segmentCount: 1}, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	job := &models.TranscodeJob{UserID: "user_1", FileKey: "key_1", Content: []byte("x"), SubmittedAt: time.Now()}
	require.NoError(t, pool.Submit(ctx, job))

	state := waitForTerminalState(t, pool, "key_1")
	assert.Equal(t, models.JobStatusFailed, state.Status)
	assert.Contains(t, state.Error, "playlist")
}
