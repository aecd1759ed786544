package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/internal/models"
	"github.com/amankumarsingh77/cloud-video-stream/internal/transcoder"
	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/utils"
)

const (
	inputFileName       = "input.mp4"
	cpuCheckInterval    = 10 * time.Second
	playlistContentType = "application/vnd.apple.mpegurl"
	segmentContentType  = "video/mp2t"
)

// Pool runs transcode jobs in-process, detached from the requests that
// submit them. A job that made it into the queue finishes on its own or dies
// with the process; there is no cancellation path in between.
type Pool struct {
	cfg        *config.Config
	awsRepo    videos.AWSRepository
	redisRepo  videos.RedisRepository
	transcoder transcoder.Transcoder
	registry   *Registry
	logger     logger.Logger

	jobs chan *models.TranscodeJob
	wg   sync.WaitGroup
}

func NewPool(
	cfg *config.Config,
	awsRepo videos.AWSRepository,
	redisRepo videos.RedisRepository,
	tc transcoder.Transcoder,
	log logger.Logger,
) *Pool {
	queueSize := cfg.Worker.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		cfg:        cfg,
		awsRepo:    awsRepo,
		redisRepo:  redisRepo,
		transcoder: tc,
		registry:   NewRegistry(),
		logger:     log,
		jobs:       make(chan *models.TranscodeJob, queueSize),
	}
}

func (p *Pool) Start(ctx context.Context) {
	count := p.cfg.Worker.WorkerCount
	if count <= 0 {
		count = 1
	}
	p.logger.Infof("Starting %d transcode workers", count)
	for i := 0; i < count; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) Wait() {
	p.wg.Wait()
}

// Submit registers the job as pending and queues it without waiting for the
// outcome. A second submit for the same asset is rejected while the first
// still holds the advisory lock.
func (p *Pool) Submit(ctx context.Context, job *models.TranscodeJob) error {
	locked, err := p.redisRepo.AcquireAssetLock(ctx, job.FileKey, p.cfg.Worker.LockTTL())
	if err != nil {
		return fmt.Errorf("failed to lock asset %s: %w", job.FileKey, err)
	}
	if !locked {
		return fmt.Errorf("a transcode for asset %s is already in progress", job.FileKey)
	}

	p.registry.SetPending(job.FileKey, job.SubmittedAt)

	select {
	case p.jobs <- job:
		return nil
	default:
		p.registry.SetFailed(job.FileKey, "transcode queue is full")
		if err := p.redisRepo.ReleaseAssetLock(context.Background(), job.FileKey); err != nil {
			p.logger.Errorf("failed to release asset lock for %s: %v", job.FileKey, err)
		}
		return fmt.Errorf("transcode queue is full")
	}
}

func (p *Pool) State(fileKey string) (*models.JobState, bool) {
	return p.registry.Get(fileKey)
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.waitForCPU(ctx)
			p.process(ctx, job)
		}
	}
}

func (p *Pool) waitForCPU(ctx context.Context) {
	for {
		canAcceptJob, usage := utils.CheckCPUUsage(p.cfg.Worker.MaxCPUUsage)
		if canAcceptJob {
			return
		}
		p.logger.Infof("CPU usage %.2f%% too high, waiting...", usage)
		select {
		case <-ctx.Done():
			return
		case <-time.After(cpuCheckInterval):
		}
	}
}

// process drives one job end to end: stage input in a scratch dir, run the
// transcoder, then publish playlist first and segments after. The scratch
// dir is removed on every exit path.
func (p *Pool) process(ctx context.Context, job *models.TranscodeJob) {
	start := time.Now()
	p.logger.Infof("Processing transcode job %s/%s", job.UserID, job.FileKey)

	defer func() {
		if err := p.redisRepo.ReleaseAssetLock(context.Background(), job.FileKey); err != nil {
			p.logger.Errorf("failed to release asset lock for %s: %v", job.FileKey, err)
		}
	}()

	tempDir, err := os.MkdirTemp("", "transcode_job_")
	if err != nil {
		p.fail(job, fmt.Sprintf("failed to create temp dir: %v", err))
		return
	}
	defer os.RemoveAll(tempDir)

	inputPath := filepath.Join(tempDir, inputFileName)
	if err := os.WriteFile(inputPath, job.Content, 0o644); err != nil {
		p.fail(job, fmt.Sprintf("failed to stage input file: %v", err))
		return
	}

	if err := p.transcoder.Transcode(ctx, inputPath, tempDir); err != nil {
		p.fail(job, err.Error())
		return
	}

	if err := p.uploadArtifacts(ctx, job, tempDir); err != nil {
		p.fail(job, err.Error())
		return
	}

	p.registry.SetSucceeded(job.FileKey)
	p.logger.Infof("Transcode job %s/%s completed in %s", job.UserID, job.FileKey, time.Since(start))
}

// uploadArtifacts publishes the playlist, then every segment in name order.
// The first failure aborts the rest; already uploaded artifacts stay put.
func (p *Pool) uploadArtifacts(ctx context.Context, job *models.TranscodeJob, outputDir string) error {
	playlistPath := filepath.Join(outputDir, models.PlaylistFile)
	if err := p.uploadFile(ctx, models.PlaylistKey(job.UserID, job.FileKey), playlistContentType, playlistPath); err != nil {
		return fmt.Errorf("failed to upload playlist: %w", err)
	}

	segments, err := filepath.Glob(filepath.Join(outputDir, "segment_*"+models.SegmentSuffix))
	if err != nil {
		return fmt.Errorf("failed to enumerate segments: %w", err)
	}
	sort.Strings(segments)

	prefix := models.AssetPrefix(job.UserID, job.FileKey)
	for _, segment := range segments {
		key := prefix + filepath.Base(segment)
		if err := p.uploadFile(ctx, key, segmentContentType, segment); err != nil {
			return fmt.Errorf("failed to upload segment %s: %w", filepath.Base(segment), err)
		}
	}
	return nil
}

func (p *Pool) uploadFile(ctx context.Context, key, contentType, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return p.awsRepo.PutObject(ctx, key, contentType, f)
}

func (p *Pool) fail(job *models.TranscodeJob, reason string) {
	p.logger.Errorf("Transcode job %s/%s failed: %s", job.UserID, job.FileKey, reason)
	p.registry.SetFailed(job.FileKey, reason)
}
