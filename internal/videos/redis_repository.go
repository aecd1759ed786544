package videos

import (
	"context"
	"time"
)

// RedisRepository keys a per-asset advisory lock around the
// transcode-and-upload sequence so two jobs for one asset cannot interleave.
type RedisRepository interface {
	AcquireAssetLock(ctx context.Context, fileKey string, ttl time.Duration) (bool, error)
	ReleaseAssetLock(ctx context.Context, fileKey string) error
}
