package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/amankumarsingh77/cloud-video-stream/internal/videos"
)

const assetLockPrefix = "lock:asset:"

type videoRedisRepo struct {
	redisClient *redis.Client
}

func NewVideoRedisRepo(redisClient *redis.Client) videos.RedisRepository {
	return &videoRedisRepo{redisClient: redisClient}
}

// AcquireAssetLock returns false when another transcode for the same asset
// already holds the lock. The TTL bounds how long a crashed job can block
// future work on the asset.
func (v *videoRedisRepo) AcquireAssetLock(ctx context.Context, fileKey string, ttl time.Duration) (bool, error) {
	locked, err := v.redisClient.SetNX(ctx, assetLockPrefix+fileKey, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire asset lock for %q: %w", fileKey, err)
	}
	return locked, nil
}

func (v *videoRedisRepo) ReleaseAssetLock(ctx context.Context, fileKey string) error {
	if err := v.redisClient.Del(ctx, assetLockPrefix+fileKey).Err(); err != nil {
		return fmt.Errorf("failed to release asset lock for %q: %w", fileKey, err)
	}
	return nil
}
