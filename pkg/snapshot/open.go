package snapshot

import (
	"fmt"
	"time"

	"github.com/vango-dev/vdiff/internal/config"
)

// Open creates the store selected by cfg.Backend.
func Open(cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemory(), nil
	case config.BackendRedis:
		opts := []RedisOption{}
		if cfg.Prefix != "" {
			opts = append(opts, WithPrefix(cfg.Prefix))
		}
		if cfg.Redis.TTL != "" {
			ttl, err := time.ParseDuration(cfg.Redis.TTL)
			if err != nil {
				return nil, fmt.Errorf("snapshot: redis ttl: %w", err)
			}
			opts = append(opts, WithTTL(ttl))
		}
		return NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...), nil
	case config.BackendS3:
		client := NewS3Client(S3ClientConfig{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		return NewS3(client, cfg.S3.Bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("snapshot: unknown backend %q", cfg.Backend)
	}
}
