package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// farFuture is the index score for snapshots without a TTL (2100-01-01).
const farFuture = 4102444800

// Redis stores snapshots as JSON strings under prefix+"m:"+mount. A sorted
// set at prefix+"index", scored by expiry time, indexes the mounts so List
// can skip expired entries. Mount keys and the index never collide.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithTTL sets the expiration for snapshots.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix for snapshots.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis connects to a Redis server.
func NewRedis(address, password string, db int, opts ...RedisOption) *Redis {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisFromClient(rdb, opts...)
}

// NewRedisFromClient creates a store from an existing client.
func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "vdiff:snapshot:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(mount string) string {
	return r.prefix + "m:" + mount
}

func (r *Redis) indexKey() string {
	return r.prefix + "index"
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, s *Snapshot) error {
	data, err := marshal(s)
	if err != nil {
		return err
	}

	score := float64(time.Now().Add(r.ttl).Unix())
	if r.ttl == 0 {
		score = farFuture
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(s.Mount), data, r.ttl)
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{Score: score, Member: s.Mount})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, mount string) (*Snapshot, error) {
	val, err := r.client.Get(ctx, r.key(mount)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return unmarshal(val)
}

// List implements Store. Expired entries are pruned from the index first.
func (r *Redis) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := r.client.ZRemRangeByScore(ctx, r.indexKey(), "-inf", fmt.Sprintf("(%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired snapshots: %w", err)
	}

	mounts, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return mounts, nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, mount string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(mount))
	pipe.ZRem(ctx, r.indexKey(), mount)
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
