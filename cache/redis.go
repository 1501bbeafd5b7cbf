package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/config"
)

// Redis is a Cache backed by a redis server.
type Redis struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ Cache = (*Redis)(nil)

// NewRedis connects and pings the server.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))
	return &Redis{rdb: rdb, ttl: cfg.TTL, logger: logger}, nil
}

func orgKeysKey(orgID string) string { return "payroll:keys:" + orgID }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, orgID, key string, value []byte) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, value, r.ttl)
		pipe.SAdd(ctx, orgKeysKey(orgID), key)
		return nil
	})
	return err
}

func (r *Redis) InvalidateOrg(ctx context.Context, orgID string) error {
	keys, err := r.rdb.SMembers(ctx, orgKeysKey(orgID)).Result()
	if err != nil {
		return err
	}
	keys = append(keys, orgKeysKey(orgID))
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	r.logger.Debug("summary cache invalidated", zap.String("org", orgID), zap.Int("keys", len(keys)-1))
	return nil
}

// Clear deletes every payroll key.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, "payroll:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
