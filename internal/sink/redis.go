package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbd888/andromeda/internal/retry"
)

// RedisSink publishes envelopes on a Redis pub/sub channel.
type RedisSink struct {
	rdb     *redis.Client
	channel string
}

// NewRedisSink connects to the Redis server at url and pings it. A malformed
// url is a permanent error.
func NewRedisSink(ctx context.Context, url, channel string) (*RedisSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to parse redis URL: %w", err))
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisSink{rdb: rdb, channel: channel}, nil
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Publish(ctx context.Context, env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := s.rdb.Publish(ctx, s.channel, b).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.rdb.Close()
}

// Ping round-trips to the server.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
