package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
	"github.com/guiomkt/cheff-guio-sub000/pkg/retry"
)

const (
	dialTimeout     = 5 * time.Second
	probeTimeout    = 2 * time.Second
	connectAttempts = 5
)

// Client owns the go-redis connection pool shared by the cache and the event bus
type Client struct {
	rdb  *redis.Client
	addr string
}

// NewClient dials Redis and waits until it answers PING
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	c := &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr(),
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: dialTimeout,
		}),
		addr: cfg.RedisAddr(),
	}

	policy := retry.DefaultConfig()
	policy.MaxAttempts = connectAttempts
	if err := retry.Probe(ctx, policy, "Redis", probeTimeout, c.Ping); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", c.addr, err)
	}

	log.Info().Str("addr", c.addr).Int("db", cfg.DB).Msg("Connected to Redis")
	return c, nil
}

// Client exposes the pool for adapters that issue commands directly
func (c *Client) Client() *redis.Client {
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
