// Package redis opens the optional Redis connection behind the annotation cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"kycflow/internal/platform/config"
)

// Client owns one go-redis connection pool.
type Client struct {
	rdb *redis.Client
}

// New connects and pings. An empty URL means Redis is not configured and
// yields a nil client with no error.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	applyPoolSettings(opts, cfg)

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return &Client{rdb: rdb}, nil
}

// applyPoolSettings copies explicit settings over the URL's defaults.
func applyPoolSettings(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Cmdable exposes the command surface for consumers such as the result cache.
func (c *Client) Cmdable() redis.Cmdable {
	return c.rdb
}

func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
