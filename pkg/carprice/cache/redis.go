package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
)

// PredictionCache stores raw model outputs keyed by feature vector.
type PredictionCache interface {
	Get(ctx context.Context, vector []float64) (float64, bool, error)
	Set(ctx context.Context, vector []float64, output float64) error
	Close() error
}

// RedisCache is a PredictionCache backed by Redis.
type RedisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedis creates a Redis-backed cache. The namespace separates entries of
// different models sharing one Redis database.
func NewRedis(cfg config.CacheConfig, namespace string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})
	return NewRedisWithClient(rdb, namespace, cfg.TTL)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, namespace: namespace, ttl: ttl}
}

// Ping tests the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, vector []float64) (float64, bool, error) {
	val, err := c.client.Get(ctx, c.Key(vector)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return f, true, nil
}

func (c *RedisCache) Set(ctx context.Context, vector []float64, output float64) error {
	val := strconv.FormatFloat(output, 'g', -1, 64)
	if err := c.client.Set(ctx, c.Key(vector), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Key derives the cache key of a vector.
func (c *RedisCache) Key(vector []float64) string {
	h := sha256.New()
	var buf [8]byte
	for _, f := range vector {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	return "carprice:" + c.namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
