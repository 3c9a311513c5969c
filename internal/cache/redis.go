package cache

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/redis/go-redis/v9"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
)

type redisCache struct {
  log    *logger.Logger
  client *redis.Client
}

// Dial connects to Redis and pings it, so callers can fall back to memory
// when the server is down.
func Dial(address, password string) (*redis.Client, error) {
  rdb := redis.NewClient(&redis.Options{
    Addr:     address,
    Password: password,
    DB:       0,
  })
  ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping failed: %w", err)
  }
  return rdb, nil
}

func NewRedisCacheFromClient(log *logger.Logger, client *redis.Client) Cache {
  return &redisCache{log: log.With("cache", "Redis"), client: client}
}

func (rc *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
  val, err := rc.client.Get(ctx, key).Bytes()
  if errors.Is(err, redis.Nil) {
    rc.log.Debug("Cache miss", "key", key)
    return nil, false, nil
  }
  if err != nil {
    rc.log.Warn("Redis get failed", "key", key, "error", err)
    return nil, false, err
  }
  rc.log.Debug("Cache hit", "key", key)
  return val, true, nil
}

func (rc *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
  if err := rc.client.Set(ctx, key, value, ttl).Err(); err != nil {
    rc.log.Warn("Redis set failed", "key", key, "error", err)
    return err
  }
  return nil
}
