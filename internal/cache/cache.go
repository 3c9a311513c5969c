// Package cache holds short-lived serialized responses. Redis is used when
// reachable; otherwise entries live in process memory.
package cache

import (
  "context"
  "crypto/sha256"
  "encoding/hex"
  "time"
)

const CatalogTTL = time.Hour

type Cache interface {
  // Get reports ok=false for a missing or expired key.
  Get(ctx context.Context, key string) (value []byte, ok bool, err error)
  Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CatalogKey derives the cache key from the route and the Authorization
// header, so differently authorized callers never share an entry.
func CatalogKey(route, authorization string) string {
  sum := sha256.Sum256([]byte(route + "|" + authorization))
  return "catalog:" + hex.EncodeToString(sum[:])
}
