package cache

import (
  "context"
  "sync"
  "time"
)

type memoryEntry struct {
  value     []byte
  expiresAt time.Time
}

type MemoryCache struct {
  mu      sync.RWMutex
  entries map[string]memoryEntry
  now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
  return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
  mc.mu.RLock()
  e, ok := mc.entries[key]
  mc.mu.RUnlock()
  if !ok {
    return nil, false, nil
  }
  if !mc.now().Before(e.expiresAt) {
    mc.mu.Lock()
    // re-check: a concurrent Set may have refreshed the entry
    if cur, still := mc.entries[key]; still && !mc.now().Before(cur.expiresAt) {
      delete(mc.entries, key)
    }
    mc.mu.Unlock()
    return nil, false, nil
  }
  out := make([]byte, len(e.value))
  copy(out, e.value)
  return out, true, nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
  stored := make([]byte, len(value))
  copy(stored, value)
  mc.mu.Lock()
  mc.entries[key] = memoryEntry{value: stored, expiresAt: mc.now().Add(ttl)}
  mc.mu.Unlock()
  return nil
}
