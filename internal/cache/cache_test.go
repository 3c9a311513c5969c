package cache

import (
  "context"
  "strings"
  "testing"
  "time"
)

func TestCatalogKeyDependsOnAuthorization(t *testing.T) {
  anon := CatalogKey("/api/services", "")
  user := CatalogKey("/api/services", "Bearer abc")
  if anon == user {
    t.Fatalf("expected different keys per Authorization header")
  }
  if !strings.HasPrefix(anon, "catalog:") {
    t.Fatalf("expected catalog: prefix, got %s", anon)
  }
  if CatalogKey("/api/services", "") != anon {
    t.Fatalf("expected key to be deterministic")
  }
}

func TestMemoryCacheExpires(t *testing.T) {
  ctx := context.Background()
  now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
  mc := NewMemoryCache()
  mc.now = func() time.Time { return now }

  if err := mc.Set(ctx, "k", []byte("v"), CatalogTTL); err != nil {
    t.Fatalf("set: %v", err)
  }
  got, ok, err := mc.Get(ctx, "k")
  if err != nil || !ok || string(got) != "v" {
    t.Fatalf("expected hit with v, got %q %v %v", got, ok, err)
  }

  now = now.Add(59 * time.Minute)
  if _, ok, _ := mc.Get(ctx, "k"); !ok {
    t.Fatalf("expected entry to survive 59 minutes")
  }

  now = now.Add(time.Minute)
  if _, ok, _ := mc.Get(ctx, "k"); ok {
    t.Fatalf("expected entry to expire after one hour")
  }
}

func TestMemoryCacheCopiesValues(t *testing.T) {
  ctx := context.Background()
  mc := NewMemoryCache()
  buf := []byte("abc")
  _ = mc.Set(ctx, "k", buf, time.Minute)
  buf[0] = 'x'
  got, _, _ := mc.Get(ctx, "k")
  if string(got) != "abc" {
    t.Fatalf("expected stored copy to be unaffected, got %q", got)
  }
}
