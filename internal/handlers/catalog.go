package handlers

import (
  "encoding/json"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/serviceconnect/serviceconnect-backend/internal/cache"
  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/metrics"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

const cacheHeader = "X-Cache"

type CatalogHandler struct {
  log               *logger.Logger
  catalogService    services.CatalogService
  cache             cache.Cache
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService, c cache.Cache) *CatalogHandler {
  return &CatalogHandler{log: log.With("handler", "CatalogHandler"), catalogService: catalogService, cache: c}
}

// List serves the catalog, keyed per route and Authorization header for an
// hour. Cache failures fall through to the database.
func (ch *CatalogHandler) List(c *gin.Context) {
  ctx := c.Request.Context()
  key := cache.CatalogKey(c.Request.URL.Path, c.GetHeader("Authorization"))

  if ch.cache != nil {
    body, ok, err := ch.cache.Get(ctx, key)
    switch {
    case err != nil:
      metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
      ch.log.Warn("Catalog cache read failed", "error", err)
    case ok:
      metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
      c.Header(cacheHeader, "HIT")
      c.Data(http.StatusOK, "application/json; charset=utf-8", body)
      return
    }
  }

  list, err := ch.catalogService.List(ctx)
  if err != nil {
    respondError(c, ch.log, err)
    return
  }
  body, err := json.Marshal(list)
  if err != nil {
    respondError(c, ch.log, errs.Internal("failed to encode catalog", err))
    return
  }
  if ch.cache != nil {
    metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
    if err := ch.cache.Set(ctx, key, body, cache.CatalogTTL); err != nil {
      ch.log.Warn("Catalog cache write failed", "error", err)
    }
  }
  c.Header(cacheHeader, "MISS")
  c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
