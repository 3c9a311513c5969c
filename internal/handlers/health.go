package handlers

import (
  "context"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "gorm.io/gorm"
)

// Health reports whether the database answers a ping.
func Health(db *gorm.DB) gin.HandlerFunc {
  return func(c *gin.Context) {
    sqlDB, err := db.DB()
    if err == nil {
      ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
      defer cancel()
      err = sqlDB.PingContext(ctx)
    }
    if err != nil {
      c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
      return
    }
    c.JSON(http.StatusOK, gin.H{"status": "ok"})
  }
}
