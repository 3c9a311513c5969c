package middleware

import (
  "errors"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/gorilla/websocket"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/requestdata"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

type AuthMiddleware struct {
  log               *logger.Logger
  authService       services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth accepts "Authorization: Bearer <access>" and stores the caller
// in the request context. Websocket upgrades may pass ?token= instead, since
// browsers cannot set headers on them.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      abortUnauthorized(c, "Authentication credentials were not provided.")
      return
    }
    ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
    if err != nil {
      var e *errs.Error
      if errors.As(err, &e) && e.Kind == errs.KindUnauthorized {
        am.log.Debug("Rejected access token", "error", err)
        abortUnauthorized(c, e.Message)
        return
      }
      am.log.Error("Failed to authenticate request", "error", err)
      c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": string(errs.KindInternal)})
      return
    }
    c.Request = c.Request.WithContext(ctx)
    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.AccountID == uuid.Nil {
      abortUnauthorized(c, "Token is invalid or expired")
      return
    }
    c.Next()
  }
}

func abortUnauthorized(c *gin.Context, msg string) {
  c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": string(errs.KindUnauthorized)})
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return strings.TrimSpace(authHeader[7:])
  }
  if websocket.IsWebSocketUpgrade(c.Request) {
    return c.Query("token")
  }
  return ""
}
