package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/gorilla/websocket"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/socket"
)

var upgrader = websocket.Upgrader{
  CheckOrigin: func(r *http.Request) bool {
    return true
  },
}

// WsHandler upgrades an authenticated request and keeps the connection open
// until the client goes away. The account channel is joined in Client.Run.
func WsHandler(hub *socket.Hub, log *logger.Logger) gin.HandlerFunc {
  wsLog := log.With("handler", "WsHandler")
  return func(c *gin.Context) {
    accountID, err := callerID(c)
    if err != nil {
      respondError(c, wsLog, err)
      return
    }
    conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
    if err != nil {
      wsLog.Warn("Failed to upgrade to websocket", "error", err)
      return
    }
    client := socket.NewClient(conn, hub, accountID, log)
    client.Run(c.Request.Context())
  }
}
