package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

type RegistryHandler struct {
  log               *logger.Logger
  registryService   services.RegistryService
}

func NewRegistryHandler(log *logger.Logger, registryService services.RegistryService) *RegistryHandler {
  return &RegistryHandler{log: log.With("handler", "RegistryHandler"), registryService: registryService}
}

func (rh *RegistryHandler) List(c *gin.Context) {
  views, err := rh.registryService.List(c.Request.Context())
  if err != nil {
    respondError(c, rh.log, err)
    return
  }
  c.JSON(http.StatusOK, views)
}
