package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

type ReviewHandler struct {
  log               *logger.Logger
  reviewService     services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviewService services.ReviewService) *ReviewHandler {
  return &ReviewHandler{log: log.With("handler", "ReviewHandler"), reviewService: reviewService}
}

func (rh *ReviewHandler) List(c *gin.Context) {
  views, err := rh.reviewService.List(c.Request.Context())
  if err != nil {
    respondError(c, rh.log, err)
    return
  }
  c.JSON(http.StatusOK, views)
}

func (rh *ReviewHandler) Create(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, rh.log, err)
    return
  }
  var req struct {
    ServiceRegistry   uuid.UUID   `json:"service_registry" binding:"required"`
    Rating            int         `json:"rating" binding:"required"`
    Comment           string      `json:"comment"`
  }
  if err := bindJSON(c, &req); err != nil {
    respondError(c, rh.log, err)
    return
  }
  view, err := rh.reviewService.Create(c.Request.Context(), accountID, services.ReviewInput{
    ServiceRegistryID:  req.ServiceRegistry,
    Rating:             req.Rating,
    Comment:            req.Comment,
  })
  if err != nil {
    respondError(c, rh.log, err)
    return
  }
  c.JSON(http.StatusCreated, view)
}
