package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

type BookingHandler struct {
  log               *logger.Logger
  bookingService    services.BookingService
}

func NewBookingHandler(log *logger.Logger, bookingService services.BookingService) *BookingHandler {
  return &BookingHandler{log: log.With("handler", "BookingHandler"), bookingService: bookingService}
}

func (bh *BookingHandler) List(c *gin.Context) {
  page, err := queryInt(c, "page", 1)
  if err != nil {
    respondError(c, bh.log, err)
    return
  }
  pageSize, err := queryInt(c, "page_size", 0)
  if err != nil {
    respondError(c, bh.log, err)
    return
  }
  result, err := bh.bookingService.List(c.Request.Context(), page, pageSize)
  if err != nil {
    respondError(c, bh.log, err)
    return
  }
  c.JSON(http.StatusOK, result)
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
  raw := c.Query(name)
  if raw == "" {
    return def, nil
  }
  n, err := strconv.Atoi(raw)
  if err != nil {
    return 0, errs.Field(name, "A valid integer is required.")
  }
  return n, nil
}
