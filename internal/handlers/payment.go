package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

type PaymentHandler struct {
  log               *logger.Logger
  paymentService    services.PaymentService
}

func NewPaymentHandler(log *logger.Logger, paymentService services.PaymentService) *PaymentHandler {
  return &PaymentHandler{log: log.With("handler", "PaymentHandler"), paymentService: paymentService}
}

// CreateOrder accepts the amount as a JSON string or number.
func (ph *PaymentHandler) CreateOrder(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  var req struct {
    Amount        decimal.Decimal   `json:"amount"`
    EmployeeID    uuid.UUID         `json:"employee_id" binding:"required"`
  }
  if err := bindJSON(c, &req); err != nil {
    respondError(c, ph.log, err)
    return
  }
  result, err := ph.paymentService.CreateOrder(c.Request.Context(), accountID, services.OrderInput{
    Amount:       req.Amount,
    ProviderID:   req.EmployeeID,
  })
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  c.JSON(http.StatusCreated, result)
}

func (ph *PaymentHandler) Verify(c *gin.Context) {
  var req struct {
    OrderID       string    `json:"order_id"`
    PaymentID     string    `json:"payment_id"`
    Signature     string    `json:"signature"`
  }
  if err := bindJSON(c, &req); err != nil {
    respondError(c, ph.log, err)
    return
  }
  result, err := ph.paymentService.Verify(c.Request.Context(), services.VerifyInput{
    OrderID:    req.OrderID,
    PaymentID:  req.PaymentID,
    Signature:  req.Signature,
  })
  if err != nil {
    respondError(c, ph.log, err)
    return
  }
  c.JSON(http.StatusOK, result)
}
