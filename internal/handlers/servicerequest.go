package handlers

import (
  "encoding/json"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const serviceRequestNotFound = "ServiceRequest not found."

type ServiceRequestHandler struct {
  log                     *logger.Logger
  serviceRequestService   services.ServiceRequestService
}

func NewServiceRequestHandler(log *logger.Logger, serviceRequestService services.ServiceRequestService) *ServiceRequestHandler {
  return &ServiceRequestHandler{
    log:                    log.With("handler", "ServiceRequestHandler"),
    serviceRequestService:  serviceRequestService,
  }
}

type serviceRequestBody struct {
  Service         *uuid.UUID        `json:"service"`
  Subservice      *uuid.UUID        `json:"subservice"`
  Description     *string           `json:"description"`
  Address         *string           `json:"address"`
  PreferredDate   *string           `json:"preferred_date"`
  Details         json.RawMessage   `json:"details"`
}

func (b serviceRequestBody) input() (services.ServiceRequestInput, error) {
  in := services.ServiceRequestInput{
    ServiceID:     b.Service,
    SubserviceID:  b.Subservice,
    Description:   b.Description,
    Address:       b.Address,
  }
  if b.PreferredDate != nil && *b.PreferredDate != "" {
    d, err := parseDate(*b.PreferredDate)
    if err != nil {
      return in, errs.Field("preferred_date", "Date has wrong format. Use YYYY-MM-DD.")
    }
    in.PreferredDate = &d
  }
  if len(b.Details) > 0 && string(b.Details) != "null" {
    in.Details = datatypes.JSON(b.Details)
  }
  return in, nil
}

func parseDate(s string) (time.Time, error) {
  if t, err := time.Parse(dateLayout, s); err == nil {
    return t, nil
  }
  return time.Parse(time.RFC3339, s)
}

func (sh *ServiceRequestHandler) bind(c *gin.Context) (services.ServiceRequestInput, error) {
  var body serviceRequestBody
  if err := bindJSON(c, &body); err != nil {
    return services.ServiceRequestInput{}, err
  }
  return body.input()
}

func (sh *ServiceRequestHandler) List(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  list, err := sh.serviceRequestService.List(c.Request.Context(), accountID)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.JSON(http.StatusOK, list)
}

func (sh *ServiceRequestHandler) Get(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  id, err := pathID(c, serviceRequestNotFound)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  request, err := sh.serviceRequestService.Get(c.Request.Context(), accountID, id)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.JSON(http.StatusOK, request)
}

func (sh *ServiceRequestHandler) Create(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  in, err := sh.bind(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  request, err := sh.serviceRequestService.Create(c.Request.Context(), accountID, in)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.JSON(http.StatusCreated, request)
}

func (sh *ServiceRequestHandler) Replace(c *gin.Context) {
  sh.update(c, true)
}

func (sh *ServiceRequestHandler) Patch(c *gin.Context) {
  sh.update(c, false)
}

func (sh *ServiceRequestHandler) update(c *gin.Context, full bool) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  id, err := pathID(c, serviceRequestNotFound)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  in, err := sh.bind(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  ctx := c.Request.Context()
  var request *types.ServiceRequest
  if full {
    request, err = sh.serviceRequestService.Replace(ctx, accountID, id, in)
  } else {
    request, err = sh.serviceRequestService.Patch(ctx, accountID, id, in)
  }
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.JSON(http.StatusOK, request)
}

func (sh *ServiceRequestHandler) Delete(c *gin.Context) {
  accountID, err := callerID(c)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  id, err := pathID(c, serviceRequestNotFound)
  if err != nil {
    respondError(c, sh.log, err)
    return
  }
  if err := sh.serviceRequestService.Delete(c.Request.Context(), accountID, id); err != nil {
    respondError(c, sh.log, err)
    return
  }
  c.Status(http.StatusNoContent)
}
