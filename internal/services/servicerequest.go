package services

import (
  "context"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const serviceRequestNotFoundMessage = "ServiceRequest not found."

// ServiceRequestInput carries request fields. Create and Replace need
// ServiceID, Description and Address; Patch applies only non-nil fields.
type ServiceRequestInput struct {
  ServiceID       *uuid.UUID
  SubserviceID    *uuid.UUID
  Description     *string
  Address         *string
  PreferredDate   *time.Time
  Details         datatypes.JSON
}

type ServiceRequestService interface {
  List(ctx context.Context, accountID uuid.UUID) ([]*types.ServiceRequest, error)
  Get(ctx context.Context, accountID, requestID uuid.UUID) (*types.ServiceRequest, error)
  Create(ctx context.Context, accountID uuid.UUID, in ServiceRequestInput) (*types.ServiceRequest, error)
  Replace(ctx context.Context, accountID, requestID uuid.UUID, in ServiceRequestInput) (*types.ServiceRequest, error)
  Patch(ctx context.Context, accountID, requestID uuid.UUID, in ServiceRequestInput) (*types.ServiceRequest, error)
  Delete(ctx context.Context, accountID, requestID uuid.UUID) error
}

type serviceRequestService struct {
  db                  *gorm.DB
  log                 *logger.Logger
  serviceRequestRepo  repos.ServiceRequestRepo
  serviceRepo         repos.ServiceRepo
}

func NewServiceRequestService(
  db                  *gorm.DB,
  log                 *logger.Logger,
  serviceRequestRepo  repos.ServiceRequestRepo,
  serviceRepo         repos.ServiceRepo,
) ServiceRequestService {
  serviceLog := log.With("service", "ServiceRequestService")
  return &serviceRequestService{
    db:                  db,
    log:                 serviceLog,
    serviceRequestRepo:  serviceRequestRepo,
    serviceRepo:         serviceRepo,
  }
}

func (srs *serviceRequestService) List(ctx context.Context, accountID uuid.UUID) ([]*types.ServiceRequest, error) {
  requests, err := srs.serviceRequestRepo.GetByAccountID(ctx, nil, accountID)
  if err != nil {
    return nil, errs.Internal("failed to load service requests", err)
  }
  return requests, nil
}

func (srs *serviceRequestService) Get(ctx context.Context, accountID, requestID uuid.UUID) (*types.ServiceRequest, error) {
  request, err := srs.serviceRequestRepo.GetByIDForAccount(ctx, nil, requestID, accountID)
  if err != nil {
    return nil, errs.Internal("failed to load service request", err)
  }
  if request == nil {
    return nil, errs.NotFound(serviceRequestNotFoundMessage)
  }
  return request, nil
}

func (srs *serviceRequestService) Create(ctx context.Context, accountID uuid.UUID, in ServiceRequestInput) (*types.ServiceRequest, error) {
  srs.log.Info("Starting Create ServiceRequest now...", "accountID", accountID)
  var created *types.ServiceRequest
  err := srs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    request := &types.ServiceRequest{ID: uuid.New(), AccountID: accountID}
    applyServiceRequest(request, in, true)
    if err := srs.validate(ctx, tx, request); err != nil {
      return err
    }
    if _, err := srs.serviceRequestRepo.Create(ctx, tx, []*types.ServiceRequest{request}); err != nil {
      return errs.Internal("failed to create service request", err)
    }
    created = request
    return nil
  })
  if err != nil {
    return nil, err
  }
  srs.log.Info("ServiceRequest created :)", "requestID", created.ID)
  return created, nil
}

func (srs *serviceRequestService) Replace(ctx context.Context, accountID, requestID uuid.UUID, in ServiceRequestInput) (*types.ServiceRequest, error) {
  return srs.update(ctx, accountID, requestID, in, true)
}

func (srs *serviceRequestService) Patch(ctx context.Context, accountID, requestID uuid.UUID, in ServiceRequestInput) (*types.ServiceRequest, error) {
  return srs.update(ctx, accountID, requestID, in, false)
}

func (srs *serviceRequestService) update(ctx context.Context, accountID, requestID uuid.UUID, in ServiceRequestInput, full bool) (*types.ServiceRequest, error) {
  var updated *types.ServiceRequest
  err := srs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    request, err := srs.serviceRequestRepo.GetByIDForAccount(ctx, tx, requestID, accountID)
    if err != nil {
      return errs.Internal("failed to load service request", err)
    }
    if request == nil {
      return errs.NotFound(serviceRequestNotFoundMessage)
    }
    applyServiceRequest(request, in, full)
    if err := srs.validate(ctx, tx, request); err != nil {
      return err
    }
    if _, err := srs.serviceRequestRepo.Update(ctx, tx, []*types.ServiceRequest{request}); err != nil {
      return errs.Internal("failed to update service request", err)
    }
    updated = request
    return nil
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

func (srs *serviceRequestService) Delete(ctx context.Context, accountID, requestID uuid.UUID) error {
  return srs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    request, err := srs.serviceRequestRepo.GetByIDForAccount(ctx, tx, requestID, accountID)
    if err != nil {
      return errs.Internal("failed to load service request", err)
    }
    if request == nil {
      return errs.NotFound(serviceRequestNotFoundMessage)
    }
    if err := srs.serviceRequestRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{request.ID}); err != nil {
      return errs.Internal("failed to delete service request", err)
    }
    return nil
  })
}

// validate checks required fields and that the subservice, when set, belongs
// to the chosen service.
func (srs *serviceRequestService) validate(ctx context.Context, tx *gorm.DB, request *types.ServiceRequest) error {
  fields := errs.FieldErrors{}
  if strings.TrimSpace(request.Description) == "" {
    fields.Add("description", "This field is required.")
  }
  if strings.TrimSpace(request.Address) == "" {
    fields.Add("address", "This field is required.")
  }
  if request.ServiceID == uuid.Nil {
    fields.Add("service", "This field is required.")
  } else {
    services, err := srs.serviceRepo.GetByIDs(ctx, tx, []uuid.UUID{request.ServiceID})
    if err != nil {
      return errs.Internal("failed to load service", err)
    }
    if len(services) == 0 {
      fields.Add("service", "Invalid service.")
    }
  }
  if request.SubserviceID != nil {
    subs, err := srs.serviceRepo.GetSubservicesByIDs(ctx, tx, []uuid.UUID{*request.SubserviceID})
    if err != nil {
      return errs.Internal("failed to load subservice", err)
    }
    if len(subs) == 0 || subs[0].ServiceID != request.ServiceID {
      fields.Add("subservice", "Invalid subservice for this service.")
    }
  }
  if len(fields) > 0 {
    return errs.ValidationFields(fields)
  }
  return nil
}

func applyServiceRequest(r *types.ServiceRequest, in ServiceRequestInput, full bool) {
  if in.ServiceID != nil {
    r.ServiceID = *in.ServiceID
  } else if full {
    r.ServiceID = uuid.Nil
  }
  if in.SubserviceID != nil || full {
    r.SubserviceID = in.SubserviceID
  }
  if in.Description != nil {
    r.Description = *in.Description
  } else if full {
    r.Description = ""
  }
  if in.Address != nil {
    r.Address = *in.Address
  } else if full {
    r.Address = ""
  }
  if in.PreferredDate != nil || full {
    r.PreferredDate = in.PreferredDate
  }
  if in.Details != nil || full {
    r.Details = in.Details
  }
}
