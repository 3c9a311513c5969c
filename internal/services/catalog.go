package services

import (
  "context"

  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type CatalogService interface {
  // List returns every service in insertion order with its own subservices.
  List(ctx context.Context) ([]*types.Service, error)
}

type catalogService struct {
  db            *gorm.DB
  log           *logger.Logger
  serviceRepo   repos.ServiceRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, serviceRepo repos.ServiceRepo) CatalogService {
  serviceLog := log.With("service", "CatalogService")
  return &catalogService{
    db:           db,
    log:          serviceLog,
    serviceRepo:  serviceRepo,
  }
}

func (cs *catalogService) List(ctx context.Context) ([]*types.Service, error) {
  services, err := cs.serviceRepo.GetAllWithSubservices(ctx, nil)
  if err != nil {
    cs.log.Error("Failed to load catalog", "error", err)
    return nil, errs.Internal("failed to load catalog", err)
  }
  for _, s := range services {
    if s.Subservices == nil {
      s.Subservices = []types.Subservice{}
    }
  }
  cs.log.Debug("Catalog loaded", "services", len(services))
  return services, nil
}
