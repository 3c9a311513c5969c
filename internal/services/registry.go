package services

import (
  "context"

  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

// RegistryView is a pricing entry with the provider name and service title
// flattened in.
type RegistryView struct {
  ID              uuid.UUID         `json:"id"`
  Employee        uuid.UUID         `json:"employee"`
  EmployeeName    string            `json:"employee_name"`
  Service         uuid.UUID         `json:"service"`
  ServiceTitle    string            `json:"service_title"`
  MinPrice        decimal.Decimal   `json:"min_price"`
  MaxPrice        decimal.Decimal   `json:"max_price"`
  Description     string            `json:"description"`
}

func NewRegistryView(entry *types.ServiceRegistry) RegistryView {
  view := RegistryView{
    ID:           entry.ID,
    Employee:     entry.ProviderID,
    Service:      entry.ServiceID,
    MinPrice:     entry.MinPrice,
    MaxPrice:     entry.MaxPrice,
    Description:  entry.Description,
  }
  if entry.Provider != nil {
    view.EmployeeName = entry.Provider.Name
  }
  if entry.Service != nil {
    view.ServiceTitle = entry.Service.Title
  }
  return view
}

type RegistryService interface {
  List(ctx context.Context) ([]RegistryView, error)
}

type registryService struct {
  db                    *gorm.DB
  log                   *logger.Logger
  serviceRegistryRepo   repos.ServiceRegistryRepo
}

func NewRegistryService(db *gorm.DB, log *logger.Logger, serviceRegistryRepo repos.ServiceRegistryRepo) RegistryService {
  serviceLog := log.With("service", "RegistryService")
  return &registryService{
    db:                   db,
    log:                  serviceLog,
    serviceRegistryRepo:  serviceRegistryRepo,
  }
}

func (rs *registryService) List(ctx context.Context) ([]RegistryView, error) {
  entries, err := rs.serviceRegistryRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, errs.Internal("failed to load service registry", err)
  }
  views := make([]RegistryView, 0, len(entries))
  for _, e := range entries {
    views = append(views, NewRegistryView(e))
  }
  return views, nil
}
