package types

import (
  "time"

  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"
)

// ServiceRegistry prices a service for one provider.
type ServiceRegistry struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  ProviderID          uuid.UUID                 `gorm:"type:uuid;index;not null" json:"employee"`
  Provider            *Provider                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProviderID;references:ID" json:"-"`
  ServiceID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"service"`
  Service             *Service                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ServiceID;references:ID" json:"-"`

  MinPrice            decimal.Decimal           `gorm:"type:numeric(10,2);not null" json:"min_price"`
  MaxPrice            decimal.Decimal           `gorm:"type:numeric(10,2);not null" json:"max_price"`
  Description         string                    `json:"description"`

  CreatedAt           time.Time                 `json:"-"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (ServiceRegistry) TableName() string {
  return "service_registry"
}

func (r *ServiceRegistry) BeforeCreate(tx *gorm.DB) error {
  assignID(&r.ID)
  return nil
}
