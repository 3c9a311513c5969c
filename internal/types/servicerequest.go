package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type ServiceRequest struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"user"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
  ServiceID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"service"`
  Service             *Service                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ServiceID;references:ID" json:"-"`
  SubserviceID        *uuid.UUID                `gorm:"type:uuid;index" json:"subservice"`
  Subservice          *Subservice               `gorm:"constraint:OnDelete:SET NULL;foreignKey:SubserviceID;references:ID" json:"-"`

  Description         string                    `json:"description"`
  Address             string                    `json:"address"`
  PreferredDate       *time.Time                `json:"preferred_date"`
  Details             datatypes.JSON            `json:"details"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"updated_at"`
}

func (ServiceRequest) TableName() string {
  return "service_request"
}

func (sr *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
  assignID(&sr.ID)
  return nil
}
