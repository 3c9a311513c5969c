package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  MinRating = 1
  MaxRating = 5
)

type Review struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"-"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"user"`
  ServiceRegistryID   uuid.UUID                 `gorm:"type:uuid;index;not null" json:"-"`
  ServiceRegistry     *ServiceRegistry          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ServiceRegistryID;references:ID" json:"service_registry"`

  Rating              int                       `gorm:"not null" json:"rating"`
  Comment             string                    `json:"comment"`

  CreatedAt           time.Time                 `gorm:"index" json:"created_at"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (Review) TableName() string {
  return "review"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
  assignID(&r.ID)
  return nil
}
