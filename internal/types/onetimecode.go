package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// OneTimeCode is a login code. Validity is derived from CreatedAt, so the
// issuing service sets it explicitly.
type OneTimeCode struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;index;not null"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID"`

  Code                string                    `gorm:"size:6;not null;column:code"`
  CreatedAt           time.Time                 `gorm:"index;not null"`
}

func (OneTimeCode) TableName() string {
  return "one_time_code"
}

func (o *OneTimeCode) BeforeCreate(tx *gorm.DB) error {
  assignID(&o.ID)
  return nil
}
