package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type UserToken struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;index;not null"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID"`

  AccessToken         string                    `gorm:"uniqueIndex;not null;column:access_token"`
  RefreshToken        string                    `gorm:"uniqueIndex;not null;column:refresh_token"`
  ExpiresAt           time.Time                 `gorm:"column:expires_at"`

  CreatedAt           time.Time
  UpdatedAt           time.Time
}

func (UserToken) TableName() string {
  return "user_token"
}

func (t *UserToken) BeforeCreate(tx *gorm.DB) error {
  assignID(&t.ID)
  return nil
}
