package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Account struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  Name                string                    `gorm:"not null" json:"name"`
  Email               string                    `gorm:"uniqueIndex;not null" json:"email"`
  Password            string                    `gorm:"not null" json:"-"`
  PhoneNumber         string                    `gorm:"column:phone_number" json:"phone_number"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (Account) TableName() string {
  return "account"
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
  assignID(&a.ID)
  return nil
}
