package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// Provider is an employee who performs services.
type Provider struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  Name                string                    `gorm:"not null" json:"name"`
  Age                 int                       `json:"age"`
  PhoneNumber         string                    `gorm:"uniqueIndex;not null" json:"phone_number"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (Provider) TableName() string {
  return "provider"
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
  assignID(&p.ID)
  return nil
}
