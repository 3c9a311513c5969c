package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  ServiceStatusActive   = "active"
  ServiceStatusInactive = "inactive"
)

type Service struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  Title               string                    `gorm:"uniqueIndex;not null" json:"title"`
  Description         string                    `json:"description"`
  Image               string                    `json:"image"`
  Status              string                    `gorm:"not null;default:active" json:"status"`
  Subservices         []Subservice              `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"subservices"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (Service) TableName() string {
  return "service"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
  assignID(&s.ID)
  if s.Status == "" {
    s.Status = ServiceStatusActive
  }
  return nil
}

type Subservice struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  ServiceID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"service"`
  Title               string                    `gorm:"not null" json:"title"`
  Description         string                    `json:"description"`
  Image               string                    `json:"image"`

  CreatedAt           time.Time                 `json:"-"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (Subservice) TableName() string {
  return "subservice"
}

func (s *Subservice) BeforeCreate(tx *gorm.DB) error {
  assignID(&s.ID)
  return nil
}
