package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Booking struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"-"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"user"`
  ServiceRequestID    uuid.UUID                 `gorm:"type:uuid;index;not null" json:"-"`
  ServiceRequest      *ServiceRequest           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ServiceRequestID;references:ID" json:"service_request"`

  BookingDate         time.Time                 `gorm:"not null" json:"booking_date"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"-"`
}

func (Booking) TableName() string {
  return "booking"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
  assignID(&b.ID)
  return nil
}
