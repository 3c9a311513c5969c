package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Profile struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;uniqueIndex;not null" json:"user"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`

  FullName            string                    `json:"full_name"`
  Address             string                    `json:"address"`
  Email               string                    `json:"email"`
  PhoneNumber         string                    `json:"phone_number"`
  DateOfBirth         *datatypes.Date           `json:"date_of_birth"`
  Gender              string                    `json:"gender"`
  HouseName           string                    `json:"house_name"`
  Landmark            string                    `json:"landmark"`
  PinCode             string                    `json:"pin_code"`
  District            string                    `json:"district"`
  State               string                    `json:"state"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"updated_at"`
}

func (Profile) TableName() string {
  return "profile"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
  assignID(&p.ID)
  return nil
}
