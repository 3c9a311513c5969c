package types

import (
  "time"

  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"
)

const (
  PaymentStatusCreated = "created"
  PaymentStatusPaid    = "paid"
  PaymentStatusFailed  = "failed"
)

// Payment tracks one gateway order. Status only moves from created to paid
// or from created to failed.
type Payment struct {
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  OrderID             string                    `gorm:"uniqueIndex;not null;column:order_id" json:"order_id"`
  PaymentID           *string                   `gorm:"column:payment_id" json:"payment_id"`
  AccountID           uuid.UUID                 `gorm:"type:uuid;index;not null" json:"user"`
  Account             *Account                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
  ProviderID          uuid.UUID                 `gorm:"type:uuid;index;not null" json:"employee"`
  Provider            *Provider                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProviderID;references:ID" json:"-"`

  Amount              decimal.Decimal           `gorm:"type:numeric(10,2);not null" json:"amount"`
  Currency            string                    `gorm:"size:3;not null" json:"currency"`
  Status              string                    `gorm:"size:10;not null;index" json:"status"`
  ReferenceNumber     string                    `gorm:"size:10;not null" json:"reference_number"`

  CreatedAt           time.Time                 `json:"created_at"`
  UpdatedAt           time.Time                 `json:"updated_at"`
}

func (Payment) TableName() string {
  return "payment"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
  assignID(&p.ID)
  if p.Status == "" {
    p.Status = PaymentStatusCreated
  }
  return nil
}
