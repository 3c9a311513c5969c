package services

import (
  "context"
  "errors"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/gateway"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/metrics"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/socket"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

const (
  DefaultCurrency = "INR"

  PaymentVerifiedMessage = "Payment verified successfully"
  PaymentFailedMessage   = "Payment verification failed"

  EventPaymentCreated = "payment.created"
  EventPaymentPaid    = "payment.paid"
  EventPaymentFailed  = "payment.failed"
)

// maxAmount is the first value that no longer fits numeric(10,2).
var maxAmount = decimal.New(1, 8)

// MissingRecordPolicy decides what a verified signature without a stored
// payment record means.
type MissingRecordPolicy string

const (
  MissingRecordAccept MissingRecordPolicy = "accept"
  MissingRecordReject MissingRecordPolicy = "reject"
)

func ParseMissingRecordPolicy(s string) (MissingRecordPolicy, error) {
  switch MissingRecordPolicy(strings.ToLower(strings.TrimSpace(s))) {
  case "", MissingRecordAccept:
    return MissingRecordAccept, nil
  case MissingRecordReject:
    return MissingRecordReject, nil
  }
  return "", fmt.Errorf("unknown missing record policy %q", s)
}

// Broadcaster pushes realtime events to a channel. socket.Hub satisfies it.
type Broadcaster interface {
  Broadcast(ctx context.Context, channel string, event string, payload interface{})
}

type PaymentConfig struct {
  Currency              string
  MissingRecordPolicy   MissingRecordPolicy
}

type OrderInput struct {
  Amount        decimal.Decimal
  ProviderID    uuid.UUID
}

type OrderResult struct {
  Order     map[string]interface{}  `json:"order"`
  Payment   *types.Payment          `json:"payment"`
}

type VerifyInput struct {
  OrderID     string
  PaymentID   string
  Signature   string
}

// VerifyResult is the outcome of a verified signature. Payment is nil when no
// record existed and the policy accepted it.
type VerifyResult struct {
  Message   string          `json:"message"`
  Payment   *types.Payment  `json:"payment,omitempty"`
}

type PaymentService interface {
  CreateOrder(ctx context.Context, accountID uuid.UUID, in OrderInput) (*OrderResult, error)
  Verify(ctx context.Context, in VerifyInput) (*VerifyResult, error)
}

type paymentService struct {
  db            *gorm.DB
  log           *logger.Logger
  paymentRepo   repos.PaymentRepo
  providerRepo  repos.ProviderRepo
  gateway       gateway.Gateway
  broadcaster   Broadcaster
  config        PaymentConfig
}

func NewPaymentService(
  db            *gorm.DB,
  log           *logger.Logger,
  paymentRepo   repos.PaymentRepo,
  providerRepo  repos.ProviderRepo,
  gw            gateway.Gateway,
  broadcaster   Broadcaster,
  config        PaymentConfig,
) PaymentService {
  serviceLog := log.With("service", "PaymentService")
  if config.Currency == "" {
    config.Currency = DefaultCurrency
  }
  if config.MissingRecordPolicy == "" {
    config.MissingRecordPolicy = MissingRecordAccept
  }
  return &paymentService{
    db:           db,
    log:          serviceLog,
    paymentRepo:  paymentRepo,
    providerRepo: providerRepo,
    gateway:      gw,
    broadcaster:  broadcaster,
    config:       config,
  }
}

// ToMinorUnits converts a positive amount with at most two fractional digits
// into paise. 100.00 becomes 10000.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
  if !amount.IsPositive() {
    return 0, errs.Field("amount", "Amount must be greater than zero.")
  }
  if !amount.Equal(amount.Round(2)) {
    return 0, errs.Field("amount", "Amount must have at most 2 decimal places.")
  }
  if amount.GreaterThanOrEqual(maxAmount) {
    return 0, errs.Field("amount", "Amount is too large.")
  }
  return amount.Shift(2).IntPart(), nil
}

//----------------------------------------------------------------------------------------------------------------------
// CreateOrder
//----------------------------------------------------------------------------------------------------------------------

func (ps *paymentService) CreateOrder(ctx context.Context, accountID uuid.UUID, in OrderInput) (*OrderResult, error) {
  ps.log.Info("Starting Create Payment Order now...", "accountID", accountID, "amount", in.Amount.String())

  result, err := ps.createOrder(ctx, accountID, in)
  metrics.PaymentOrdersTotal.WithLabelValues(metrics.Result(err)).Inc()
  if err != nil {
    return nil, err
  }
  ps.notify(ctx, result.Payment, EventPaymentCreated)
  ps.log.Info("Payment order created :)", "orderID", result.Payment.OrderID, "reference", result.Payment.ReferenceNumber)
  return result, nil
}

func (ps *paymentService) createOrder(ctx context.Context, accountID uuid.UUID, in OrderInput) (*OrderResult, error) {
  //1) Amount
  minor, err := ToMinorUnits(in.Amount)
  if err != nil {
    return nil, err
  }

  //2) Provider
  if in.ProviderID == uuid.Nil {
    return nil, errs.Field("employee_id", "This field is required.")
  }
  providers, err := ps.providerRepo.GetByIDs(ctx, nil, []uuid.UUID{in.ProviderID})
  if err != nil {
    return nil, errs.Internal("failed to load employee", err)
  }
  if len(providers) == 0 {
    return nil, errs.NotFound("Employee not found.")
  }

  //3) Gateway order
  reference := utils.ShortReference()
  order, err := ps.gateway.CreateOrder(ctx, minor, ps.config.Currency, reference)
  if err != nil {
    ps.log.Warn("Gateway order creation failed, Cannot proceed.", "error", err)
    return nil, errs.ServiceUnavailable("Failed to create payment order", err)
  }

  //4) Record
  payment := &types.Payment{
    ID:               uuid.New(),
    OrderID:          order.ID,
    AccountID:        accountID,
    ProviderID:       in.ProviderID,
    Amount:           in.Amount.Round(2),
    Currency:         ps.config.Currency,
    Status:           types.PaymentStatusCreated,
    ReferenceNumber:  reference,
  }
  if _, err := ps.paymentRepo.Create(ctx, nil, []*types.Payment{payment}); err != nil {
    ps.log.Error("Failed to store payment record", "orderID", order.ID, "error", err)
    return nil, errs.Internal("failed to store payment", err)
  }

  raw := order.Raw
  if raw == nil {
    raw = map[string]interface{}{
      "id":       order.ID,
      "amount":   order.Amount,
      "currency": order.Currency,
      "receipt":  order.Receipt,
      "status":   order.Status,
    }
  }
  return &OrderResult{Order: raw, Payment: payment}, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Verify
//----------------------------------------------------------------------------------------------------------------------

func (ps *paymentService) Verify(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
  ps.log.Info("Starting Verify Payment now...", "orderID", in.OrderID, "paymentID", in.PaymentID)

  fields := errs.FieldErrors{}
  if in.OrderID == "" {
    fields.Add("order_id", "This field is required.")
  }
  if in.PaymentID == "" {
    fields.Add("payment_id", "This field is required.")
  }
  if in.Signature == "" {
    fields.Add("signature", "This field is required.")
  }
  if len(fields) > 0 {
    metrics.PaymentVerificationsTotal.WithLabelValues("invalid").Inc()
    return nil, errs.ValidationFields(fields)
  }

  if err := ps.gateway.VerifyPayment(ctx, in.OrderID, in.PaymentID, in.Signature); err != nil {
    if errors.Is(err, gateway.ErrSignatureMismatch) {
      return nil, ps.markFailed(ctx, in.OrderID)
    }
    metrics.PaymentVerificationsTotal.WithLabelValues("error").Inc()
    return nil, errs.Internal("payment verification error", err)
  }

  var (
    result  *VerifyResult
    changed bool
  )
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    payment, err := ps.paymentRepo.LockByOrderID(ctx, tx, in.OrderID)
    if err != nil {
      return errs.Internal("failed to load payment", err)
    }
    if payment == nil {
      if ps.config.MissingRecordPolicy == MissingRecordReject {
        ps.log.Warn("Verified signature without payment record, rejecting", "orderID", in.OrderID)
        return errs.NotFound("Payment not found.")
      }
      ps.log.Warn("Verified signature without payment record, accepting", "orderID", in.OrderID)
      result = &VerifyResult{Message: PaymentVerifiedMessage}
      return nil
    }

    switch payment.Status {
    case types.PaymentStatusCreated:
      paymentID := in.PaymentID
      payment.PaymentID = &paymentID
      payment.Status = types.PaymentStatusPaid
      if _, err := ps.paymentRepo.Update(ctx, tx, []*types.Payment{payment}); err != nil {
        return errs.Internal("failed to update payment", err)
      }
      changed = true
    case types.PaymentStatusPaid:
      if payment.PaymentID == nil || *payment.PaymentID != in.PaymentID {
        return errs.Validation("Payment is already paid.")
      }
    default:
      return errs.Validation(fmt.Sprintf("Payment is already %s.", payment.Status))
    }
    result = &VerifyResult{Message: PaymentVerifiedMessage, Payment: payment}
    return nil
  })
  metrics.PaymentVerificationsTotal.WithLabelValues(metrics.Result(err)).Inc()
  if err != nil {
    return nil, err
  }
  if changed {
    ps.notify(ctx, result.Payment, EventPaymentPaid)
  }
  ps.log.Info("Payment verified :)", "orderID", in.OrderID)
  return result, nil
}

// markFailed moves still-created records for orderID to failed and returns
// the error reported to the caller.
func (ps *paymentService) markFailed(ctx context.Context, orderID string) error {
  metrics.PaymentVerificationsTotal.WithLabelValues("signature_mismatch").Inc()
  ps.log.Warn("Payment signature mismatch", "orderID", orderID)

  rows, err := ps.paymentRepo.MarkCreatedAsFailed(ctx, nil, orderID)
  if err != nil {
    ps.log.Error("Failed to mark payment as failed", "orderID", orderID, "error", err)
    return errs.Internal("failed to update payment", err)
  }
  if rows > 0 {
    payments, err := ps.paymentRepo.GetByOrderIDs(ctx, nil, []string{orderID})
    if err != nil {
      ps.log.Warn("Failed to reload failed payment", "orderID", orderID, "error", err)
    }
    for _, p := range payments {
      ps.notify(ctx, p, EventPaymentFailed)
    }
  }
  return errs.Validation(PaymentFailedMessage)
}

func (ps *paymentService) notify(ctx context.Context, payment *types.Payment, event string) {
  if ps.broadcaster == nil || payment == nil {
    return
  }
  ps.broadcaster.Broadcast(ctx, socket.AccountChannel(payment.AccountID), event, payment)
}
