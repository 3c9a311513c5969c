// Package gateway talks to the payment provider. The rest of the code only
// sees the Gateway interface so a fake can stand in for tests.
package gateway

import (
  "context"
  "errors"
  "fmt"

  razorpay "github.com/razorpay/razorpay-go"
  rzputils "github.com/razorpay/razorpay-go/utils"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
)

// ErrSignatureMismatch is returned when a payment signature does not verify.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

type Order struct {
  ID        string
  Amount    int64
  Currency  string
  Receipt   string
  Status    string
  // Raw is the provider payload, returned to clients untouched.
  Raw       map[string]interface{}
}

type Gateway interface {
  CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
  VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error
}

type razorpayGateway struct {
  log       *logger.Logger
  client    *razorpay.Client
  keySecret string
}

func NewRazorpayGateway(log *logger.Logger, keyID, keySecret string) (Gateway, error) {
  gatewayLog := log.With("gateway", "Razorpay")
  if keyID == "" || keySecret == "" {
    return nil, fmt.Errorf("missing Razorpay credentials: RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET")
  }
  return &razorpayGateway{
    log:       gatewayLog,
    client:    razorpay.NewClient(keyID, keySecret),
    keySecret: keySecret,
  }, nil
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
  if err := ctx.Err(); err != nil {
    return nil, err
  }
  g.log.Info("Creating Razorpay order now...", "amount", amountMinor, "currency", currency, "receipt", receipt)
  data := map[string]interface{}{
    "amount":          amountMinor,
    "currency":        currency,
    "receipt":         receipt,
    "payment_capture": 1,
  }
  body, err := g.client.Order.Create(data, nil)
  if err != nil {
    g.log.Warn("Razorpay order creation failed", "error", err)
    return nil, fmt.Errorf("razorpay create order: %w", err)
  }
  id, _ := body["id"].(string)
  if id == "" {
    return nil, fmt.Errorf("razorpay create order: response has no id")
  }
  status, _ := body["status"].(string)
  g.log.Info("Razorpay order created", "orderID", id, "status", status)
  return &Order{
    ID:       id,
    Amount:   amountMinor,
    Currency: currency,
    Receipt:  receipt,
    Status:   status,
    Raw:      body,
  }, nil
}

func (g *razorpayGateway) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error {
  params := map[string]interface{}{
    "razorpay_order_id":   orderID,
    "razorpay_payment_id": paymentID,
  }
  if !rzputils.VerifyPaymentSignature(params, signature, g.keySecret) {
    g.log.Warn("Razorpay signature verification failed", "orderID", orderID, "paymentID", paymentID)
    return ErrSignatureMismatch
  }
  return nil
}
