// Package gatewaytest provides an in-process payment gateway for tests.
package gatewaytest

import (
  "context"
  "crypto/hmac"
  "crypto/sha256"
  "encoding/hex"
  "fmt"
  "sync"

  rzputils "github.com/razorpay/razorpay-go/utils"

  "github.com/serviceconnect/serviceconnect-backend/internal/gateway"
)

// Fake issues sequential order ids and verifies signatures with the same
// HMAC scheme as the live provider.
type Fake struct {
  Secret      string
  CreateErr   error
  VerifyErr   error

  mu          sync.Mutex
  seq         int
  Orders      []*gateway.Order
}

func New(secret string) *Fake {
  return &Fake{Secret: secret}
}

func (f *Fake) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*gateway.Order, error) {
  if f.CreateErr != nil {
    return nil, f.CreateErr
  }
  f.mu.Lock()
  defer f.mu.Unlock()
  f.seq++
  id := fmt.Sprintf("order_test_%04d", f.seq)
  order := &gateway.Order{
    ID:       id,
    Amount:   amountMinor,
    Currency: currency,
    Receipt:  receipt,
    Status:   "created",
    Raw: map[string]interface{}{
      "id":       id,
      "entity":   "order",
      "amount":   amountMinor,
      "currency": currency,
      "receipt":  receipt,
      "status":   "created",
    },
  }
  f.Orders = append(f.Orders, order)
  return order, nil
}

func (f *Fake) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error {
  if f.VerifyErr != nil {
    return f.VerifyErr
  }
  params := map[string]interface{}{
    "razorpay_order_id":   orderID,
    "razorpay_payment_id": paymentID,
  }
  if !rzputils.VerifyPaymentSignature(params, signature, f.Secret) {
    return gateway.ErrSignatureMismatch
  }
  return nil
}

// Sign produces the signature a client would receive from checkout.
func Sign(orderID, paymentID, secret string) string {
  mac := hmac.New(sha256.New, []byte(secret))
  mac.Write([]byte(orderID + "|" + paymentID))
  return hex.EncodeToString(mac.Sum(nil))
}
