package gatewaytest

import (
  "context"
  "errors"
  "testing"

  "github.com/serviceconnect/serviceconnect-backend/internal/gateway"
)

func TestFakeVerifiesProviderSignatures(t *testing.T) {
  f := New("secret")
  ctx := context.Background()
  if err := f.VerifyPayment(ctx, "order_1", "pay_1", Sign("order_1", "pay_1", "secret")); err != nil {
    t.Fatalf("expected valid signature, got %v", err)
  }
  err := f.VerifyPayment(ctx, "order_1", "pay_1", Sign("order_1", "pay_1", "other"))
  if !errors.Is(err, gateway.ErrSignatureMismatch) {
    t.Fatalf("expected ErrSignatureMismatch, got %v", err)
  }
}

func TestFakeOrderIDsAreDistinct(t *testing.T) {
  f := New("secret")
  a, _ := f.CreateOrder(context.Background(), 100, "INR", "r1")
  b, _ := f.CreateOrder(context.Background(), 100, "INR", "r2")
  if a.ID == b.ID {
    t.Fatalf("expected distinct order ids, both %s", a.ID)
  }
}
