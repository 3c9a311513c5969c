package services

import (
  "context"
  "errors"
  "testing"

  "github.com/google/uuid"
  "github.com/shopspring/decimal"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/gateway/gatewaytest"
  "github.com/serviceconnect/serviceconnect-backend/internal/socket"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const testKeySecret = "rzp_test_secret"

type paymentFixture struct {
  *fixture
  gw          *gatewaytest.Fake
  events      *recordingBroadcaster
  svc         PaymentService
  accountID   uuid.UUID
  providerID  uuid.UUID
}

func newPaymentFixture(t *testing.T, policy MissingRecordPolicy) *paymentFixture {
  t.Helper()
  f := newFixture(t)
  gw := gatewaytest.New(testKeySecret)
  events := &recordingBroadcaster{}
  svc := NewPaymentService(f.db, f.log, f.payments, f.providers, gw, events, PaymentConfig{MissingRecordPolicy: policy})
  account := f.account(t, "payer@example.com", "password123")
  provider := f.provider(t, "Ramesh", "+919822222222")
  return &paymentFixture{fixture: f, gw: gw, events: events, svc: svc, accountID: account.ID, providerID: provider.ID}
}

func (pf *paymentFixture) order(t *testing.T, amount string) *OrderResult {
  t.Helper()
  res, err := pf.svc.CreateOrder(context.Background(), pf.accountID, OrderInput{
    Amount:     decimal.RequireFromString(amount),
    ProviderID: pf.providerID,
  })
  if err != nil {
    t.Fatalf("create order: %v", err)
  }
  return res
}

func (pf *paymentFixture) stored(t *testing.T, orderID string) *types.Payment {
  t.Helper()
  rows, err := pf.payments.GetByOrderIDs(context.Background(), nil, []string{orderID})
  if err != nil || len(rows) != 1 {
    t.Fatalf("load payment %s: %v (%d rows)", orderID, err, len(rows))
  }
  return rows[0]
}

func TestToMinorUnits(t *testing.T) {
  minor, err := ToMinorUnits(decimal.RequireFromString("100.00"))
  if err != nil || minor != 10000 {
    t.Fatalf("100.00 -> %d, %v", minor, err)
  }
  minor, err = ToMinorUnits(decimal.RequireFromString("49.5"))
  if err != nil || minor != 4950 {
    t.Fatalf("49.5 -> %d, %v", minor, err)
  }
  for _, bad := range []string{"0", "-5", "10.005", "100000000"} {
    if _, err := ToMinorUnits(decimal.RequireFromString(bad)); errs.KindOf(err) != errs.KindValidation {
      t.Fatalf("%s: expected validation error, got %v", bad, err)
    }
  }
}

func TestCreateOrderSendsMinorUnits(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  res := pf.order(t, "100.00")

  if len(pf.gw.Orders) != 1 || pf.gw.Orders[0].Amount != 10000 || pf.gw.Orders[0].Currency != DefaultCurrency {
    t.Fatalf("unexpected gateway order %+v", pf.gw.Orders)
  }
  if res.Payment.Status != types.PaymentStatusCreated {
    t.Fatalf("expected created, got %s", res.Payment.Status)
  }
  if len(res.Payment.ReferenceNumber) != 10 {
    t.Fatalf("reference %q is not 10 chars", res.Payment.ReferenceNumber)
  }
  if res.Order["id"] != res.Payment.OrderID {
    t.Fatalf("order payload %v does not match record %s", res.Order, res.Payment.OrderID)
  }
  stored := pf.stored(t, res.Payment.OrderID)
  if !stored.Amount.Equal(decimal.RequireFromString("100")) {
    t.Fatalf("stored amount %s", stored.Amount)
  }

  events := pf.events.Events()
  if len(events) != 1 || events[0].Event != EventPaymentCreated || events[0].Channel != socket.AccountChannel(pf.accountID) {
    t.Fatalf("unexpected events %+v", events)
  }
}

func TestCreateOrderDistinctIdentifiers(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  a := pf.order(t, "10.00")
  b := pf.order(t, "10.00")
  if a.Payment.OrderID == b.Payment.OrderID {
    t.Fatal("order ids collide")
  }
  if a.Payment.ReferenceNumber == b.Payment.ReferenceNumber {
    t.Fatal("reference numbers collide")
  }
}

func TestCreateOrderFailures(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  ctx := context.Background()

  _, err := pf.svc.CreateOrder(ctx, pf.accountID, OrderInput{Amount: decimal.RequireFromString("10"), ProviderID: uuid.New()})
  requireKind(t, err, errs.KindNotFound, "Employee not found.")

  pf.gw.CreateErr = errors.New("gateway down")
  _, err = pf.svc.CreateOrder(ctx, pf.accountID, OrderInput{Amount: decimal.RequireFromString("10"), ProviderID: pf.providerID})
  requireKind(t, err, errs.KindServiceUnavailable, "Failed to create payment order")
  if errs.StatusOf(err) != 400 {
    t.Fatalf("gateway failure should map to 400, got %d", errs.StatusOf(err))
  }
}

func TestVerifyValidSignatureMarksPaid(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  ctx := context.Background()
  res := pf.order(t, "100.00")
  orderID := res.Payment.OrderID
  sig := gatewaytest.Sign(orderID, "pay_001", testKeySecret)

  out, err := pf.svc.Verify(ctx, VerifyInput{OrderID: orderID, PaymentID: "pay_001", Signature: sig})
  if err != nil {
    t.Fatalf("verify: %v", err)
  }
  if out.Message != PaymentVerifiedMessage || out.Payment == nil || out.Payment.Status != types.PaymentStatusPaid {
    t.Fatalf("unexpected result %+v", out)
  }
  stored := pf.stored(t, orderID)
  if stored.Status != types.PaymentStatusPaid || stored.PaymentID == nil || *stored.PaymentID != "pay_001" {
    t.Fatalf("stored payment not paid: %+v", stored)
  }

  // Same payment id again is idempotent.
  if _, err := pf.svc.Verify(ctx, VerifyInput{OrderID: orderID, PaymentID: "pay_001", Signature: sig}); err != nil {
    t.Fatalf("repeat verify: %v", err)
  }
  // A different payment for a paid order is refused and status does not revert.
  other := gatewaytest.Sign(orderID, "pay_002", testKeySecret)
  _, err = pf.svc.Verify(ctx, VerifyInput{OrderID: orderID, PaymentID: "pay_002", Signature: other})
  requireKind(t, err, errs.KindValidation, "Payment is already paid.")
  if pf.stored(t, orderID).Status != types.PaymentStatusPaid {
    t.Fatal("paid payment changed status")
  }

  var paidEvents int
  for _, e := range pf.events.Events() {
    if e.Event == EventPaymentPaid {
      paidEvents++
    }
  }
  if paidEvents != 1 {
    t.Fatalf("expected one paid event, got %d", paidEvents)
  }
}

func TestVerifyInvalidSignatureMarksFailed(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  ctx := context.Background()
  res := pf.order(t, "100.00")
  orderID := res.Payment.OrderID

  _, err := pf.svc.Verify(ctx, VerifyInput{OrderID: orderID, PaymentID: "pay_001", Signature: "deadbeef"})
  requireKind(t, err, errs.KindValidation, PaymentFailedMessage)
  if errs.StatusOf(err) != 400 {
    t.Fatalf("expected 400, got %d", errs.StatusOf(err))
  }
  if got := pf.stored(t, orderID).Status; got != types.PaymentStatusFailed {
    t.Fatalf("expected failed, got %s", got)
  }

  // A failed payment never becomes paid.
  sig := gatewaytest.Sign(orderID, "pay_001", testKeySecret)
  _, err = pf.svc.Verify(ctx, VerifyInput{OrderID: orderID, PaymentID: "pay_001", Signature: sig})
  requireKind(t, err, errs.KindValidation, "Payment is already failed.")
  if got := pf.stored(t, orderID).Status; got != types.PaymentStatusFailed {
    t.Fatalf("failed payment reverted to %s", got)
  }
}

func TestVerifyInvalidSignatureUnknownOrder(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  _, err := pf.svc.Verify(context.Background(), VerifyInput{OrderID: "order_missing", PaymentID: "pay_1", Signature: "bad"})
  requireKind(t, err, errs.KindValidation, PaymentFailedMessage)
}

func TestVerifyMissingRecordPolicy(t *testing.T) {
  sig := gatewaytest.Sign("order_ghost", "pay_9", testKeySecret)
  in := VerifyInput{OrderID: "order_ghost", PaymentID: "pay_9", Signature: sig}

  accept := newPaymentFixture(t, MissingRecordAccept)
  out, err := accept.svc.Verify(context.Background(), in)
  if err != nil || out.Payment != nil || out.Message != PaymentVerifiedMessage {
    t.Fatalf("accept policy: %+v, %v", out, err)
  }

  reject := newPaymentFixture(t, MissingRecordReject)
  _, err = reject.svc.Verify(context.Background(), in)
  requireKind(t, err, errs.KindNotFound, "Payment not found.")
}

func TestVerifyRequiresFields(t *testing.T) {
  pf := newPaymentFixture(t, MissingRecordAccept)
  _, err := pf.svc.Verify(context.Background(), VerifyInput{OrderID: "order_1"})
  requireKind(t, err, errs.KindValidation, "Validation failed")
}

func TestParseMissingRecordPolicy(t *testing.T) {
  if p, err := ParseMissingRecordPolicy(""); err != nil || p != MissingRecordAccept {
    t.Fatalf("empty: %v, %v", p, err)
  }
  if p, err := ParseMissingRecordPolicy(" Reject "); err != nil || p != MissingRecordReject {
    t.Fatalf("reject: %v, %v", p, err)
  }
  if _, err := ParseMissingRecordPolicy("maybe"); err == nil {
    t.Fatal("expected error for unknown policy")
  }
}
