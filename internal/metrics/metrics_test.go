package metrics

import (
  "errors"
  "testing"

  "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrementByLabel(t *testing.T) {
  before := testutil.ToFloat64(PaymentVerificationsTotal.WithLabelValues("paid"))
  PaymentVerificationsTotal.WithLabelValues("paid").Inc()
  after := testutil.ToFloat64(PaymentVerificationsTotal.WithLabelValues("paid"))
  if after-before != 1 {
    t.Fatalf("expected counter to grow by 1, got %v -> %v", before, after)
  }
}

func TestMustRegisterIsIdempotent(t *testing.T) {
  MustRegister("test")
  MustRegister("test")
}

func TestResult(t *testing.T) {
  if Result(nil) != "success" || Result(errors.New("x")) != "error" {
    t.Fatalf("unexpected result labels")
  }
}
