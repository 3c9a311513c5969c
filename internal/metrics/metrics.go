package metrics

import (
  "sync"

  "github.com/prometheus/client_golang/prometheus"
)

var (
  HTTPRequestsTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "http_requests_total",
      Help: "Total number of HTTP requests.",
    },
    []string{"method", "path", "status"},
  )

  HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
    prometheus.HistogramOpts{
      Name:    "http_request_duration_seconds",
      Help:    "Duration of HTTP requests.",
      Buckets: prometheus.DefBuckets,
    },
    []string{"method", "path"},
  )

  AuthRegistrationsTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "auth_registrations_total",
      Help: "Total number of registration attempts.",
    },
    []string{"result"},
  )

  AuthLoginsTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "auth_logins_total",
      Help: "Total number of login attempts.",
    },
    []string{"result"},
  )

  OTPVerificationsTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "auth_otp_verifications_total",
      Help: "Total number of one-time code verifications by outcome.",
    },
    []string{"result"},
  )

  TokensIssuedTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "auth_tokens_issued_total",
      Help: "Total number of tokens issued or refreshed.",
    },
    []string{"flow", "result"},
  )

  PaymentOrdersTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "payment_orders_total",
      Help: "Total number of payment order attempts.",
    },
    []string{"result"},
  )

  PaymentVerificationsTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "payment_verifications_total",
      Help: "Total number of payment verifications by outcome.",
    },
    []string{"result"},
  )

  CatalogCacheTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "catalog_cache_requests_total",
      Help: "Catalog cache lookups by outcome.",
    },
    []string{"result"},
  )
)

var registerOnce sync.Once

// MustRegister attaches every collector to the default registry, labelled
// with the service name. Later calls are no-ops.
func MustRegister(serviceName string) {
  registerOnce.Do(func() {
    reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
    reg.MustRegister(
      HTTPRequestsTotal,
      HTTPRequestDurationSeconds,
      AuthRegistrationsTotal,
      AuthLoginsTotal,
      OTPVerificationsTotal,
      TokensIssuedTotal,
      PaymentOrdersTotal,
      PaymentVerificationsTotal,
      CatalogCacheTotal,
    )
  })
}

// Result maps an error onto the "result" label value.
func Result(err error) string {
  if err != nil {
    return "error"
  }
  return "success"
}
