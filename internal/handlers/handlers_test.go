package handlers_test

import (
  "bytes"
  "context"
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "strings"
  "sync"
  "testing"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/gorilla/websocket"
  "github.com/shopspring/decimal"

  "github.com/serviceconnect/serviceconnect-backend/internal/cache"
  "github.com/serviceconnect/serviceconnect-backend/internal/db/dbtest"
  "github.com/serviceconnect/serviceconnect-backend/internal/gateway/gatewaytest"
  "github.com/serviceconnect/serviceconnect-backend/internal/handlers"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/middleware"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/server"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
  "github.com/serviceconnect/serviceconnect-backend/internal/socket"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const keySecret = "handler_test_secret"

type codeCatcher struct {
  mu    sync.Mutex
  last  map[string]string
}

func (cc *codeCatcher) SendLoginCode(ctx context.Context, account *types.Account, code string) error {
  cc.mu.Lock()
  defer cc.mu.Unlock()
  if cc.last == nil {
    cc.last = map[string]string{}
  }
  cc.last[account.Email] = code
  return nil
}

func (cc *codeCatcher) code(email string) string {
  cc.mu.Lock()
  defer cc.mu.Unlock()
  return cc.last[email]
}

type testServer struct {
  router      *gin.Engine
  codes       *codeCatcher
  providers   repos.ProviderRepo
  services    repos.ServiceRepo
}

func newTestServer(t *testing.T) *testServer {
  t.Helper()
  gin.SetMode(gin.TestMode)
  gdb := dbtest.New(t)
  log := logger.NewNop()

  accountRepo := repos.NewAccountRepo(gdb, log)
  userTokenRepo := repos.NewUserTokenRepo(gdb, log)
  providerRepo := repos.NewProviderRepo(gdb, log)
  serviceRepo := repos.NewServiceRepo(gdb, log)
  registryRepo := repos.NewServiceRegistryRepo(gdb, log)

  codes := &codeCatcher{}
  otp := services.NewOTPService(gdb, log, accountRepo, repos.NewOneTimeCodeRepo(gdb, log))
  auth := services.NewAuthService(gdb, log, accountRepo, userTokenRepo, otp, codes, "jwt-test", 15*time.Minute, time.Hour)
  hub := socket.NewHub(log)

  router := server.NewRouter(server.RouterConfig{
    HealthHandler:          handlers.Health(gdb),
    AuthHandler:            handlers.NewAuthHandler(log, auth),
    AuthMiddleware:         middleware.NewAuthMiddleware(log, auth),
    ProfileHandler:         handlers.NewProfileHandler(log, services.NewProfileService(gdb, log, repos.NewProfileRepo(gdb, log))),
    CatalogHandler:         handlers.NewCatalogHandler(log, services.NewCatalogService(gdb, log, serviceRepo), cache.NewMemoryCache()),
    RegistryHandler:        handlers.NewRegistryHandler(log, services.NewRegistryService(gdb, log, registryRepo)),
    ServiceRequestHandler:  handlers.NewServiceRequestHandler(log, services.NewServiceRequestService(gdb, log, repos.NewServiceRequestRepo(gdb, log), serviceRepo)),
    BookingHandler:         handlers.NewBookingHandler(log, services.NewBookingService(gdb, log, repos.NewBookingRepo(gdb, log))),
    ReviewHandler:          handlers.NewReviewHandler(log, services.NewReviewService(gdb, log, repos.NewReviewRepo(gdb, log), registryRepo, accountRepo)),
    PaymentHandler:         handlers.NewPaymentHandler(log, services.NewPaymentService(gdb, log, repos.NewPaymentRepo(gdb, log), providerRepo, gatewaytest.New(keySecret), hub, services.PaymentConfig{})),
    WsHandler:              handlers.WsHandler(hub, log),
  })
  return &testServer{router: router, codes: codes, providers: providerRepo, services: serviceRepo}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
  t.Helper()
  var buf bytes.Buffer
  if body != nil {
    if err := json.NewEncoder(&buf).Encode(body); err != nil {
      t.Fatalf("encode body: %v", err)
    }
  }
  req := httptest.NewRequest(method, path, &buf)
  req.Header.Set("Content-Type", "application/json")
  if token != "" {
    req.Header.Set("Authorization", "Bearer "+token)
  }
  rec := httptest.NewRecorder()
  ts.router.ServeHTTP(rec, req)

  var out map[string]interface{}
  if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
      t.Fatalf("decode response %q: %v", rec.Body.String(), err)
    }
  }
  return rec, out
}

// login registers an account and walks it through the OTP flow.
func (ts *testServer) login(t *testing.T, email string) string {
  t.Helper()
  rec, _ := ts.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Asha", "email": email, "password": "password123", "phone_number": "+919812345678"})
  if rec.Code != http.StatusCreated {
    t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
  }
  rec, _ = ts.do(t, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": "password123"})
  if rec.Code != http.StatusOK {
    t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
  }
  rec, body := ts.do(t, http.MethodPost, "/api/otp/verify", "", gin.H{"email": email, "otp_code": ts.codes.code(email)})
  if rec.Code != http.StatusOK {
    t.Fatalf("verify: %d %s", rec.Code, rec.Body.String())
  }
  access, _ := body["access"].(string)
  if access == "" {
    t.Fatalf("no access token in %v", body)
  }
  return access
}

func TestRegisterScenarios(t *testing.T) {
  ts := newTestServer(t)

  rec, body := ts.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Asha", "email": "asha@example.com", "password": "password123", "phone_number": "+919800000000"})
  if rec.Code != http.StatusCreated {
    t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
  }
  user, _ := body["user"].(map[string]interface{})
  if user["email"] != "asha@example.com" {
    t.Fatalf("unexpected user %v", body)
  }
  if _, leaked := user["password"]; leaked {
    t.Fatal("password hash serialized")
  }

  rec, body = ts.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Ravi", "email": "ravi@example.com", "password": "short"})
  if rec.Code != http.StatusBadRequest {
    t.Fatalf("expected 400, got %d", rec.Code)
  }
  fields, _ := body["fields"].(map[string]interface{})
  pw, _ := fields["password"].([]interface{})
  if len(pw) != 1 || pw[0] != "Password must be at least 8 characters long." {
    t.Fatalf("unexpected field errors %v", body)
  }
  if body["code"] != "VALIDATION_ERROR" {
    t.Fatalf("unexpected code %v", body["code"])
  }
}

func TestLoginScenarios(t *testing.T) {
  ts := newTestServer(t)
  ts.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Asha", "email": "asha@example.com", "password": "password123"})

  rec, body := ts.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "asha@example.com", "password": "nope-nope"})
  if rec.Code != http.StatusUnauthorized || body["error"] != "Invalid email or password." {
    t.Fatalf("wrong password: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "asha@example.com"})
  if rec.Code != http.StatusBadRequest || body["error"] != "Email and password are required." {
    t.Fatalf("missing password: %d %v", rec.Code, body)
  }

  rec, body = ts.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "asha@example.com", "password": "password123"})
  if rec.Code != http.StatusOK {
    t.Fatalf("login: %d %v", rec.Code, body)
  }
  code := ts.codes.code("asha@example.com")
  if code == "" || bytes.Contains(rec.Body.Bytes(), []byte(code)) {
    t.Fatal("code missing from notifier or leaked in response")
  }

  rec, body = ts.do(t, http.MethodPost, "/api/otp/verify", "", gin.H{"email": "ghost@example.com", "otp_code": code})
  if rec.Code != http.StatusNotFound {
    t.Fatalf("unknown email: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPost, "/api/otp/verify", "", gin.H{"email": "asha@example.com"})
  if rec.Code != http.StatusBadRequest {
    t.Fatalf("missing code: %d %v", rec.Code, body)
  }

  rec, body = ts.do(t, http.MethodPost, "/api/otp/verify", "", gin.H{"email": "asha@example.com", "otp_code": code})
  if rec.Code != http.StatusOK || body["refresh"] == "" {
    t.Fatalf("verify: %d %v", rec.Code, body)
  }
  refresh := body["refresh"].(string)
  access := body["access"].(string)

  rec, body = ts.do(t, http.MethodPost, "/api/token/refresh", "", gin.H{})
  if rec.Code != http.StatusUnauthorized {
    t.Fatalf("refresh without token: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPost, "/api/token/refresh", "", gin.H{"refresh": refresh})
  if rec.Code != http.StatusOK {
    t.Fatalf("refresh: %d %v", rec.Code, body)
  }
  newAccess := body["access"].(string)
  newRefresh := body["refresh"].(string)

  rec, _ = ts.do(t, http.MethodPost, "/api/logout", access, gin.H{"refresh": newRefresh})
  if rec.Code != http.StatusUnauthorized {
    t.Fatalf("rotated-out access token still accepted: %d", rec.Code)
  }
  rec, body = ts.do(t, http.MethodPost, "/api/logout", newAccess, gin.H{})
  if rec.Code != http.StatusBadRequest || body["error"] != "Refresh token is required." {
    t.Fatalf("logout without token: %d %v", rec.Code, body)
  }
  rec, _ = ts.do(t, http.MethodPost, "/api/logout", newAccess, gin.H{"refresh": newRefresh})
  if rec.Code != http.StatusOK {
    t.Fatalf("logout: %d", rec.Code)
  }
  rec, _ = ts.do(t, http.MethodGet, "/api/profile", newAccess, nil)
  if rec.Code != http.StatusUnauthorized {
    t.Fatalf("logged out token still accepted: %d", rec.Code)
  }
}

func TestProfileRoutes(t *testing.T) {
  ts := newTestServer(t)

  rec, _ := ts.do(t, http.MethodGet, "/api/profile", "", nil)
  if rec.Code != http.StatusUnauthorized {
    t.Fatalf("anonymous profile: %d", rec.Code)
  }

  token := ts.login(t, "asha@example.com")
  rec, body := ts.do(t, http.MethodGet, "/api/profile", token, nil)
  if rec.Code != http.StatusNotFound || body["error"] != "Profile not found." {
    t.Fatalf("missing profile: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPost, "/api/profile", token, gin.H{"full_name": "Asha Nair", "date_of_birth": "1994-07-12"})
  if rec.Code != http.StatusCreated || body["full_name"] != "Asha Nair" {
    t.Fatalf("create profile: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPost, "/api/profile", token, gin.H{"full_name": "Again"})
  if rec.Code != http.StatusBadRequest || body["error"] != "Profile already exists." {
    t.Fatalf("duplicate profile: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPatch, "/api/profile", token, gin.H{"date_of_birth": "12/07/1994"})
  if rec.Code != http.StatusBadRequest {
    t.Fatalf("bad date: %d %v", rec.Code, body)
  }
  rec, body = ts.do(t, http.MethodPatch, "/api/profile", token, gin.H{"state": "Kerala"})
  if rec.Code != http.StatusOK || body["state"] != "Kerala" || body["full_name"] != "Asha Nair" {
    t.Fatalf("patch profile: %d %v", rec.Code, body)
  }
  rec, _ = ts.do(t, http.MethodDelete, "/api/profile", token, nil)
  if rec.Code != http.StatusNoContent {
    t.Fatalf("delete profile: %d", rec.Code)
  }
}

func TestCatalogIsCached(t *testing.T) {
  ts := newTestServer(t)
  ctx := context.Background()
  svc := &types.Service{Title: "Cleaning"}
  if _, err := ts.services.Create(ctx, nil, []*types.Service{svc}); err != nil {
    t.Fatalf("seed service: %v", err)
  }

  rec, _ := ts.do(t, http.MethodGet, "/api/services", "", nil)
  if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "MISS" {
    t.Fatalf("first read: %d %s", rec.Code, rec.Header().Get("X-Cache"))
  }
  first := rec.Body.String()

  // Stored entries are served until they expire, even after the catalog changes.
  if _, err := ts.services.Create(ctx, nil, []*types.Service{{Title: "Plumbing"}}); err != nil {
    t.Fatalf("seed service: %v", err)
  }
  rec, _ = ts.do(t, http.MethodGet, "/api/services", "", nil)
  if rec.Header().Get("X-Cache") != "HIT" || rec.Body.String() != first {
    t.Fatalf("second read not served from cache: %s", rec.Header().Get("X-Cache"))
  }

  rec, _ = ts.do(t, http.MethodGet, "/api/services", "some-other-token", nil)
  if rec.Header().Get("X-Cache") != "MISS" {
    t.Fatal("cache entry shared across Authorization headers")
  }
  var list []map[string]interface{}
  if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 2 {
    t.Fatalf("unexpected catalog %s (%v)", rec.Body.String(), err)
  }
}

func TestPaymentRoutes(t *testing.T) {
  ts := newTestServer(t)
  token := ts.login(t, "payer@example.com")
  provider := &types.Provider{Name: "Ramesh", PhoneNumber: "+919800000009"}
  if _, err := ts.providers.Create(context.Background(), nil, []*types.Provider{provider}); err != nil {
    t.Fatalf("seed provider: %v", err)
  }

  rec, _ := ts.do(t, http.MethodPost, "/api/payments/order", "", gin.H{"amount": "100.00", "employee_id": provider.ID})
  if rec.Code != http.StatusUnauthorized {
    t.Fatalf("anonymous order: %d", rec.Code)
  }
  rec, body := ts.do(t, http.MethodPost, "/api/payments/order", token, gin.H{"amount": "0", "employee_id": provider.ID})
  if rec.Code != http.StatusBadRequest {
    t.Fatalf("zero amount: %d %v", rec.Code, body)
  }

  rec, body = ts.do(t, http.MethodPost, "/api/payments/order", token, gin.H{"amount": 100.00, "employee_id": provider.ID})
  if rec.Code != http.StatusCreated {
    t.Fatalf("order: %d %v", rec.Code, body)
  }
  order := body["order"].(map[string]interface{})
  payment := body["payment"].(map[string]interface{})
  if order["amount"] != float64(10000) || payment["status"] != types.PaymentStatusCreated {
    t.Fatalf("unexpected order body %v", body)
  }
  if amount, err := decimal.NewFromString(payment["amount"].(string)); err != nil || !amount.Equal(decimal.NewFromInt(100)) {
    t.Fatalf("unexpected payment amount %v", payment["amount"])
  }
  orderID := order["id"].(string)

  rec, body = ts.do(t, http.MethodPost, "/api/payments/verify", "", gin.H{"order_id": orderID, "payment_id": "pay_1", "signature": "forged"})
  if rec.Code != http.StatusBadRequest || body["error"] != "Payment verification failed" {
    t.Fatalf("forged signature: %d %v", rec.Code, body)
  }

  rec, body = ts.do(t, http.MethodPost, "/api/payments/order", token, gin.H{"amount": "250.50", "employee_id": provider.ID})
  if rec.Code != http.StatusCreated {
    t.Fatalf("second order: %d %v", rec.Code, body)
  }
  orderID = body["order"].(map[string]interface{})["id"].(string)
  sig := gatewaytest.Sign(orderID, "pay_2", keySecret)
  rec, body = ts.do(t, http.MethodPost, "/api/payments/verify", "", gin.H{"order_id": orderID, "payment_id": "pay_2", "signature": sig})
  if rec.Code != http.StatusOK {
    t.Fatalf("verify: %d %v", rec.Code, body)
  }
  if body["payment"].(map[string]interface{})["status"] != types.PaymentStatusPaid {
    t.Fatalf("payment not paid: %v", body)
  }
}

func TestHealthAndMetrics(t *testing.T) {
  ts := newTestServer(t)
  rec, body := ts.do(t, http.MethodGet, "/healthz", "", nil)
  if rec.Code != http.StatusOK || body["status"] != "ok" {
    t.Fatalf("healthz: %d %v", rec.Code, body)
  }
  rec, _ = ts.do(t, http.MethodGet, "/metrics", "", nil)
  if rec.Code != http.StatusOK {
    t.Fatalf("metrics: %d", rec.Code)
  }
}

func TestWebsocketAcceptsQueryToken(t *testing.T) {
  ts := newTestServer(t)
  access := ts.login(t, "ws@example.com")
  srv := httptest.NewServer(ts.router)
  defer srv.Close()
  wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"

  conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+access, nil)
  if err != nil {
    status := 0
    if resp != nil {
      status = resp.StatusCode
    }
    t.Fatalf("dial with query token: %v (status %d)", err, status)
  }
  if resp.StatusCode != http.StatusSwitchingProtocols {
    t.Fatalf("expected 101, got %d", resp.StatusCode)
  }
  conn.Close()

  _, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=not-a-token", nil)
  if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
    t.Fatalf("expected 401 for a bad query token, got err=%v resp=%v", err, resp)
  }

  // Plain requests still need the header.
  rec, _ := ts.do(t, http.MethodGet, "/api/profile?token="+access, "", nil)
  if rec.Code != http.StatusUnauthorized {
    t.Fatalf("expected 401 for query token on a plain request, got %d", rec.Code)
  }
}
