package services

import (
  "context"
  "errors"
  "sync"
  "testing"
  "time"

  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/db/dbtest"
  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

type fixture struct {
  db      *gorm.DB
  log     *logger.Logger
  accounts      repos.AccountRepo
  codes         repos.OneTimeCodeRepo
  tokens        repos.UserTokenRepo
  profiles      repos.ProfileRepo
  providers     repos.ProviderRepo
  services      repos.ServiceRepo
  registry      repos.ServiceRegistryRepo
  requests      repos.ServiceRequestRepo
  bookings      repos.BookingRepo
  reviews       repos.ReviewRepo
  payments      repos.PaymentRepo
}

func newFixture(t *testing.T) *fixture {
  t.Helper()
  gdb := dbtest.New(t)
  log := logger.NewNop()
  return &fixture{
    db:         gdb,
    log:        log,
    accounts:   repos.NewAccountRepo(gdb, log),
    codes:      repos.NewOneTimeCodeRepo(gdb, log),
    tokens:     repos.NewUserTokenRepo(gdb, log),
    profiles:   repos.NewProfileRepo(gdb, log),
    providers:  repos.NewProviderRepo(gdb, log),
    services:   repos.NewServiceRepo(gdb, log),
    registry:   repos.NewServiceRegistryRepo(gdb, log),
    requests:   repos.NewServiceRequestRepo(gdb, log),
    bookings:   repos.NewBookingRepo(gdb, log),
    reviews:    repos.NewReviewRepo(gdb, log),
    payments:   repos.NewPaymentRepo(gdb, log),
  }
}

func (f *fixture) account(t *testing.T, email, password string) *types.Account {
  t.Helper()
  hash, err := utils.HashPassword(password)
  if err != nil {
    t.Fatalf("hash: %v", err)
  }
  a := &types.Account{Name: "Asha", Email: email, Password: hash, PhoneNumber: "+919800000000"}
  if _, err := f.accounts.Create(context.Background(), nil, []*types.Account{a}); err != nil {
    t.Fatalf("create account: %v", err)
  }
  return a
}

func (f *fixture) provider(t *testing.T, name, phone string) *types.Provider {
  t.Helper()
  p := &types.Provider{Name: name, Age: 30, PhoneNumber: phone}
  if _, err := f.providers.Create(context.Background(), nil, []*types.Provider{p}); err != nil {
    t.Fatalf("create provider: %v", err)
  }
  return p
}

func (f *fixture) service(t *testing.T, title string, subs ...string) *types.Service {
  t.Helper()
  ctx := context.Background()
  s := &types.Service{Title: title, Description: title + " work"}
  if _, err := f.services.Create(ctx, nil, []*types.Service{s}); err != nil {
    t.Fatalf("create service: %v", err)
  }
  var rows []*types.Subservice
  for _, sub := range subs {
    rows = append(rows, &types.Subservice{ServiceID: s.ID, Title: sub})
  }
  if len(rows) > 0 {
    if _, err := f.services.CreateSubservices(ctx, nil, rows); err != nil {
      t.Fatalf("create subservices: %v", err)
    }
    for _, r := range rows {
      s.Subservices = append(s.Subservices, *r)
    }
  }
  return s
}

func (f *fixture) registryEntry(t *testing.T, p *types.Provider, s *types.Service) *types.ServiceRegistry {
  t.Helper()
  e := &types.ServiceRegistry{
    ProviderID:   p.ID,
    ServiceID:    s.ID,
    MinPrice:     decimal.RequireFromString("100.00"),
    MaxPrice:     decimal.RequireFromString("250.50"),
    Description:  "standard rate",
  }
  if _, err := f.registry.Create(context.Background(), nil, []*types.ServiceRegistry{e}); err != nil {
    t.Fatalf("create registry entry: %v", err)
  }
  return e
}

func requireKind(t *testing.T, err error, kind errs.Kind, msg string) {
  t.Helper()
  if err == nil {
    t.Fatalf("expected %s error %q, got nil", kind, msg)
  }
  if got := errs.KindOf(err); got != kind {
    t.Fatalf("expected kind %s, got %s (%v)", kind, got, err)
  }
  if msg != "" {
    var e *errs.Error
    if !errors.As(err, &e) || e.Message != msg {
      t.Fatalf("expected message %q, got %v", msg, err)
    }
  }
}

// clock is a settable time source shared by the services under test.
type clock struct {
  mu  sync.Mutex
  t   time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
  c.mu.Lock()
  defer c.mu.Unlock()
  return c.t
}

func (c *clock) Set(t time.Time) {
  c.mu.Lock()
  c.t = t
  c.mu.Unlock()
}

type recordedEvent struct {
  Channel   string
  Event     string
  Payload   interface{}
}

type recordingBroadcaster struct {
  mu      sync.Mutex
  events  []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(ctx context.Context, channel string, event string, payload interface{}) {
  b.mu.Lock()
  defer b.mu.Unlock()
  b.events = append(b.events, recordedEvent{Channel: channel, Event: event, Payload: payload})
}

func (b *recordingBroadcaster) Events() []recordedEvent {
  b.mu.Lock()
  defer b.mu.Unlock()
  return append([]recordedEvent(nil), b.events...)
}

type recordingNotifier struct {
  mu      sync.Mutex
  codes   map[uuid.UUID]string
  err     error
}

func (n *recordingNotifier) SendLoginCode(ctx context.Context, account *types.Account, code string) error {
  n.mu.Lock()
  defer n.mu.Unlock()
  if n.codes == nil {
    n.codes = map[uuid.UUID]string{}
  }
  n.codes[account.ID] = code
  return n.err
}

func (n *recordingNotifier) Code(id uuid.UUID) string {
  n.mu.Lock()
  defer n.mu.Unlock()
  return n.codes[id]
}

func errorsAs(err error, target **errs.Error) bool {
  return errors.As(err, target)
}
