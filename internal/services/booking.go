package services

import (
  "context"

  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const (
  DefaultPageSize = 10
  MaxPageSize     = 100
)

type BookingPage struct {
  Count       int64               `json:"count"`
  Page        int                 `json:"page"`
  PageSize    int                 `json:"page_size"`
  Results     []*types.Booking    `json:"results"`
}

type BookingService interface {
  // List returns one page of bookings. A pageSize of zero means the default;
  // larger sizes are clamped to MaxPageSize.
  List(ctx context.Context, page, pageSize int) (*BookingPage, error)
}

type bookingService struct {
  db            *gorm.DB
  log           *logger.Logger
  bookingRepo   repos.BookingRepo
}

func NewBookingService(db *gorm.DB, log *logger.Logger, bookingRepo repos.BookingRepo) BookingService {
  serviceLog := log.With("service", "BookingService")
  return &bookingService{
    db:           db,
    log:          serviceLog,
    bookingRepo:  bookingRepo,
  }
}

func (bs *bookingService) List(ctx context.Context, page, pageSize int) (*BookingPage, error) {
  if page < 1 {
    return nil, errs.Validation("Invalid page.")
  }
  if pageSize < 0 {
    return nil, errs.Validation("Invalid page size.")
  }
  if pageSize == 0 {
    pageSize = DefaultPageSize
  }
  if pageSize > MaxPageSize {
    pageSize = MaxPageSize
  }

  bookings, total, err := bs.bookingRepo.GetPage(ctx, nil, (page-1)*pageSize, pageSize)
  if err != nil {
    return nil, errs.Internal("failed to load bookings", err)
  }
  if page > 1 && len(bookings) == 0 {
    return nil, errs.NotFound("Invalid page.")
  }
  bs.log.Debug("Bookings page loaded", "page", page, "pageSize", pageSize, "total", total)
  return &BookingPage{
    Count:     total,
    Page:      page,
    PageSize:  pageSize,
    Results:   bookings,
  }, nil
}
