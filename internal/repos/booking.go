package repos

import (
    "context"

    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type BookingRepo interface {
    Create(ctx context.Context, tx *gorm.DB, bookings []*types.Booking) ([]*types.Booking, error)
    // GetPage returns one window of bookings, newest first, and the total row count.
    GetPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Booking, int64, error)
}

type bookingRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewBookingRepo(db *gorm.DB, baseLog *logger.Logger) BookingRepo {
    repoLog := baseLog.With("repo", "BookingRepo")
    return &bookingRepo{db: db, log: repoLog}
}

func (br *bookingRepo) Create(ctx context.Context, tx *gorm.DB, bookings []*types.Booking) ([]*types.Booking, error) {
    br.log.Info("Starting Create Bookings now...")

    transaction := tx
    if transaction == nil {
        transaction = br.db
    }

    if len(bookings) == 0 {
        return []*types.Booking{}, nil
    }

    if err := transaction.WithContext(ctx).Omit("Account", "ServiceRequest").Create(&bookings).Error; err != nil {
        br.log.Error("Failed to create bookings", "error", err)
        return nil, err
    }
    br.log.Info("Successfully created bookings", "count", len(bookings))
    return bookings, nil
}

func (br *bookingRepo) GetPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Booking, int64, error) {
    br.log.Info("Starting GetPage for Bookings...", "offset", offset, "limit", limit)

    transaction := tx
    if transaction == nil {
        transaction = br.db
    }

    var total int64
    if err := transaction.WithContext(ctx).Model(&types.Booking{}).Count(&total).Error; err != nil {
        br.log.Error("Failed to count bookings", "error", err)
        return nil, 0, err
    }

    var results []*types.Booking
    if err := transaction.WithContext(ctx).
        Preload("Account").
        Preload("ServiceRequest").
        Order("booking_date DESC").
        Offset(offset).
        Limit(limit).
        Find(&results).Error; err != nil {
        br.log.Error("Failed to fetch bookings page", "error", err)
        return nil, 0, err
    }
    br.log.Info("Successfully fetched bookings page", "count", len(results), "total", total)
    return results, total, nil
}
