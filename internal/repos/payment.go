package repos

import (
    "context"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type PaymentRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, payments []*types.Payment) ([]*types.Payment, error)

    // READ
    GetByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []string) ([]*types.Payment, error)
    LockByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*types.Payment, error)

    // FULL UPDATE
    Update(ctx context.Context, tx *gorm.DB, payments []*types.Payment) ([]*types.Payment, error)

    // PARTIAL UPDATE
    MarkCreatedAsFailed(ctx context.Context, tx *gorm.DB, orderID string) (int64, error)
}

type paymentRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
    repoLog := baseLog.With("repo", "PaymentRepo")
    return &paymentRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (pr *paymentRepo) Create(ctx context.Context, tx *gorm.DB, payments []*types.Payment) ([]*types.Payment, error) {
    pr.log.Info("Starting Create Payments now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    if len(payments) == 0 {
        return []*types.Payment{}, nil
    }

    if err := transaction.WithContext(ctx).Omit("Account", "Provider").Create(&payments).Error; err != nil {
        pr.log.Error("Failed to create payments", "error", err)
        return nil, err
    }
    pr.log.Info("Successfully created payments", "count", len(payments))
    return payments, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (pr *paymentRepo) GetByOrderIDs(ctx context.Context, tx *gorm.DB, orderIDs []string) ([]*types.Payment, error) {
    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    var results []*types.Payment
    if len(orderIDs) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("order_id IN ?", orderIDs).
        Find(&results).Error; err != nil {
        pr.log.Error("Failed to fetch payments by order IDs", "error", err)
        return nil, err
    }
    return results, nil
}

// LockByOrderID loads the payment row FOR UPDATE. It must run inside a
// transaction. Returns nil, nil when no row has the order id.
func (pr *paymentRepo) LockByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*types.Payment, error) {
    pr.log.Info("Locking Payment row (for update)...", "orderID", orderID)

    transaction := tx
    if transaction == nil {
        transaction = pr.db
        pr.log.Warn("LockByOrderID called without a transaction, lock is released immediately")
    }

    var results []*types.Payment
    if err := transaction.WithContext(ctx).
        Clauses(clause.Locking{Strength: "UPDATE"}).
        Where("order_id = ?", orderID).
        Limit(1).
        Find(&results).Error; err != nil {
        pr.log.Error("Failed to lock payment by order ID", "error", err)
        return nil, err
    }
    if len(results) == 0 {
        pr.log.Debug("No payment found for order", "orderID", orderID)
        return nil, nil
    }
    return results[0], nil
}

// ----------------------------------------------------------------
// FULL UPDATE
// ----------------------------------------------------------------

func (pr *paymentRepo) Update(ctx context.Context, tx *gorm.DB, payments []*types.Payment) ([]*types.Payment, error) {
    pr.log.Info("Starting Update for Payments now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    for i := range payments {
        if err := transaction.WithContext(ctx).Omit("Account", "Provider").Save(payments[i]).Error; err != nil {
            pr.log.Error("Failed to update payment", "error", err, "paymentID", payments[i].ID)
            return nil, err
        }
    }
    pr.log.Info("Successfully updated payments", "count", len(payments))
    return payments, nil
}

// ----------------------------------------------------------------
// PARTIAL UPDATE
// ----------------------------------------------------------------

// MarkCreatedAsFailed flips every still-created row for the order to failed.
// Zero affected rows is not an error.
func (pr *paymentRepo) MarkCreatedAsFailed(ctx context.Context, tx *gorm.DB, orderID string) (int64, error) {
    pr.log.Info("Starting MarkCreatedAsFailed for Payments now...", "orderID", orderID)

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    res := transaction.WithContext(ctx).
        Model(&types.Payment{}).
        Where("order_id = ? AND status = ?", orderID, types.PaymentStatusCreated).
        Update("status", types.PaymentStatusFailed)
    if res.Error != nil {
        pr.log.Error("Failed to mark payments as failed", "error", res.Error)
        return 0, res.Error
    }
    pr.log.Info("Marked payments as failed", "orderID", orderID, "rows", res.RowsAffected)
    return res.RowsAffected, nil
}
