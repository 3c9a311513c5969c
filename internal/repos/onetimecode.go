package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type OneTimeCodeRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, otCodes []*types.OneTimeCode) ([]*types.OneTimeCode, error)

    // READ
    GetLatestByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.OneTimeCode, error)
    CountByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) (int64, error)

    // FULL (HARD) DELETE
    FullDeleteByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) error
}

type oneTimeCodeRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewOneTimeCodeRepo(db *gorm.DB, baseLog *logger.Logger) OneTimeCodeRepo {
    repoLog := baseLog.With("repo", "OneTimeCodeRepo")
    return &oneTimeCodeRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) Create(ctx context.Context, tx *gorm.DB, otCodes []*types.OneTimeCode) ([]*types.OneTimeCode, error) {
    ocr.log.Info("Starting Create OneTimeCodes now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
        ocr.log.Debug("Transaction is nil, using ocr.db")
    }

    if len(otCodes) == 0 {
        ocr.log.Debug("No OneTimeCodes provided, returning empty slice")
        return []*types.OneTimeCode{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&otCodes).Error; err != nil {
        ocr.log.Error("Failed to create one-time codes", "error", err)
        return nil, err
    }
    ocr.log.Info("Successfully created one-time codes", "count", len(otCodes))
    return otCodes, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

// GetLatestByAccountID returns nil, nil when the account has no codes.
func (ocr *oneTimeCodeRepo) GetLatestByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.OneTimeCode, error) {
    ocr.log.Info("Starting GetLatestByAccountID for OneTimeCodes...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
    }

    var results []*types.OneTimeCode
    if err := transaction.WithContext(ctx).
        Where("account_id = ?", accountID).
        Order("created_at DESC").
        Limit(1).
        Find(&results).Error; err != nil {
        ocr.log.Error("Failed to fetch latest one-time code", "error", err)
        return nil, err
    }
    if len(results) == 0 {
        ocr.log.Debug("No one-time code found for account", "accountID", accountID)
        return nil, nil
    }
    ocr.log.Info("Successfully fetched latest one-time code", "accountID", accountID)
    return results[0], nil
}

func (ocr *oneTimeCodeRepo) CountByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) (int64, error) {
    transaction := tx
    if transaction == nil {
        transaction = ocr.db
    }

    var count int64
    if len(accountIDs) == 0 {
        return 0, nil
    }
    if err := transaction.WithContext(ctx).
        Model(&types.OneTimeCode{}).
        Where("account_id IN ?", accountIDs).
        Count(&count).Error; err != nil {
        ocr.log.Error("Failed to count one-time codes", "error", err)
        return 0, err
    }
    return count, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) FullDeleteByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) error {
    ocr.log.Info("Starting FullDeleteByAccountIDs now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
    }

    if len(accountIDs) == 0 {
        ocr.log.Debug("No account IDs provided, skipping full delete")
        return nil
    }

    res := transaction.WithContext(ctx).
        Where("account_id IN ?", accountIDs).
        Delete(&types.OneTimeCode{})
    if res.Error != nil {
        ocr.log.Error("Failed to FULL delete one-time codes by account IDs", "error", res.Error)
        return res.Error
    }
    ocr.log.Info("Successfully FULL deleted one-time codes by account IDs", "rows", res.RowsAffected)
    return nil
}
