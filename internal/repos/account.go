package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type AccountRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, accounts []*types.Account) ([]*types.Account, error)

    // READ
    GetByIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) ([]*types.Account, error)
    GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.Account, error)
    EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type accountRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
    repoLog := baseLog.With("repo", "AccountRepo")
    return &accountRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ar *accountRepo) Create(ctx context.Context, tx *gorm.DB, accounts []*types.Account) ([]*types.Account, error) {
    ar.log.Info("Starting Create Accounts now...")

    transaction := tx
    if transaction == nil {
        transaction = ar.db
        ar.log.Debug("Transaction is nil, using ar.db")
    }

    if len(accounts) == 0 {
        ar.log.Debug("No Accounts provided, returning empty slice")
        return []*types.Account{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&accounts).Error; err != nil {
        ar.log.Error("Failed to create accounts", "error", err)
        return nil, err
    }
    ar.log.Info("Successfully created accounts", "count", len(accounts))
    return accounts, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (ar *accountRepo) GetByIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) ([]*types.Account, error) {
    ar.log.Info("Starting GetByIDs for Accounts...")

    transaction := tx
    if transaction == nil {
        transaction = ar.db
    }

    var results []*types.Account
    if len(accountIDs) == 0 {
        ar.log.Debug("No AccountIDs provided, returning empty slice")
        return results, nil
    }
    ar.log.Debug("AccountIDs provided", "count", len(accountIDs), "accountIDs", accountIDs)

    if err := transaction.WithContext(ctx).
        Where("id IN ?", accountIDs).
        Find(&results).Error; err != nil {
        ar.log.Error("Failed to fetch accounts by IDs", "error", err)
        return nil, err
    }
    ar.log.Info("Successfully fetched accounts by IDs", "count", len(results))
    return results, nil
}

func (ar *accountRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.Account, error) {
    ar.log.Info("Starting GetByEmails for Accounts...")

    transaction := tx
    if transaction == nil {
        transaction = ar.db
    }

    var results []*types.Account
    if len(emails) == 0 {
        ar.log.Debug("No emails provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("email IN ?", emails).
        Find(&results).Error; err != nil {
        ar.log.Error("Failed to fetch accounts by emails", "error", err)
        return nil, err
    }
    ar.log.Info("Successfully fetched accounts by emails", "count", len(results))
    return results, nil
}

func (ar *accountRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
    ar.log.Info("Starting EmailExists for Accounts...")

    transaction := tx
    if transaction == nil {
        transaction = ar.db
    }

    var count int64
    if err := transaction.WithContext(ctx).
        Model(&types.Account{}).
        Where("email = ?", email).
        Count(&count).Error; err != nil {
        ar.log.Error("Failed to count accounts by email", "error", err)
        return false, err
    }
    ar.log.Debug("EmailExists result", "email", email, "count", count)
    return count > 0, nil
}
