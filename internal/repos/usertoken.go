package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type UserTokenRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) ([]*types.UserToken, error)

    // READ
    GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error)
    GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error)

    // FULL (HARD) DELETE
    FullDeleteByTokens(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) error
    FullDeleteByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) error
}

type userTokenRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
    repoLog := baseLog.With("repo", "UserTokenRepo")
    return &userTokenRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (utr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) ([]*types.UserToken, error) {
    utr.log.Info("Starting Create UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    if len(userTokens) == 0 {
        utr.log.Debug("No UserTokens provided, returning empty slice")
        return []*types.UserToken{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&userTokens).Error; err != nil {
        utr.log.Error("Failed to create user tokens", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully created user tokens", "count", len(userTokens))
    return userTokens, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (utr *userTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
    utr.log.Info("Starting GetByAccessTokens for UserTokens...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    var results []*types.UserToken
    if len(accessTokens) == 0 {
        utr.log.Debug("No access tokens provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("access_token IN ?", accessTokens).
        Find(&results).Error; err != nil {
        utr.log.Error("Failed to fetch user tokens by access tokens", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully fetched user tokens by access tokens", "count", len(results))
    return results, nil
}

func (utr *userTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
    utr.log.Info("Starting GetByRefreshTokens for UserTokens...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    var results []*types.UserToken
    if len(refreshTokens) == 0 {
        utr.log.Debug("No refresh tokens provided, returning empty slice")
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("refresh_token IN ?", refreshTokens).
        Find(&results).Error; err != nil {
        utr.log.Error("Failed to fetch user tokens by refresh tokens", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully fetched user tokens by refresh tokens", "count", len(results))
    return results, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (utr *userTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, userTokens []*types.UserToken) error {
    utr.log.Info("Starting FullDeleteByTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    if len(userTokens) == 0 {
        utr.log.Debug("No user tokens provided, skipping full delete")
        return nil
    }

    var ids []uuid.UUID
    for _, t := range userTokens {
        ids = append(ids, t.ID)
    }

    if err := transaction.WithContext(ctx).
        Where("id IN ?", ids).
        Delete(&types.UserToken{}).Error; err != nil {
        utr.log.Error("Failed to FULL delete user tokens", "error", err)
        return err
    }
    utr.log.Info("Successfully FULL deleted user tokens", "count", len(ids))
    return nil
}

func (utr *userTokenRepo) FullDeleteByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) error {
    utr.log.Info("Starting FullDeleteByAccountIDs for UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    if len(accountIDs) == 0 {
        return nil
    }

    if err := transaction.WithContext(ctx).
        Where("account_id IN ?", accountIDs).
        Delete(&types.UserToken{}).Error; err != nil {
        utr.log.Error("Failed to FULL delete user tokens by account IDs", "error", err)
        return err
    }
    utr.log.Info("Successfully FULL deleted user tokens by account IDs", "count", len(accountIDs))
    return nil
}
