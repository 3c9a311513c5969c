package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ProfileRepo interface {
    Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)
    GetByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.Profile, error)
    Update(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)
    FullDeleteByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) (int64, error)
}

type profileRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
    repoLog := baseLog.With("repo", "ProfileRepo")
    return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
    pr.log.Info("Starting Create Profiles now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    if len(profiles) == 0 {
        return []*types.Profile{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
        pr.log.Error("Failed to create profiles", "error", err)
        return nil, err
    }
    pr.log.Info("Successfully created profiles", "count", len(profiles))
    return profiles, nil
}

// GetByAccountID returns nil, nil when the account has no profile.
func (pr *profileRepo) GetByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*types.Profile, error) {
    pr.log.Info("Starting GetByAccountID for Profile...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    var results []*types.Profile
    if err := transaction.WithContext(ctx).
        Where("account_id = ?", accountID).
        Limit(1).
        Find(&results).Error; err != nil {
        pr.log.Error("Failed to fetch profile by account ID", "error", err)
        return nil, err
    }
    if len(results) == 0 {
        pr.log.Debug("No profile for account", "accountID", accountID)
        return nil, nil
    }
    return results[0], nil
}

func (pr *profileRepo) Update(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
    pr.log.Info("Starting Update for Profiles now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    for i := range profiles {
        if err := transaction.WithContext(ctx).Save(profiles[i]).Error; err != nil {
            pr.log.Error("Failed to update profile", "error", err, "profileID", profiles[i].ID)
            return nil, err
        }
    }
    pr.log.Info("Successfully updated profiles", "count", len(profiles))
    return profiles, nil
}

func (pr *profileRepo) FullDeleteByAccountIDs(ctx context.Context, tx *gorm.DB, accountIDs []uuid.UUID) (int64, error) {
    pr.log.Info("Starting FullDeleteByAccountIDs for Profiles now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    if len(accountIDs) == 0 {
        return 0, nil
    }

    res := transaction.WithContext(ctx).
        Where("account_id IN ?", accountIDs).
        Delete(&types.Profile{})
    if res.Error != nil {
        pr.log.Error("Failed to FULL delete profiles", "error", res.Error)
        return 0, res.Error
    }
    pr.log.Info("Successfully FULL deleted profiles", "rows", res.RowsAffected)
    return res.RowsAffected, nil
}
