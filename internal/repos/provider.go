package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ProviderRepo interface {
    Create(ctx context.Context, tx *gorm.DB, providers []*types.Provider) ([]*types.Provider, error)
    GetByIDs(ctx context.Context, tx *gorm.DB, providerIDs []uuid.UUID) ([]*types.Provider, error)
    GetByPhoneNumbers(ctx context.Context, tx *gorm.DB, phoneNumbers []string) ([]*types.Provider, error)
    Update(ctx context.Context, tx *gorm.DB, providers []*types.Provider) ([]*types.Provider, error)
}

type providerRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewProviderRepo(db *gorm.DB, baseLog *logger.Logger) ProviderRepo {
    repoLog := baseLog.With("repo", "ProviderRepo")
    return &providerRepo{db: db, log: repoLog}
}

func (pr *providerRepo) Create(ctx context.Context, tx *gorm.DB, providers []*types.Provider) ([]*types.Provider, error) {
    pr.log.Info("Starting Create Providers now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    if len(providers) == 0 {
        return []*types.Provider{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&providers).Error; err != nil {
        pr.log.Error("Failed to create providers", "error", err)
        return nil, err
    }
    pr.log.Info("Successfully created providers", "count", len(providers))
    return providers, nil
}

func (pr *providerRepo) GetByIDs(ctx context.Context, tx *gorm.DB, providerIDs []uuid.UUID) ([]*types.Provider, error) {
    pr.log.Info("Starting GetByIDs for Providers...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    var results []*types.Provider
    if len(providerIDs) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("id IN ?", providerIDs).
        Find(&results).Error; err != nil {
        pr.log.Error("Failed to fetch providers by IDs", "error", err)
        return nil, err
    }
    pr.log.Info("Successfully fetched providers by IDs", "count", len(results))
    return results, nil
}

func (pr *providerRepo) GetByPhoneNumbers(ctx context.Context, tx *gorm.DB, phoneNumbers []string) ([]*types.Provider, error) {
    pr.log.Info("Starting GetByPhoneNumbers for Providers...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    var results []*types.Provider
    if len(phoneNumbers) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("phone_number IN ?", phoneNumbers).
        Find(&results).Error; err != nil {
        pr.log.Error("Failed to fetch providers by phone numbers", "error", err)
        return nil, err
    }
    return results, nil
}

func (pr *providerRepo) Update(ctx context.Context, tx *gorm.DB, providers []*types.Provider) ([]*types.Provider, error) {
    pr.log.Info("Starting Update for Providers now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    for i := range providers {
        if err := transaction.WithContext(ctx).Save(providers[i]).Error; err != nil {
            pr.log.Error("Failed to update provider", "error", err, "providerID", providers[i].ID)
            return nil, err
        }
    }
    pr.log.Info("Successfully updated providers", "count", len(providers))
    return providers, nil
}
