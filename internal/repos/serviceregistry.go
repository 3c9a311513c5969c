package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ServiceRegistryRepo interface {
    Create(ctx context.Context, tx *gorm.DB, entries []*types.ServiceRegistry) ([]*types.ServiceRegistry, error)
    GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ServiceRegistry, error)
    GetByIDs(ctx context.Context, tx *gorm.DB, entryIDs []uuid.UUID) ([]*types.ServiceRegistry, error)
    GetByProviderAndService(ctx context.Context, tx *gorm.DB, providerID, serviceID uuid.UUID) (*types.ServiceRegistry, error)
    Update(ctx context.Context, tx *gorm.DB, entries []*types.ServiceRegistry) ([]*types.ServiceRegistry, error)
}

type serviceRegistryRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewServiceRegistryRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRegistryRepo {
    repoLog := baseLog.With("repo", "ServiceRegistryRepo")
    return &serviceRegistryRepo{db: db, log: repoLog}
}

func (srr *serviceRegistryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ServiceRegistry) ([]*types.ServiceRegistry, error) {
    srr.log.Info("Starting Create ServiceRegistry entries now...")

    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    if len(entries) == 0 {
        return []*types.ServiceRegistry{}, nil
    }

    if err := transaction.WithContext(ctx).Omit("Provider", "Service").Create(&entries).Error; err != nil {
        srr.log.Error("Failed to create registry entries", "error", err)
        return nil, err
    }
    srr.log.Info("Successfully created registry entries", "count", len(entries))
    return entries, nil
}

func (srr *serviceRegistryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ServiceRegistry, error) {
    srr.log.Info("Starting GetAll for ServiceRegistry...")

    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    var results []*types.ServiceRegistry
    if err := transaction.WithContext(ctx).
        Preload("Provider").
        Preload("Service").
        Order("created_at ASC").
        Find(&results).Error; err != nil {
        srr.log.Error("Failed to fetch registry entries", "error", err)
        return nil, err
    }
    srr.log.Info("Successfully fetched registry entries", "count", len(results))
    return results, nil
}

func (srr *serviceRegistryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, entryIDs []uuid.UUID) ([]*types.ServiceRegistry, error) {
    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    var results []*types.ServiceRegistry
    if len(entryIDs) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Preload("Provider").
        Preload("Service").
        Where("id IN ?", entryIDs).
        Find(&results).Error; err != nil {
        srr.log.Error("Failed to fetch registry entries by IDs", "error", err)
        return nil, err
    }
    return results, nil
}

// GetByProviderAndService returns nil, nil when no entry links the pair.
func (srr *serviceRegistryRepo) GetByProviderAndService(ctx context.Context, tx *gorm.DB, providerID, serviceID uuid.UUID) (*types.ServiceRegistry, error) {
    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    var results []*types.ServiceRegistry
    if err := transaction.WithContext(ctx).
        Where("provider_id = ? AND service_id = ?", providerID, serviceID).
        Limit(1).
        Find(&results).Error; err != nil {
        srr.log.Error("Failed to fetch registry entry by provider and service", "error", err)
        return nil, err
    }
    if len(results) == 0 {
        return nil, nil
    }
    return results[0], nil
}

func (srr *serviceRegistryRepo) Update(ctx context.Context, tx *gorm.DB, entries []*types.ServiceRegistry) ([]*types.ServiceRegistry, error) {
    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    for i := range entries {
        if err := transaction.WithContext(ctx).Omit("Provider", "Service").Save(entries[i]).Error; err != nil {
            srr.log.Error("Failed to update registry entry", "error", err, "entryID", entries[i].ID)
            return nil, err
        }
    }
    srr.log.Info("Successfully updated registry entries", "count", len(entries))
    return entries, nil
}
