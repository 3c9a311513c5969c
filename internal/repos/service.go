package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ServiceRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, services []*types.Service) ([]*types.Service, error)
    CreateSubservices(ctx context.Context, tx *gorm.DB, subservices []*types.Subservice) ([]*types.Subservice, error)

    // READ
    GetAllWithSubservices(ctx context.Context, tx *gorm.DB) ([]*types.Service, error)
    GetByIDs(ctx context.Context, tx *gorm.DB, serviceIDs []uuid.UUID) ([]*types.Service, error)
    GetByTitles(ctx context.Context, tx *gorm.DB, titles []string) ([]*types.Service, error)
    GetSubservicesByIDs(ctx context.Context, tx *gorm.DB, subserviceIDs []uuid.UUID) ([]*types.Subservice, error)
    GetSubservicesByServiceIDs(ctx context.Context, tx *gorm.DB, serviceIDs []uuid.UUID) ([]*types.Subservice, error)

    // FULL UPDATE
    Update(ctx context.Context, tx *gorm.DB, services []*types.Service) ([]*types.Service, error)
    UpdateSubservices(ctx context.Context, tx *gorm.DB, subservices []*types.Subservice) ([]*types.Subservice, error)
}

type serviceRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewServiceRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRepo {
    repoLog := baseLog.With("repo", "ServiceRepo")
    return &serviceRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (sr *serviceRepo) Create(ctx context.Context, tx *gorm.DB, services []*types.Service) ([]*types.Service, error) {
    sr.log.Info("Starting Create Services now...")

    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    if len(services) == 0 {
        return []*types.Service{}, nil
    }

    if err := transaction.WithContext(ctx).Omit("Subservices").Create(&services).Error; err != nil {
        sr.log.Error("Failed to create services", "error", err)
        return nil, err
    }
    sr.log.Info("Successfully created services", "count", len(services))
    return services, nil
}

func (sr *serviceRepo) CreateSubservices(ctx context.Context, tx *gorm.DB, subservices []*types.Subservice) ([]*types.Subservice, error) {
    sr.log.Info("Starting Create Subservices now...")

    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    if len(subservices) == 0 {
        return []*types.Subservice{}, nil
    }

    if err := transaction.WithContext(ctx).Create(&subservices).Error; err != nil {
        sr.log.Error("Failed to create subservices", "error", err)
        return nil, err
    }
    sr.log.Info("Successfully created subservices", "count", len(subservices))
    return subservices, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

// GetAllWithSubservices lists services oldest first, each with only its own
// subservices attached.
func (sr *serviceRepo) GetAllWithSubservices(ctx context.Context, tx *gorm.DB) ([]*types.Service, error) {
    sr.log.Info("Starting GetAllWithSubservices...")

    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    var results []*types.Service
    if err := transaction.WithContext(ctx).
        Preload("Subservices", func(db *gorm.DB) *gorm.DB {
            return db.Order("subservice.created_at ASC")
        }).
        Order("created_at ASC").
        Find(&results).Error; err != nil {
        sr.log.Error("Failed to fetch services with subservices", "error", err)
        return nil, err
    }
    sr.log.Info("Successfully fetched services with subservices", "count", len(results))
    return results, nil
}

func (sr *serviceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, serviceIDs []uuid.UUID) ([]*types.Service, error) {
    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    var results []*types.Service
    if len(serviceIDs) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("id IN ?", serviceIDs).
        Find(&results).Error; err != nil {
        sr.log.Error("Failed to fetch services by IDs", "error", err)
        return nil, err
    }
    return results, nil
}

func (sr *serviceRepo) GetByTitles(ctx context.Context, tx *gorm.DB, titles []string) ([]*types.Service, error) {
    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    var results []*types.Service
    if len(titles) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("title IN ?", titles).
        Find(&results).Error; err != nil {
        sr.log.Error("Failed to fetch services by titles", "error", err)
        return nil, err
    }
    return results, nil
}

func (sr *serviceRepo) GetSubservicesByIDs(ctx context.Context, tx *gorm.DB, subserviceIDs []uuid.UUID) ([]*types.Subservice, error) {
    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    var results []*types.Subservice
    if len(subserviceIDs) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("id IN ?", subserviceIDs).
        Find(&results).Error; err != nil {
        sr.log.Error("Failed to fetch subservices by IDs", "error", err)
        return nil, err
    }
    return results, nil
}

func (sr *serviceRepo) GetSubservicesByServiceIDs(ctx context.Context, tx *gorm.DB, serviceIDs []uuid.UUID) ([]*types.Subservice, error) {
    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    var results []*types.Subservice
    if len(serviceIDs) == 0 {
        return results, nil
    }

    if err := transaction.WithContext(ctx).
        Where("service_id IN ?", serviceIDs).
        Order("created_at ASC").
        Find(&results).Error; err != nil {
        sr.log.Error("Failed to fetch subservices by service IDs", "error", err)
        return nil, err
    }
    return results, nil
}

// ----------------------------------------------------------------
// FULL UPDATE
// ----------------------------------------------------------------

func (sr *serviceRepo) Update(ctx context.Context, tx *gorm.DB, services []*types.Service) ([]*types.Service, error) {
    sr.log.Info("Starting Update for Services now...")

    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    for i := range services {
        if err := transaction.WithContext(ctx).Omit("Subservices").Save(services[i]).Error; err != nil {
            sr.log.Error("Failed to update service", "error", err, "serviceID", services[i].ID)
            return nil, err
        }
    }
    sr.log.Info("Successfully updated services", "count", len(services))
    return services, nil
}

func (sr *serviceRepo) UpdateSubservices(ctx context.Context, tx *gorm.DB, subservices []*types.Subservice) ([]*types.Subservice, error) {
    transaction := tx
    if transaction == nil {
        transaction = sr.db
    }

    for i := range subservices {
        if err := transaction.WithContext(ctx).Save(subservices[i]).Error; err != nil {
            sr.log.Error("Failed to update subservice", "error", err, "subserviceID", subservices[i].ID)
            return nil, err
        }
    }
    sr.log.Info("Successfully updated subservices", "count", len(subservices))
    return subservices, nil
}
