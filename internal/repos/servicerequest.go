package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ServiceRequestRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, requests []*types.ServiceRequest) ([]*types.ServiceRequest, error)

    // READ
    GetByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.ServiceRequest, error)
    GetByIDForAccount(ctx context.Context, tx *gorm.DB, requestID, accountID uuid.UUID) (*types.ServiceRequest, error)

    // FULL UPDATE
    Update(ctx context.Context, tx *gorm.DB, requests []*types.ServiceRequest) ([]*types.ServiceRequest, error)

    // FULL (HARD) DELETE
    FullDeleteByIDs(ctx context.Context, tx *gorm.DB, requestIDs []uuid.UUID) error
}

type serviceRequestRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewServiceRequestRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRequestRepo {
    repoLog := baseLog.With("repo", "ServiceRequestRepo")
    return &serviceRequestRepo{db: db, log: repoLog}
}

func (srr *serviceRequestRepo) Create(ctx context.Context, tx *gorm.DB, requests []*types.ServiceRequest) ([]*types.ServiceRequest, error) {
    srr.log.Info("Starting Create ServiceRequests now...")

    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    if len(requests) == 0 {
        return []*types.ServiceRequest{}, nil
    }

    if err := transaction.WithContext(ctx).Omit("Account", "Service", "Subservice").Create(&requests).Error; err != nil {
        srr.log.Error("Failed to create service requests", "error", err)
        return nil, err
    }
    srr.log.Info("Successfully created service requests", "count", len(requests))
    return requests, nil
}

func (srr *serviceRequestRepo) GetByAccountID(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) ([]*types.ServiceRequest, error) {
    srr.log.Info("Starting GetByAccountID for ServiceRequests...")

    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    var results []*types.ServiceRequest
    if err := transaction.WithContext(ctx).
        Where("account_id = ?", accountID).
        Order("created_at DESC").
        Find(&results).Error; err != nil {
        srr.log.Error("Failed to fetch service requests by account", "error", err)
        return nil, err
    }
    srr.log.Info("Successfully fetched service requests by account", "count", len(results))
    return results, nil
}

// GetByIDForAccount returns nil, nil when the request does not exist or
// belongs to someone else.
func (srr *serviceRequestRepo) GetByIDForAccount(ctx context.Context, tx *gorm.DB, requestID, accountID uuid.UUID) (*types.ServiceRequest, error) {
    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    var results []*types.ServiceRequest
    if err := transaction.WithContext(ctx).
        Where("id = ? AND account_id = ?", requestID, accountID).
        Limit(1).
        Find(&results).Error; err != nil {
        srr.log.Error("Failed to fetch service request", "error", err)
        return nil, err
    }
    if len(results) == 0 {
        srr.log.Debug("Service request not found for account", "requestID", requestID, "accountID", accountID)
        return nil, nil
    }
    return results[0], nil
}

func (srr *serviceRequestRepo) Update(ctx context.Context, tx *gorm.DB, requests []*types.ServiceRequest) ([]*types.ServiceRequest, error) {
    srr.log.Info("Starting Update for ServiceRequests now...")

    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    for i := range requests {
        if err := transaction.WithContext(ctx).Omit("Account", "Service", "Subservice").Save(requests[i]).Error; err != nil {
            srr.log.Error("Failed to update service request", "error", err, "requestID", requests[i].ID)
            return nil, err
        }
    }
    srr.log.Info("Successfully updated service requests", "count", len(requests))
    return requests, nil
}

func (srr *serviceRequestRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, requestIDs []uuid.UUID) error {
    srr.log.Info("Starting FullDeleteByIDs for ServiceRequests now...")

    transaction := tx
    if transaction == nil {
        transaction = srr.db
    }

    if len(requestIDs) == 0 {
        return nil
    }

    if err := transaction.WithContext(ctx).
        Where("id IN ?", requestIDs).
        Delete(&types.ServiceRequest{}).Error; err != nil {
        srr.log.Error("Failed to FULL delete service requests", "error", err)
        return err
    }
    srr.log.Info("Successfully FULL deleted service requests", "count", len(requestIDs))
    return nil
}
