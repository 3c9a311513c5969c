package repos

import (
    "context"

    "gorm.io/gorm"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
    "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ReviewRepo interface {
    Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error)
    // GetAll lists reviews newest first with the author and registry entry loaded.
    GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Review, error)
}

type reviewRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
    repoLog := baseLog.With("repo", "ReviewRepo")
    return &reviewRepo{db: db, log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error) {
    rr.log.Info("Starting Create Reviews now...")

    transaction := tx
    if transaction == nil {
        transaction = rr.db
    }

    if len(reviews) == 0 {
        return []*types.Review{}, nil
    }

    if err := transaction.WithContext(ctx).Omit("Account", "ServiceRegistry").Create(&reviews).Error; err != nil {
        rr.log.Error("Failed to create reviews", "error", err)
        return nil, err
    }
    rr.log.Info("Successfully created reviews", "count", len(reviews))
    return reviews, nil
}

func (rr *reviewRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Review, error) {
    rr.log.Info("Starting GetAll for Reviews...")

    transaction := tx
    if transaction == nil {
        transaction = rr.db
    }

    var results []*types.Review
    if err := transaction.WithContext(ctx).
        Preload("Account").
        Preload("ServiceRegistry.Provider").
        Preload("ServiceRegistry.Service").
        Order("created_at DESC").
        Find(&results).Error; err != nil {
        rr.log.Error("Failed to fetch reviews", "error", err)
        return nil, err
    }
    rr.log.Info("Successfully fetched reviews", "count", len(results))
    return results, nil
}
