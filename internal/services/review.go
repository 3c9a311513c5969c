package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type ReviewerView struct {
  ID      uuid.UUID   `json:"id"`
  Name    string      `json:"name"`
}

type ReviewView struct {
  ID                uuid.UUID       `json:"id"`
  User              ReviewerView    `json:"user"`
  ServiceRegistry   RegistryView    `json:"service_registry"`
  Rating            int             `json:"rating"`
  Comment           string          `json:"comment"`
  CreatedAt         time.Time       `json:"created_at"`
}

func NewReviewView(review *types.Review) ReviewView {
  view := ReviewView{
    ID:         review.ID,
    User:       ReviewerView{ID: review.AccountID},
    Rating:     review.Rating,
    Comment:    review.Comment,
    CreatedAt:  review.CreatedAt,
  }
  if review.Account != nil {
    view.User.Name = review.Account.Name
  }
  if review.ServiceRegistry != nil {
    view.ServiceRegistry = NewRegistryView(review.ServiceRegistry)
  } else {
    view.ServiceRegistry = RegistryView{ID: review.ServiceRegistryID}
  }
  return view
}

type ReviewInput struct {
  ServiceRegistryID   uuid.UUID
  Rating              int
  Comment             string
}

type ReviewService interface {
  List(ctx context.Context) ([]ReviewView, error)
  Create(ctx context.Context, accountID uuid.UUID, in ReviewInput) (*ReviewView, error)
}

type reviewService struct {
  db                    *gorm.DB
  log                   *logger.Logger
  reviewRepo            repos.ReviewRepo
  serviceRegistryRepo   repos.ServiceRegistryRepo
  accountRepo           repos.AccountRepo
}

func NewReviewService(
  db                    *gorm.DB,
  log                   *logger.Logger,
  reviewRepo            repos.ReviewRepo,
  serviceRegistryRepo   repos.ServiceRegistryRepo,
  accountRepo           repos.AccountRepo,
) ReviewService {
  serviceLog := log.With("service", "ReviewService")
  return &reviewService{
    db:                   db,
    log:                  serviceLog,
    reviewRepo:           reviewRepo,
    serviceRegistryRepo:  serviceRegistryRepo,
    accountRepo:          accountRepo,
  }
}

func (rs *reviewService) List(ctx context.Context) ([]ReviewView, error) {
  reviews, err := rs.reviewRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, errs.Internal("failed to load reviews", err)
  }
  views := make([]ReviewView, 0, len(reviews))
  for _, r := range reviews {
    views = append(views, NewReviewView(r))
  }
  return views, nil
}

func (rs *reviewService) Create(ctx context.Context, accountID uuid.UUID, in ReviewInput) (*ReviewView, error) {
  rs.log.Info("Starting Create Review now...", "accountID", accountID, "registryID", in.ServiceRegistryID)

  fields := errs.FieldErrors{}
  if in.Rating < types.MinRating || in.Rating > types.MaxRating {
    fields.Add("rating", fmt.Sprintf("Rating must be between %d and %d.", types.MinRating, types.MaxRating))
  }
  if in.ServiceRegistryID == uuid.Nil {
    fields.Add("service_registry", "This field is required.")
  }
  if len(fields) > 0 {
    return nil, errs.ValidationFields(fields)
  }

  var view ReviewView
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    entries, err := rs.serviceRegistryRepo.GetByIDs(ctx, tx, []uuid.UUID{in.ServiceRegistryID})
    if err != nil {
      return errs.Internal("failed to load registry entry", err)
    }
    if len(entries) == 0 {
      return errs.Field("service_registry", "Invalid service registry entry.")
    }
    accounts, err := rs.accountRepo.GetByIDs(ctx, tx, []uuid.UUID{accountID})
    if err != nil {
      return errs.Internal("failed to load account", err)
    }
    if len(accounts) == 0 {
      return errs.Unauthorized("Account no longer exists.")
    }

    review := &types.Review{
      ID:                 uuid.New(),
      AccountID:          accountID,
      ServiceRegistryID:  entries[0].ID,
      Rating:             in.Rating,
      Comment:            in.Comment,
    }
    if _, err := rs.reviewRepo.Create(ctx, tx, []*types.Review{review}); err != nil {
      return errs.Internal("failed to create review", err)
    }
    review.Account = accounts[0]
    review.ServiceRegistry = entries[0]
    view = NewReviewView(review)
    return nil
  })
  if err != nil {
    return nil, err
  }
  rs.log.Info("Review created :)", "reviewID", view.ID)
  return &view, nil
}
