package services

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
)

const profileNotFoundMessage = "Profile not found."

// ProfileInput carries profile fields. A nil field is cleared by Replace and
// left untouched by Patch.
type ProfileInput struct {
  FullName      *string
  Address       *string
  Email         *string
  PhoneNumber   *string
  DateOfBirth   *time.Time
  Gender        *string
  HouseName     *string
  Landmark      *string
  PinCode       *string
  District      *string
  State         *string
}

type ProfileService interface {
  Get(ctx context.Context, accountID uuid.UUID) (*types.Profile, error)
  Create(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*types.Profile, error)
  Replace(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*types.Profile, error)
  Patch(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*types.Profile, error)
  Delete(ctx context.Context, accountID uuid.UUID) error
}

type profileService struct {
  db            *gorm.DB
  log           *logger.Logger
  profileRepo   repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo) ProfileService {
  serviceLog := log.With("service", "ProfileService")
  return &profileService{
    db:           db,
    log:          serviceLog,
    profileRepo:  profileRepo,
  }
}

func (ps *profileService) Get(ctx context.Context, accountID uuid.UUID) (*types.Profile, error) {
  profile, err := ps.profileRepo.GetByAccountID(ctx, nil, accountID)
  if err != nil {
    return nil, errs.Internal("failed to load profile", err)
  }
  if profile == nil {
    return nil, errs.NotFound(profileNotFoundMessage)
  }
  return profile, nil
}

func (ps *profileService) Create(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*types.Profile, error) {
  ps.log.Info("Starting Create Profile now...", "accountID", accountID)
  var created *types.Profile
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := ps.profileRepo.GetByAccountID(ctx, tx, accountID)
    if err != nil {
      return errs.Internal("failed to load profile", err)
    }
    if existing != nil {
      ps.log.Warn("Profile already exists, Cannot proceed.", "accountID", accountID)
      return errs.Validation("Profile already exists.")
    }
    profile := &types.Profile{ID: uuid.New(), AccountID: accountID}
    applyProfile(profile, in, true)
    if _, err := ps.profileRepo.Create(ctx, tx, []*types.Profile{profile}); err != nil {
      return errs.Internal("failed to create profile", err)
    }
    created = profile
    return nil
  })
  if err != nil {
    return nil, err
  }
  ps.log.Info("Profile created :)", "profileID", created.ID)
  return created, nil
}

func (ps *profileService) Replace(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*types.Profile, error) {
  return ps.update(ctx, accountID, in, true)
}

func (ps *profileService) Patch(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*types.Profile, error) {
  return ps.update(ctx, accountID, in, false)
}

func (ps *profileService) update(ctx context.Context, accountID uuid.UUID, in ProfileInput, full bool) (*types.Profile, error) {
  var updated *types.Profile
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    profile, err := ps.profileRepo.GetByAccountID(ctx, tx, accountID)
    if err != nil {
      return errs.Internal("failed to load profile", err)
    }
    if profile == nil {
      return errs.NotFound(profileNotFoundMessage)
    }
    applyProfile(profile, in, full)
    if _, err := ps.profileRepo.Update(ctx, tx, []*types.Profile{profile}); err != nil {
      return errs.Internal("failed to update profile", err)
    }
    updated = profile
    return nil
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

func (ps *profileService) Delete(ctx context.Context, accountID uuid.UUID) error {
  deleted, err := ps.profileRepo.FullDeleteByAccountIDs(ctx, nil, []uuid.UUID{accountID})
  if err != nil {
    return errs.Internal("failed to delete profile", err)
  }
  if deleted == 0 {
    return errs.NotFound(profileNotFoundMessage)
  }
  ps.log.Info("Profile deleted :)", "accountID", accountID)
  return nil
}

func applyProfile(p *types.Profile, in ProfileInput, full bool) {
  setString := func(dst *string, src *string) {
    if src != nil {
      *dst = *src
    } else if full {
      *dst = ""
    }
  }
  setString(&p.FullName, in.FullName)
  setString(&p.Address, in.Address)
  setString(&p.Email, in.Email)
  setString(&p.PhoneNumber, in.PhoneNumber)
  setString(&p.Gender, in.Gender)
  setString(&p.HouseName, in.HouseName)
  setString(&p.Landmark, in.Landmark)
  setString(&p.PinCode, in.PinCode)
  setString(&p.District, in.District)
  setString(&p.State, in.State)

  if in.DateOfBirth != nil {
    dob := datatypes.Date(*in.DateOfBirth)
    p.DateOfBirth = &dob
  } else if full {
    p.DateOfBirth = nil
  }
}
