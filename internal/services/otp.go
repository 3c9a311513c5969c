package services

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/metrics"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

// OTPValidity is how long a login code stays usable after issuance.
const OTPValidity = 5 * time.Minute

type OTPService interface {
  Issue(ctx context.Context, tx *gorm.DB, account *types.Account) (string, error)
  Verify(ctx context.Context, email, code string) (*types.Account, error)
}

type otpService struct {
  db                *gorm.DB
  log               *logger.Logger
  accountRepo       repos.AccountRepo
  oneTimeCodeRepo   repos.OneTimeCodeRepo
  now               func() time.Time
}

func NewOTPService(
  db                *gorm.DB,
  log               *logger.Logger,
  accountRepo       repos.AccountRepo,
  oneTimeCodeRepo   repos.OneTimeCodeRepo,
) OTPService {
  serviceLog := log.With("service", "OTPService")
  return &otpService{
    db:               db,
    log:              serviceLog,
    accountRepo:      accountRepo,
    oneTimeCodeRepo:  oneTimeCodeRepo,
    now:              time.Now,
  }
}

// Issue stores a fresh code for the account. Older codes are kept; only the
// newest one is ever checked.
func (ots *otpService) Issue(ctx context.Context, tx *gorm.DB, account *types.Account) (string, error) {
  ots.log.Info("Issuing one-time code now...", "accountID", account.ID)
  code, err := utils.GenerateNumericCode()
  if err != nil {
    return "", errs.Internal("failed to generate one-time code", err)
  }
  otc := &types.OneTimeCode{
    ID:         uuid.New(),
    AccountID:  account.ID,
    Code:       code,
    CreatedAt:  ots.now().UTC(),
  }
  if _, err := ots.oneTimeCodeRepo.Create(ctx, tx, []*types.OneTimeCode{otc}); err != nil {
    ots.log.Warn("Failed to persist one-time code, Cannot proceed. Returning error.", "error", err)
    return "", errs.Internal("failed to store one-time code", err)
  }
  ots.log.Info("One-time code issued :)", "accountID", account.ID)
  return code, nil
}

// Verify checks code against the account's newest code. A mismatch is
// reported before expiry. On success every code of the account is deleted.
func (ots *otpService) Verify(ctx context.Context, email, code string) (*types.Account, error) {
  ots.log.Info("Starting Verify one-time code now...")
  email = utils.NormalizeEmail(email)

  var verified *types.Account
  err := ots.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    accounts, err := ots.accountRepo.GetByEmails(ctx, tx, []string{email})
    if err != nil {
      return errs.Internal("failed to load account", err)
    }
    if len(accounts) == 0 {
      ots.log.Warn("No account for email, Cannot proceed.")
      metrics.OTPVerificationsTotal.WithLabelValues("unknown_account").Inc()
      return errs.NotFound("User with this email does not exist.")
    }
    account := accounts[0]

    latest, err := ots.oneTimeCodeRepo.GetLatestByAccountID(ctx, tx, account.ID)
    if err != nil {
      return errs.Internal("failed to load one-time code", err)
    }
    if latest == nil {
      ots.log.Warn("No one-time code for account, Cannot proceed.", "accountID", account.ID)
      metrics.OTPVerificationsTotal.WithLabelValues("no_code").Inc()
      return errs.NotFound("No OTP found for this user.")
    }
    if latest.Code != code {
      ots.log.Warn("One-time code mismatch", "accountID", account.ID)
      metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
      return errs.Validation("Invalid OTP code.")
    }
    if ots.now().Sub(latest.CreatedAt) > OTPValidity {
      ots.log.Warn("One-time code expired", "accountID", account.ID, "issuedAt", latest.CreatedAt)
      metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
      return errs.Validation("OTP has expired.")
    }

    if err := ots.oneTimeCodeRepo.FullDeleteByAccountIDs(ctx, tx, []uuid.UUID{account.ID}); err != nil {
      return errs.Internal("failed to consume one-time codes", err)
    }
    verified = account
    return nil
  })
  if err != nil {
    return nil, err
  }
  metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
  ots.log.Info("One-time code verified :)", "accountID", verified.ID)
  return verified, nil
}
