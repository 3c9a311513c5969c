package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/errs"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/metrics"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/requestdata"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

const invalidTokenMessage = "Token is invalid or expired"

type JWTClaims struct {
  jwt.RegisteredClaims
  Email       string      `json:"email,omitempty"`
}

type RegisterInput struct {
  Name          string
  Email         string
  Password      string
  PhoneNumber   string
}

type TokenPair struct {
  Access        string
  Refresh       string
  ExpiresIn     int
}

type AuthService interface {
  Register(ctx context.Context, in RegisterInput) (*types.Account, error)
  Login(ctx context.Context, email, password string) (*types.Account, error)
  VerifyOTP(ctx context.Context, email, code string) (*types.Account, *TokenPair, error)
  Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
  // Logout ends the session owning refreshToken, or with all set every
  // session of that account.
  Logout(ctx context.Context, refreshToken string, all bool) error

  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db                *gorm.DB
  log               *logger.Logger
  accountRepo       repos.AccountRepo
  userTokenRepo     repos.UserTokenRepo
  otpService        OTPService
  notifier          Notifier
  jwtSecretKey      string
  accessTTL         time.Duration
  refreshTTL        time.Duration
  now               func() time.Time
}

func NewAuthService(
  db                *gorm.DB,
  log               *logger.Logger,
  accountRepo       repos.AccountRepo,
  userTokenRepo     repos.UserTokenRepo,
  otpService        OTPService,
  notifier          Notifier,
  jwtSecretKey      string,
  accessTTL         time.Duration,
  refreshTTL        time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:             db,
    log:            serviceLog,
    accountRepo:    accountRepo,
    userTokenRepo:  userTokenRepo,
    otpService:     otpService,
    notifier:       notifier,
    jwtSecretKey:   jwtSecretKey,
    accessTTL:      accessTTL,
    refreshTTL:     refreshTTL,
    now:            time.Now,
  }
}

//----------------------------------------------------------------------------------------------------------------------
// Register
//----------------------------------------------------------------------------------------------------------------------

const duplicateEmailMessage = "user with this email already exists."

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.Account, error) {
  as.log.Info("Starting Register Account now...")

  //1) Normalize and validate
  in.Name = strings.TrimSpace(in.Name)
  in.Email = utils.NormalizeEmail(in.Email)
  in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
  fields := errs.FieldErrors{}
  if in.Name == "" {
    fields.Add("name", "This field is required.")
  }
  if in.Email == "" {
    fields.Add("email", "This field is required.")
  }
  if len(in.Password) < utils.MinPasswordLength {
    fields.Add("password", "Password must be at least 8 characters long.")
  }
  if in.Email != "" {
    exists, err := as.accountRepo.EmailExists(ctx, nil, in.Email)
    if err != nil {
      return nil, errs.Internal("failed to check email", err)
    }
    if exists {
      fields.Add("email", duplicateEmailMessage)
    }
  }
  if len(fields) > 0 {
    as.log.Warn("Registration input invalid, Cannot proceed.", "fields", fields)
    metrics.AuthRegistrationsTotal.WithLabelValues("invalid").Inc()
    return nil, errs.ValidationFields(fields)
  }

  //2) Hash Password
  hashed, err := utils.HashPassword(in.Password)
  if err != nil {
    return nil, errs.Internal("failed to hash password", err)
  }

  //3) Create
  account := &types.Account{
    ID:           uuid.New(),
    Name:         in.Name,
    Email:        in.Email,
    Password:     hashed,
    PhoneNumber:  in.PhoneNumber,
  }
  if _, err := as.accountRepo.Create(ctx, nil, []*types.Account{account}); err != nil {
    // A concurrent registration can win between EmailExists and Create.
    if errors.Is(err, gorm.ErrDuplicatedKey) {
      as.log.Warn("Email registered concurrently, Cannot proceed.", "email", in.Email)
      metrics.AuthRegistrationsTotal.WithLabelValues("invalid").Inc()
      return nil, errs.Field("email", duplicateEmailMessage)
    }
    as.log.Warn("Failed to create account, Cannot proceed. Returning error.", "error", err)
    metrics.AuthRegistrationsTotal.WithLabelValues("error").Inc()
    return nil, errs.Internal("failed to create account", err)
  }
  metrics.AuthRegistrationsTotal.WithLabelValues("success").Inc()
  as.log.Info("Account registered :)", "accountID", account.ID)
  return account, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Login, VerifyOTP
//----------------------------------------------------------------------------------------------------------------------

// Login checks the password and sends a fresh one-time code. Delivery
// failures are logged and do not fail the login.
func (as *authService) Login(ctx context.Context, email, password string) (*types.Account, error) {
  email = utils.NormalizeEmail(email)
  if email == "" || password == "" {
    return nil, errs.Validation("Email and password are required.")
  }

  accounts, err := as.accountRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return nil, errs.Internal("failed to load account", err)
  }
  if len(accounts) == 0 || !utils.CheckPassword(accounts[0].Password, password) {
    as.log.Warn("Invalid email or password")
    metrics.AuthLoginsTotal.WithLabelValues("invalid_credentials").Inc()
    return nil, errs.Unauthorized("Invalid email or password.")
  }
  account := accounts[0]

  code, err := as.otpService.Issue(ctx, nil, account)
  if err != nil {
    metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
    return nil, err
  }
  if as.notifier != nil {
    if nErr := as.notifier.SendLoginCode(ctx, account, code); nErr != nil {
      as.log.Warn("Failed to deliver login code, continuing", "accountID", account.ID, "error", nErr)
    }
  }
  metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
  return account, nil
}

func (as *authService) VerifyOTP(ctx context.Context, email, code string) (*types.Account, *TokenPair, error) {
  account, err := as.otpService.Verify(ctx, email, code)
  if err != nil {
    return nil, nil, err
  }
  var pair *TokenPair
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    p, iErr := as.issueTokens(ctx, tx, account)
    pair = p
    return iErr
  })
  metrics.TokensIssuedTotal.WithLabelValues("otp", metrics.Result(err)).Inc()
  if err != nil {
    return nil, nil, err
  }
  return account, pair, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Refresh, Logout
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
  if refreshToken == "" {
    return nil, errs.Unauthorized(invalidTokenMessage)
  }
  var pair *TokenPair
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
    if err != nil {
      return errs.Internal("failed to load session", err)
    }
    if len(found) == 0 {
      as.log.Warn("Unknown refresh token, Cannot proceed.")
      return errs.Unauthorized(invalidTokenMessage)
    }
    existing := found[0]
    if existing.ExpiresAt.Before(as.now()) {
      if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); dErr != nil {
        return errs.Internal("failed to delete expired session", dErr)
      }
      as.log.Warn("Refresh Token Expired, Cannot proceed.")
      return errs.Unauthorized(invalidTokenMessage)
    }
    accounts, err := as.accountRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.AccountID})
    if err != nil {
      return errs.Internal("failed to load account", err)
    }
    if len(accounts) == 0 {
      return errs.Unauthorized(invalidTokenMessage)
    }
    if dErr := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); dErr != nil {
      return errs.Internal("failed to remove old session", dErr)
    }
    p, iErr := as.issueTokens(ctx, tx, accounts[0])
    pair = p
    return iErr
  })
  metrics.TokensIssuedTotal.WithLabelValues("refresh", metrics.Result(err)).Inc()
  if err != nil {
    return nil, err
  }
  return pair, nil
}

// Logout deletes the session owning refreshToken, which blacklists both of
// its tokens. The session must belong to the caller.
func (as *authService) Logout(ctx context.Context, refreshToken string, all bool) error {
  if refreshToken == "" {
    return errs.Validation("Refresh token is required.")
  }
  rd := requestdata.GetRequestData(ctx)
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
    if err != nil {
      return errs.Internal("failed to load session", err)
    }
    if len(found) == 0 || (rd != nil && found[0].AccountID != rd.AccountID) {
      as.log.Warn("Logout with unknown or foreign refresh token")
      return errs.Validation(invalidTokenMessage)
    }
    if all {
      if err := as.userTokenRepo.FullDeleteByAccountIDs(ctx, tx, []uuid.UUID{found[0].AccountID}); err != nil {
        return errs.Internal("failed to delete sessions", err)
      }
      as.log.Info("Every session deleted :)", "accountID", found[0].AccountID)
      return nil
    }
    if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, found); err != nil {
      return errs.Internal("failed to delete session", err)
    }
    as.log.Info("Session deleted :)", "accountID", found[0].AccountID)
    return nil
  })
}

//----------------------------------------------------------------------------------------------------------------------
// Tokens
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, account *types.Account) (*TokenPair, error) {
  access, err := as.generateAccessToken(account)
  if err != nil {
    as.log.Warn("Generate Access Token Error, Cannot proceed. Returning error.", "error", err)
    return nil, errs.Internal("failed to sign access token", err)
  }
  userToken := &types.UserToken{
    ID:            uuid.New(),
    AccountID:     account.ID,
    AccessToken:   access,
    RefreshToken:  uuid.New().String(),
    ExpiresAt:     as.now().Add(as.refreshTTL),
  }
  if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
    as.log.Warn("Create User Token Error, Cannot proceed. Returning error.", "error", err)
    return nil, errs.Internal("failed to store session", err)
  }
  return &TokenPair{
    Access:     access,
    Refresh:    userToken.RefreshToken,
    ExpiresIn:  int(as.accessTTL.Seconds()),
  }, nil
}

func (as *authService) generateAccessToken(account *types.Account) (string, error) {
  now := as.now()
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      ID:        uuid.NewString(),
      Subject:   account.ID.String(),
      ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(now),
    },
    Email: account.Email,
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates an access token against its live session and
// stores the caller in ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, errs.Unauthorized("missing or invalid token")
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
  if err != nil {
    return ctx, errs.Unauthorized(invalidTokenMessage)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, errs.Unauthorized(invalidTokenMessage)
  }
  accountID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, errs.Unauthorized(fmt.Sprintf("invalid subject in token: %v", err))
  }
  found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if err != nil {
    return ctx, errs.Internal("failed to load session", err)
  }
  if len(found) == 0 || found[0].AccountID != accountID || found[0].ExpiresAt.Before(as.now()) {
    as.log.Warn("Access token has no live session")
    return ctx, errs.Unauthorized(invalidTokenMessage)
  }
  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    RefreshToken: found[0].RefreshToken,
    AccountID:    accountID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}
