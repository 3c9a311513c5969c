package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/types"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  //1) Get and Set Environment Variables
  log.Info("Attempting to load environment variables for Postgres now...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "serviceconnect", log)
  postgresSSLMode := utils.GetEnv("POSTGRES_SSLMODE", "disable", log)
  log.Debug("Environment variables loaded for Postgres",
    "host", postgresHost,
    "port", postgresPort,
    "user", postgresUser,
    "dbname", postgresName,
    "sslmode", postgresSSLMode,
  )
  log.Info("Environment variables loaded for Postgres :)")

  //2) Construct DSN From Environment Variables
  log.Info("Attempting to construct DSN from environment variables for Postgres now...")
  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName, postgresSSLMode)

  //3) Attempt DB Connection
  log.Info("Attempting to connect to Postgres DB now...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
  if err != nil {
    log.Error("Failed to connect to Postgres DB", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres DB: %w", err)
  }
  log.Info("Successfully Connected to Postgres DB :)")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")
  if err := Migrate(s.db); err != nil {
    s.log.Error("AutoMigrateAll failed :(", "error", err)
    return err
  }
  s.log.Info("AutoMigrateAll completed successfully :)")
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// Models lists every table in dependency order.
func Models() []interface{} {
  return []interface{}{
    &types.Account{},
    &types.OneTimeCode{},
    &types.UserToken{},
    &types.Profile{},
    &types.Provider{},
    &types.Service{},
    &types.Subservice{},
    &types.ServiceRegistry{},
    &types.ServiceRequest{},
    &types.Booking{},
    &types.Review{},
    &types.Payment{},
  }
}

// Migrate creates or updates the schema on any gorm dialect.
func Migrate(db *gorm.DB) error {
  if err := db.AutoMigrate(Models()...); err != nil {
    return fmt.Errorf("auto migrate: %w", err)
  }
  return nil
}
