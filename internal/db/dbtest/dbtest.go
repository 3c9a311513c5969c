// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
  "fmt"
  "testing"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/serviceconnect/serviceconnect-backend/internal/db"
)

// New opens a private in-memory SQLite database with the full schema.
func New(t testing.TB) *gorm.DB {
  t.Helper()
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
  gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
    TranslateError: true,
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  if err := db.Migrate(gdb); err != nil {
    t.Fatalf("migrate: %v", err)
  }
  sqlDB, err := gdb.DB()
  if err != nil {
    t.Fatalf("sql db: %v", err)
  }
  t.Cleanup(func() { _ = sqlDB.Close() })
  return gdb
}
