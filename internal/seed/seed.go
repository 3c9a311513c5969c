package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/serviceconnect/serviceconnect-backend/internal/logger"
	"github.com/serviceconnect/serviceconnect-backend/internal/repos"
	"github.com/serviceconnect/serviceconnect-backend/internal/seed/catalog"
)

// SeedAll syncs the catalog document at catalogSeedPathJSON. A missing path
// or file only logs a warning.
func SeedAll(
	ctx                 context.Context,
	db                  *gorm.DB,
	log                 *logger.Logger,
	serviceRepo         repos.ServiceRepo,
	providerRepo        repos.ProviderRepo,
	serviceRegistryRepo repos.ServiceRegistryRepo,
	catalogSeedPathJSON string,
) error {
	seedLog := log.With("component", "Seed")
	seedLog.Info("Running SeedAll... seeding catalog", "path", catalogSeedPathJSON)
	if catalogSeedPathJSON == "" {
		seedLog.Warn("No catalog seed path configured, skipping")
		return nil
	}

	file, err := catalog.ReadFile(catalogSeedPathJSON)
	if errors.Is(err, os.ErrNotExist) {
		seedLog.Warn("Catalog seed file not found, skipping", "path", catalogSeedPathJSON)
		return nil
	}
	if err != nil {
		return err
	}

	syncer := &catalog.Syncer{
		DB:                  db,
		Log:                 seedLog,
		ServiceRepo:         serviceRepo,
		ProviderRepo:        providerRepo,
		ServiceRegistryRepo: serviceRegistryRepo,
	}
	if err := syncer.Sync(ctx, file); err != nil {
		return fmt.Errorf("failed to sync catalog: %w", err)
	}

	seedLog.Info("SeedAll Complete!")
	return nil
}
