package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/serviceconnect/serviceconnect-backend/internal/db/dbtest"
	"github.com/serviceconnect/serviceconnect-backend/internal/logger"
	"github.com/serviceconnect/serviceconnect-backend/internal/repos"
)

const catalogJSON = `{
  "services": [
    {"title": "Cleaning", "description": "Home cleaning", "subservices": [
      {"title": "Kitchen"}, {"title": "Bathroom"}
    ]},
    {"title": "Plumbing", "description": "Pipes and taps", "subservices": [{"title": "Leak repair"}]}
  ],
  "providers": [{"name": "Ramesh", "age": 34, "phone_number": "+919800000001"}],
  "registry": [
    {"employee_phone": "+919800000001", "service_title": "Plumbing", "min_price": "300.00", "max_price": "900.00", "description": "per visit"}
  ]
}`

func TestSeedAllIsIdempotent(t *testing.T) {
	gdb := dbtest.New(t)
	log := logger.NewNop()
	ctx := context.Background()
	serviceRepo := repos.NewServiceRepo(gdb, log)
	providerRepo := repos.NewProviderRepo(gdb, log)
	registryRepo := repos.NewServiceRegistryRepo(gdb, log)

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := SeedAll(ctx, gdb, log, serviceRepo, providerRepo, registryRepo, path); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	services, err := serviceRepo.GetAllWithSubservices(ctx, nil)
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if len(services) != 2 || len(services[0].Subservices) != 2 || len(services[1].Subservices) != 1 {
		t.Fatalf("unexpected catalog after reseed: %+v", services)
	}
	entries, err := registryRepo.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("list registry: %v", err)
	}
	if len(entries) != 1 || entries[0].Provider.Name != "Ramesh" || entries[0].Service.Title != "Plumbing" {
		t.Fatalf("unexpected registry: %+v", entries)
	}

	updated := `{"providers": [{"name": "Ramesh K", "age": 35, "phone_number": "+919800000001"}]}`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite seed: %v", err)
	}
	if err := SeedAll(ctx, gdb, log, serviceRepo, providerRepo, registryRepo, path); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	providers, err := providerRepo.GetByPhoneNumbers(ctx, nil, []string{"+919800000001"})
	if err != nil || len(providers) != 1 || providers[0].Name != "Ramesh K" || providers[0].Age != 35 {
		t.Fatalf("provider not updated: %+v, %v", providers, err)
	}
}

func TestSeedAllMissingFileOnlyWarns(t *testing.T) {
	gdb := dbtest.New(t)
	log := logger.NewNop()
	err := SeedAll(context.Background(), gdb, log,
		repos.NewServiceRepo(gdb, log), repos.NewProviderRepo(gdb, log), repos.NewServiceRegistryRepo(gdb, log),
		filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("missing seed file should not fail startup: %v", err)
	}
}
