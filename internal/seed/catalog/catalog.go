// Package catalog syncs services, providers and pricing entries from a JSON
// document. Rows are matched by natural key and never deleted.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/serviceconnect/serviceconnect-backend/internal/logger"
	"github.com/serviceconnect/serviceconnect-backend/internal/repos"
	"github.com/serviceconnect/serviceconnect-backend/internal/types"
)

type File struct {
	Services  []ServiceSeed  `json:"services"`
	Providers []ProviderSeed `json:"providers"`
	Registry  []RegistrySeed `json:"registry"`
}

type ServiceSeed struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Status      string           `json:"status"`
	Subservices []SubserviceSeed `json:"subservices"`
}

type SubserviceSeed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ProviderSeed struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	PhoneNumber string `json:"phone_number"`
}

// RegistrySeed references its provider by phone number and its service by title.
type RegistrySeed struct {
	EmployeePhone string          `json:"employee_phone"`
	ServiceTitle  string          `json:"service_title"`
	MinPrice      decimal.Decimal `json:"min_price"`
	MaxPrice      decimal.Decimal `json:"max_price"`
	Description   string          `json:"description"`
}

type Syncer struct {
	DB                  *gorm.DB
	Log                 *logger.Logger
	ServiceRepo         repos.ServiceRepo
	ProviderRepo        repos.ProviderRepo
	ServiceRegistryRepo repos.ServiceRegistryRepo
}

func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading catalog seed file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed unmarshaling catalog seed: %w", err)
	}
	return &f, nil
}

// Sync applies f in one transaction.
func (s *Syncer) Sync(ctx context.Context, f *File) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		servicesByTitle, err := s.syncServices(ctx, tx, f.Services)
		if err != nil {
			return err
		}
		providersByPhone, err := s.syncProviders(ctx, tx, f.Providers)
		if err != nil {
			return err
		}
		return s.syncRegistry(ctx, tx, f.Registry, servicesByTitle, providersByPhone)
	})
}

func (s *Syncer) syncServices(ctx context.Context, tx *gorm.DB, seeds []ServiceSeed) (map[string]*types.Service, error) {
	titles := make([]string, 0, len(seeds))
	for _, ss := range seeds {
		titles = append(titles, ss.Title)
	}
	existing, err := s.ServiceRepo.GetByTitles(ctx, tx, titles)
	if err != nil {
		return nil, fmt.Errorf("failed fetching existing services: %w", err)
	}
	byTitle := make(map[string]*types.Service)
	for _, e := range existing {
		byTitle[e.Title] = e
	}

	var toCreate, toUpdate []*types.Service
	for _, ss := range seeds {
		status := ss.Status
		if status == "" {
			status = types.ServiceStatusActive
		}
		if e, ok := byTitle[ss.Title]; ok {
			if e.Description != ss.Description || e.Image != ss.Image || e.Status != status {
				e.Description, e.Image, e.Status = ss.Description, ss.Image, status
				toUpdate = append(toUpdate, e)
			}
			continue
		}
		svc := &types.Service{ID: uuid.New(), Title: ss.Title, Description: ss.Description, Image: ss.Image, Status: status}
		byTitle[ss.Title] = svc
		toCreate = append(toCreate, svc)
	}
	if len(toCreate) > 0 {
		if _, err := s.ServiceRepo.Create(ctx, tx, toCreate); err != nil {
			return nil, fmt.Errorf("failed creating services: %w", err)
		}
	}
	if len(toUpdate) > 0 {
		if _, err := s.ServiceRepo.Update(ctx, tx, toUpdate); err != nil {
			return nil, fmt.Errorf("failed updating services: %w", err)
		}
	}

	ids := make([]uuid.UUID, 0, len(byTitle))
	for _, svc := range byTitle {
		ids = append(ids, svc.ID)
	}
	subs, err := s.ServiceRepo.GetSubservicesByServiceIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed fetching existing subservices: %w", err)
	}
	type subKey struct {
		serviceID uuid.UUID
		title     string
	}
	subByKey := make(map[subKey]*types.Subservice)
	for _, sub := range subs {
		subByKey[subKey{sub.ServiceID, sub.Title}] = sub
	}

	var subCreate, subUpdate []*types.Subservice
	for _, ss := range seeds {
		svc := byTitle[ss.Title]
		for _, sub := range ss.Subservices {
			if e, ok := subByKey[subKey{svc.ID, sub.Title}]; ok {
				if e.Description != sub.Description || e.Image != sub.Image {
					e.Description, e.Image = sub.Description, sub.Image
					subUpdate = append(subUpdate, e)
				}
				continue
			}
			row := &types.Subservice{ID: uuid.New(), ServiceID: svc.ID, Title: sub.Title, Description: sub.Description, Image: sub.Image}
			subByKey[subKey{svc.ID, sub.Title}] = row
			subCreate = append(subCreate, row)
		}
	}
	if len(subCreate) > 0 {
		if _, err := s.ServiceRepo.CreateSubservices(ctx, tx, subCreate); err != nil {
			return nil, fmt.Errorf("failed creating subservices: %w", err)
		}
	}
	if len(subUpdate) > 0 {
		if _, err := s.ServiceRepo.UpdateSubservices(ctx, tx, subUpdate); err != nil {
			return nil, fmt.Errorf("failed updating subservices: %w", err)
		}
	}
	s.Log.Info("Synced services", "created", len(toCreate), "updated", len(toUpdate), "subservicesCreated", len(subCreate), "subservicesUpdated", len(subUpdate))
	return byTitle, nil
}

func (s *Syncer) syncProviders(ctx context.Context, tx *gorm.DB, seeds []ProviderSeed) (map[string]*types.Provider, error) {
	phones := make([]string, 0, len(seeds))
	for _, ps := range seeds {
		phones = append(phones, ps.PhoneNumber)
	}
	existing, err := s.ProviderRepo.GetByPhoneNumbers(ctx, tx, phones)
	if err != nil {
		return nil, fmt.Errorf("failed fetching existing providers: %w", err)
	}
	byPhone := make(map[string]*types.Provider)
	for _, e := range existing {
		byPhone[e.PhoneNumber] = e
	}

	var toCreate, toUpdate []*types.Provider
	for _, ps := range seeds {
		if e, ok := byPhone[ps.PhoneNumber]; ok {
			if e.Name != ps.Name || e.Age != ps.Age {
				e.Name, e.Age = ps.Name, ps.Age
				toUpdate = append(toUpdate, e)
			}
			continue
		}
		p := &types.Provider{ID: uuid.New(), Name: ps.Name, Age: ps.Age, PhoneNumber: ps.PhoneNumber}
		byPhone[ps.PhoneNumber] = p
		toCreate = append(toCreate, p)
	}
	if len(toCreate) > 0 {
		if _, err := s.ProviderRepo.Create(ctx, tx, toCreate); err != nil {
			return nil, fmt.Errorf("failed creating providers: %w", err)
		}
	}
	if len(toUpdate) > 0 {
		if _, err := s.ProviderRepo.Update(ctx, tx, toUpdate); err != nil {
			return nil, fmt.Errorf("failed updating providers: %w", err)
		}
	}
	s.Log.Info("Synced providers", "created", len(toCreate), "updated", len(toUpdate))
	return byPhone, nil
}

func (s *Syncer) syncRegistry(
	ctx context.Context,
	tx *gorm.DB,
	seeds []RegistrySeed,
	servicesByTitle map[string]*types.Service,
	providersByPhone map[string]*types.Provider,
) error {
	var toCreate, toUpdate []*types.ServiceRegistry
	for _, rs := range seeds {
		svc, ok := servicesByTitle[rs.ServiceTitle]
		if !ok {
			svcs, err := s.ServiceRepo.GetByTitles(ctx, tx, []string{rs.ServiceTitle})
			if err != nil {
				return fmt.Errorf("failed fetching service %q: %w", rs.ServiceTitle, err)
			}
			if len(svcs) == 0 {
				return fmt.Errorf("registry entry references unknown service %q", rs.ServiceTitle)
			}
			svc = svcs[0]
		}
		provider, ok := providersByPhone[rs.EmployeePhone]
		if !ok {
			found, err := s.ProviderRepo.GetByPhoneNumbers(ctx, tx, []string{rs.EmployeePhone})
			if err != nil {
				return fmt.Errorf("failed fetching provider %q: %w", rs.EmployeePhone, err)
			}
			if len(found) == 0 {
				return fmt.Errorf("registry entry references unknown employee %q", rs.EmployeePhone)
			}
			provider = found[0]
		}
		if rs.MinPrice.GreaterThan(rs.MaxPrice) {
			return fmt.Errorf("registry entry %s/%s has min_price above max_price", rs.EmployeePhone, rs.ServiceTitle)
		}

		existing, err := s.ServiceRegistryRepo.GetByProviderAndService(ctx, tx, provider.ID, svc.ID)
		if err != nil {
			return fmt.Errorf("failed fetching registry entry: %w", err)
		}
		if existing != nil {
			if !existing.MinPrice.Equal(rs.MinPrice) || !existing.MaxPrice.Equal(rs.MaxPrice) || existing.Description != rs.Description {
				existing.MinPrice, existing.MaxPrice, existing.Description = rs.MinPrice, rs.MaxPrice, rs.Description
				toUpdate = append(toUpdate, existing)
			}
			continue
		}
		toCreate = append(toCreate, &types.ServiceRegistry{
			ID:          uuid.New(),
			ProviderID:  provider.ID,
			ServiceID:   svc.ID,
			MinPrice:    rs.MinPrice,
			MaxPrice:    rs.MaxPrice,
			Description: rs.Description,
		})
	}
	if len(toCreate) > 0 {
		if _, err := s.ServiceRegistryRepo.Create(ctx, tx, toCreate); err != nil {
			return fmt.Errorf("failed creating registry entries: %w", err)
		}
	}
	if len(toUpdate) > 0 {
		if _, err := s.ServiceRegistryRepo.Update(ctx, tx, toUpdate); err != nil {
			return fmt.Errorf("failed updating registry entries: %w", err)
		}
	}
	s.Log.Info("Synced registry entries", "created", len(toCreate), "updated", len(toUpdate))
	return nil
}
