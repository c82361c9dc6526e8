package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"signpost/internal/domain"
	"signpost/internal/domain/models"
	"signpost/internal/domain/services"
	"signpost/internal/sidebar"
)

// DefaultSiteName is the site seeded when no name is given.
const DefaultSiteName = "docs"

// SiteSeeder loads sidebar configs into the site store
type SiteSeeder struct {
	sites  services.SiteService
	logger *slog.Logger
}

// NewSiteSeeder creates a new site seeder
func NewSiteSeeder(sites services.SiteService, logger *slog.Logger) *SiteSeeder {
	return &SiteSeeder{
		sites:  sites,
		logger: logger,
	}
}

// Seed stores cfg under name, replacing the config of an existing site with
// that name. Running it twice leaves a single site. Seeded sites have no
// owner.
func (s *SiteSeeder) Seed(ctx context.Context, name string, cfg sidebar.Config) (*models.Site, bool, error) {
	existing, err := s.sites.GetSiteByName(ctx, name)
	switch {
	case err == nil:
		site, err := s.sites.UpdateSite(ctx, existing.ID, &services.UpdateSiteRequest{Config: &cfg})
		if err != nil {
			return nil, false, fmt.Errorf("update site %q: %w", name, err)
		}
		s.logger.Info("seeded site", "name", name, "id", site.ID, "created", false)
		return site, false, nil
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, false, fmt.Errorf("look up site %q: %w", name, err)
	}

	site, err := s.sites.CreateSite(ctx, &services.CreateSiteRequest{Name: name, Config: &cfg})
	if err != nil {
		return nil, false, fmt.Errorf("create site %q: %w", name, err)
	}
	s.logger.Info("seeded site", "name", name, "id", site.ID, "created", true)
	return site, true, nil
}
