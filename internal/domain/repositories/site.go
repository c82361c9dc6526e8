package repositories

import (
	"context"

	"signpost/internal/domain/models"
)

// SiteRepository defines data access operations for sites
type SiteRepository interface {
	// Create inserts a site with the ID and timestamps the caller set.
	// A live site with the same name yields *domain.ConflictError.
	Create(ctx context.Context, site *models.Site) error

	// GetByID retrieves a live site by ID
	GetByID(ctx context.Context, id string) (*models.Site, error)

	// GetByName retrieves a live site by its unique name
	GetByName(ctx context.Context, name string) (*models.Site, error)

	// List retrieves all live sites, ordered by updated_at DESC
	List(ctx context.Context) ([]models.Site, error)

	// Update stores the site's name and config and bumps updated_at
	Update(ctx context.Context, site *models.Site) error

	// Delete soft-deletes a site by setting deleted_at
	// Returns the deleted site with deleted_at set
	Delete(ctx context.Context, id string) (*models.Site, error)
}
