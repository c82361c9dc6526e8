// Package memory provides in-process implementations of the repositories,
// for local development without a database and for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"signpost/internal/domain"
	"signpost/internal/domain/models"
	"signpost/internal/domain/repositories"
)

// SiteRepository is a SiteRepository backed by a map. Stored sites are
// deep-copied on the way in and out.
type SiteRepository struct {
	mu    sync.RWMutex
	sites map[string]models.Site
	now   func() time.Time
}

// NewSiteRepository creates an empty repository
func NewSiteRepository() *SiteRepository {
	return &SiteRepository{
		sites: make(map[string]models.Site),
		now:   time.Now,
	}
}

var _ repositories.SiteRepository = (*SiteRepository)(nil)

func copySite(s models.Site) *models.Site {
	s.Config = s.Config.Clone()
	if s.DeletedAt != nil {
		t := *s.DeletedAt
		s.DeletedAt = &t
	}
	return &s
}

// liveByName must be called with mu held.
func (r *SiteRepository) liveByName(name string) (models.Site, bool) {
	for _, s := range r.sites {
		if s.Name == name && s.DeletedAt == nil {
			return s, true
		}
	}
	return models.Site{}, false
}

func conflict(existing models.Site) error {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("site %q already exists", existing.Name),
		ResourceType: "site",
		ResourceID:   existing.ID,
	}
}

// Create stores a new site
func (r *SiteRepository) Create(_ context.Context, site *models.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.liveByName(site.Name); ok {
		return conflict(existing)
	}
	if _, ok := r.sites[site.ID]; ok {
		return fmt.Errorf("site id %s: %w", site.ID, domain.ErrConflict)
	}

	r.sites[site.ID] = *copySite(*site)
	return nil
}

// GetByID retrieves a live site by ID
func (r *SiteRepository) GetByID(_ context.Context, id string) (*models.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sites[id]
	if !ok || s.DeletedAt != nil {
		return nil, fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
	}
	return copySite(s), nil
}

// GetByName retrieves a live site by name
func (r *SiteRepository) GetByName(_ context.Context, name string) (*models.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.liveByName(name)
	if !ok {
		return nil, fmt.Errorf("site %q: %w", name, domain.ErrNotFound)
	}
	return copySite(s), nil
}

// List retrieves live sites, most recently updated first
func (r *SiteRepository) List(_ context.Context) ([]models.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sites := []models.Site{}
	for _, s := range r.sites {
		if s.DeletedAt == nil {
			sites = append(sites, *copySite(s))
		}
	}
	sort.Slice(sites, func(i, j int) bool {
		if !sites[i].UpdatedAt.Equal(sites[j].UpdatedAt) {
			return sites[i].UpdatedAt.After(sites[j].UpdatedAt)
		}
		return sites[i].Name < sites[j].Name
	})
	return sites, nil
}

// Update stores a site's name and config
func (r *SiteRepository) Update(_ context.Context, site *models.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sites[site.ID]
	if !ok || current.DeletedAt != nil {
		return fmt.Errorf("site %s: %w", site.ID, domain.ErrNotFound)
	}
	if existing, ok := r.liveByName(site.Name); ok && existing.ID != site.ID {
		return conflict(existing)
	}

	current.Name = site.Name
	current.Config = site.Config.Clone()
	current.UpdatedAt = site.UpdatedAt
	r.sites[site.ID] = current
	return nil
}

// Delete soft-deletes a site
func (r *SiteRepository) Delete(_ context.Context, id string) (*models.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sites[id]
	if !ok || s.DeletedAt != nil {
		return nil, fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
	}
	now := r.now().UTC()
	s.DeletedAt = &now
	r.sites[id] = s
	return copySite(s), nil
}

// TransactionManager serialises transactions. It gives isolation between
// transactions but no rollback: writes made before fn fails are kept.
type TransactionManager struct {
	mu sync.Mutex
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

var _ repositories.TransactionManager = (*TransactionManager)(nil)

type txKey struct{}

// ExecTx runs fn while holding the transaction lock. Nested calls reuse it.
func (m *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// Ping always succeeds; it lets the health check treat memory storage like a
// database.
func (r *SiteRepository) Ping(context.Context) error {
	return nil
}
