package services

import (
	"context"

	"signpost/internal/domain/models"
	"signpost/internal/sidebar"
)

// CreateSiteRequest represents a request to create a site
type CreateSiteRequest struct {
	Name string `json:"name"`
	// Config defaults to the built-in tutorial sidebar when omitted
	Config    *sidebar.Config `json:"config,omitempty"`
	CreatedBy string          `json:"-"`
}

// UpdateSiteRequest represents a partial update; nil fields are left unchanged
type UpdateSiteRequest struct {
	Name   *string         `json:"name,omitempty"`
	Config *sidebar.Config `json:"config,omitempty"`
}

// ValidationReport describes a config that passed validation
type ValidationReport struct {
	Valid    bool          `json:"valid"`
	Sidebars []string      `json:"sidebars"`
	Stats    sidebar.Stats `json:"stats"`
	DocIDs   []string      `json:"doc_ids"`
}

// RenderedSite is a site's config encoded as a sidebars file
type RenderedSite struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SiteService defines business logic operations for sites
type SiteService interface {
	// CreateSite validates and stores a new site
	CreateSite(ctx context.Context, req *CreateSiteRequest) (*models.Site, error)

	// GetSite retrieves a site by ID
	GetSite(ctx context.Context, id string) (*models.Site, error)

	// GetSiteByName retrieves a site by its unique name
	GetSiteByName(ctx context.Context, name string) (*models.Site, error)

	// ListSites retrieves all sites, most recently updated first
	ListSites(ctx context.Context) ([]models.Site, error)

	// UpdateSite renames a site and/or replaces its config
	UpdateSite(ctx context.Context, id string, req *UpdateSiteRequest) (*models.Site, error)

	// DeleteSite soft-deletes a site and returns it with deleted_at set
	DeleteSite(ctx context.Context, id string) (*models.Site, error)

	// ValidateConfig checks a config without storing it
	ValidateConfig(ctx context.Context, cfg sidebar.Config) (*ValidationReport, error)

	// RenderSite encodes a stored config in the given format
	RenderSite(ctx context.Context, id string, format sidebar.Format) (*RenderedSite, error)

	// RenderTree draws a stored config as a text tree
	RenderTree(ctx context.Context, id string) (string, error)
}
