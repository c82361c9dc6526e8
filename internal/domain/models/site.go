package models

import (
	"time"

	"signpost/internal/sidebar"
)

// Site is a stored sidebars configuration for one documentation site.
type Site struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Config    sidebar.Config `json:"config" db:"config"`
	CreatedBy string         `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`
}

// SiteSummary is the list view of a site: the config is replaced by its stats.
type SiteSummary struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Sidebars  []string      `json:"sidebars"`
	Stats     sidebar.Stats `json:"stats"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Summary returns the list view of s.
func (s *Site) Summary() SiteSummary {
	return SiteSummary{
		ID:        s.ID,
		Name:      s.Name,
		Sidebars:  s.Config.Names(),
		Stats:     s.Config.Stats(),
		UpdatedAt: s.UpdatedAt,
	}
}
