package handler

import (
	"net/http"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Health  *HealthHandler
	Site    *SiteHandler
	Sidebar *SidebarHandler
}

// NewRouter registers every route on a new ServeMux (Go 1.22+ patterns).
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Site routes
	mux.HandleFunc("GET /api/sites", h.Site.ListSites)
	mux.HandleFunc("POST /api/sites", h.Site.CreateSite)
	mux.HandleFunc("GET /api/sites/{id}", h.Site.GetSite)
	mux.HandleFunc("PATCH /api/sites/{id}", h.Site.UpdateSite)
	mux.HandleFunc("DELETE /api/sites/{id}", h.Site.DeleteSite)
	mux.HandleFunc("GET /api/sites/{id}/tree", h.Site.GetTree) // more specific than {file}
	mux.HandleFunc("GET /api/sites/{id}/{file}", h.Site.GetSidebarsFile)

	// Stateless sidebar routes
	mux.HandleFunc("POST /api/validate", h.Sidebar.Validate)
	mux.HandleFunc("GET /api/default", h.Sidebar.Default)

	return mux
}
