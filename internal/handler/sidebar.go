package handler

import (
	"log/slog"
	"net/http"

	"signpost/internal/domain/services"
	"signpost/internal/httputil"
	"signpost/internal/sidebar"
)

// SidebarHandler serves stateless sidebar operations
type SidebarHandler struct {
	siteService services.SiteService
	logger      *slog.Logger
}

// NewSidebarHandler creates a new sidebar handler
func NewSidebarHandler(siteService services.SiteService, logger *slog.Logger) *SidebarHandler {
	return &SidebarHandler{
		siteService: siteService,
		logger:      logger,
	}
}

// Validate checks a posted config without storing it. The body may be
// JSON, YAML or a sidebars.js module, selected by Content-Type.
// POST /api/validate
func (h *SidebarHandler) Validate(w http.ResponseWriter, r *http.Request) {
	cfg, err := httputil.ParseConfig(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}

	report, err := h.siteService.ValidateConfig(r.Context(), cfg)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// Default returns the built-in tutorial sidebar
// GET /api/default?format=js|json|yaml|tree
func (h *SidebarHandler) Default(w http.ResponseWriter, r *http.Request) {
	respondConfig(w, r, sidebar.Default())
}
