package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"signpost/internal/domain/models"
	"signpost/internal/domain/services"
	"signpost/internal/httputil"
	"signpost/internal/sidebar"
)

// SiteHandler handles site HTTP requests
type SiteHandler struct {
	siteService services.SiteService
	authorizer  services.ResourceAuthorizer
	logger      *slog.Logger
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(siteService services.SiteService, authorizer services.ResourceAuthorizer, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		siteService: siteService,
		authorizer:  authorizer,
		logger:      logger,
	}
}

// ListSites returns a summary of every site
// GET /api/sites
func (h *SiteHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.siteService.ListSites(r.Context())
	if err != nil {
		h.logger.Error("list sites failed", "error", err)
		handleError(w, err)
		return
	}

	summaries := make([]models.SiteSummary, len(sites))
	for i := range sites {
		summaries[i] = sites[i].Summary()
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// CreateSite creates a new site
// POST /api/sites
func (h *SiteHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSiteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	req.CreatedBy = httputil.GetUserID(r)

	site, err := h.siteService.CreateSite(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/sites/"+site.ID)
	httputil.RespondJSON(w, http.StatusCreated, site)
}

// GetSite retrieves a site by ID
// GET /api/sites/{id}
func (h *SiteHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.siteService.GetSite(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, site)
}

// updateSiteBody is the PATCH payload; null is rejected for both fields.
type updateSiteBody struct {
	Name   httputil.Optional[string]         `json:"name"`
	Config httputil.Optional[sidebar.Config] `json:"config"`
}

// UpdateSite renames a site and/or replaces its config
// PATCH /api/sites/{id}
func (h *SiteHandler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var body updateSiteBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Name.Null || body.Config.Null {
		httputil.RespondError(w, http.StatusBadRequest, "name and config cannot be null")
		return
	}

	id := r.PathValue("id")
	if err := h.authorizer.CanModifySite(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	req := services.UpdateSiteRequest{
		Name:   body.Name.Ptr(),
		Config: body.Config.Ptr(),
	}
	site, err := h.siteService.UpdateSite(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Debug("site patched", "id", site.ID, "user_id", httputil.GetUserID(r))
	httputil.RespondJSON(w, http.StatusOK, site)
}

// DeleteSite soft-deletes a site
// DELETE /api/sites/{id}
func (h *SiteHandler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.authorizer.CanModifySite(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	site, err := h.siteService.DeleteSite(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, site)
}

// servedExts are the file names GetSidebarsFile answers to. Format aliases
// like ts or mjs are not served: the body would not be valid in that dialect.
var servedExts = map[string]bool{"js": true, "json": true, "yaml": true, "yml": true}

// GetSidebarsFile renders a site's config as a sidebars file; the file name
// picks the format.
// GET /api/sites/{id}/{file} (sidebars.js, sidebars.json, sidebars.yaml)
func (h *SiteHandler) GetSidebarsFile(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	base, ext, found := strings.Cut(file, ".")
	if !found || base != "sidebars" || !servedExts[ext] {
		httputil.RespondError(w, http.StatusNotFound, "unknown file "+file)
		return
	}
	format, err := sidebar.ParseFormat(ext)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "unknown file "+file)
		return
	}

	rendered, err := h.siteService.RenderSite(r.Context(), r.PathValue("id"), format)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondContent(w, http.StatusOK, rendered.ContentType, rendered.Filename, rendered.Content)
}

// GetTree draws a site's sidebars as a text tree
// GET /api/sites/{id}/tree
func (h *SiteHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.siteService.RenderTree(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondContent(w, http.StatusOK, "text/plain; charset=utf-8", "", []byte(tree+"\n"))
}

func encodeConfig(cfg sidebar.Config, format sidebar.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := sidebar.Encode(&buf, cfg, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
