package handler

import (
	"errors"
	"net/http"

	"signpost/internal/domain"
	"signpost/internal/httputil"
	"signpost/internal/sidebar"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		conflictErr *domain.ConflictError
		invalidErr  *sidebar.ValidationErrors
		mediaErr    *httputil.UnsupportedMediaTypeError
	)

	switch {
	case errors.As(err, &invalidErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, invalidErr.Error(), map[string]interface{}{
			"issues": invalidErr.Issues,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, conflictErr.StatusCode(), conflictErr.Error(), map[string]interface{}{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &mediaErr):
		httputil.RespondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// badRequest reports a malformed request body.
func badRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	var mediaErr *httputil.UnsupportedMediaTypeError
	if errors.As(err, &mediaErr) {
		httputil.RespondError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}

// respondConfig writes cfg in the format named by the "format" query
// parameter: js, json (default), yaml, or tree.
func respondConfig(w http.ResponseWriter, r *http.Request, cfg sidebar.Config) {
	name := r.URL.Query().Get("format")
	if name == "" {
		httputil.RespondJSON(w, http.StatusOK, cfg)
		return
	}
	if name == "tree" {
		httputil.RespondContent(w, http.StatusOK, "text/plain; charset=utf-8", "", []byte(sidebar.RenderTree(cfg)+"\n"))
		return
	}

	format, err := sidebar.ParseFormat(name)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rendered, err := encodeConfig(cfg, format)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondContent(w, http.StatusOK, format.ContentType(), "sidebars."+format.Ext(), rendered)
}
