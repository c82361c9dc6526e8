package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"signpost/internal/domain/models"
	"signpost/internal/httputil"
	"signpost/internal/repository/memory"
	serviceauth "signpost/internal/service/auth"
	siteservice "signpost/internal/service/site"
	"signpost/internal/sidebar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewSiteRepository()
	svc := siteservice.NewSiteService(repo, memory.NewTransactionManager(), logger)

	mux := NewRouter(Handlers{
		Health:  NewHealthHandler(repo, logger),
		Site:    NewSiteHandler(svc, serviceauth.NewOwnerBasedAuthorizer(repo), logger),
		Sidebar: NewSidebarHandler(svc, logger),
	})
	return &testServer{handler: mux}
}

func (s *testServer) do(t *testing.T, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createSite(t *testing.T, body string) models.Site {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/sites", "application/json", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var site models.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))
	return site
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	h := NewHealthHandler(failingPinger{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec = httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unreachable")
}

func TestDefault(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/default", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg sidebar.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, sidebar.Default(), cfg)

	rec = srv.do(t, http.MethodGet, "/api/default?format=js", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="sidebars.js"`, rec.Header().Get("Content-Disposition"))
	decoded, err := sidebar.DecodeJS(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, sidebar.Default(), decoded)

	rec = srv.do(t, http.MethodGet, "/api/default?format=tree", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sidebar.RenderTree(sidebar.Default())+"\n", rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/default?format=xml", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidate(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"docs": ["intro", {"type": "category", "label": "Guides", "items": ["guides/a"]}]}`,
			wantStatus:  http.StatusOK,
			wantBody:    `"doc_ids":["intro","guides/a"]`,
		},
		{
			name:        "yaml",
			contentType: "application/yaml",
			body:        "docs:\n  - intro\n",
			wantStatus:  http.StatusOK,
			wantBody:    `"valid":true`,
		},
		{
			name:        "js",
			contentType: "text/javascript",
			body:        "module.exports = {docs: ['intro']};",
			wantStatus:  http.StatusOK,
			wantBody:    `"sidebars":["docs"]`,
		},
		{
			name:        "duplicate doc",
			contentType: "application/json",
			body:        `{"docs": ["intro", "intro"]}`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `"issues":[`,
		},
		{
			name:        "malformed",
			contentType: "application/json",
			body:        `{"docs": [`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    "invalid request body",
		},
		{
			name:        "unsupported media type",
			contentType: "text/html",
			body:        "<p>",
			wantStatus:  http.StatusUnsupportedMediaType,
			wantBody:    "text/html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/validate", tt.contentType, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestValidate_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t)
	filler := strings.Repeat("a", 3<<20)

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"json", "application/json", `{"docs": ["` + filler + `"]}`},
		{"yaml", "application/yaml", "docs:\n  - " + filler + "\n"},
		{"js", "text/javascript", "module.exports = {docs: ['" + filler + "']};"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/validate", tt.contentType, tt.body)
			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			problem := decodeProblem(t, rec)
			assert.EqualValues(t, http.StatusRequestEntityTooLarge, problem["status"])
		})
	}
}

func TestSiteLifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := srv.createSite(t, `{"name": "handbook"}`)
	assert.Equal(t, "handbook", created.Name)
	assert.Equal(t, sidebar.Default(), created.Config)

	rec := srv.do(t, http.MethodGet, "/api/sites", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []models.SiteSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, []string{sidebar.DefaultSidebarName}, summaries[0].Sidebars)
	assert.Equal(t, 11, summaries[0].Stats.Docs)

	rec = srv.do(t, http.MethodGet, "/api/sites/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/sites/"+created.ID, "application/json",
		`{"name": "manual", "config": {"docs": ["intro"]}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "manual", updated.Name)
	assert.Equal(t, []string{"intro"}, updated.Config.DocIDs())

	rec = srv.do(t, http.MethodGet, "/api/sites/"+created.ID+"/sidebars.yaml", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "docs:\n  - intro\n", rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/sites/"+created.ID+"/tree", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "docs\n└── intro\n", rec.Body.String())

	rec = srv.do(t, http.MethodDelete, "/api/sites/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/sites/"+created.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSite_Errors(t *testing.T) {
	srv := newTestServer(t)
	existing := srv.createSite(t, `{"name": "docs"}`)

	t.Run("duplicate name", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/sites", "application/json", `{"name": "docs"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		problem := decodeProblem(t, rec)
		assert.Equal(t, existing.ID, problem["resource_id"])
		assert.Equal(t, "site", problem["resource_type"])
	})

	t.Run("missing name", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/sites", "application/json", `{"config": {"docs": ["a"]}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeProblem(t, rec)["detail"], "name is required")
	})

	t.Run("invalid config", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/sites", "application/json",
			`{"name": "other", "config": {"docs": [{"type": "link", "label": "x", "href": ""}]}}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		issues, ok := decodeProblem(t, rec)["issues"].([]interface{})
		require.True(t, ok)
		assert.Len(t, issues, 1)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/sites", "application/json", `{"name": "x", "owner": "me"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateSite_Errors(t *testing.T) {
	srv := newTestServer(t)
	site := srv.createSite(t, `{"name": "docs"}`)
	srv.createSite(t, `{"name": "api"}`)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"null name", site.ID, `{"name": null}`, http.StatusBadRequest},
		{"null config", site.ID, `{"config": null}`, http.StatusBadRequest},
		{"empty body", site.ID, `{}`, http.StatusBadRequest},
		{"rename onto existing", site.ID, `{"name": "api"}`, http.StatusConflict},
		{"unknown site", "00000000-0000-0000-0000-000000000000", `{"name": "x"}`, http.StatusNotFound},
		{"malformed id", "nope", `{"name": "x"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPatch, "/api/sites/"+tt.id, "application/json", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestGetSidebarsFile(t *testing.T) {
	srv := newTestServer(t)
	site := srv.createSite(t, `{"name": "docs"}`)

	tests := []struct {
		file            string
		wantStatus      int
		wantContentType string
	}{
		{"sidebars.js", http.StatusOK, "text/javascript; charset=utf-8"},
		{"sidebars.json", http.StatusOK, "application/json"},
		{"sidebars.yml", http.StatusOK, "application/yaml"},
		{"sidebars.yaml", http.StatusOK, "application/yaml"},
		{"sidebars.xml", http.StatusNotFound, ""},
		{"sidebars.ts", http.StatusNotFound, ""},
		{"sidebars.mjs", http.StatusNotFound, ""},
		{"sidebars.javascript", http.StatusNotFound, ""},
		{"navbar.js", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/api/sites/"+site.ID+"/"+tt.file, "", "")
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))

			format, err := sidebar.FormatFromPath(tt.file)
			require.NoError(t, err)
			cfg, err := sidebar.Decode(bytes.NewReader(rec.Body.Bytes()), format)
			require.NoError(t, err)
			assert.Equal(t, sidebar.Default(), cfg)
		})
	}
}

func TestCreateSite_RecordsCaller(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sites", strings.NewReader(`{"name": "docs"}`))
	req = httputil.WithUser(req, httputil.User{ID: "user-1"})
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var site models.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))
	assert.Equal(t, "user-1", site.CreatedBy)
	assert.Equal(t, "/api/sites/"+site.ID, rec.Header().Get("Location"))
}

func TestModifySite_RequiresOwner(t *testing.T) {
	srv := newTestServer(t)

	send := func(method, target, userID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req = httputil.WithUser(req, httputil.User{ID: userID})
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/api/sites", "alice", `{"name": "docs"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var site models.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))

	rec = send(http.MethodPatch, "/api/sites/"+site.ID, "bob", `{"name": "mine"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = send(http.MethodDelete, "/api/sites/"+site.ID, "bob", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(http.MethodPatch, "/api/sites/"+site.ID, "alice", `{"name": "handbook"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = send(http.MethodDelete, "/api/sites/"+site.ID, "alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
