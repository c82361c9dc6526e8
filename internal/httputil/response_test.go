package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusBadRequest, "invalid sidebars", map[string]interface{}{
		"issues": []string{"docs[0]: doc id is required"},
		"status": 999, // cannot override standard members
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bad Request", body["title"])
	assert.Equal(t, float64(400), body["status"])
	assert.Equal(t, "invalid sidebars", body["detail"])
	assert.Equal(t, []interface{}{"docs[0]: doc id is required"}, body["issues"])
	assert.Contains(t, body["type"], "rfc7231")
}

func TestRespondError_OmitsEmptyDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusTeapot, "")

	assert.JSONEq(t, `{"type":"about:blank","title":"I'm a teapot","status":418}`, rec.Body.String())
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"name": "docs"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"name":"docs"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRespondContent(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondContent(rec, http.StatusOK, "text/javascript; charset=utf-8", "sidebars.js", []byte("module.exports = {};\n"))

	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="sidebars.js"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "module.exports = {};\n", rec.Body.String())
}
