package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))

	var dest struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(r, &dest))
	assert.Equal(t, "Acme", dest.Name)
}

func TestParseJSONInvalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))

	var dest map[string]any
	err := ParseJSON(r, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParseJSONOrErrorWritesBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))

	var dest map[string]any
	ok := ParseJSONOrError(w, r, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParsePathString(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orgs/org1", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "org1"})

	val, err := ParsePathString(r, "id")
	require.NoError(t, err)
	assert.Equal(t, "org1", val)

	_, err = ParsePathString(r, "missing")
	assert.Error(t, err)
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/usage?days=7", nil)

	val, err := ParseQueryInt(r, "days", 30)
	require.NoError(t, err)
	assert.Equal(t, 7, val)

	val, err = ParseQueryInt(r, "absent", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, val)

	r = httptest.NewRequest(http.MethodGet, "/usage?days=abc", nil)
	_, err = ParseQueryInt(r, "days", 30)
	assert.Error(t, err)
}

func TestParseQueryString(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orgs?search=acme", nil)

	assert.Equal(t, "acme", ParseQueryString(r, "search", ""))
	assert.Equal(t, "fallback", ParseQueryString(r, "absent", "fallback"))
}

func TestRequireNonEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	assert.True(t, RequireNonEmpty(w, "value", "name"))

	w = httptest.NewRecorder()
	assert.False(t, RequireNonEmpty(w, "", "name"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
}
