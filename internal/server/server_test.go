package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"srcpath/internal/pathconv"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := pathconv.NewResolver(
		pathconv.WithSeparator('/'),
		pathconv.WithDirProvider(pathconv.FixedDir("/work")),
	)
	changes := 0
	return New(pathconv.NewSyncResolver(r), func() { changes++ }), &changes
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestResolveEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/resolve?source=%40lib%2Fx.lua", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, resolveResponse{Found: true, Path: "/work/lib/x.lua", Name: "x.lua"}, resp)

	rec = do(t, srv, http.MethodGet, "/resolve?source=%3Dstdin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Found)

	rec = do(t, srv, http.MethodGet, "/resolve", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/normalize?path=a/../b", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/work/b"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/normalize", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSourcemapEndpoints(t *testing.T) {
	srv, changes := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/sourcemaps", `{"server":"/app","client":"/local"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `[{"server":"/app","client":"/local"}]`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/resolve?source=%40%2Fapp%2Fmain.lua", "")
	assert.JSONEq(t, `{"found":true,"path":"/local/main.lua","name":"main.lua"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/sourcemaps", `{"client":"/x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, srv, http.MethodPost, "/sourcemaps", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/sourcemaps", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/sourcemaps", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, 2, *changes)
}

func TestCodingEndpoints(t *testing.T) {
	srv, changes := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/coding", "")
	assert.JSONEq(t, `{"coding":"ansi"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/coding", `{"coding":"utf8"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"coding":"utf8"}`, rec.Body.String())

	rec = do(t, srv, http.MethodPut, "/coding", `{"coding":"klingon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "klingon")

	rec = do(t, srv, http.MethodPut, "/coding", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, *changes)
}
