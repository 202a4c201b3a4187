// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/api"
	"github.com/taibuivan/roots/internal/platform/config"
	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/sec"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	claims := &sec.AuthClaims{UserID: token}
	claims.Subject = token
	return claims, nil
}

type stubResolver struct{}

func (stubResolver) ResolveCaller(_ context.Context, userID string) (*sec.Caller, error) {
	return &sec.Caller{UserID: userID, Role: sec.RoleEditor, Status: sec.StatusActive}, nil
}

// echoRoutes answers with the caller id, or "anonymous".
type echoRoutes struct{ path string }

func (routes echoRoutes) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/whoami", routes.echo)
	return router
}

func (routes echoRoutes) RegisterRoutes(router chi.Router) {
	router.Get(routes.path, routes.echo)
}

func (routes echoRoutes) echo(writer http.ResponseWriter, request *http.Request) {
	if caller := ctxutil.GetCaller(request.Context()); caller != nil {
		_, _ = writer.Write([]byte(caller.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
}

func newServer(t *testing.T, checks []api.Check) http.Handler {
	t.Helper()
	liveness, readiness := api.NewHealthHandlers(checks, discard)
	server := api.NewServer(context.Background(), &config.Config{ServerPort: "0", FrontendURL: "http://localhost:3000"}, discard,
		api.Security{Verifier: stubVerifier{}, Resolver: stubResolver{}},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      echoRoutes{},
			Admin:     echoRoutes{},
			Domains:   []api.RouteRegistrar{echoRoutes{path: "/trees"}, echoRoutes{path: "/search"}},
		})
	return server.Handler()
}

func serve(handler http.Handler, method, target, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Routes(t *testing.T) {
	handler := newServer(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		token  string
		status int
		body   string
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK, `"status":"ok"`},
		{"auth_mount", http.MethodGet, "/api/v1/auth/whoami", "", http.StatusOK, "anonymous"},
		{"admin_mount", http.MethodGet, "/api/v1/admin/whoami", "good", http.StatusOK, "good"},
		{"domain_route", http.MethodGet, "/api/v1/trees", "good", http.StatusOK, "good"},
		{"second_domain", http.MethodGet, "/api/v1/search", "", http.StatusOK, "anonymous"},
		{"bad_token", http.MethodGet, "/api/v1/trees", "forged", http.StatusUnauthorized, `"code":"UNAUTHORIZED"`},
		{"unknown_route", http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound, `"code":"NOT_FOUND"`},
		{"wrong_method", http.MethodDelete, "/health", "", http.StatusMethodNotAllowed, `"code":"METHOD_NOT_ALLOWED"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(handler, tt.method, tt.target, tt.token)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.body)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}
}

func TestReadiness(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	recorder := serve(newServer(t, []api.Check{{Name: "postgres", Probe: healthy}, {Name: "redis", Probe: healthy}, {Name: "storage"}}), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
	assert.NotContains(t, recorder.Body.String(), "storage")

	recorder = serve(newServer(t, []api.Check{{Name: "postgres", Probe: healthy}, {Name: "redis", Probe: broken}}), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `{"name":"redis","ok":false,"error":"connection refused"}`)
}
