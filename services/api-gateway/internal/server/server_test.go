package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/auth"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/contextkeys"
)

func TestProxyDirectorPrefixesPath(t *testing.T) {
	proxy := newReverseProxy("http://tasks:8082", "/api/v1")

	req := httptest.NewRequest("GET", "http://gateway/tasks/abc?page=2&size=5", nil)
	proxy.Director(req)

	assert.Equal(t, "tasks:8082", req.URL.Host)
	assert.Equal(t, "tasks:8082", req.Host)
	assert.Equal(t, "/api/v1/tasks/abc", req.URL.Path)
	assert.Equal(t, "page=2&size=5", req.URL.RawQuery)
}

func TestProxyDirectorForwardsTraceID(t *testing.T) {
	proxy := newReverseProxy("http://tasks:8082", "/api/v1")

	req := httptest.NewRequest("POST", "http://gateway/tasks", nil)
	ctx := contextkeys.ContextWithTraceID(req.Context(), "trace-123")
	req = req.WithContext(ctx)

	proxy.Director(req)

	assert.Equal(t, "trace-123", req.Header.Get("X-Trace-ID"))
}

func TestSSEProxyKeepsStreamingPathPrefix(t *testing.T) {
	proxy := newReverseProxy("http://notifications:8083", "/api/v1")
	proxy.FlushInterval = -1

	req := httptest.NewRequest("GET", "http://gateway/notifications/subscribe", nil)
	proxy.Director(req)

	assert.Equal(t, "/api/v1/notifications/subscribe", req.URL.Path)
}

type fakeValidator struct {
	claims *auth.Claims
	err    error
	token  string
}

func (f *fakeValidator) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	f.token = token
	return f.claims, f.err
}

func TestAuthenticateSetsUserIDHeader(t *testing.T) {
	validator := &fakeValidator{claims: &auth.Claims{UserID: "user-1", Email: "a@b.c", Username: "alice"}}
	mw := NewAuthMiddleware(validator)

	var forwarded *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/tasks", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	// A spoofed header from the client is overwritten.
	req.Header.Set("X-User-ID", "user-666")
	w := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-abc", validator.token)
	require.NotNil(t, forwarded)
	assert.Equal(t, "user-1", forwarded.Header.Get("X-User-ID"))

	claims, ok := ClaimsFromContext(forwarded.Context())
	require.True(t, ok)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(&fakeValidator{})

	req := httptest.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()

	mw.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not be called")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsNonBearerToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeValidator{})

	req := httptest.NewRequest("GET", "/tasks", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()

	mw.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not be called")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(&fakeValidator{err: errors.New("token is invalid or expired")})

	req := httptest.NewRequest("GET", "/tasks", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()

	mw.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not be called")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
