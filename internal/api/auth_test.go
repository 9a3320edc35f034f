package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"staybook/internal/config"
)

func authConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			HeaderExtra:  "x-api-extra",
			APIKeys: []config.APIClientKey{
				{Key: "key-1", Extra: "secret-1", Name: "integration", Permissions: []string{"read:bookings"}},
				{Key: "key-2", Extra: "secret-2", Name: "admin", Permissions: []string{"read:bookings", "write:bookings", "admin"}},
			},
		},
	}
}

func wrapOK(cfg config.APIConfig) http.Handler {
	auth := NewHTTPAuth(cfg)
	return auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMissingHeaders(t *testing.T) {
	handler := wrapOK(authConfig())

	rec := doRequest(handler, http.MethodGet, "/api/v1/bookings?code=123456", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidKey(t *testing.T) {
	handler := wrapOK(authConfig())

	rec := doRequest(handler, http.MethodGet, "/api/v1/bookings?code=123456", map[string]string{
		"x-api-key":   "wrong",
		"x-api-extra": "secret-1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidExtra(t *testing.T) {
	handler := wrapOK(authConfig())

	rec := doRequest(handler, http.MethodGet, "/api/v1/bookings?code=123456", map[string]string{
		"x-api-key":   "key-1",
		"x-api-extra": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidKey(t *testing.T) {
	handler := wrapOK(authConfig())

	rec := doRequest(handler, http.MethodGet, "/api/v1/bookings?code=123456", map[string]string{
		"x-api-key":   "key-1",
		"x-api-extra": "secret-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthPermissionDenied(t *testing.T) {
	handler := wrapOK(authConfig())

	// key-1 может читать, но не админить.
	rec := doRequest(handler, http.MethodGet, "/api/v1/admin/bookings", map[string]string{
		"x-api-key":   "key-1",
		"x-api-extra": "secret-1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(handler, http.MethodGet, "/api/v1/admin/bookings", map[string]string{
		"x-api-key":   "key-2",
		"x-api-extra": "secret-2",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	cfg := authConfig()
	cfg.Auth.Enabled = false
	handler := wrapOK(cfg)

	rec := doRequest(handler, http.MethodGet, "/api/v1/bookings?code=123456", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := authConfig()
	cfg.Auth.Enabled = false
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 2}
	handler := wrapOK(cfg)

	headers := map[string]string{"x-api-key": "key-1"}

	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/healthz", headers).Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/healthz", headers).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodGet, "/healthz", headers).Code)
}

func TestRateLimitPerClient(t *testing.T) {
	cfg := authConfig()
	cfg.Auth.Enabled = false
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 1}
	handler := wrapOK(cfg)

	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/healthz", map[string]string{"x-api-key": "a"}).Code)
	// Другой клиент не делит лимит с первым.
	assert.Equal(t, http.StatusOK, doRequest(handler, http.MethodGet, "/healthz", map[string]string{"x-api-key": "b"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, http.MethodGet, "/healthz", map[string]string{"x-api-key": "a"}).Code)
}
