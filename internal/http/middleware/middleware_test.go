package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doorline/leadcapture-api/internal/auth"
	"github.com/doorline/leadcapture-api/internal/config"
	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestLogging_RequestID(t *testing.T) {
	h := middleware.Logging(zap.NewNop())(ok)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = serve(h, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func limiterConfig() *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Enabled:                true,
		RequestsPerMinute:      100,
		RequestsPerMinuteAuth:  1,
		LoginAttemptsPerMinute: 2,
		WhitelistIPs:           []string{"10.0.0.1"},
		WhitelistPaths:         []string{"/health"},
	}
}

func loginRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = ip + ":5555"
	return req
}

func TestRateLimiter_LimitLogin(t *testing.T) {
	rl := middleware.NewRateLimiter(limiterConfig(), zap.NewNop())
	h := rl.LimitLogin(ok)

	assert.Equal(t, http.StatusOK, serve(h, loginRequest("192.0.2.1")).Code)
	assert.Equal(t, http.StatusOK, serve(h, loginRequest("192.0.2.1")).Code)

	rec := serve(h, loginRequest("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, serve(h, loginRequest("192.0.2.2")).Code)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(h, loginRequest("10.0.0.1")).Code)
	}
}

func TestRateLimiter_LimitKeysByIdentity(t *testing.T) {
	rl := middleware.NewRateLimiter(limiterConfig(), zap.NewNop())
	h := rl.Limit(ok)

	as := func(email string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
		req.RemoteAddr = "192.0.2.9:5555"
		return req.WithContext(auth.WithIdentity(req.Context(), &domain.Identity{Email: email, Role: domain.RoleUser}))
	}

	assert.Equal(t, http.StatusOK, serve(h, as("a@example.com")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, as("a@example.com")).Code)
	assert.Equal(t, http.StatusOK, serve(h, as("b@example.com")).Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := limiterConfig()
	cfg.Enabled = false
	rl := middleware.NewRateLimiter(cfg, zap.NewNop())
	h := rl.LimitLogin(ok)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(h, loginRequest("192.0.2.1")).Code)
	}
}

func TestCORS_ExposesClientHeaders(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Authorization"},
		ExposedHeaders: []string{"X-Request-ID"},
	}
	h := middleware.CORS(cfg, "development", zap.NewNop())(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/export", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := serve(h, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestSecurityHeaders_NoStoreOnAPI(t *testing.T) {
	h := middleware.SecurityHeaders(&config.SecurityConfig{ContentTypeNosniff: true})(ok)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
