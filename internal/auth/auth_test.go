package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doorline/leadcapture-api/internal/config"
	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig(t *testing.T) *config.AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.AuthConfig{
		UserEmail:     "sales@example.com",
		UserPassword:  "user-pass",
		AdminEmail:    "admin@example.com",
		AdminPassword: string(hash),
		JWTSecret:     "test-secret",
		JWTIssuer:     "leadcapture-test",
		TokenTTL:      60,
	}
}

func TestCredentials_Verify(t *testing.T) {
	creds := NewCredentials(testAuthConfig(t))

	tests := []struct {
		name     string
		email    string
		password string
		wantRole domain.Role
		wantErr  bool
	}{
		{name: "user plain password", email: "sales@example.com", password: "user-pass", wantRole: domain.RoleUser},
		{name: "admin bcrypt password", email: "admin@example.com", password: "admin-pass", wantRole: domain.RoleAdmin},
		{name: "email is case insensitive", email: " Sales@Example.com ", password: "user-pass", wantRole: domain.RoleUser},
		{name: "wrong password", email: "sales@example.com", password: "nope", wantErr: true},
		{name: "user password on admin account", email: "admin@example.com", password: "user-pass", wantErr: true},
		{name: "unknown email", email: "who@example.com", password: "user-pass", wantErr: true},
		{name: "empty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := creds.Verify(tt.email, tt.password)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidCredentials))
				assert.Nil(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, identity.Role)
			assert.Equal(t, tt.wantRole.Landing(), identity.Landing)
		})
	}
}

func TestCredentials_EmptyPasswordNeverMatches(t *testing.T) {
	creds := NewCredentials(&config.AuthConfig{UserEmail: "sales@example.com"})
	_, err := creds.Verify("sales@example.com", "anything")
	assert.Error(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig(t))

	token, expiresAt, err := issuer.Issue(domain.Identity{Email: "admin@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", identity.Email)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
	assert.Equal(t, "dashboard", identity.Landing)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	cfg := testAuthConfig(t)
	issuer := NewTokenIssuer(cfg)

	t.Run("expired", func(t *testing.T) {
		past := NewTokenIssuer(cfg)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.Issue(domain.Identity{Email: "sales@example.com", Role: domain.RoleUser})
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.True(t, errors.Is(err, ErrExpiredToken))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := *cfg
		other.JWTSecret = "other-secret"
		token, _, err := NewTokenIssuer(&other).Issue(domain.Identity{Email: "sales@example.com", Role: domain.RoleUser})
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("unknown role", func(t *testing.T) {
		token, _, err := issuer.Issue(domain.Identity{Email: "sales@example.com", Role: "owner"})
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := Claims{Email: "x@example.com", Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.JWTIssuer}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Validate(token)
		assert.Error(t, err)
	})
}

func TestMiddleware_Authenticate(t *testing.T) {
	cfg := testAuthConfig(t)
	issuer := NewTokenIssuer(cfg)
	mw := NewMiddleware(issuer, "admin-key", zap.NewNop())

	var seen *domain.Identity
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	userToken, _, err := issuer.Issue(domain.Identity{Email: "sales@example.com", Role: domain.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantEmail  string
	}{
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer " + userToken}, wantStatus: http.StatusNoContent, wantEmail: "sales@example.com"},
		{name: "api key", headers: map[string]string{"x-api-key": "admin-key"}, wantStatus: http.StatusNoContent, wantEmail: apiKeyIdentity.Email},
		{name: "bad api key", headers: map[string]string{"x-api-key": "wrong", "Authorization": "Bearer " + userToken}, wantStatus: http.StatusUnauthorized},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic abc"}, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", headers: map[string]string{"Authorization": "Bearer abc.def.ghi"}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantEmail != "" {
				require.NotNil(t, seen)
				assert.Equal(t, tt.wantEmail, seen.Email)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	mw := NewMiddleware(NewTokenIssuer(testAuthConfig(t)), "", zap.NewNop())
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(identity *domain.Identity) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
		if identity != nil {
			req = req.WithContext(WithIdentity(req.Context(), identity))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&domain.Identity{Email: "sales@example.com", Role: domain.RoleUser}))
	assert.Equal(t, http.StatusOK, serve(&domain.Identity{Email: "admin@example.com", Role: domain.RoleAdmin}))
}

func TestLeadScope(t *testing.T) {
	assert.Equal(t, repository.LeadScope{}, LeadScope(context.Background()))

	ctx := WithIdentity(context.Background(), &domain.Identity{Email: "admin@example.com", Role: domain.RoleAdmin})
	assert.Equal(t, repository.AllLeads, LeadScope(ctx))

	ctx = WithIdentity(context.Background(), &domain.Identity{Email: "sales@example.com", Role: domain.RoleUser})
	assert.Equal(t, repository.OwnLeads("sales@example.com"), LeadScope(ctx))
}
