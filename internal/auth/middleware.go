package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/doorline/leadcapture-api/internal/domain"
	"go.uber.org/zap"
)

// apiKeyIdentity is the identity attached to requests carrying the admin API key
var apiKeyIdentity = domain.Identity{
	Email:   "system@leadcapture.local",
	Role:    domain.RoleAdmin,
	Landing: domain.RoleAdmin.Landing(),
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenIssuer
	apiKey string
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenIssuer, apiKey string, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		apiKey: apiKey,
		logger: logger,
	}
}

// Authenticate is the main authentication middleware
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Try API key first
		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if !m.validateAPIKey(apiKey) {
				m.logger.Warn("invalid API key attempt",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			identity := apiKeyIdentity
			m.logger.Info("request authenticated",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("auth_type", "api_key"),
				zap.String("user_email", identity.Email),
				zap.Duration("auth_duration", time.Since(start)),
			)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), &identity)))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Unauthorized: missing or malformed authorization header", http.StatusUnauthorized)
			return
		}

		identity, err := m.tokens.Validate(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", "jwt"),
			zap.String("user_email", identity.Email),
			zap.String("role", string(identity.Role)),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// OptionalAuthenticate attaches an identity when valid credentials are present
// and otherwise lets the request through unauthenticated
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey := r.Header.Get("x-api-key"); apiKey != "" && m.validateAPIKey(apiKey) {
			identity := apiKeyIdentity
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), &identity)))
			return
		}

		if token, ok := bearerToken(r); ok {
			if identity, err := m.tokens.Validate(token); err == nil {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole middleware ensures the caller has one of roles
func (m *Middleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no identity", http.StatusForbidden)
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.Warn("role check failed",
				zap.String("path", r.URL.Path),
				zap.String("user_email", identity.Email),
				zap.String("role", string(identity.Role)),
			)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}

// RequireAdmin middleware ensures the caller is an admin
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(domain.RoleAdmin)(next)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}
