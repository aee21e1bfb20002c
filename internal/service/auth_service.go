package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/doorline/leadcapture-api/internal/auth"
	"github.com/doorline/leadcapture-api/internal/domain"
	"go.uber.org/zap"
)

// AuthService exchanges credentials for access tokens
type AuthService struct {
	credentials *auth.Credentials
	tokens      *auth.TokenIssuer
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(credentials *auth.Credentials, tokens *auth.TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		logger:      logger,
	}
}

// Login verifies the credentials and issues a token for the matching identity
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	identity, err := s.credentials.Verify(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("login rejected", zap.String("email", req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(*identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("login succeeded",
		zap.String("email", identity.Email),
		zap.String("role", string(identity.Role)),
	)

	return &domain.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Identity:    *identity,
	}, nil
}

// Me returns the identity attached to ctx
func (s *AuthService) Me(ctx context.Context) (*domain.Identity, error) {
	identity, ok := auth.FromContext(ctx)
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	me := *identity
	me.Landing = me.Role.Landing()
	return &me, nil
}
