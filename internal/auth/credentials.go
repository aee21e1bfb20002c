package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/doorline/leadcapture-api/internal/config"
	"github.com/doorline/leadcapture-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when no configured account matches
var ErrInvalidCredentials = errors.New("invalid email or password")

type account struct {
	email    string
	password string
	role     domain.Role
}

// Credentials checks logins against the configured user and admin accounts
type Credentials struct {
	accounts []account
}

// NewCredentials builds the account list. Accounts without an email are
// skipped. The user account is checked before the admin account.
func NewCredentials(cfg *config.AuthConfig) *Credentials {
	c := &Credentials{}
	if cfg.UserEmail != "" {
		c.accounts = append(c.accounts, account{email: cfg.UserEmail, password: cfg.UserPassword, role: domain.RoleUser})
	}
	if cfg.AdminEmail != "" {
		c.accounts = append(c.accounts, account{email: cfg.AdminEmail, password: cfg.AdminPassword, role: domain.RoleAdmin})
	}
	return c
}

// Verify returns the identity for email and password
func (c *Credentials) Verify(email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	for _, a := range c.accounts {
		if !strings.EqualFold(a.email, email) {
			continue
		}
		if !passwordMatches(a.password, password) {
			continue
		}
		return &domain.Identity{
			Email:   a.email,
			Role:    a.role,
			Landing: a.role.Landing(),
		}, nil
	}
	return nil, ErrInvalidCredentials
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func passwordMatches(stored, given string) bool {
	if stored == "" {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
