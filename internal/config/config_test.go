package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

type fakeResolver map[string]string

func (f fakeResolver) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	if v, ok := f[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "memory", cfg.Drafts.Store)
	assert.Equal(t, 12*time.Hour, cfg.Drafts.TTLDuration())
	assert.Equal(t, 8*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Equal(t, "0 */10 * * * *", cfg.Jobs.DraftCleanupCron)
	assert.Contains(t, cfg.RateLimit.WhitelistPaths, "/health")
	assert.Equal(t, "./migrations", cfg.Database.MigrationsDir)
}

func TestLoad_FlatCredentialVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_USER_EMAIL", "sales@example.com")
	t.Setenv("ADMIN_PASS", "hunter2")
	t.Setenv("JWT_SECRET", "signing")
	t.Setenv("MIGRATIONS_DIR", "/srv/migrations")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sales@example.com", cfg.Auth.UserEmail)
	assert.Equal(t, "hunter2", cfg.Auth.AdminPassword)
	assert.Equal(t, "signing", cfg.Auth.JWTSecret)
	assert.Equal(t, "/srv/migrations", cfg.Database.MigrationsDir)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:   AuthConfig{JWTSecret: "s", UserEmail: "u@example.com"},
			Drafts: DraftsConfig{Store: "memory"},
		}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.Auth.JWTSecret = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Auth.UserEmail = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Drafts.Store = "redis"
	assert.Error(t, c.Validate())
	c.Drafts.RedisAddr = "localhost:6379"
	assert.NoError(t, c.Validate())

	c = valid()
	c.Drafts.Store = "disk"
	assert.Error(t, c.Validate())
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "localhost", User: "local"},
		Auth:     AuthConfig{UserEmail: "keep@example.com"},
	}

	err := ApplySecrets(context.Background(), cfg, fakeResolver{
		"POSTGRES-MAIN-HOST":  "db.internal",
		"lead-admin-email":    "admin@example.com",
		"lead-admin-password": "$2a$10$hash",
		"jwt-signing-secret":  "vault-secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "local", cfg.Database.User)
	assert.Equal(t, "keep@example.com", cfg.Auth.UserEmail)
	assert.Equal(t, "admin@example.com", cfg.Auth.AdminEmail)
	assert.Equal(t, "vault-secret", cfg.Auth.JWTSecret)
}

func TestApplySecrets_RequiresSigningSecret(t *testing.T) {
	err := ApplySecrets(context.Background(), &Config{}, fakeResolver{})
	assert.Error(t, err)
}
