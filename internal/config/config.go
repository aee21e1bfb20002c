package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/doorline/leadcapture-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	ApiKey    ApiKeyConfig
	Drafts    DraftsConfig
	Storage   StorageConfig
	Jobs      JobsConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	AutoMigrate     bool
	// MigrationsDir holds the goose SQL files used by cmd/migrate
	MigrationsDir string
}

// AuthConfig holds the two static identities and token settings.
// Passwords may be plain text or bcrypt hashes ($2a$/$2b$/$2y$ prefix).
type AuthConfig struct {
	UserEmail     string
	UserPassword  string
	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	JWTIssuer     string
	// TokenTTL is the access token lifetime in minutes
	TokenTTL int
}

type ApiKeyConfig struct {
	Value string // Loaded from secrets or environment
}

// DraftsConfig controls where in-progress wizard state is kept
type DraftsConfig struct {
	// Store is "memory" or "redis"
	Store string
	// TTL is the idle lifetime of a draft in minutes
	TTL           int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

// JobsConfig holds cron expressions for background jobs (seconds field included)
type JobsConfig struct {
	Enabled            bool
	DraftCleanupCron   string
	ExportSnapshot     bool
	ExportSnapshotCron string
	// Timeout is the per-run timeout in seconds
	Timeout int
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
	EnableMetrics  bool
	// MaxBodyMB caps request bodies; door photos arrive as data URIs
	MaxBodyMB int64
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the default rate limit for unauthenticated requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the rate limit for authenticated requests (per identity)
	RequestsPerMinuteAuth int
	// LoginAttemptsPerMinute caps login attempts per IP
	LoginAttemptsPerMinute int
	WhitelistIPs           []string
	// WhitelistPaths is a list of paths that bypass rate limiting (e.g., /health)
	WhitelistPaths []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL builds a postgres:// URL for lib/pq (used by migrations)
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TokenTTLDuration returns the access token lifetime
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// TTLDuration returns the draft idle lifetime
func (d *DraftsConfig) TTLDuration() time.Duration {
	return time.Duration(d.TTL) * time.Minute
}

// TimeoutDuration returns the per-run job timeout
func (j *JobsConfig) TimeoutDuration() time.Duration {
	return time.Duration(j.Timeout) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load API key from environment if not in config
	if cfg.ApiKey.Value == "" {
		cfg.ApiKey.Value = v.GetString("ADMIN_API_KEY")
	}

	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// bindEnv maps the flat credential variables used by deployments onto
// nested keys. AutomaticEnv only resolves keys viper already knows about.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("auth.userEmail", "AUTH_USER_EMAIL", "USER_EMAIL")
	_ = v.BindEnv("auth.userPassword", "AUTH_USER_PASSWORD", "USER_PASS")
	_ = v.BindEnv("auth.adminEmail", "AUTH_ADMIN_EMAIL", "ADMIN_EMAIL")
	_ = v.BindEnv("auth.adminPassword", "AUTH_ADMIN_PASSWORD", "ADMIN_PASS")
	_ = v.BindEnv("auth.jwtSecret", "AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("database.migrationsDir", "DATABASE_MIGRATIONSDIR", "MIGRATIONS_DIR")
	_ = v.BindEnv("drafts.redisAddr", "DRAFTS_REDISADDR", "REDIS_ADDR")
	_ = v.BindEnv("drafts.redisPassword", "DRAFTS_REDISPASSWORD", "REDIS_PASSWORD")
}

// Validate checks settings that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret is required")
	}
	if c.Auth.UserEmail == "" && c.Auth.AdminEmail == "" {
		return fmt.Errorf("at least one of auth.userEmail or auth.adminEmail is required")
	}
	switch c.Drafts.Store {
	case "memory":
	case "redis":
		if c.Drafts.RedisAddr == "" {
			return fmt.Errorf("drafts.redisAddr is required when drafts.store is redis")
		}
	default:
		return fmt.Errorf("unsupported drafts.store: %s", c.Drafts.Store)
	}
	return nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source
// In development (or when secrets.source = "environment"), secrets come from env vars
// In staging/production (or when secrets.source = "vault"), secrets come from Azure Key Vault
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if err := ApplySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

// SecretResolver is the part of the secrets provider config resolution needs
type SecretResolver interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// ApplySecrets overlays secret values onto cfg. Secrets that cannot be
// resolved keep their configured value.
func ApplySecrets(ctx context.Context, cfg *Config, provider SecretResolver) error {
	overlay := func(target *string, secretName, envName string) {
		if value, err := provider.GetSecretOrEnv(ctx, secretName, envName); err == nil && value != "" {
			*target = value
		}
	}

	// Database: host, user and password from vault; name and SSL mode per environment
	overlay(&cfg.Database.Host, "POSTGRES-MAIN-HOST", "DATABASE_HOST")
	overlay(&cfg.Database.User, "POSTGRES-MAIN-USER", "DATABASE_USER")
	overlay(&cfg.Database.Password, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD")
	if defaultDB := os.Getenv("DEFAULT_DATABASE"); defaultDB != "" {
		cfg.Database.Name = defaultDB
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	// Login identities and token signing
	overlay(&cfg.Auth.UserEmail, "lead-user-email", "AUTH_USER_EMAIL")
	overlay(&cfg.Auth.UserPassword, "lead-user-password", "AUTH_USER_PASSWORD")
	overlay(&cfg.Auth.AdminEmail, "lead-admin-email", "AUTH_ADMIN_EMAIL")
	overlay(&cfg.Auth.AdminPassword, "lead-admin-password", "AUTH_ADMIN_PASSWORD")
	overlay(&cfg.Auth.JWTSecret, "jwt-signing-secret", "AUTH_JWT_SECRET")

	overlay(&cfg.ApiKey.Value, "admin-api-key", "ADMIN_API_KEY")
	overlay(&cfg.Drafts.RedisPassword, "redis-password", "DRAFTS_REDISPASSWORD")
	overlay(&cfg.Storage.CloudConnectionString, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING")

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt signing secret could not be resolved")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Door Lead Capture API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "leadcapture")
	v.SetDefault("database.user", "leadcapture_user")
	v.SetDefault("database.password", "leadcapture_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.migrationsDir", "./migrations")

	// Auth defaults
	v.SetDefault("auth.userEmail", "")
	v.SetDefault("auth.userPassword", "")
	v.SetDefault("auth.adminEmail", "")
	v.SetDefault("auth.adminPassword", "")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.jwtIssuer", "leadcapture-api")
	v.SetDefault("auth.tokenTTL", 480) // one working day

	// Draft store defaults
	v.SetDefault("drafts.store", "memory")
	v.SetDefault("drafts.ttl", 720) // 12 hours
	v.SetDefault("drafts.redisAddr", "")
	v.SetDefault("drafts.redisPassword", "")
	v.SetDefault("drafts.redisDB", 0)
	v.SetDefault("drafts.keyPrefix", "leadcapture:draft:")

	// Storage defaults (export snapshots)
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "lead-exports")

	// Job defaults
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.draftCleanupCron", "0 */10 * * * *") // every 10 minutes
	v.SetDefault("jobs.exportSnapshot", false)
	v.SetDefault("jobs.exportSnapshotCron", "0 0 2 * * *") // 02:00 daily
	v.SetDefault("jobs.timeout", 300)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)
	v.SetDefault("server.enableMetrics", true)
	v.SetDefault("server.maxBodyMB", 20)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID", "Content-Disposition"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 300)
	v.SetDefault("rateLimit.loginAttemptsPerMinute", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready", "/metrics"})
}
