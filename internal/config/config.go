package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by RATE_LIMIT_STORE and CONTENT_STORE.
const (
	StorePostgres = "postgres"
	StoreSqlite   = "sqlite"
	StoreRedis    = "redis"
	StoreNone     = "none"
)

// Config aggregates runtime configuration for the service. It is built once
// in main and passed by value; nothing below main reads the environment.
type Config struct {
	App       AppConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Content   ContentConfig
	Postgres  PostgresConfig
	Sqlite    SqliteConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Metrics   MetricsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// AuthConfig holds the single administrator's secrets.
type AuthConfig struct {
	AdminUsername     string
	AdminPassword     string
	JWTSecret         string
	SessionTTLSeconds int
	AdminToken        string
}

// RateLimitConfig configures the login attempt limiter.
type RateLimitConfig struct {
	Store         string
	WindowSeconds int
	MaxAttempts   int
}

// ContentConfig configures the editable content store and the deploy hook.
type ContentConfig struct {
	Store          string
	DeployHookURL  string
	MaxValueLength int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// SqliteConfig points at a local database file.
type SqliteConfig struct {
	File          string
	MaxOpenConns  int
	RunMigrations bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables, applying defaults where possible.
// Missing secrets are not an error here: a missing JWT secret surfaces as a
// configuration error on login, a missing admin token rejects every save.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "site-admin"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Auth: AuthConfig{
			AdminUsername:     os.Getenv("ADMIN_USERNAME"),
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
			JWTSecret:         os.Getenv("JWT_SECRET"),
			SessionTTLSeconds: getEnvAsInt("SESSION_TTL_SECONDS", 86400),
			AdminToken:        os.Getenv("ADMIN_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Store:         strings.ToLower(getEnv("RATE_LIMIT_STORE", StoreSqlite)),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 900),
			MaxAttempts:   getEnvAsInt("RATE_LIMIT_MAX_ATTEMPTS", 5),
		},
		Content: ContentConfig{
			Store:          strings.ToLower(getEnv("CONTENT_STORE", StoreSqlite)),
			DeployHookURL:  os.Getenv("DEPLOY_HOOK_URL"),
			MaxValueLength: getEnvAsInt("CONTENT_MAX_VALUE_LENGTH", 10000),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Sqlite: SqliteConfig{
			File:          getEnv("SQLITE_FILE", "site-admin.db"),
			MaxOpenConns:  getEnvAsInt("SQLITE_MAX_OPEN_CONNS", 4),
			RunMigrations: getEnvAsBool("SQLITE_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "site-admin:"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.RateLimit.Store {
	case StorePostgres, StoreSqlite, StoreRedis, StoreNone:
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE %q", c.RateLimit.Store)
	}
	switch c.Content.Store {
	case StorePostgres, StoreSqlite, StoreNone:
	default:
		return fmt.Errorf("invalid CONTENT_STORE %q", c.Content.Store)
	}
	if c.usesStore(StorePostgres) && c.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when a store is set to postgres")
	}
	return nil
}

func (c *Config) usesStore(kind string) bool {
	return c.RateLimit.Store == kind || c.Content.Store == kind
}

// UsesPostgres reports whether any store is backed by postgres.
func (c *Config) UsesPostgres() bool { return c.usesStore(StorePostgres) }

// UsesSqlite reports whether any store is backed by sqlite.
func (c *Config) UsesSqlite() bool { return c.usesStore(StoreSqlite) }

// UsesRedis reports whether the limiter is backed by redis.
func (c *Config) UsesRedis() bool { return c.RateLimit.Store == StoreRedis }

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IsDeployed is false for local development and tests. Secure cookies and the
// deploy hook are only used when it is true.
func (a AppConfig) IsDeployed() bool {
	switch strings.ToLower(a.Env) {
	case "", "development", "dev", "local", "test":
		return false
	}
	return true
}

// Window returns the attempt window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
