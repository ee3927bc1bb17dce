package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Tutor    TutorConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	URL                 string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	ConnMaxIdleTime     time.Duration
	SlowQueryThreshold  time.Duration
	HealthCheckInterval time.Duration
	MigrationsPath      string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret         string
	JWTExpiry         time.Duration
	BCryptCost        int
	MinPasswordLength int
}

// CacheConfig holds cache configuration. Provider is "redis" when a Redis
// URL is set, otherwise the in-memory cache is used.
type CacheConfig struct {
	Provider        string
	RedisURL        string
	DefaultTTL      time.Duration
	LeaderboardTTL  time.Duration
	UserTTL         time.Duration
	CleanupInterval time.Duration
}

// TutorConfig holds the OpenRouter chat-completions client configuration.
type TutorConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	AppTitle     string
	Timeout      time.Duration
	MaxRetries   int
}

// SecurityConfig holds CORS and security-header configuration
type SecurityConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	FrameOptions       string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. In non-production
// environments a .env.<env> file (or plain .env) is loaded first.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server:   loadServerConfig(env),
		Database: loadDatabaseConfig(env),
		Auth:     loadAuthConfig(),
		Cache:    loadCacheConfig(),
		Tutor:    loadTutorConfig(),
		Security: loadSecurityConfig(env),
		Logging:  loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	config := ServerConfig{
		Port:            getEnv("PORT", "8000"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
	}
	if env == "development" {
		config.GracefulTimeout = 10 * time.Second
	}
	return config
}

func loadDatabaseConfig(env string) DatabaseConfig {
	var defaultMaxOpen, defaultMaxIdle int
	var defaultConnLifetime time.Duration

	switch env {
	case "production":
		defaultMaxOpen = 50
		defaultMaxIdle = 20
		defaultConnLifetime = 15 * time.Minute
	default:
		defaultMaxOpen = 10
		defaultMaxIdle = 5
		defaultConnLifetime = 5 * time.Minute
	}

	return DatabaseConfig{
		URL:                 os.Getenv("DATABASE_URL"),
		MaxOpenConns:        getIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpen),
		MaxIdleConns:        getIntEnv("DB_MAX_IDLE_CONNS", defaultMaxIdle),
		ConnMaxLifetime:     getDurationEnv("DB_CONN_MAX_LIFETIME", defaultConnLifetime),
		ConnMaxIdleTime:     getDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		SlowQueryThreshold:  getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		HealthCheckInterval: getDurationEnv("DB_HEALTH_CHECK_INTERVAL", 30*time.Second),
		MigrationsPath:      getEnv("DB_MIGRATIONS_PATH", "./migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		BCryptCost:        getIntEnv("BCRYPT_COST", 12),
		MinPasswordLength: getIntEnv("MIN_PASSWORD_LENGTH", 8),
	}
}

func loadCacheConfig() CacheConfig {
	redisURL := getEnv("REDIS_URL", "")
	provider := getEnv("CACHE_PROVIDER", "")
	if provider == "" {
		if redisURL != "" {
			provider = "redis"
		} else {
			provider = "memory"
		}
	}
	return CacheConfig{
		Provider:        provider,
		RedisURL:        redisURL,
		DefaultTTL:      getDurationEnv("CACHE_DEFAULT_TTL", 5*time.Minute),
		LeaderboardTTL:  getDurationEnv("CACHE_LEADERBOARD_TTL", 30*time.Second),
		UserTTL:         getDurationEnv("CACHE_USER_TTL", 5*time.Minute),
		CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
	}
}

func loadTutorConfig() TutorConfig {
	return TutorConfig{
		APIKey:       getEnv("OPENROUTER_API_KEY", ""),
		BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		DefaultModel: getEnv("OPENROUTER_DEFAULT_MODEL", "deepseek/deepseek-chat"),
		AppTitle:     getEnv("OPENROUTER_APP_TITLE", "QuantLearn"),
		Timeout:      getDurationEnv("OPENROUTER_TIMEOUT", 60*time.Second),
		MaxRetries:   getIntEnv("OPENROUTER_MAX_RETRIES", 3),
	}
}

func loadSecurityConfig(env string) SecurityConfig {
	config := SecurityConfig{
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		FrameOptions:       getEnv("FRAME_OPTIONS", "SAMEORIGIN"),
	}
	switch env {
	case "production":
		config.CORSAllowedOrigins = splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", ""))
	default:
		config.CORSAllowedOrigins = []string{"*"}
	}
	return config
}

func loadLoggingConfig(env string) LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		Format: getEnv("LOG_FORMAT", getDefaultLogFormat(env)),
	}
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.Auth.Validate(c.Server.Environment); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	return nil
}

// Validate checks server configuration.
func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("ReadTimeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("WriteTimeout must be positive")
	}
	return nil
}

// Validate checks database configuration.
func (d *DatabaseConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("MaxOpenConns must be positive")
	}
	if d.MaxIdleConns < 0 {
		return fmt.Errorf("MaxIdleConns cannot be negative")
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("MaxIdleConns cannot be greater than MaxOpenConns")
	}
	return nil
}

// Validate checks auth configuration. The JWT secret is mandatory in
// production; a development fallback is generated elsewhere.
func (a *AuthConfig) Validate(environment string) error {
	if a.JWTSecret == "" && environment == "production" {
		return fmt.Errorf("JWT_SECRET must be set for production")
	}
	if a.BCryptCost < 4 || a.BCryptCost > 31 {
		return fmt.Errorf("BCryptCost must be between 4 and 31")
	}
	if a.MinPasswordLength < 6 {
		return fmt.Errorf("minimum password length must be at least 6")
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the app runs in development.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDefaultLogLevel(env string) string {
	if env == "production" {
		return "info"
	}
	return "debug"
}

func getDefaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "console"
}
