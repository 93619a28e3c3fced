package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Verification VerificationConfig
	Payroll      PayrollConfig
	Kiosk        KioskConfig
	Storage      StorageConfig
	Slack        SlackConfig
}

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

// VerificationConfig configures the face-presence check.
// An empty APIKey disables the remote call; every punch then gets the offline greeting.
type VerificationConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type PayrollConfig struct {
	PayPolicy string
}

type KioskConfig struct {
	DefaultAdminPIN string
}

type StorageConfig struct {
	Type     string // none | local | s3
	BasePath string
	BaseURL  string
	S3Bucket string
	S3Prefix string
}

type SlackConfig struct {
	BotToken     string
	PunchChannel string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", DriverPostgres),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "gil_ponto"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "gil_ponto.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.CORSAllowedOrigins) == 0 {
		config.App.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Verification configuration
	verificationTimeout, err := time.ParseDuration(getEnv("VERIFICATION_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_TIMEOUT: %w", err)
	}

	config.Verification = VerificationConfig{
		APIKey:  getEnv("GEMINI_API_KEY", ""),
		Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		Timeout: verificationTimeout,
	}

	config.Payroll = PayrollConfig{
		PayPolicy: getEnv("PAYROLL_PAY_POLICY", "overtime_only"),
	}

	config.Kiosk = KioskConfig{
		DefaultAdminPIN: getEnv("DEFAULT_ADMIN_PIN", "9999"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "none"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "/uploads"),
		S3Bucket: getEnv("S3_BUCKET", ""),
		S3Prefix: getEnv("S3_PREFIX", "punches"),
	}

	config.Slack = SlackConfig{
		BotToken:     getEnv("SLACK_BOT_TOKEN", ""),
		PunchChannel: getEnv("SLACK_PUNCH_CHANNEL", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	switch c.Payroll.PayPolicy {
	case "overtime_only", "regular_plus_overtime":
	default:
		return fmt.Errorf("PAYROLL_PAY_POLICY must be overtime_only or regular_plus_overtime")
	}

	if len(c.Kiosk.DefaultAdminPIN) != 4 {
		return fmt.Errorf("DEFAULT_ADMIN_PIN must have 4 digits")
	}
	for _, r := range c.Kiosk.DefaultAdminPIN {
		if r < '0' || r > '9' {
			return fmt.Errorf("DEFAULT_ADMIN_PIN must have 4 digits")
		}
	}

	switch c.Storage.Type {
	case "none", "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE is s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	if c.Slack.BotToken != "" && c.Slack.PunchChannel == "" {
		return fmt.Errorf("SLACK_PUNCH_CHANNEL is required when SLACK_BOT_TOKEN is set")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the kiosk's time zone, used for calendar-day bucketing.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
