package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Risk       RiskConfig
	PrintPacks PrintPackConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds verification settings; tokens are issued by the identity provider.
type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RiskConfig tunes the risk alert monitor rules and its triggers.
type RiskConfig struct {
	ApprovalSLA     time.Duration
	ReviewSLA       time.Duration
	PrintLeadTime   time.Duration
	ScanEnabled     bool
	ScanSchedule    string
	LockTTL         time.Duration
	QueueWorkers    int
	QueueRetries    int
	SummaryCacheTTL time.Duration
}

// PrintPackConfig controls print pack rendering and signed downloads.
type PrintPackConfig struct {
	Enabled         bool
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	Retention       time.Duration
	CleanupSchedule string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Risk = RiskConfig{
		ApprovalSLA:     parseDuration(v.GetString("RISK_APPROVAL_SLA"), 72*time.Hour),
		ReviewSLA:       parseDuration(v.GetString("RISK_REVIEW_SLA"), 48*time.Hour),
		PrintLeadTime:   parseDuration(v.GetString("RISK_PRINT_LEAD_TIME"), 48*time.Hour),
		ScanEnabled:     v.GetBool("RISK_SCAN_ENABLED"),
		ScanSchedule:    v.GetString("RISK_SCAN_SCHEDULE"),
		LockTTL:         parseDuration(v.GetString("RISK_LOCK_TTL"), 5*time.Minute),
		QueueWorkers:    v.GetInt("RISK_QUEUE_WORKERS"),
		QueueRetries:    v.GetInt("RISK_QUEUE_RETRIES"),
		SummaryCacheTTL: parseDuration(v.GetString("RISK_SUMMARY_CACHE_TTL"), 2*time.Minute),
	}

	cfg.PrintPacks = PrintPackConfig{
		Enabled:         v.GetBool("PRINT_PACKS_ENABLED"),
		StorageDir:      v.GetString("PRINT_PACKS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("PRINT_PACKS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("PRINT_PACKS_SIGNED_URL_TTL"), 30*time.Minute),
		Retention:       parseDuration(v.GetString("PRINT_PACKS_RETENTION"), 7*24*time.Hour),
		CleanupSchedule: v.GetString("PRINT_PACKS_CLEANUP_SCHEDULE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "exam_workflow")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RISK_APPROVAL_SLA", "72h")
	v.SetDefault("RISK_REVIEW_SLA", "48h")
	v.SetDefault("RISK_PRINT_LEAD_TIME", "48h")
	v.SetDefault("RISK_SCAN_ENABLED", true)
	v.SetDefault("RISK_SCAN_SCHEDULE", "@every 15m")
	v.SetDefault("RISK_LOCK_TTL", "5m")
	v.SetDefault("RISK_QUEUE_WORKERS", 2)
	v.SetDefault("RISK_QUEUE_RETRIES", 3)
	v.SetDefault("RISK_SUMMARY_CACHE_TTL", "2m")

	v.SetDefault("PRINT_PACKS_ENABLED", true)
	v.SetDefault("PRINT_PACKS_STORAGE_DIR", "./print-packs")
	v.SetDefault("PRINT_PACKS_SIGNED_URL_SECRET", "dev_print_pack_secret")
	v.SetDefault("PRINT_PACKS_SIGNED_URL_TTL", "30m")
	v.SetDefault("PRINT_PACKS_RETENTION", "168h")
	v.SetDefault("PRINT_PACKS_CLEANUP_SCHEDULE", "@daily")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
