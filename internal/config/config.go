package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Scanner  ScannerConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type ScannerConfig struct {
	// StaleAfter is the validation age beyond which a core-stack skill is
	// flagged for re-validation. Strictly "older than", not "at least".
	StaleAfter time.Duration
	Cron       string
	LockTTL    time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8080"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:      optDuration("DB_CONNECT_TIMEOUT_SECONDS", 5*time.Second),
		PoolMaxConns:        int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:        int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: optDuration("DB_POOL_MAX_CONN_LIFETIME_SECONDS", 0),
		PoolMaxConnIdleTime: optDuration("DB_POOL_MAX_CONN_IDLE_SECONDS", 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_SECONDS", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_SECONDS", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL_SECONDS", 600*time.Second),
	}

	cfg.Scanner = ScannerConfig{
		StaleAfter: time.Duration(optInt("SCAN_STALE_AFTER_DAYS", 365)) * 24 * time.Hour,
		Cron:       opt("SCAN_CRON", "0 3 * * *"),
		LockTTL:    optDuration("SCAN_LOCK_TTL_SECONDS", time.Hour),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
