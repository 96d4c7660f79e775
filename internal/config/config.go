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
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	JWT      JWTConfig
	MockAPI  MockAPIConfig
	Client   ClientConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

// StorageConfig selects the key-value area holding persisted store subsets.
type StorageConfig struct {
	Driver     string
	SQLitePath string
	AuthKey    string
	JobsKey    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type DatabaseConfig struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	DBSSLMode      string
	ConnectTimeout time.Duration
	PoolMaxConns   int32
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type MockAPIConfig struct {
	Latency time.Duration
}

type ClientConfig struct {
	APIBaseURL    string
	InProcess     bool
	ReloadSpec    string
	RefreshSpec   string
	StrictAdd     bool
	ReapplyOnLoad bool
	SingleFlight  bool
}

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{}

	var missing, invalid []string
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
	dur := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	flag := func(key string) bool {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "jobboard"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8080"),
	}

	cfg.Storage = StorageConfig{
		Driver:     strings.ToLower(opt("STORAGE_DRIVER", DriverMemory)),
		SQLitePath: opt("STORAGE_SQLITE_PATH", "data/jobboard.db"),
		AuthKey:    opt("STORAGE_AUTH_KEY", "auth-storage"),
		JobsKey:    opt("STORAGE_JOBS_KEY", "job-storage"),
	}
	switch cfg.Storage.Driver {
	case DriverMemory, DriverRedis, DriverSQLite, DriverPostgres:
	default:
		invalid = append(invalid, "STORAGE_DRIVER")
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		DB:       num("REDIS_DB", 0),
		CacheTTL: dur("REDIS_TTL", 600*time.Second),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", "localhost"),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", "jobboard"),
		DBUser:         opt("DB_USER", "postgres"),
		DBPassword:     opt("DB_PASSWORD", ""),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(num("DB_POOL_MAX_CONNS", 4)),
	}

	if cfg.App.Environment == "production" {
		cfg.JWT.AccessSecret = req("JWT_ACCESS_SECRET")
		cfg.JWT.RefreshSecret = req("JWT_REFRESH_SECRET")
	} else {
		cfg.JWT.AccessSecret = opt("JWT_ACCESS_SECRET", "dev-access-secret")
		cfg.JWT.RefreshSecret = opt("JWT_REFRESH_SECRET", "dev-refresh-secret")
	}
	cfg.JWT.AccessExpiresIn = dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	cfg.JWT.RefreshExpiresIn = dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)

	cfg.MockAPI = MockAPIConfig{
		Latency: dur("MOCK_API_LATENCY", 0),
	}

	cfg.Client = ClientConfig{
		APIBaseURL:    opt("API_BASE_URL", "http://localhost:8080"),
		InProcess:     flag("CLIENT_IN_PROCESS"),
		ReloadSpec:    opt("CLIENT_RELOAD_SPEC", "@every 5m"),
		RefreshSpec:   opt("CLIENT_REFRESH_SPEC", "@every 10m"),
		StrictAdd:     flag("CLIENT_STRICT_ADD"),
		ReapplyOnLoad: flag("CLIENT_REAPPLY_ON_LOAD"),
		SingleFlight:  flag("CLIENT_SINGLE_FLIGHT"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
