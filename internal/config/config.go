package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver     string
		DSN        string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SQLitePath string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	GRPC struct {
		Host string
		Port string
	}

	Metrics struct {
		Addr string
	}

	// Lock controls the per-key mutex guarding toggles and playlist membership.
	Lock struct {
		TTL   time.Duration
		Tries int
	}

	Cache struct {
		StatsTTL time.Duration
	}

	// Media is the object store holding uploaded assets. An empty Endpoint
	// disables remote deletion of superseded references.
	Media struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "grpc_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.SQLitePath = getEnvDefault("SQLITE_PATH", "vidhub.db")
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "vidhub")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	cfg.Metrics.Addr = getEnvDefault("METRICS_ADDR", ":9090")

	cfg.Lock.TTL = getDurationDefault("LOCK_TTL", 5*time.Second)
	cfg.Lock.Tries = getIntDefault("LOCK_TRIES", 32)

	cfg.Cache.StatsTTL = getDurationDefault("STATS_CACHE_TTL", time.Minute)

	// Media
	cfg.Media.Endpoint = getEnvDefault("MEDIA_ENDPOINT", "")
	cfg.Media.AccessKey = getEnvDefault("MEDIA_ACCESS_KEY", "")
	cfg.Media.SecretKey = getEnvDefault("MEDIA_SECRET_KEY", "")
	cfg.Media.Bucket = getEnvDefault("MEDIA_BUCKET", "vidhub-media")
	cfg.Media.UseSSL = isTruthy(os.Getenv("MEDIA_USE_SSL"))

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getIntDefault(k string, def int) int {
	if n, err := strconv.Atoi(getEnvDefault(k, "")); err == nil && n > 0 {
		return n
	}
	return def
}

// getDurationDefault accepts Go duration strings ("750ms", "5s").
func getDurationDefault(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnvDefault(k, "")); err == nil && d > 0 {
		return d
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
