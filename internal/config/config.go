package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMinIO    = "minio"
)

type Config struct {
	Port               string
	BackendBaseURL     string
	AllowOrigins       []string
	LogLevel           string

	LogstashTCPAddr       string
	LogstashDialTimeout   time.Duration
	LogstashWriteTimeout  time.Duration
	LogstashRetryInterval time.Duration
	LogstashQueueSize     int

	StorageDriver      string
	DatabaseURL        string
	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinIOBucketStorage string
	DefaultLocation    string
	SearchRadiusMeters int
	RequestTimeout     time.Duration
	GeolocationTimeout time.Duration
	MapsEnabled        bool
	DirectionsAPIURL   string
	DefaultTheme       string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := Config{
		Port:               getenv("PORT", "8080"),
		BackendBaseURL:     strings.TrimRight(getenv("BACKEND_BASE_URL", "http://localhost:5001/api"), "/"),
		AllowOrigins:       splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		StorageDriver:      strings.ToLower(getenv("STORAGE_DRIVER", StorageMemory)),
		DefaultLocation:    getenv("DEFAULT_LOCATION", "Sydney, Australia"),
		SearchRadiusMeters: positiveInt("SEARCH_RADIUS_METERS", 5000),
		RequestTimeout:     duration("REQUEST_TIMEOUT", 10*time.Second),
		GeolocationTimeout: duration("GEOLOCATION_TIMEOUT", 10*time.Second),
		MapsEnabled:        getenv("MAPS_ENABLED", "true") == "true",
		DirectionsAPIURL:   getenv("DIRECTIONS_API_URL", "https://maps.googleapis.com/maps/api/directions/json"),
		DefaultTheme:       getenv("DEFAULT_THEME", "dark"),

		LogstashTCPAddr:       getenv("LOGSTASH_TCP_ADDR", ""),
		LogstashDialTimeout:   duration("LOGSTASH_DIAL_TIMEOUT", 2*time.Second),
		LogstashWriteTimeout:  duration("LOGSTASH_WRITE_TIMEOUT", time.Second),
		LogstashRetryInterval: duration("LOGSTASH_RETRY_INTERVAL", 5*time.Second),
		LogstashQueueSize:     positiveInt("LOGSTASH_QUEUE_SIZE", 1024),
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		cfg.DatabaseURL = must("DATABASE_URL")
	case StorageMinIO:
		cfg.MinIOEndpoint = must("MINIO_ENDPOINT")
		cfg.MinIOAccessKey = must("MINIO_ACCESS_KEY")
		cfg.MinIOSecretKey = must("MINIO_SECRET_KEY")
		cfg.MinIOUseSSL = getenv("MINIO_USE_SSL", "false") == "true"
		cfg.MinIOBucketStorage = getenv("MINIO_BUCKET_STORAGE", "noirbrew-storage")
	case StorageMemory:
	default:
		panic("unsupported STORAGE_DRIVER: " + cfg.StorageDriver)
	}
	return cfg
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// duration parses k as a Go duration, falling back to d when unset or invalid.
func duration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(k, ""))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func positiveInt(k string, d int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
