package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// CORSAllowOrigins lists browser origins allowed to call the API.
	CORSAllowOrigins []string

	LogLevel          string
	LogFormat         string
	OtelEnabled       bool
	OTLPEndpoint      string
	OTLPProtocol      string
	OtelSamplingRatio float64

	// NodeID selects the snowflake node; instances sharing a database need
	// distinct values.
	NodeID int64

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// BusinessTimezone decides the calendar day used for numbering resets
	// and scheduled jobs.
	BusinessTimezone string
	OrderTxTimeout   time.Duration

	PointsExpiryCron string
	SchedulerEnabled bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "retailerp"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		CORSAllowOrigins:  getenvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		LogLevel:          strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
		OtelEnabled:       getenvBool("OTEL_ENABLED", true),
		OTLPEndpoint:      getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317")),
		OTLPProtocol:      strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		NodeID:            int64(getenvInt("SNOWFLAKE_NODE_ID", 1)),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "retailerp"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		RedisAddr:         strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),
		BusinessTimezone:  strings.TrimSpace(getenv("BUSINESS_TIMEZONE", "UTC")),
		OrderTxTimeout:    getenvDuration("ORDER_TX_TIMEOUT", 10*time.Second),
		PointsExpiryCron:  strings.TrimSpace(getenv("POINTS_EXPIRY_CRON", "15 2 * * *")),
		SchedulerEnabled:  getenvBool("SCHEDULER_ENABLED", true),
	}

	return cfg
}

// Location resolves BusinessTimezone, falling back to UTC when it is unknown.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.BusinessTimezone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getenvList(key string, def []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
