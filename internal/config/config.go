package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port        int
	LogLevel    string
	CORSOrigins []string

	// Agency
	AgencyName string
	AdminEmail string // receives lead notifications; defaults to EmailUser

	// Document store. Empty URI selects the in-memory store.
	MongoURI      string
	MongoDatabase string

	// Cache. Empty address selects the in-memory cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Mail relay
	EmailUser    string
	EmailPass    string
	SMTPHost     string
	SMTPPort     int
	ResendAPIKey string
	MailTimeout  time.Duration

	// Asset host
	AssetBucket        string
	AssetRegion        string
	AssetEndpoint      string
	AssetPublicBaseURL string
	UploadMaxBytes     int64

	// Events. Empty URL disables publishing.
	MQURL string

	// Observability
	OTLPEndpoint string

	// JWT / Auth
	JWTSecret    string
	JWTTTL       time.Duration
	AdminPasskey string
	AdminAuth    bool

	// Lead intake
	ContactRatePerMin int

	// Seeding
	SeedFile string

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	emailUser := getEnv("EMAIL_USER", "")
	return &Config{
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),

		AgencyName: getEnv("AGENCY_NAME", "DevSamp"),
		AdminEmail: getEnv("ADMIN_EMAIL", emailUser),

		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "devsamp"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),

		EmailUser:    emailUser,
		EmailPass:    getEnv("EMAIL_PASS", ""),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		MailTimeout:  getEnvDuration("MAIL_TIMEOUT", 15*time.Second),

		AssetBucket:        getEnv("ASSET_BUCKET", ""),
		AssetRegion:        getEnv("ASSET_REGION", "us-east-1"),
		AssetEndpoint:      getEnv("ASSET_ENDPOINT", ""),
		AssetPublicBaseURL: getEnv("ASSET_PUBLIC_BASE_URL", ""),
		UploadMaxBytes:     int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),

		MQURL: getEnv("MQ_URL", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		JWTSecret:    getEnv("JWT_SECRET", "devsamp-default-dev-secret-change-me"),
		JWTTTL:       getEnvDuration("JWT_TTL", 24*time.Hour),
		AdminPasskey: getEnv("ADMIN_PASSKEY", ""),
		AdminAuth:    getEnvBool("ADMIN_AUTH", false),

		ContactRatePerMin: getEnvInt("CONTACT_RATE_PER_MIN", 10),

		SeedFile: getEnv("SEED_FILE", ""),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 10),
	}
}

// MailConfigured reports whether relay credentials are present.
func (c *Config) MailConfigured() bool {
	return (c.EmailUser != "" && c.EmailPass != "") || c.ResendAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
