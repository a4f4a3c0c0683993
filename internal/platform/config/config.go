package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	platformstrings "kycflow/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	Log        LogConfig
	Uploads    UploadConfig
	Annotation AnnotationConfig
	Redis      RedisConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// UploadConfig bounds document ingestion.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// AnnotationConfig selects and configures the document annotation backend.
// With no ProjectID the service runs with the filename-based annotator.
type AnnotationConfig struct {
	ProjectID     string
	Region        string
	Model         string
	StagingBucket string
	SignedURLTTL  time.Duration
	CacheTTL      time.Duration

	// Consecutive provider outages before the filename annotator takes over,
	// and consecutive successes before Vertex is trusted again.
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
}

// RedisConfig configures the optional annotation cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// VertexEnabled reports whether Vertex AI credentials were configured.
func (a AnnotationConfig) VertexEnabled() bool {
	return a.ProjectID != ""
}

// DefaultMaxUploadBytes matches the client-side 10 MB limit.
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Server {
	_ = godotenv.Load()

	return Server{
		Addr:            getEnv("KYC_ADDR", ":5001"),
		Environment:     getEnv("KYC_ENV", "development"),
		AllowedOrigins:  platformstrings.SplitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Uploads: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxBytes: getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		},
		Annotation: AnnotationConfig{
			ProjectID:     os.Getenv("GCP_PROJECT_ID"),
			Region:        getEnv("VERTEX_AI_REGION", "us-central1"),
			Model:         getEnv("VERTEX_AI_MODEL", "gemini-1.5-pro"),
			StagingBucket: os.Getenv("ANNOTATION_STAGING_BUCKET"),
			SignedURLTTL:  getDuration("ANNOTATION_SIGNED_URL_TTL", 15*time.Minute),
			CacheTTL:      getDuration("ANNOTATION_CACHE_TTL", 24*time.Hour),

			BreakerFailureThreshold: getInt("ANNOTATION_BREAKER_FAILURES", 5),
			BreakerSuccessThreshold: getInt("ANNOTATION_BREAKER_SUCCESSES", 3),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
