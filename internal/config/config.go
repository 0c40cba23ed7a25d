package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	Endpoint        string
	// PublicEndpoint, when set, is the host presigned URLs are issued for
	// (e.g. http://localhost:9000 while the service talks to http://minio:9000).
	PublicEndpoint string
	UsePathStyle   bool
	Timeout        time.Duration
}

type CleanupConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

type Config struct {
	DBURL             string
	DBTimeout         time.Duration
	Port              string
	Environment       string
	CorsConfig        cors.Options
	S3                S3Config
	PresignTTL        time.Duration
	PresignWorkers    int
	MaxUploadSize     int64
	AllowedExtensions []string
	Cleanup           CleanupConfig
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the optional env file named by ENV_FILE (default .env) and then
// builds the configuration from the process environment.
func Load() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// A missing env file is normal outside local development.
	_ = godotenv.Load(envFile)

	var errs []error

	cfg := Config{
		DBURL:       getEnv("DB_URL", ""),
		DBTimeout:   getEnvDuration("DB_TIMEOUT", 5*time.Second, &errs),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		CorsConfig:  CorsConfig(getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})),
		S3: S3Config{
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", getEnv("AWS_ACCESS_KEY_ID", "")),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", getEnv("AWS_SECRET_ACCESS_KEY", "")),
			Region:          getEnv("S3_REGION", getEnv("AWS_REGION", "us-east-1")),
			BucketName:      getEnv("S3_BUCKET", "my-image-bucket"),
			Endpoint:        getEnv("S3_ENDPOINT_URL", ""),
			PublicEndpoint:  getEnv("S3_PUBLIC_ENDPOINT_URL", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true, &errs),
			Timeout:         getEnvDuration("S3_TIMEOUT", 30*time.Second, &errs),
		},
		PresignTTL:        getEnvDuration("PRESIGN_TTL", time.Hour, &errs),
		PresignWorkers:    getEnvInt("PRESIGN_CONCURRENCY", 8, &errs),
		MaxUploadSize:     int64(getEnvInt("MAX_UPLOAD_SIZE", 100<<20, &errs)),
		AllowedExtensions: normalizeExtensions(getEnvList("UPLOAD_ALLOWED_EXTENSIONS", nil)),
		Cleanup: CleanupConfig{
			Interval:    getEnvDuration("CLEANUP_INTERVAL", time.Minute, &errs),
			BatchSize:   getEnvInt("CLEANUP_BATCH", 50, &errs),
			MaxAttempts: getEnvInt("CLEANUP_MAX_ATTEMPTS", 10, &errs),
		},
	}

	if cfg.DBURL == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	if cfg.S3.BucketName == "" {
		errs = append(errs, errors.New("S3_BUCKET must not be empty"))
	}
	if cfg.PresignTTL <= 0 || cfg.PresignTTL > 7*24*time.Hour {
		errs = append(errs, fmt.Errorf("PRESIGN_TTL must be within (0, 168h], got %s", cfg.PresignTTL))
	}
	if cfg.PresignWorkers < 1 {
		errs = append(errs, errors.New("PRESIGN_CONCURRENCY must be at least 1"))
	}
	if cfg.MaxUploadSize < 1 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE must be positive"))
	}
	if cfg.Cleanup.Interval <= 0 || cfg.Cleanup.BatchSize < 1 || cfg.Cleanup.MaxAttempts < 1 {
		errs = append(errs, errors.New("CLEANUP_INTERVAL, CLEANUP_BATCH and CLEANUP_MAX_ATTEMPTS must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

// getEnvDuration accepts Go durations ("90s", "1h") and bare seconds ("3600").
func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, strings.ToLower(strings.TrimPrefix(e, ".")))
	}
	return out
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
