package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RetryPolicy is the single place retry/backoff behavior is configured.
// Backoff is linear: a job that has failed n times becomes eligible again
// after Backoff*n.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// NextRunDelay returns how long a job with the given attempt count waits
// before becoming claimable again.
func (p RetryPolicy) NextRunDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return p.Backoff * time.Duration(attempts)
}

type Config struct {
	// Database
	DatabaseURL string

	// Redis (alignment cache)
	RedisURL string

	// Supabase storage
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// OpenAI (Whisper word alignment — empty disables alignment, captions
	// fall back to duration-apportioned timing)
	OpenAIKey string

	// Worker identity and loop behavior
	WorkerID     string
	WorkerMode   string // "service" keeps polling, "job" exits when the queue drains
	PollInterval time.Duration
	LockDuration time.Duration
	MaxRuntime   time.Duration // 0 = unbounded
	MaxJobs      int           // 0 = unbounded

	Retry RetryPolicy

	// Local scratch root for per-job temp dirs
	TempDir string

	// Background music library manifest (empty disables mood lookup)
	MusicManifestPath string

	// Ops HTTP server
	OpsPort            string
	CorsAllowedOrigins string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "videos"),
		OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
		WorkerID:              getEnv("WORKER_ID", ""),
		WorkerMode:            getEnv("WORKER_MODE", "service"),
		PollInterval:          getEnvSeconds("ASSEMBLY_POLL_SECONDS", 5),
		LockDuration:          getEnvSeconds("ASSEMBLY_LOCK_SECONDS", 900),
		MaxRuntime:            getEnvSeconds("WORKER_MAX_SECONDS", 0),
		MaxJobs:               getEnvInt("WORKER_MAX_JOBS", 0),
		Retry: RetryPolicy{
			MaxAttempts: getEnvInt("ASSEMBLY_MAX_ATTEMPTS", 3),
			Backoff:     getEnvSeconds("ASSEMBLY_RETRY_BACKOFF_SECONDS", 120),
		},
		TempDir:            getEnv("ASSEMBLY_TEMP_DIR", "/tmp/reels"),
		MusicManifestPath:  getEnv("MUSIC_MANIFEST_PATH", ""),
		OpsPort:            getEnv("OPS_PORT", "8090"),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
	}

	if cfg.WorkerMode != "service" && cfg.WorkerMode != "job" {
		return nil, fmt.Errorf("WORKER_MODE must be 'service' or 'job', got %q", cfg.WorkerMode)
	}

	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("ASSEMBLY_MAX_ATTEMPTS must be >= 1")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}
