package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"

	maxRunLength = 500
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string
	Timezone string

	DailyNewLimit      int
	RunLength          int
	RequeueWindow      time.Duration
	RequeueFloor       int
	RequeueOffsetFull  int
	RequeueOffsetShort int
	TypingTolerance    int

	EnableMCQ   bool
	EnableCloze bool
	EnableTF    bool

	AIBaseURL     string
	AIAPIKey      string
	AIModel       string
	AIMaxRetries  int
	AIConcurrency int
	AIRatePerSec  float64

	SessionBackend string
	RedisAddr      string
	RedisPrefix    string

	HistoryWorkerCount int
	HistoryQueueSize   int

	// StartRatePerSec limits session starts per client; 0 disables it.
	StartRatePerSec float64
	StartBurst      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:     envOr("ADDR", ":8080"),
		DBPath:   envOr("DB_PATH", "file:lute.db"),
		LogLevel: envOr("LOG_LEVEL", "INFO"),
		Timezone: envOr("TIMEZONE", "UTC"),

		DailyNewLimit:      envIntOr("DAILY_NEW_LIMIT", 20),
		RunLength:          envIntOr("RUN_LENGTH", 30),
		RequeueWindow:      envDurationOr("REQUEUE_WINDOW", 15*time.Minute),
		RequeueFloor:       envIntOr("REQUEUE_FLOOR", 4),
		RequeueOffsetFull:  envIntOr("REQUEUE_OFFSET_FULL", 12),
		RequeueOffsetShort: envIntOr("REQUEUE_OFFSET_SHORT", 6),
		TypingTolerance:    envIntOr("TYPING_TOLERANCE", 1),

		EnableMCQ:   envBoolOr("ENABLE_MCQ", true),
		EnableCloze: envBoolOr("ENABLE_CLOZE", true),
		EnableTF:    envBoolOr("ENABLE_TF", true),

		AIBaseURL:     envOr("AI_BASE_URL", "https://api.openai.com/v1"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		AIModel:       envOr("AI_MODEL", "gpt-4o-mini"),
		AIMaxRetries:  envIntOr("AI_MAX_RETRIES", 3),
		AIConcurrency: envIntOr("AI_CONCURRENCY", 4),
		AIRatePerSec:  envFloatOr("AI_RATE_PER_SEC", 5),

		SessionBackend: strings.ToLower(envOr("SESSION_BACKEND", SessionBackendSQLite)),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPrefix:    envOr("REDIS_PREFIX", "lute:"),

		HistoryWorkerCount: envIntOr("HISTORY_WORKER_COUNT", 1),
		HistoryQueueSize:   envIntOr("HISTORY_QUEUE_SIZE", 256),

		StartRatePerSec: envFloatOr("START_RATE_PER_SEC", 2),
		StartBurst:      envIntOr("START_BURST", 5),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}
	if c.DailyNewLimit < 0 {
		errs = append(errs, fmt.Errorf("DAILY_NEW_LIMIT cannot be negative, got %d", c.DailyNewLimit))
	}
	if c.RunLength < 1 || c.RunLength > maxRunLength {
		errs = append(errs, fmt.Errorf("RUN_LENGTH must be between 1 and %d, got %d", maxRunLength, c.RunLength))
	}
	if c.RequeueWindow < 0 {
		errs = append(errs, fmt.Errorf("REQUEUE_WINDOW cannot be negative, got %s", c.RequeueWindow))
	}
	if c.RequeueFloor < 1 {
		errs = append(errs, fmt.Errorf("REQUEUE_FLOOR must be at least 1, got %d", c.RequeueFloor))
	}
	if c.RequeueOffsetFull < 1 || c.RequeueOffsetShort < 1 {
		errs = append(errs, fmt.Errorf("REQUEUE_OFFSET_FULL and REQUEUE_OFFSET_SHORT must be at least 1"))
	}
	if c.TypingTolerance < 0 {
		errs = append(errs, fmt.Errorf("TYPING_TOLERANCE cannot be negative, got %d", c.TypingTolerance))
	}
	if c.AIAPIKey != "" && !c.EnableMCQ && !c.EnableCloze && !c.EnableTF {
		errs = append(errs, errors.New("ENABLE_MCQ, ENABLE_CLOZE and ENABLE_TF cannot all be false when AI_API_KEY is set"))
	}
	if c.AIConcurrency < 1 {
		errs = append(errs, fmt.Errorf("AI_CONCURRENCY must be at least 1, got %d", c.AIConcurrency))
	}
	switch c.SessionBackend {
	case SessionBackendSQLite:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be sqlite or redis, got %q", c.SessionBackend))
	}
	if c.HistoryWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_WORKER_COUNT must be at least 1, got %d", c.HistoryWorkerCount))
	}
	if c.HistoryQueueSize < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_QUEUE_SIZE must be at least 1, got %d", c.HistoryQueueSize))
	}
	if c.StartRatePerSec < 0 {
		errs = append(errs, fmt.Errorf("START_RATE_PER_SEC cannot be negative, got %g", c.StartRatePerSec))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AIEnabled reports whether AI review mode can be offered.
func (c Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
