package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lute/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		Timezone:           "UTC",
		DailyNewLimit:      20,
		RunLength:          30,
		RequeueWindow:      15 * time.Minute,
		RequeueFloor:       4,
		RequeueOffsetFull:  12,
		RequeueOffsetShort: 6,
		TypingTolerance:    1,
		EnableMCQ:          true,
		EnableCloze:        true,
		EnableTF:           true,
		AIConcurrency:      4,
		SessionBackend:     config.SessionBackendSQLite,
		HistoryWorkerCount: 1,
		HistoryQueueSize:   64,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_SingleField(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *config.Config)
		expectedError string
	}{
		{name: "empty addr", mutate: func(c *config.Config) { c.Addr = "" }, expectedError: "ADDR cannot be empty"},
		{name: "empty db path", mutate: func(c *config.Config) { c.DBPath = "" }, expectedError: "DB_PATH cannot be empty"},
		{name: "unknown log level", mutate: func(c *config.Config) { c.LogLevel = "LOUD" }, expectedError: "LOG_LEVEL"},
		{name: "unknown timezone", mutate: func(c *config.Config) { c.Timezone = "Mars/Olympus" }, expectedError: "TIMEZONE"},
		{name: "negative new limit", mutate: func(c *config.Config) { c.DailyNewLimit = -1 }, expectedError: "DAILY_NEW_LIMIT"},
		{name: "zero run length", mutate: func(c *config.Config) { c.RunLength = 0 }, expectedError: "RUN_LENGTH"},
		{name: "run length too long", mutate: func(c *config.Config) { c.RunLength = 501 }, expectedError: "RUN_LENGTH"},
		{name: "zero requeue floor", mutate: func(c *config.Config) { c.RequeueFloor = 0 }, expectedError: "REQUEUE_FLOOR"},
		{name: "zero requeue offset", mutate: func(c *config.Config) { c.RequeueOffsetShort = 0 }, expectedError: "REQUEUE_OFFSET"},
		{name: "negative typing tolerance", mutate: func(c *config.Config) { c.TypingTolerance = -2 }, expectedError: "TYPING_TOLERANCE"},
		{name: "redis without addr", mutate: func(c *config.Config) { c.SessionBackend = config.SessionBackendRedis }, expectedError: "REDIS_ADDR"},
		{name: "unknown backend", mutate: func(c *config.Config) { c.SessionBackend = "etcd" }, expectedError: "SESSION_BACKEND"},
		{name: "zero history workers", mutate: func(c *config.Config) { c.HistoryWorkerCount = 0 }, expectedError: "HISTORY_WORKER_COUNT"},
		{name: "zero history queue", mutate: func(c *config.Config) { c.HistoryQueueSize = 0 }, expectedError: "HISTORY_QUEUE_SIZE"},
		{
			name: "ai without variant kinds",
			mutate: func(c *config.Config) {
				c.AIAPIKey = "sk-test"
				c.EnableMCQ, c.EnableCloze, c.EnableTF = false, false, false
			},
			expectedError: "ENABLE_MCQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_LowercaseLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RedisBackend(t *testing.T) {
	cfg := validConfig()
	cfg.SessionBackend = config.SessionBackendRedis
	cfg.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""
	cfg.DBPath = ""
	cfg.LogLevel = "INVALID"
	cfg.RunLength = 0

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "RUN_LENGTH")
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Europe/Paris"
	assert.Equal(t, "Europe/Paris", cfg.Location().String())

	cfg.Timezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("DAILY_NEW_LIMIT", "5")
	t.Setenv("REQUEUE_WINDOW", "20m")
	t.Setenv("ENABLE_TF", "false")
	t.Setenv("AI_RATE_PER_SEC", "0.5")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("RUN_LENGTH", "lots")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 5, cfg.DailyNewLimit)
	assert.Equal(t, 20*time.Minute, cfg.RequeueWindow)
	assert.False(t, cfg.EnableTF)
	assert.True(t, cfg.EnableMCQ)
	assert.Equal(t, 0.5, cfg.AIRatePerSec)
	assert.Equal(t, config.SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, 30, cfg.RunLength, "invalid values fall back to the default")
}
