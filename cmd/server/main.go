package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/lute/internal/api"
	"github.com/vytor/lute/internal/config"
	"github.com/vytor/lute/internal/db"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/jobs"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
	"github.com/vytor/lute/internal/repository/redis"
	"github.com/vytor/lute/internal/repository/sqlite"
	"github.com/vytor/lute/internal/scoring"
	"github.com/vytor/lute/internal/services"
	"github.com/vytor/lute/internal/session"
	"github.com/vytor/lute/internal/variant"
	"github.com/vytor/lute/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Lute Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("daily_new_limit=%d", cfg.DailyNewLimit)
	log.Debug("run_length=%d", cfg.RunLength)
	log.Debug("requeue window=%s floor=%d offsets=%d/%d", cfg.RequeueWindow, cfg.RequeueFloor, cfg.RequeueOffsetFull, cfg.RequeueOffsetShort)
	log.Debug("session_backend=%s", cfg.SessionBackend)
	log.Debug("ai_enabled=%t model=%s", cfg.AIEnabled(), cfg.AIModel)
	log.Debug("history_worker_count=%d", cfg.HistoryWorkerCount)
	log.Debug("history_queue_size=%d", cfg.HistoryQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	historyRepo := sqlite.NewHistoryRepository(database.DB)
	counterRepo := sqlite.NewCounterRepository(database.DB)

	readyChecks := map[string]func(context.Context) error{}
	var sessionRepo repository.SessionRepository
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rs, err := redis.NewSessionRepository(cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			log.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		defer rs.Close()
		readyChecks["redis"] = rs.Ping
		sessionRepo = rs
		log.Info("session store: redis at %s", cfg.RedisAddr)
	default:
		sessionRepo = sqlite.NewSessionRepository(database.DB)
		log.Info("session store: sqlite")
	}

	// History is written off the request path
	historyPool := worker.NewPool(cfg.HistoryWorkerCount, cfg.HistoryQueueSize)
	jobQueue := jobs.NewWorkerQueue(historyPool, historyRepo)

	var aiBuilder *variant.Builder
	if cfg.AIEnabled() {
		gen := variant.NewOpenAIGenerator(variant.OpenAIConfig{
			BaseURL:    cfg.AIBaseURL,
			APIKey:     cfg.AIAPIKey,
			Model:      cfg.AIModel,
			MaxRetries: cfg.AIMaxRetries,
			RatePerSec: cfg.AIRatePerSec,
			Kinds:      enabledKinds(cfg),
		})
		aiBuilder = variant.NewBuilder(gen, cfg.AIConcurrency)
		log.Info("ai review mode enabled")
	} else {
		log.Warn("AI_API_KEY not set, ai review mode disabled")
	}

	policy := session.DefaultRequeuePolicy()
	policy.Window = cfg.RequeueWindow
	policy.Floor = cfg.RequeueFloor
	policy.OffsetFull = cfg.RequeueOffsetFull
	policy.OffsetShort = cfg.RequeueOffsetShort
	engine := session.NewEngine(flashcard.DefaultParams(), policy, scoring.NewScorer(nil))

	reviewConfig := services.DefaultReviewConfig()
	reviewConfig.DailyNewLimit = cfg.DailyNewLimit
	reviewConfig.RunLength = cfg.RunLength
	reviewConfig.TypingTolerance = cfg.TypingTolerance
	reviewConfig.Location = cfg.Location()

	// Initialize services
	deckService := services.NewDeckService(deckRepo, nil)
	cardService := services.NewCardService(deckRepo, cardRepo, nil)
	reviewService := services.NewReviewService(
		deckRepo, cardRepo, counterRepo, sessionRepo, jobQueue,
		aiBuilder, engine, reviewConfig, nil,
	)
	statsService := services.NewStatsService(deckRepo, cardRepo, historyRepo, counterRepo, reviewConfig, nil)

	srv := &api.Server{
		DeckService:   deckService,
		CardService:   cardService,
		ReviewService: reviewService,
		StatsService:  statsService,
		DB:            database.DB,
		ReadyChecks:   readyChecks,
	}
	if cfg.StartRatePerSec > 0 {
		srv.StartLimiter = api.NewRateLimiter(cfg.StartRatePerSec, cfg.StartBurst)
	}

	historyPool.Start(context.Background())

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Requests are done; flush queued history writes
	log.Debug("stopping history pool")
	historyPool.Stop()

	log.Info("===========================================")
	log.Info("Lute Server Stopped")
	log.Info("===========================================")
}

func enabledKinds(cfg config.Config) []models.VariantKind {
	var kinds []models.VariantKind
	if cfg.EnableMCQ {
		kinds = append(kinds, models.VariantMCQ)
	}
	if cfg.EnableCloze {
		kinds = append(kinds, models.VariantCloze)
	}
	if cfg.EnableTF {
		kinds = append(kinds, models.VariantTrueFalse)
	}
	return kinds
}
