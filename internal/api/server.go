package api

import (
	"context"
	"database/sql"

	"github.com/vytor/lute/internal/services"
)

type Server struct {
	DeckService   services.DeckService
	CardService   services.CardService
	ReviewService services.ReviewService
	StatsService  services.StatsService

	DB *sql.DB
	// ReadyChecks are extra dependencies probed by /readyz, keyed by name.
	ReadyChecks map[string]func(context.Context) error
	// StartLimiter throttles session starts per client; nil disables it.
	StartLimiter *RateLimiter
}
