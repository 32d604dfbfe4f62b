package api

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"github.com/vytor/lute/internal/logger"
)

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady checks the database and every registered dependency.
// Returns 200 when all of them answer, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	log := logger.FromContext(ctx)

	checks := map[string]string{}
	ready := true

	if s.DB != nil {
		if err := checkDatabaseWithDB(ctx, s.DB); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			checks["database"] = err.Error()
			ready = false
		} else {
			checks["database"] = "ok"
		}
	}

	names := make([]string, 0, len(s.ReadyChecks))
	for name := range s.ReadyChecks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.ReadyChecks[name](ctx); err != nil {
			log.Warn("readiness check failed - %s: %v", name, err)
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": ready, "checks": checks})
}

// checkDatabaseWithDB performs an actual database ping check.
func checkDatabaseWithDB(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
