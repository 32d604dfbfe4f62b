package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

var _ repository.SessionRepository = (*SessionRepository)(nil)

// SessionRepository stores review sessions as redis hashes. An index set
// tracks which sessions exist so List does not need to scan the keyspace.
type SessionRepository struct {
	rdb    *goredis.Client
	prefix string
}

// NewSessionRepository connects to addr and verifies the connection.
func NewSessionRepository(addr, prefix string) (*SessionRepository, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &SessionRepository{rdb: rdb, prefix: prefix}, nil
}

func (r *SessionRepository) Close() error {
	return r.rdb.Close()
}

// Ping reports whether redis is reachable.
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *SessionRepository) key(mode models.ReviewMode, deckID string) string {
	return r.prefix + "session:" + string(mode) + ":" + deckID
}

func (r *SessionRepository) indexKey() string {
	return r.prefix + "sessions"
}

func member(mode models.ReviewMode, deckID string) string {
	return string(mode) + ":" + deckID
}

func (r *SessionRepository) Get(ctx context.Context, mode models.ReviewMode, deckID string) ([]byte, error) {
	data, err := r.rdb.HGet(ctx, r.key(mode, deckID), "data").Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("redis_session_repo").Error("failed to read session %s/%s: %v", mode, deckID, err)
		return nil, err
	}
	return data, nil
}

func (r *SessionRepository) Save(ctx context.Context, mode models.ReviewMode, deckID string, data []byte, updatedAt int64) error {
	log := logger.FromContext(ctx).WithPrefix("redis_session_repo")
	log.Debug("saving session: mode=%s, deck_id=%s, bytes=%d", mode, deckID, len(data))

	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, r.key(mode, deckID), "data", data, "updated_at", updatedAt)
		p.SAdd(ctx, r.indexKey(), member(mode, deckID))
		return nil
	})
	if err != nil {
		log.Error("failed to save session: %v", err)
	}
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, mode models.ReviewMode, deckID string) error {
	log := logger.FromContext(ctx).WithPrefix("redis_session_repo")
	log.Debug("deleting session: mode=%s, deck_id=%s", mode, deckID)

	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, r.key(mode, deckID))
		p.SRem(ctx, r.indexKey(), member(mode, deckID))
		return nil
	})
	if err != nil {
		log.Error("failed to delete session: %v", err)
	}
	return err
}

func (r *SessionRepository) List(ctx context.Context) ([]models.SessionRef, error) {
	log := logger.FromContext(ctx).WithPrefix("redis_session_repo")

	members, err := r.rdb.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}

	refs := make([]models.SessionRef, 0, len(members))
	for _, m := range members {
		mode, deckID, ok := strings.Cut(m, ":")
		if !ok {
			log.Warn("skipping malformed session index entry %q", m)
			continue
		}
		raw, err := r.rdb.HGet(ctx, r.key(models.ReviewMode(mode), deckID), "updated_at").Result()
		if errors.Is(err, goredis.Nil) {
			// Hash expired or was removed outside Delete.
			r.rdb.SRem(ctx, r.indexKey(), m)
			continue
		}
		if err != nil {
			log.Error("failed to read session %s: %v", m, err)
			return nil, err
		}
		updatedAt, _ := strconv.ParseInt(raw, 10, 64)
		refs = append(refs, models.SessionRef{Mode: models.ReviewMode(mode), DeckID: deckID, UpdatedAt: updatedAt})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].UpdatedAt > refs[j].UpdatedAt })
	return refs, nil
}
