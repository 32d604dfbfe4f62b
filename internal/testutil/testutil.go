package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lute/internal/db"
	"github.com/vytor/lute/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is used so every query sees the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), conn), "failed to apply migrations")
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Clock is a settable time source for services under test.
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// SeedDeck inserts a deck row directly.
func SeedDeck(t *testing.T, conn *sql.DB, id, name string) models.Deck {
	d := models.Deck{ID: id, Name: name, Created: time.Now().UnixMilli()}
	_, err := conn.Exec(`INSERT INTO decks (id, name, created) VALUES (?, ?, ?)`, d.ID, d.Name, d.Created)
	require.NoError(t, err)
	return d
}
