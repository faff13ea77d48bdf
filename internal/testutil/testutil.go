package testutil

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/db"
	"github.com/vytor/flashstudy/internal/models"
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

// Cards builds n cards with predictable text: "front 1"/"back 1", ...
func Cards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			Front: "front " + strconv.Itoa(i+1),
			Back:  "back " + strconv.Itoa(i+1),
		}
	}
	return cards
}

