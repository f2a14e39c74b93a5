// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool used by this package.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connect opens a pool for the given connection string and pings it.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS crazy_rounds (
	id          UUID PRIMARY KEY,
	room_id     UUID NOT NULL,
	room_code   TEXT NOT NULL,
	winner_id   UUID NOT NULL,
	turn_count  INTEGER NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS crazy_round_players (
	round_id   UUID NOT NULL REFERENCES crazy_rounds(id) ON DELETE CASCADE,
	user_id    UUID NOT NULL,
	seat       INTEGER NOT NULL,
	final_rank INTEGER NOT NULL,
	score      INTEGER NOT NULL,
	cards_left INTEGER NOT NULL,
	penalties  INTEGER NOT NULL,
	mistakes   INTEGER NOT NULL,
	turns      INTEGER NOT NULL,
	PRIMARY KEY (round_id, user_id)
);`

// PlayerResult is one player's line in a finished round.
type PlayerResult struct {
	UserID    uuid.UUID
	Seat      int
	Rank      int
	Score     int
	CardsLeft int
	Penalties int
	Mistakes  int
	Turns     int
}

// RoundResult is a finished round ready to be stored.
type RoundResult struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	RoomCode   string
	WinnerID   uuid.UUID
	TurnCount  int
	FinishedAt time.Time
	Players    []PlayerResult
}

// Results records finished rounds in Postgres.
type Results struct {
	db DB
}

// NewResults wraps a pool (or any DB).
func NewResults(db DB) *Results {
	return &Results{db: db}
}

// EnsureSchema creates the results tables when they do not exist yet.
func (r *Results) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create results schema: %w", err)
	}
	return nil
}

// RecordRound stores a round and its player lines in one transaction.
func (r *Results) RecordRound(ctx context.Context, res RoundResult) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin round %s: %w", res.ID, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx,
		`INSERT INTO crazy_rounds (id, room_id, room_code, winner_id, turn_count, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.RoomID, res.RoomCode, res.WinnerID, res.TurnCount, res.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert round %s: %w", res.ID, err)
	}
	for _, p := range res.Players {
		if _, err = tx.Exec(ctx,
			`INSERT INTO crazy_round_players (round_id, user_id, seat, final_rank, score, cards_left, penalties, mistakes, turns)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			res.ID, p.UserID, p.Seat, p.Rank, p.Score, p.CardsLeft, p.Penalties, p.Mistakes, p.Turns,
		); err != nil {
			return fmt.Errorf("insert player %s of round %s: %w", p.UserID, res.ID, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit round %s: %w", res.ID, err)
	}
	return nil
}
