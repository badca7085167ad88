package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
	"github.com/okian/matchday/internal/domain/model"
)

const ledgerRowID = "completed_matches"

// PostgresStore implements Store on PostgreSQL. User records live in a
// single wide row per user with the guess map as jsonb; the completion
// ledger is a single row, matching the document-style contract.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and pings databaseURL.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrStore, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: ping: %w", ErrStore, err)
	}
	return &PostgresStore{db: db}, nil
}

// EnsureSchema creates the tables when they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	profile_url  TEXT NOT NULL DEFAULT '',
	avatar_url   TEXT NOT NULL DEFAULT '',
	score        DOUBLE PRECISION NOT NULL DEFAULT 0,
	correct      INTEGER NOT NULL DEFAULT 0,
	incorrect    INTEGER NOT NULL DEFAULT 0,
	guesses      JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE TABLE IF NOT EXISTS completion_ledger (
	id        TEXT PRIMARY KEY,
	match_ids JSONB NOT NULL DEFAULT '[]'::jsonb
);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: ensure schema: %w", ErrStore, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrStore, err)
	}
	return nil
}

// FindAllUsers returns every user record.
func (s *PostgresStore) FindAllUsers(ctx context.Context) ([]model.UserRecord, error) {
	const q = `SELECT id, display_name, profile_url, avatar_url, score, correct, incorrect, guesses
FROM users ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: find all users: %w", ErrStore, err)
	}
	defer rows.Close()

	var out []model.UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate users: %w", ErrStore, err)
	}
	return out, nil
}

// FindUser returns one user record, or ErrNotFound.
func (s *PostgresStore) FindUser(ctx context.Context, userID string) (model.UserRecord, error) {
	const q = `SELECT id, display_name, profile_url, avatar_url, score, correct, incorrect, guesses
FROM users WHERE id = $1`

	row := s.db.QueryRowContext(ctx, q, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserRecord{}, ErrNotFound
	}
	return u, err
}

// UpsertUser applies patch, creating the record when absent. The guess map
// is merged via jsonb concatenation so concurrent writers to different
// matches cannot clobber each other.
func (s *PostgresStore) UpsertUser(ctx context.Context, userID string, patch UserPatch) error {
	var guessesJSON any
	if len(patch.Guesses) > 0 {
		b, err := json.Marshal(patch.Guesses)
		if err != nil {
			return fmt.Errorf("%w: marshal guesses: %w", ErrStore, err)
		}
		guessesJSON = b
	}

	const q = `
INSERT INTO users (id, display_name, profile_url, avatar_url, score, correct, incorrect, guesses)
VALUES ($1,
	COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''),
	COALESCE($5, 0), COALESCE($6, 0), COALESCE($7, 0),
	COALESCE($8::jsonb, '{}'::jsonb))
ON CONFLICT (id) DO UPDATE SET
	display_name = COALESCE($2, users.display_name),
	profile_url  = COALESCE($3, users.profile_url),
	avatar_url   = COALESCE($4, users.avatar_url),
	score        = COALESCE($5, users.score),
	correct      = COALESCE($6, users.correct),
	incorrect    = COALESCE($7, users.incorrect),
	guesses      = users.guesses || COALESCE($8::jsonb, '{}'::jsonb)`

	_, err := s.db.ExecContext(ctx, q, userID,
		nullableString(patch.DisplayName),
		nullableString(patch.ProfileURL),
		nullableString(patch.AvatarURL),
		nullableFloat(patch.Score),
		nullableInt(patch.Correct),
		nullableInt(patch.Incorrect),
		guessesJSON,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert user %s: %w", ErrStore, userID, err)
	}
	return nil
}

// CompletionLedger returns the settled match IDs, inserting an empty ledger
// row on first access.
func (s *PostgresStore) CompletionLedger(ctx context.Context) ([]string, error) {
	const q = `
INSERT INTO completion_ledger (id) VALUES ($1)
ON CONFLICT (id) DO UPDATE SET id = completion_ledger.id
RETURNING match_ids`

	var raw []byte
	if err := s.db.QueryRowContext(ctx, q, ledgerRowID).Scan(&raw); err != nil {
		return nil, fmt.Errorf("%w: read ledger: %w", ErrStore, err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("%w: decode ledger: %w", ErrStore, err)
	}
	return ids, nil
}

// SetCompletionLedger replaces the ledger contents.
func (s *PostgresStore) SetCompletionLedger(ctx context.Context, matchIDs []string) error {
	if matchIDs == nil {
		matchIDs = []string{}
	}
	b, err := json.Marshal(matchIDs)
	if err != nil {
		return fmt.Errorf("%w: marshal ledger: %w", ErrStore, err)
	}

	const q = `
INSERT INTO completion_ledger (id, match_ids) VALUES ($1, $2::jsonb)
ON CONFLICT (id) DO UPDATE SET match_ids = $2::jsonb`

	if _, err := s.db.ExecContext(ctx, q, ledgerRowID, b); err != nil {
		return fmt.Errorf("%w: write ledger: %w", ErrStore, err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(sc scanner) (model.UserRecord, error) {
	var u model.UserRecord
	var raw []byte
	if err := sc.Scan(&u.ID, &u.DisplayName, &u.ProfileURL, &u.AvatarURL,
		&u.Score, &u.Correct, &u.Incorrect, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.UserRecord{}, err
		}
		return model.UserRecord{}, fmt.Errorf("%w: scan user: %w", ErrStore, err)
	}
	u.Guesses = make(map[string]int)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &u.Guesses); err != nil {
			return model.UserRecord{}, fmt.Errorf("%w: decode guesses: %w", ErrStore, err)
		}
	}
	return u, nil
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
