package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// schema is applied by InitSchema, one statement per Exec. CREATE TABLE
// IF NOT EXISTS keeps the bootstrap idempotent, so it runs
// unconditionally once per process start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		current_session_token TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS grades (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		lesson_slug TEXT NOT NULL,
		score INT NOT NULL,
		total_questions INT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, lesson_slug)
	)`,
}

// InitSchema creates the users and grades tables if they do not exist.
// Called once during startup, before the server accepts requests.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}

// PostgresStore is a PostgreSQL-backed Store on a pgx connection pool.
// The pool scopes connection acquisition per call, so every operation
// releases its connection on all exit paths.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id`,
		username,
		passwordHash,
	).Scan(&u.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrDuplicateUsername
	}
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	u.Username = username
	u.PasswordHash = passwordHash
	return u, nil
}

func (s *PostgresStore) FindUserByUsername(ctx context.Context, username string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, current_session_token
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.SessionToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// ClaimSessionToken sets the token in a single conditional UPDATE, so two
// near-simultaneous logins cannot both observe a free slot.
func (s *PostgresStore) ClaimSessionToken(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET current_session_token = $2
		 WHERE id = $1 AND current_session_token IS NULL`,
		userID,
		token,
	)
	if err != nil {
		return fmt.Errorf("claim session token: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	// No row updated: either the slot is taken or the user is gone.
	var exists bool
	err = s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("claim session token: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrSessionActive
}

func (s *PostgresStore) ClearSessionToken(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx,
		`UPDATE users SET current_session_token = NULL WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpsertGrade(ctx context.Context, userID int64, lessonSlug string, score, total int) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO grades (user_id, lesson_slug, score, total_questions)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, lesson_slug) DO UPDATE
		 SET score = EXCLUDED.score,
		     total_questions = EXCLUDED.total_questions,
		     updated_at = NOW()`,
		userID,
		lessonSlug,
		score,
		total,
	)
	if err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

func (s *PostgresStore) GradesForUser(ctx context.Context, userID int64) (map[string]Grade, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT lesson_slug, score, total_questions, updated_at
		 FROM grades
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query grades: %w", err)
	}
	defer rows.Close()

	grades := make(map[string]Grade)
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.LessonSlug, &g.Score, &g.Total, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		grades[g.LessonSlug] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grades: %w", err)
	}
	return grades, nil
}
