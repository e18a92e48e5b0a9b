// Package store persists user accounts and quiz grades.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrDuplicateUsername reports that the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrNotFound reports that the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSessionActive reports that the user already holds a session
	// token, so a new one cannot be claimed.
	ErrSessionActive = errors.New("session already active")
)

// User is a registered account. SessionToken is nil while logged out and
// holds the active token otherwise; the store guarantees at most one.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	SessionToken *string
}

// Grade is a user's latest quiz result for one lesson.
type Grade struct {
	LessonSlug string    `json:"lessonSlug"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Store persists users and grades. Mutations are atomic with respect to
// their invariants: username uniqueness, the at-most-one-token rule, and
// one grade row per (user, lesson).
type Store interface {
	// CreateUser inserts a new account, or ErrDuplicateUsername.
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)

	// FindUserByUsername returns the account, or ErrNotFound.
	FindUserByUsername(ctx context.Context, username string) (User, error)

	// ClaimSessionToken sets the user's token only if none is held.
	// Returns ErrSessionActive when a token is already present; the
	// check-and-set is a single atomic operation, never read-then-write.
	ClaimSessionToken(ctx context.Context, userID int64, token string) error

	// ClearSessionToken releases the user's token, if any.
	ClearSessionToken(ctx context.Context, userID int64) error

	// UpsertGrade records a quiz result, replacing any previous grade
	// for the same (user, lesson) pair.
	UpsertGrade(ctx context.Context, userID int64, lessonSlug string, score, total int) error

	// GradesForUser returns the user's grades keyed by lesson slug.
	GradesForUser(ctx context.Context, userID int64) (map[string]Grade, error)
}
