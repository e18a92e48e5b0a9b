// Package session implements registration, the single-device login
// policy, and logout.
//
// Each account holds at most one session token, persisted on the users
// row. A login attempt while a token is held is refused rather than
// stealing the token, so a second device can never displace the first.
// Tokens do not expire on their own: a client that disappears without
// logging out keeps the account locked until it logs out again.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/panita-ciencia/aula/internal/store"
)

// Errors reported to callers. Store sentinels (ErrDuplicateUsername,
// ErrSessionActive) pass through unchanged.
var (
	// ErrInvalidInput reports a missing username or password.
	ErrInvalidInput = errors.New("username and password are required")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Manager drives the per-account session state machine.
type Manager struct {
	store      store.Store
	contexts   ContextStore
	bcryptCost int
}

// NewManager creates a session manager. A non-positive cost falls back to
// the bcrypt default.
func NewManager(st store.Store, contexts ContextStore, bcryptCost int) *Manager {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Manager{store: st, contexts: contexts, bcryptCost: bcryptCost}
}

// Register creates a new account with a hashed credential.
func (m *Manager) Register(ctx context.Context, username, password string) (store.User, error) {
	if username == "" || password == "" {
		return store.User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := m.store.CreateUser(ctx, username, string(hash))
	if err != nil {
		return store.User{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login verifies the credentials, claims the account's session slot, and
// establishes the session context. Returns store.ErrSessionActive when
// the account is already logged in elsewhere.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := m.store.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := m.store.ClaimSessionToken(ctx, user.ID, token); err != nil {
		return Session{}, err
	}

	sess := Session{UserID: user.ID, Username: user.Username, Token: token}
	if err := m.contexts.Put(ctx, sess); err != nil {
		// The claim succeeded but the context did not stick; release the
		// slot so the account is not locked out.
		if clearErr := m.store.ClearSessionToken(ctx, user.ID); clearErr != nil {
			slog.Error("failed to release session token after context failure",
				"user_id", user.ID, "error", clearErr)
		}
		return Session{}, fmt.Errorf("establishing session context: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID, "username", username)
	return sess, nil
}

// Logout releases the session. The local context is always discarded; a
// failure to clear the persisted token is logged but never blocks the
// caller from logging out.
func (m *Manager) Logout(ctx context.Context, token string) {
	sess, found, err := m.contexts.Get(ctx, token)
	if err != nil {
		slog.Warn("failed to load session context during logout", "error", err)
	}

	if found {
		if err := m.store.ClearSessionToken(ctx, sess.UserID); err != nil {
			slog.Warn("failed to clear persisted session token",
				"user_id", sess.UserID, "error", err)
		}
	}

	if err := m.contexts.Delete(ctx, token); err != nil {
		slog.Warn("failed to delete session context", "error", err)
	}

	if found {
		slog.Info("user logged out", "user_id", sess.UserID, "username", sess.Username)
	}
}

// Resolve returns the session bound to the token, if any.
func (m *Manager) Resolve(ctx context.Context, token string) (Session, bool, error) {
	if token == "" {
		return Session{}, false, nil
	}
	return m.contexts.Get(ctx, token)
}
