package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/panita-ciencia/aula/internal/store"
)

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

// runStoreSuite exercises the Store contract. Both implementations must
// enforce the same invariants.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("CreateUser", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		u, err := s.CreateUser(ctx, "ana", "hash1")
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if u.ID == 0 {
			t.Error("CreateUser() returned zero ID")
		}
		if u.SessionToken != nil {
			t.Error("new user should have no session token")
		}
	})

	t.Run("CreateUser_Duplicate", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		if _, err := s.CreateUser(ctx, "ana", "hash1"); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		_, err := s.CreateUser(ctx, "ana", "hash2")
		if !errors.Is(err, store.ErrDuplicateUsername) {
			t.Errorf("CreateUser() error = %v, want ErrDuplicateUsername", err)
		}
	})

	t.Run("FindUserByUsername", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		created, _ := s.CreateUser(ctx, "ana", "hash1")

		got, err := s.FindUserByUsername(ctx, "ana")
		if err != nil {
			t.Fatalf("FindUserByUsername() error = %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("ID = %d, want %d", got.ID, created.ID)
		}
		if got.PasswordHash != "hash1" {
			t.Errorf("PasswordHash = %q, want hash1", got.PasswordHash)
		}

		_, err = s.FindUserByUsername(ctx, "nadie")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("FindUserByUsername(nadie) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ClaimSessionToken", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		u, _ := s.CreateUser(ctx, "ana", "hash1")

		if err := s.ClaimSessionToken(ctx, u.ID, "token-1"); err != nil {
			t.Fatalf("ClaimSessionToken() error = %v", err)
		}

		// Second claim must be refused, not steal the token.
		err := s.ClaimSessionToken(ctx, u.ID, "token-2")
		if !errors.Is(err, store.ErrSessionActive) {
			t.Errorf("second ClaimSessionToken() error = %v, want ErrSessionActive", err)
		}

		got, _ := s.FindUserByUsername(ctx, "ana")
		if got.SessionToken == nil || *got.SessionToken != "token-1" {
			t.Errorf("SessionToken = %v, want token-1 (original claim kept)", got.SessionToken)
		}
	})

	t.Run("TokenCycle", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		u, _ := s.CreateUser(ctx, "ana", "hash1")

		// null -> token -> null -> token.
		if err := s.ClaimSessionToken(ctx, u.ID, "t1"); err != nil {
			t.Fatalf("first claim error = %v", err)
		}
		if err := s.ClearSessionToken(ctx, u.ID); err != nil {
			t.Fatalf("ClearSessionToken() error = %v", err)
		}
		if err := s.ClaimSessionToken(ctx, u.ID, "t2"); err != nil {
			t.Fatalf("claim after clear error = %v", err)
		}

		got, _ := s.FindUserByUsername(ctx, "ana")
		if got.SessionToken == nil || *got.SessionToken != "t2" {
			t.Errorf("SessionToken = %v, want t2", got.SessionToken)
		}
	})

	t.Run("ClaimSessionToken_UnknownUser", func(t *testing.T) {
		s := newStore(t)

		err := s.ClaimSessionToken(t.Context(), 9999, "token")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("ClaimSessionToken(9999) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpsertGrade", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		u, _ := s.CreateUser(ctx, "ana", "hash1")

		if err := s.UpsertGrade(ctx, u.ID, "01-cells", 2, 3); err != nil {
			t.Fatalf("UpsertGrade() error = %v", err)
		}

		grades, err := s.GradesForUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("GradesForUser() error = %v", err)
		}
		g, ok := grades["01-cells"]
		if !ok {
			t.Fatal("grade for 01-cells not found")
		}
		if g.Score != 2 || g.Total != 3 {
			t.Errorf("grade = %d/%d, want 2/3", g.Score, g.Total)
		}
		if g.UpdatedAt.IsZero() {
			t.Error("UpdatedAt should be set")
		}
	})

	t.Run("UpsertGrade_Resubmission", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		u, _ := s.CreateUser(ctx, "ana", "hash1")

		if err := s.UpsertGrade(ctx, u.ID, "01-cells", 1, 3); err != nil {
			t.Fatalf("first UpsertGrade() error = %v", err)
		}
		first, _ := s.GradesForUser(ctx, u.ID)

		time.Sleep(10 * time.Millisecond)
		if err := s.UpsertGrade(ctx, u.ID, "01-cells", 3, 3); err != nil {
			t.Fatalf("second UpsertGrade() error = %v", err)
		}

		grades, _ := s.GradesForUser(ctx, u.ID)
		if len(grades) != 1 {
			t.Fatalf("grades count = %d, want 1 (resubmission overwrites)", len(grades))
		}
		g := grades["01-cells"]
		if g.Score != 3 || g.Total != 3 {
			t.Errorf("grade = %d/%d, want 3/3", g.Score, g.Total)
		}
		if !g.UpdatedAt.After(first["01-cells"].UpdatedAt) {
			t.Error("UpdatedAt should advance on resubmission")
		}
	})

	t.Run("GradesForUser_Empty", func(t *testing.T) {
		s := newStore(t)
		ctx := t.Context()

		u, _ := s.CreateUser(ctx, "ana", "hash1")
		grades, err := s.GradesForUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("GradesForUser() error = %v", err)
		}
		if len(grades) != 0 {
			t.Errorf("grades count = %d, want 0", len(grades))
		}
	})
}
