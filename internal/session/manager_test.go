package session_test

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/panita-ciencia/aula/internal/session"
	"github.com/panita-ciencia/aula/internal/store"
)

// bcrypt.MinCost keeps the hashing fast in tests.
func newManager() (*session.Manager, *store.MemoryStore, *session.MemoryContexts) {
	st := store.NewMemoryStore()
	ctxs := session.NewMemoryContexts()
	return session.NewManager(st, ctxs, bcrypt.MinCost), st, ctxs
}

func TestRegister(t *testing.T) {
	m, _, _ := newManager()
	ctx := t.Context()

	user, err := m.Register(ctx, "ana", "pw1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("Register() returned zero ID")
	}
	if user.PasswordHash == "pw1" {
		t.Error("password stored in clear")
	}
}

func TestRegister_EmptyFields(t *testing.T) {
	m, _, _ := newManager()
	ctx := t.Context()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw1"},
		{"empty password", "ana", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Register(ctx, tt.username, tt.password)
			if !errors.Is(err, session.ErrInvalidInput) {
				t.Errorf("Register() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	m, _, _ := newManager()
	ctx := t.Context()

	if _, err := m.Register(ctx, "ana", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, err := m.Register(ctx, "ana", "pw2")
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Errorf("Register() error = %v, want ErrDuplicateUsername", err)
	}
}

func TestLogin_Success(t *testing.T) {
	m, _, _ := newManager()
	ctx := t.Context()

	if _, err := m.Register(ctx, "ana", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sess, err := m.Login(ctx, "ana", "pw1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.Token == "" {
		t.Error("Login() returned empty token")
	}
	if sess.Username != "ana" {
		t.Errorf("Username = %q, want ana", sess.Username)
	}

	got, found, err := m.Resolve(ctx, sess.Token)
	if err != nil || !found {
		t.Fatalf("Resolve() = found %v, err %v", found, err)
	}
	if got.UserID != sess.UserID {
		t.Errorf("Resolve().UserID = %d, want %d", got.UserID, sess.UserID)
	}
}

func TestLogin_SecondDeviceRefused(t *testing.T) {
	m, st, _ := newManager()
	ctx := t.Context()

	if _, err := m.Register(ctx, "ana", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	first, err := m.Login(ctx, "ana", "pw1")
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}

	_, err = m.Login(ctx, "ana", "pw1")
	if !errors.Is(err, store.ErrSessionActive) {
		t.Fatalf("second Login() error = %v, want ErrSessionActive", err)
	}

	// The refused attempt must not have stolen the first session's token.
	user, _ := st.FindUserByUsername(ctx, "ana")
	if user.SessionToken == nil || *user.SessionToken != first.Token {
		t.Errorf("persisted token = %v, want first session's %q", user.SessionToken, first.Token)
	}
	if _, found, _ := m.Resolve(ctx, first.Token); !found {
		t.Error("first session context should still resolve")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	m, _, _ := newManager()
	ctx := t.Context()

	if _, err := m.Register(ctx, "ana", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "ana", "wrong"},
		{"unknown user", "nadie", "pw1"},
		{"empty password", "ana", ""},
	}

	// Unknown user and wrong password must be indistinguishable.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, session.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogout_AllowsRelogin(t *testing.T) {
	m, _, _ := newManager()
	ctx := t.Context()

	if _, err := m.Register(ctx, "ana", "pw1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Token cycle: null -> token -> null -> token.
	for i := 0; i < 3; i++ {
		sess, err := m.Login(ctx, "ana", "pw1")
		if err != nil {
			t.Fatalf("Login() round %d error = %v", i, err)
		}
		m.Logout(ctx, sess.Token)

		if _, found, _ := m.Resolve(ctx, sess.Token); found {
			t.Errorf("round %d: token should not resolve after logout", i)
		}
	}
}

func TestLogout_ClearsContextDespiteStoreFailure(t *testing.T) {
	st := store.NewMemoryStore()
	ctxs := session.NewMemoryContexts()
	m := session.NewManager(st, ctxs, bcrypt.MinCost)
	ctx := t.Context()

	// A context whose user no longer exists in the store: clearing the
	// persisted token fails, but the local context must still go away.
	orphan := session.Session{UserID: 42, Username: "ghost", Token: "orphan-token"}
	if err := ctxs.Put(ctx, orphan); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	m.Logout(ctx, orphan.Token)

	if _, found, _ := m.Resolve(ctx, orphan.Token); found {
		t.Error("orphaned session context should be discarded by logout")
	}
}

func TestResolve_EmptyToken(t *testing.T) {
	m, _, _ := newManager()

	if _, found, err := m.Resolve(t.Context(), ""); found || err != nil {
		t.Errorf("Resolve(\"\") = found %v, err %v; want not found, nil", found, err)
	}
}
