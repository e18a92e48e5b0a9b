package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/panita-ciencia/aula/internal/session"
	"github.com/panita-ciencia/aula/internal/store"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "request body must be JSON with username and password")
		return
	}

	user, err := s.sessions.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, session.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", "username and password are required")
	case errors.Is(err, store.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "duplicate_username", "that username is already taken")
	case err != nil:
		writeStoreFailure(w, "register", err)
	default:
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":       user.ID,
			"username": user.Username,
		})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "request body must be JSON with username and password")
		return
	}

	sess, err := s.sessions.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
	case errors.Is(err, store.ErrSessionActive):
		writeError(w, http.StatusConflict, "session_active", "this account has an active session on another device")
	case err != nil:
		writeStoreFailure(w, "login", err)
	default:
		setSessionCookie(w, sess.Token)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       sess.UserID,
			"username": sess.Username,
		})
	}
}

// handleLogout always succeeds from the caller's perspective: the local
// session context and the cookie are discarded even when clearing the
// persisted token fails, and a caller with no session at all still gets
// a clean 204.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Logout(r.Context(), cookie.Value)
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
