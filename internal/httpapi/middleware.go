package httpapi

import (
	"net/http"

	"github.com/panita-ciencia/aula/internal/session"
)

const sessionCookieName = "aula_session"

// sessionHandler is a handler that requires an authenticated caller.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess session.Session)

// withSession resolves the caller's session cookie and rejects the
// request with 401 when no active session is bound to it.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "log in to continue")
			return
		}

		sess, found, err := s.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			writeStoreFailure(w, "resolve session", err)
			return
		}
		if !found {
			writeError(w, http.StatusUnauthorized, "unauthorized", "log in to continue")
			return
		}

		next(w, r, sess)
	}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
