// Package httpapi exposes the platform's JSON API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/panita-ciencia/aula/internal/content"
	"github.com/panita-ciencia/aula/internal/session"
	"github.com/panita-ciencia/aula/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	sessions *session.Manager
	store    store.Store
	content  *content.Loader
	ready    []func(context.Context) error
}

// NewServer creates the API server. Ready checks are probed by /readyz.
func NewServer(sessions *session.Manager, st store.Store, loader *content.Loader, ready ...func(context.Context) error) *Server {
	return &Server{
		sessions: sessions,
		store:    st,
		content:  loader,
		ready:    ready,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("GET /api/dashboard", s.withSession(s.handleDashboard))
	mux.HandleFunc("GET /api/lessons/{subject}/{slug}", s.withSession(s.handleLesson))
	mux.HandleFunc("GET /api/quiz/{subject}/{slug}", s.withSession(s.handleQuizQuestions))
	mux.HandleFunc("POST /api/quiz/{subject}/{slug}", s.withSession(s.handleQuizSubmit))
	mux.HandleFunc("GET /api/grades/export", s.withSession(s.handleGradesExport))

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	for _, check := range s.ready {
		if err := check(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not_ready", "a dependency is unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
