package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/panita-ciencia/aula/internal/content"
	"github.com/panita-ciencia/aula/internal/session"
	"github.com/panita-ciencia/aula/internal/store"
)

type dashboardLesson struct {
	Slug    string       `json:"slug"`
	Title   string       `json:"title"`
	HasQuiz bool         `json:"hasQuiz"`
	Grade   *store.Grade `json:"grade,omitempty"`
}

type dashboardSubject struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Lessons     []dashboardLesson `json:"lessons"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess session.Session) {
	subjects, err := s.content.Load()
	if err != nil {
		writeStoreFailure(w, "load content", err)
		return
	}

	// Grades are an enrichment; the dashboard still renders without them.
	grades, err := s.store.GradesForUser(r.Context(), sess.UserID)
	if err != nil {
		slog.Warn("failed to load grades for dashboard", "user_id", sess.UserID, "error", err)
		grades = nil
	}

	out := make([]dashboardSubject, 0, len(subjects))
	for _, subject := range subjects {
		ds := dashboardSubject{
			Name:        subject.Name,
			Title:       subject.Title,
			Description: subject.Description,
			Lessons:     make([]dashboardLesson, 0, len(subject.Lessons)),
		}
		for _, lesson := range subject.Lessons {
			dl := dashboardLesson{
				Slug:    lesson.Slug,
				Title:   lesson.Title,
				HasQuiz: lesson.HasQuiz(),
			}
			if g, ok := grades[lesson.Slug]; ok {
				grade := g
				dl.Grade = &grade
			}
			ds.Lessons = append(ds.Lessons, dl)
		}
		out = append(out, ds)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username": sess.Username,
		"subjects": out,
	})
}

type lessonRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request, _ session.Session) {
	lesson, subject, idx, ok := s.findLesson(w, r)
	if !ok {
		return
	}

	prev, next := subject.Neighbors(idx)
	resp := map[string]any{
		"subject": subject.Name,
		"lesson": map[string]any{
			"slug":    lesson.Slug,
			"title":   lesson.Title,
			"blocks":  lesson.Blocks,
			"hasQuiz": lesson.HasQuiz(),
		},
		"prev": toRef(prev),
		"next": toRef(next),
	}
	writeJSON(w, http.StatusOK, resp)
}

// findLesson resolves the {subject}/{slug} path values, writing the 404
// or 503 response itself when resolution fails.
func (s *Server) findLesson(w http.ResponseWriter, r *http.Request) (content.Lesson, content.Subject, int, bool) {
	subject, found, err := s.content.Subject(r.PathValue("subject"))
	if err != nil {
		writeStoreFailure(w, "load content", err)
		return content.Lesson{}, content.Subject{}, 0, false
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "unknown subject")
		return content.Lesson{}, content.Subject{}, 0, false
	}

	lesson, idx, ok := subject.Lesson(r.PathValue("slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown lesson")
		return content.Lesson{}, content.Subject{}, 0, false
	}
	return lesson, subject, idx, true
}

func toRef(l *content.Lesson) *lessonRef {
	if l == nil {
		return nil
	}
	return &lessonRef{Slug: l.Slug, Title: l.Title}
}
