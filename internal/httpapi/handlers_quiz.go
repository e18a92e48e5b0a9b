package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/panita-ciencia/aula/internal/export"
	"github.com/panita-ciencia/aula/internal/quiz"
	"github.com/panita-ciencia/aula/internal/session"
)

type quizQuestion struct {
	Index   int      `json:"index"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// handleQuizQuestions returns the quiz without its answer key.
func (s *Server) handleQuizQuestions(w http.ResponseWriter, r *http.Request, _ session.Session) {
	lesson, subject, _, ok := s.findLesson(w, r)
	if !ok {
		return
	}
	if !lesson.HasQuiz() {
		writeError(w, http.StatusNotFound, "not_found", "this lesson has no quiz")
		return
	}

	questions := make([]quizQuestion, len(lesson.Quiz.Questions))
	for i, q := range lesson.Quiz.Questions {
		questions[i] = quizQuestion{Index: i, Prompt: q.Prompt, Choices: q.Choices}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"subject":   subject.Name,
		"lesson":    lesson.Slug,
		"title":     lesson.Title,
		"questions": questions,
	})
}

type quizSubmission struct {
	// Answers maps question index to the chosen answer. JSON object keys
	// are strings, so indexes arrive as "0", "1", ...
	Answers map[string]string `json:"answers"`
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request, sess session.Session) {
	lesson, _, _, ok := s.findLesson(w, r)
	if !ok {
		return
	}
	if !lesson.HasQuiz() {
		writeError(w, http.StatusNotFound, "not_found", "this lesson has no quiz")
		return
	}

	var sub quizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "request body must be JSON with an answers object")
		return
	}

	answers := make(map[int]string, len(sub.Answers))
	for key, choice := range sub.Answers {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue // non-numeric keys grade as unanswered
		}
		answers[idx] = choice
	}

	score, total := quiz.Grade(*lesson.Quiz, answers)
	if err := s.store.UpsertGrade(r.Context(), sess.UserID, lesson.Slug, score, total); err != nil {
		writeStoreFailure(w, "upsert grade", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lesson": lesson.Slug,
		"score":  score,
		"total":  total,
	})
}

func (s *Server) handleGradesExport(w http.ResponseWriter, r *http.Request, sess session.Session) {
	grades, err := s.store.GradesForUser(r.Context(), sess.UserID)
	if err != nil {
		writeStoreFailure(w, "load grades", err)
		return
	}

	f, err := export.GradesWorkbook(sess.Username, grades)
	if err != nil {
		writeStoreFailure(w, "build workbook", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "grades-"+sess.Username+".xlsx"))
	if err := f.Write(w); err != nil {
		// Headers are already out; nothing left to do but log.
		slog.Error("failed to stream grades workbook", "user_id", sess.UserID, "error", err)
	}
}
