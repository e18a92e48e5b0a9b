// Package quiz grades submitted answers against a lesson's answer key.
package quiz

import "github.com/panita-ciencia/aula/internal/content"

// Grade scores a submission. Answers are keyed by question index; an
// unanswered or out-of-range index counts as incorrect, never an error.
// Matching is exact string equality against the recorded answer key.
func Grade(q content.Quiz, answers map[int]string) (score, total int) {
	total = len(q.Questions)
	for i, question := range q.Questions {
		if submitted, ok := answers[i]; ok && submitted == question.Answer {
			score++
		}
	}
	return score, total
}
