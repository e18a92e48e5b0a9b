package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for tests and local
// development. It enforces the same invariants as the Postgres store.
type MemoryStore struct {
	users  map[int64]*User
	grades map[int64]map[string]Grade
	nextID int64
	mu     sync.Mutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[int64]*User),
		grades: make(map[int64]map[string]Grade),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, username, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return User{}, ErrDuplicateUsername
		}
	}

	s.nextID++
	u := &User{ID: s.nextID, Username: username, PasswordHash: passwordHash}
	s.users[u.ID] = u
	return *u, nil
}

func (s *MemoryStore) FindUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return *u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) ClaimSessionToken(_ context.Context, userID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	if u.SessionToken != nil {
		return ErrSessionActive
	}
	u.SessionToken = &token
	return nil
}

func (s *MemoryStore) ClearSessionToken(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.SessionToken = nil
	return nil
}

func (s *MemoryStore) UpsertGrade(_ context.Context, userID int64, lessonSlug string, score, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrNotFound
	}
	if s.grades[userID] == nil {
		s.grades[userID] = make(map[string]Grade)
	}
	s.grades[userID][lessonSlug] = Grade{
		LessonSlug: lessonSlug,
		Score:      score,
		Total:      total,
		UpdatedAt:  time.Now(),
	}
	return nil
}

func (s *MemoryStore) GradesForUser(_ context.Context, userID int64) (map[string]Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Grade, len(s.grades[userID]))
	for slug, g := range s.grades[userID] {
		out[slug] = g
	}
	return out, nil
}
