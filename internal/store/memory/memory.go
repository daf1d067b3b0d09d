// Package memory implements the user and session stores on process memory.
// Listing preserves insertion order; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"oteldemo/user-service/internal/models"
	"oteldemo/user-service/internal/store"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]models.User
	order    []string
	sessions map[string]models.Session
}

var _ store.UserStore = (*Store)(nil)
var _ store.SessionStore = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
	}
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return store.ErrUserExists
	}
	s.users[user.Username] = user
	s.order = append(s.order, user.Username)
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.order))
	for _, username := range s.order {
		users = append(users, s.users[username])
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *Store) CreateSession(ctx context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// No collision check: a duplicate ID overwrites the existing session,
	// matching the observed behavior of the map-backed original.
	s.sessions[session.SessionID] = session
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return store.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *Store) CountSessions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), nil
}
