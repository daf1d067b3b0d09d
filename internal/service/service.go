// Package service holds the user and session business logic. It is the only
// owner of the two stores; handlers never touch them directly.
package service

import (
	"context"
	"errors"
	"time"

	"oteldemo/user-service/internal/models"
	"oteldemo/user-service/internal/session"
	"oteldemo/user-service/internal/store"
)

// ErrInvalidPassword indicates the user exists but the password does not
// match. Handlers collapse it with store.ErrUserNotFound into a single 401
// so the response does not leak which half failed.
var ErrInvalidPassword = errors.New("invalid password")

// UserService implements register, login, logout, user listing, and
// session-to-user resolution over a pair of injected stores.
type UserService struct {
	users    store.UserStore
	sessions store.SessionStore
	verifier Verifier
	ttl      time.Duration
	newID    func() string
}

// Options tunes a UserService; the zero value gives the observed demo
// behavior (plaintext passwords, 24h recorded expiry, sess_ IDs).
type Options struct {
	Verifier     Verifier
	SessionTTL   time.Duration
	NewSessionID func() string
}

func New(users store.UserStore, sessions store.SessionStore, opts Options) *UserService {
	if opts.Verifier == nil {
		opts.Verifier = PlaintextVerifier{}
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = session.NewID
	}
	return &UserService{
		users:    users,
		sessions: sessions,
		verifier: opts.Verifier,
		ttl:      opts.SessionTTL,
		newID:    opts.NewSessionID,
	}
}

// Register creates the user and returns it with the new total user count.
// A taken username surfaces as store.ErrUserExists; the stores' uniqueness
// guarantee is the only guard against concurrent registrations.
func (s *UserService) Register(ctx context.Context, username, password string) (models.User, int, error) {
	stored, err := s.verifier.Hash(password)
	if err != nil {
		return models.User{}, 0, err
	}

	user := models.User{
		Username: username,
		Password: stored,
		Created:  time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return models.User{}, 0, err
	}

	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return models.User{}, 0, err
	}
	return user, total, nil
}

// Login authenticates the user and creates a session bound to them,
// returning the user, the new session ID, and the active session count.
// The expiry stamp is recorded on the session but never checked afterwards.
func (s *UserService) Login(ctx context.Context, username, password string) (models.User, string, int, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return models.User{}, "", 0, err
	}
	if !s.verifier.Compare(user.Password, password) {
		return models.User{}, "", 0, ErrInvalidPassword
	}

	now := time.Now().UTC()
	sess := models.Session{
		SessionID: s.newID(),
		Username:  user.Username,
		ExpiresAt: now.Add(s.ttl),
		Created:   now,
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return models.User{}, "", 0, err
	}

	active, err := s.sessions.CountSessions(ctx)
	if err != nil {
		return models.User{}, "", 0, err
	}
	return user, sess.SessionID, active, nil
}

// Logout deletes the session and returns the owning username together with
// the remaining session count.
func (s *UserService) Logout(ctx context.Context, sessionID string) (string, int, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return "", 0, err
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return "", 0, err
	}

	remaining, err := s.sessions.CountSessions(ctx)
	if err != nil {
		return "", 0, err
	}
	return sess.Username, remaining, nil
}

// GetAllUsers lists registered users. Passwords never leave this layer.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// GetUserBySession resolves a session ID to the owning username.
func (s *UserService) GetUserBySession(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return sess.Username, nil
}

// Stats reports the total user and active session counts.
func (s *UserService) Stats(ctx context.Context) (int, int, error) {
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	active, err := s.sessions.CountSessions(ctx)
	if err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
