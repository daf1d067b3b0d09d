package store

import (
	"context"

	"oteldemo/user-service/internal/models"
)

// UserStore persists registered users. Usernames are unique; creation of a
// duplicate returns ErrUserExists regardless of backend.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// SessionStore persists live sessions keyed by session ID. The expiry field
// is stored but never evaluated on lookup; expired sessions stay resolvable
// until an explicit delete.
type SessionStore interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, sessionID string) (models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CountSessions(ctx context.Context) (int, error)
}
