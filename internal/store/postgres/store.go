package postgres

import (
	"context"
	"errors"
	"time"

	"oteldemo/user-service/internal/models"
	"oteldemo/user-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

var _ store.UserStore = (*Store)(nil)
var _ store.SessionStore = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, username, password, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), user.Username, user.Password, user.Created)
	if err != nil {
		// Concurrent registrations race on the handler-level existence
		// check; the unique constraint makes the first committer win.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrUserExists
		}
		return err
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.pool.QueryRow(ctx, `
		SELECT username, password, created_at
		FROM users
		WHERE username = $1
	`, username)
	if err := row.Scan(&user.Username, &user.Password, &user.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT username, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Username, &user.Created); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateSession(ctx context.Context, session models.Session) error {
	var expiresAt *time.Time
	if !session.ExpiresAt.IsZero() {
		expiresAt = &session.ExpiresAt
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, user_id, expires_at, created_at)
		VALUES ($1, (SELECT user_id FROM users WHERE username = $2), $3, $4)
	`, session.SessionID, session.Username, expiresAt, session.Created)
	return err
}

// GetSession resolves a session without evaluating expires_at. The column is
// written on login but no code path enforces it.
func (s *Store) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	var session models.Session
	var expiresAt *time.Time
	row := s.pool.QueryRow(ctx, `
		SELECT s.session_id, u.username, s.expires_at, s.created_at
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = $1
	`, sessionID)
	if err := row.Scan(&session.SessionID, &session.Username, &expiresAt, &session.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, store.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	if expiresAt != nil {
		session.ExpiresAt = *expiresAt
	}
	return session, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM sessions`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
