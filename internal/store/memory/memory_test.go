package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"oteldemo/user-service/internal/models"
	"oteldemo/user-service/internal/store"
)

func TestUserCreateAndLookup(t *testing.T) {
	st := New()
	ctx := context.Background()

	if err := st.CreateUser(ctx, models.User{Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.CreateUser(ctx, models.User{Username: "alice", Password: "other"}); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("duplicate: expected ErrUserExists, got %v", err)
	}

	user, err := st.GetUser(ctx, "alice")
	if err != nil || user.Password != "pw" {
		t.Fatalf("lookup: got %+v, %v", user, err)
	}
	if _, err := st.GetUser(ctx, "bob"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("missing user: expected ErrUserNotFound, got %v", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	st := New()
	ctx := context.Background()

	names := []string{"carol", "alice", "bob"}
	for _, name := range names {
		if err := st.CreateUser(ctx, models.User{Username: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != len(names) {
		t.Fatalf("expected %d users, got %d", len(names), len(users))
	}
	for i, name := range names {
		if users[i].Username != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, users[i].Username)
		}
	}
}

func TestSessionDelete(t *testing.T) {
	st := New()
	ctx := context.Background()

	sess := models.Session{SessionID: "sess_1", Username: "alice", Created: time.Now()}
	if err := st.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := st.CountSessions(ctx)
	if err != nil || count != 1 {
		t.Fatalf("count: got %d, %v", count, err)
	}

	if err := st.DeleteSession(ctx, "sess_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteSession(ctx, "sess_1"); !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("second delete: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := st.GetSession(ctx, "sess_1"); !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("get after delete: expected ErrSessionNotFound, got %v", err)
	}
}

func TestDuplicateSessionIDOverwrites(t *testing.T) {
	st := New()
	ctx := context.Background()

	_ = st.CreateSession(ctx, models.Session{SessionID: "sess_1", Username: "alice"})
	_ = st.CreateSession(ctx, models.Session{SessionID: "sess_1", Username: "bob"})

	sess, err := st.GetSession(ctx, "sess_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Username != "bob" {
		t.Fatalf("expected overwrite by bob, got %q", sess.Username)
	}
	count, _ := st.CountSessions(ctx)
	if count != 1 {
		t.Fatalf("expected 1 session, got %d", count)
	}
}
