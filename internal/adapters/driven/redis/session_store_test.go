package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// setupTestRedis creates a miniredis-backed client
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

func testSession(id, userID string) *domain.Session {
	return &domain.Session{
		ID:        id,
		UserID:    userID,
		Token:     "token-" + id,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := testSession("session-1", "user-1")

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	retrieved, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retrieved.UserID != "user-1" || retrieved.Token != session.Token {
		t.Errorf("session does not round-trip: %+v", retrieved)
	}
}

func TestSessionStore_GetByToken(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := testSession("session-1", "user-1")

	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	retrieved, err := store.GetByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retrieved.ID != session.ID {
		t.Errorf("expected session %s, got %s", session.ID, retrieved.ID)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_ExpiredSessionNotSaved(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("session-1", "user-1")
	session.ExpiresAt = time.Now().Add(-time.Minute)

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expired session must not be retrievable, got %v", err)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := testSession("session-1", "user-1")
	session.ExpiresAt = time.Now().Add(time.Minute)
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()
	session := testSession("session-1", "user-1")

	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("session must be gone")
	}
	if _, err := store.GetByToken(ctx, session.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("token index must be gone")
	}
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, testSession("session-1", "user-1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testSession("session-2", "user-1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testSession("session-3", "user-2")); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteByUser(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, "session-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("user-1 sessions must be gone")
	}
	if _, err := store.Get(ctx, "session-2"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("user-1 sessions must be gone")
	}
	if _, err := store.Get(ctx, "session-3"); err != nil {
		t.Error("other users' sessions must survive")
	}
}
