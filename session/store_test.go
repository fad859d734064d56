package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	st, err := NewStore(client, "test")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return st, mr
}

func testSession(expiresIn time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:          "sess-1",
		AccessToken: "header.payload.signature",
		UserID:      "user-1",
		Email:       "alice@example.com",
		CreatedAt:   now.Unix(),
		ExpiresAt:   now.Add(expiresIn).Unix(),
	}
}

func TestStoreSaveLoadDelete(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	s := testSession(time.Hour)
	if err := st.Save(ctx, "client-1", s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := st.Load(ctx, "client-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || *loaded != *s {
		t.Fatalf("loaded session mismatch: got %+v want %+v", loaded, s)
	}

	if err := st.Delete(ctx, "client-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	loaded, err = st.Load(ctx, "client-1")
	if err != nil {
		t.Fatalf("Load after delete failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected no session after delete")
	}
}

func TestStoreLoadMissingIsNotAnError(t *testing.T) {
	st, _ := newTestStore(t)

	loaded, err := st.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected nil session for missing key")
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Delete(ctx, "client-1"); err != nil {
		t.Fatalf("Delete of absent key failed: %v", err)
	}
	if err := st.Delete(ctx, "client-1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestStoreTTLFollowsSessionExpiry(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, "client-1", testSession(30*time.Second)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(time.Minute)

	loaded, err := st.Load(ctx, "client-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected persisted session to expire with its token")
	}
}

func TestStoreSaveExpiredSessionClearsRecord(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, "client-1", testSession(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	expired := testSession(-time.Minute)
	if err := st.Save(ctx, "client-1", expired); err != nil {
		t.Fatalf("Save of expired session failed: %v", err)
	}

	loaded, err := st.Load(ctx, "client-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected expired session to clear the persisted record")
	}
}

func TestStoreLoadCorruptBlob(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set("test:session:client-1", "garbage")

	if _, err := st.Load(ctx, "client-1"); !errors.Is(err, ErrSessionCorrupt) {
		t.Fatalf("expected ErrSessionCorrupt, got %v", err)
	}

	// The corrupt record must have been dropped.
	if mr.Exists("test:session:client-1") {
		t.Fatal("expected corrupt record to be deleted")
	}
}

func TestStoreRedisDown(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	if err := st.Save(ctx, "client-1", testSession(time.Hour)); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from Save, got %v", err)
	}
	if _, err := st.Load(ctx, "client-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from Load, got %v", err)
	}
}
