package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

func testSession(id string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:        id,
		Token:     "tok-" + id,
		User:      &domain.User{ID: "u-" + id, Email: id + "@example.com", Role: domain.RoleRemitter},
		CreatedAt: now,
		LastSeen:  now,
	}
}

// A sampled session must never pair a token with a missing user or vice
// versa, no matter how logins and logouts interleave.
func TestSessionStore_PairAtomicity(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				_ = store.Put(ctx, testSession("s1"))
			} else {
				_ = store.Delete(ctx, "s1")
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		s, err := store.Find(ctx, "s1")
		if err != nil {
			continue // empty session: both absent, consistent
		}
		if s.Token == "" || s.User == nil {
			t.Fatalf("sample %d: inconsistent pair: token=%q user=%v", i, s.Token, s.User)
		}
	}
	close(stop)
	wg.Wait()
}

func TestSessionStore_DeleteIdempotent(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete of absent session should be a no-op, got %v", err)
	}

	_ = store.Put(ctx, testSession("s1"))
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if _, err := store.Find(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_FindReturnsStoredPair(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	want := testSession("s1")
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Find(ctx, "s1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.Token != want.Token || got.User == nil || got.User.ID != want.User.ID {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.User.Role = domain.RoleAdmin
	again, _ := store.Find(ctx, "s1")
	if again.User.Role != domain.RoleRemitter {
		t.Fatalf("store leaked internal state")
	}
}

func TestSessionStore_Touch(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	s := testSession("s1")
	_ = store.Put(ctx, s)

	later := s.LastSeen.Add(time.Minute)
	if err := store.Touch(ctx, "s1", later); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	got, _ := store.Find(ctx, "s1")
	if !got.LastSeen.Equal(later) {
		t.Fatalf("expected last seen %v, got %v", later, got.LastSeen)
	}

	// Stale touches never rewind the window.
	if err := store.Touch(ctx, "s1", s.LastSeen); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	got, _ = store.Find(ctx, "s1")
	if !got.LastSeen.Equal(later) {
		t.Fatalf("stale touch rewound last seen to %v", got.LastSeen)
	}

	if err := store.Touch(ctx, "missing", later); err != nil {
		t.Fatalf("touch of absent session should be a no-op, got %v", err)
	}
}

func TestSessionStore_All(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = store.Put(ctx, testSession(fmt.Sprintf("s%d", i)))
	}
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
}
