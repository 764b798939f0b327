package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/infrastructure/session"
)

func TestSessionEncoding(t *testing.T) {
	in := domain.Session{UID: "u1", Email: "a@x.com", Name: "A", IsAdmin: true}

	fields := make(map[string]string)
	for k, v := range encodeSession(in) {
		fields[k] = v.(string)
	}
	out := decodeSession(fields)

	if out.UID != in.UID || out.Email != in.Email || out.Name != in.Name || out.IsAdmin != in.IsAdmin {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if decodeSession(map[string]string{"is_admin": "0"}).IsAdmin {
		t.Fatalf("expected is_admin false")
	}
}

func newTestStore(t *testing.T) (*SessionStore, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, zerolog.Nop()), client
}

func isMember(t *testing.T, client *redis.Client, key, token string) bool {
	t.Helper()
	ok, err := client.SIsMember(context.Background(), key, token).Result()
	if err != nil {
		t.Fatalf("sismember %s: %v", key, err)
	}
	return ok
}

func TestSessionStore_IssueResolve(t *testing.T) {
	store, client := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, domain.Session{UID: "u1", Email: "a@x.com", Name: "A"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(token) != 2*session.TokenBytes {
		t.Fatalf("unexpected token length %d", len(token))
	}

	got, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Token != token || got.UID != "u1" || got.Email != "a@x.com" || got.Name != "A" || got.IsAdmin {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !isMember(t, client, uidPrefix+"u1", token) || !isMember(t, client, emailPrefix+"a@x.com", token) {
		t.Fatalf("token missing from indexes")
	}

	if _, err := store.Resolve(ctx, ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("empty token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := store.Resolve(ctx, "unknown"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("unknown token: expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionStore_RevokeIsIdempotent(t *testing.T) {
	store, client := newTestStore(t)
	ctx := context.Background()

	token, _ := store.Issue(ctx, domain.Session{UID: "u1", Email: "a@x.com"})

	for i := 0; i < 2; i++ {
		if err := store.Revoke(ctx, token); err != nil {
			t.Fatalf("revoke #%d: %v", i+1, err)
		}
	}
	if _, err := store.Resolve(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if isMember(t, client, uidPrefix+"u1", token) || isMember(t, client, emailPrefix+"a@x.com", token) {
		t.Fatalf("revoked token still indexed")
	}
	if err := store.Revoke(ctx, "never-issued"); err != nil {
		t.Fatalf("revoke unknown token: %v", err)
	}
}

func TestSessionStore_PropagateAdminChange(t *testing.T) {
	store, client := newTestStore(t)
	ctx := context.Background()

	a1, _ := store.Issue(ctx, domain.Session{UID: "u1", Email: "a@x.com"})
	a2, _ := store.Issue(ctx, domain.Session{UID: "u1", Email: "a@x.com"})
	other, _ := store.Issue(ctx, domain.Session{UID: "u2", Email: "b@x.com"})
	gone, _ := store.Issue(ctx, domain.Session{UID: "u1", Email: "a@x.com"})

	// hash removed behind the store's back, index entries left behind
	if err := client.Del(ctx, sessionPrefix+gone).Err(); err != nil {
		t.Fatalf("del: %v", err)
	}

	n, err := store.PropagateAdminChange(ctx, true, "u1", "a@x.com")
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 sessions updated, got %d", n)
	}
	for _, token := range []string{a1, a2} {
		if s, err := store.Resolve(ctx, token); err != nil || !s.IsAdmin {
			t.Fatalf("session %s not promoted: %+v %v", token, s, err)
		}
	}
	if s, _ := store.Resolve(ctx, other); s.IsAdmin {
		t.Fatalf("unrelated session promoted")
	}

	if isMember(t, client, uidPrefix+"u1", gone) || isMember(t, client, emailPrefix+"a@x.com", gone) {
		t.Fatalf("stale index entries not pruned")
	}
	if exists, _ := client.Exists(ctx, sessionPrefix+gone).Result(); exists != 0 {
		t.Fatalf("stale session hash recreated")
	}
	if !isMember(t, client, uidPrefix+"u1", a1) {
		t.Fatalf("live token pruned from index")
	}

	if err := store.Revoke(ctx, a1); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	n, err = store.PropagateAdminChange(ctx, false, "a@x.com")
	if err != nil || n != 1 {
		t.Fatalf("demote = %d, %v", n, err)
	}
	if s, _ := store.Resolve(ctx, a2); s.IsAdmin {
		t.Fatalf("session a2 still admin")
	}

	if n, _ := store.PropagateAdminChange(ctx, true, "", "nobody"); n != 0 {
		t.Fatalf("expected no updates, got %d", n)
	}
}
