package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func testRoster() domain.Roster {
	return domain.Roster{
		EventID: 7,
		Entries: []domain.RosterEntry{
			{RoleCode: "run_director", RoleName: "Run Director", SortOrder: 10, Assignee: "Alice Brown", Handle: "alice"},
			{RoleCode: "marshal", RoleName: "Marshal", SortOrder: 70},
		},
	}
}

func TestRosterCache_SetGetRoundTrip(t *testing.T) {
	client, _ := newTestRedis(t)
	cache := NewRosterCache(client, "crew:roster", 10*time.Minute)

	ctx := context.Background()

	if _, found, err := cache.Get(ctx, 7); err != nil || found {
		t.Fatalf("expected clean miss, got found=%v err=%v", found, err)
	}

	if err := cache.Set(ctx, testRoster()); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	roster, found, err := cache.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if roster.EventID != 7 || len(roster.Entries) != 2 {
		t.Fatalf("unexpected roster: %+v", roster)
	}
	if roster.Entries[0].Assignee != "Alice Brown" || roster.Entries[1].Assignee != "" {
		t.Fatalf("roster entries did not round-trip: %+v", roster.Entries)
	}
}

func TestRosterCache_Invalidate(t *testing.T) {
	client, _ := newTestRedis(t)
	cache := NewRosterCache(client, "crew:roster", 10*time.Minute)

	ctx := context.Background()

	if err := cache.Set(ctx, testRoster()); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := cache.Invalidate(ctx, 7); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}

	if _, found, err := cache.Get(ctx, 7); err != nil || found {
		t.Fatalf("expected miss after invalidation, got found=%v err=%v", found, err)
	}
}

func TestRosterCache_EntriesExpire(t *testing.T) {
	client, server := newTestRedis(t)
	cache := NewRosterCache(client, "crew:roster", time.Minute)

	ctx := context.Background()

	if err := cache.Set(ctx, testRoster()); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	server.FastForward(2 * time.Minute)

	if _, found, err := cache.Get(ctx, 7); err != nil || found {
		t.Fatalf("expected miss after TTL, got found=%v err=%v", found, err)
	}
}
