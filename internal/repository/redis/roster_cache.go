package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
)

// RosterCache stores projected rosters in Redis keyed by event id. Entries
// expire on their own; the engine also invalidates eagerly after every commit.
type RosterCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRosterCache constructs a Redis-backed roster cache.
func NewRosterCache(client *redis.Client, prefix string, ttl time.Duration) *RosterCache {
	if prefix == "" {
		prefix = "crew:roster"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RosterCache{client: client, prefix: prefix, ttl: ttl}
}

type cachedEntry struct {
	RoleCode  string `json:"role_code"`
	RoleName  string `json:"role_name"`
	SortOrder int    `json:"sort_order"`
	Assignee  string `json:"assignee,omitempty"`
	Handle    string `json:"handle,omitempty"`
}

type cachedRoster struct {
	EventID int64         `json:"event_id"`
	Entries []cachedEntry `json:"entries"`
}

func (c *RosterCache) key(eventID int64) string {
	return fmt.Sprintf("%s:%d", c.prefix, eventID)
}

// Get returns the cached roster for the event, reporting a miss as found=false.
func (c *RosterCache) Get(ctx context.Context, eventID int64) (domain.Roster, bool, error) {
	raw, err := c.client.Get(ctx, c.key(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Roster{}, false, nil
		}
		return domain.Roster{}, false, fmt.Errorf("get cached roster: %w", err)
	}

	var cached cachedRoster
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.Roster{}, false, fmt.Errorf("decode cached roster: %w", err)
	}

	roster := domain.Roster{EventID: cached.EventID, Entries: make([]domain.RosterEntry, 0, len(cached.Entries))}
	for _, entry := range cached.Entries {
		roster.Entries = append(roster.Entries, domain.RosterEntry{
			RoleCode:  entry.RoleCode,
			RoleName:  entry.RoleName,
			SortOrder: entry.SortOrder,
			Assignee:  entry.Assignee,
			Handle:    entry.Handle,
		})
	}

	return roster, true, nil
}

// Set stores the roster with the configured TTL.
func (c *RosterCache) Set(ctx context.Context, roster domain.Roster) error {
	cached := cachedRoster{EventID: roster.EventID, Entries: make([]cachedEntry, 0, len(roster.Entries))}
	for _, entry := range roster.Entries {
		cached.Entries = append(cached.Entries, cachedEntry{
			RoleCode:  entry.RoleCode,
			RoleName:  entry.RoleName,
			SortOrder: entry.SortOrder,
			Assignee:  entry.Assignee,
			Handle:    entry.Handle,
		})
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	if err := c.client.Set(ctx, c.key(roster.EventID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached roster: %w", err)
	}

	return nil
}

// Invalidate drops the cached roster for the event.
func (c *RosterCache) Invalidate(ctx context.Context, eventID int64) error {
	if err := c.client.Del(ctx, c.key(eventID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached roster: %w", err)
	}
	return nil
}

var _ port.RosterCache = (*RosterCache)(nil)
