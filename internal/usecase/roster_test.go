package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

type rosterRepoMock struct {
	entries map[int64][]domain.RosterEntry
	err     error
	calls   int
}

func (m *rosterRepoMock) Roster(_ context.Context, eventID int64) ([]domain.RosterEntry, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[eventID], nil
}

type storingCacheMock struct {
	rosters map[int64]domain.Roster
	getErr  error
	setErr  error
}

func (m *storingCacheMock) Get(_ context.Context, eventID int64) (domain.Roster, bool, error) {
	if m.getErr != nil {
		return domain.Roster{}, false, m.getErr
	}
	roster, ok := m.rosters[eventID]
	return roster, ok, nil
}

func (m *storingCacheMock) Set(_ context.Context, roster domain.Roster) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.rosters == nil {
		m.rosters = make(map[int64]domain.Roster)
	}
	m.rosters[roster.EventID] = roster
	return nil
}

func (m *storingCacheMock) Invalidate(_ context.Context, eventID int64) error {
	delete(m.rosters, eventID)
	return nil
}

func testRosterEntries() []domain.RosterEntry {
	return []domain.RosterEntry{
		{RoleCode: "run_director", RoleName: "Run Director", SortOrder: 10, Assignee: "Alice Brown", Handle: "alice"},
		{RoleCode: "marshal", RoleName: "Marshal", SortOrder: 70},
		{RoleCode: "timekeeper", RoleName: "Timekeeper", SortOrder: 80, Assignee: "Bob Green", Handle: "bob"},
	}
}

func TestRosterProjection(t *testing.T) {
	repo := &rosterRepoMock{entries: map[int64][]domain.RosterEntry{1: testRosterEntries()}}
	service := NewRosterService(repo, zap.NewNop())

	roster, err := service.Roster(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if roster.EventID != 1 {
		t.Fatalf("expected event id 1, got %d", roster.EventID)
	}
	if len(roster.Entries) != 3 {
		t.Fatalf("expected every catalogue role in the view, got %d entries", len(roster.Entries))
	}
	if roster.Filled() != 2 {
		t.Fatalf("expected two filled slots, got %d", roster.Filled())
	}
	if roster.Entries[1].RoleCode != "marshal" || roster.Entries[1].Assignee != "" {
		t.Fatalf("expected unfilled marshal in display position, got %+v", roster.Entries[1])
	}
}

func TestRosterServesFromCache(t *testing.T) {
	repo := &rosterRepoMock{entries: map[int64][]domain.RosterEntry{1: testRosterEntries()}}
	cache := &storingCacheMock{}
	service := NewRosterService(repo, zap.NewNop()).WithCache(cache)

	if _, err := service.Roster(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Roster(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.calls != 1 {
		t.Fatalf("expected one repository read with a warm cache, got %d", repo.calls)
	}
}

func TestRosterCacheFailureDegradesToDirectRead(t *testing.T) {
	repo := &rosterRepoMock{entries: map[int64][]domain.RosterEntry{1: testRosterEntries()}}
	cache := &storingCacheMock{getErr: errors.New("connection refused"), setErr: errors.New("connection refused")}
	service := NewRosterService(repo, zap.NewNop()).WithCache(cache)

	roster, err := service.Roster(context.Background(), 1)
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(roster.Entries) != 3 {
		t.Fatalf("expected full projection despite cache failure, got %d entries", len(roster.Entries))
	}
}

func TestRosterRepositoryError(t *testing.T) {
	repo := &rosterRepoMock{err: errors.New("boom")}
	service := NewRosterService(repo, zap.NewNop())

	if _, err := service.Roster(context.Background(), 1); err == nil {
		t.Fatal("expected projection error to surface")
	}
}
