package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/infra/config"
	"github.com/platosha5/parkrun-service/internal/repository"
	"github.com/platosha5/parkrun-service/internal/repository/memory"
	httproutes "github.com/platosha5/parkrun-service/internal/transport/http/routes"
	"github.com/platosha5/parkrun-service/internal/usecase"
)

type catalogueStub struct {
	roles map[string]domain.Role
}

func (s *catalogueStub) GetByCode(_ context.Context, code string) (*domain.Role, error) {
	if role, ok := s.roles[code]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (s *catalogueStub) List(_ context.Context) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(s.roles))
	for _, role := range s.roles {
		roles = append(roles, role)
	}
	return roles, nil
}

type rosterRepoStub struct {
	entries []domain.RosterEntry
}

func (s *rosterRepoStub) Roster(_ context.Context, _ int64) ([]domain.RosterEntry, error) {
	return s.entries, nil
}

type eventRepoStub struct {
	events map[int64]domain.Event
}

func (s *eventRepoStub) GetByLocationDate(_ context.Context, locationID int64, date time.Time) (*domain.Event, error) {
	for _, event := range s.events {
		if event.LocationID == locationID && event.Date.Equal(date) {
			e := event
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *eventRepoStub) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	if event, ok := s.events[id]; ok {
		e := event
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (s *eventRepoStub) Create(_ context.Context, locationID int64, date time.Time) (*domain.Event, error) {
	event := domain.Event{ID: int64(len(s.events) + 1), LocationID: locationID, Date: date}
	s.events[event.ID] = event
	return &event, nil
}

type userRepoStub struct {
	users map[int64]domain.User
}

func (s *userRepoStub) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if user, ok := s.users[id]; ok {
		u := user
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) Create(_ context.Context, user domain.User) error {
	s.users[user.ID] = user
	return nil
}

type locationRepoStub struct {
	locations []domain.Location
}

func (s *locationRepoStub) GetByName(_ context.Context, name string) (*domain.Location, error) {
	for _, location := range s.locations {
		if location.Name == name {
			l := location
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *locationRepoStub) ListActive(_ context.Context) ([]domain.Location, error) {
	return s.locations, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roles := []domain.Role{
		{ID: 1, Code: "run_director", Name: "Run Director", Unique: true, SortOrder: 10},
		{ID: 7, Code: "marshal", Name: "Marshal", SortOrder: 70},
	}
	catalogue := &catalogueStub{roles: map[string]domain.Role{
		"run_director": roles[0],
		"marshal":      roles[1],
	}}

	store := memory.NewAssignmentStore(roles)
	log := zap.NewNop()

	events := &eventRepoStub{events: map[int64]domain.Event{
		1: {ID: 1, LocationID: 1, Date: time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)},
	}}

	router, err := httproutes.Register(httproutes.Dependencies{
		Config: &config.AppConfig{App: config.AppSettings{Env: "test"}},
		Logger: log,
		Services: httproutes.Services{
			Assignments: usecase.NewAssignmentService(catalogue, store, log),
			Roster: usecase.NewRosterService(&rosterRepoStub{entries: []domain.RosterEntry{
				{RoleCode: "run_director", RoleName: "Run Director", SortOrder: 10, Assignee: "Alice Brown"},
				{RoleCode: "marshal", RoleName: "Marshal", SortOrder: 70},
			}}, log),
			Events:    usecase.NewEventService(events, time.Saturday),
			Users:     usecase.NewUserService(&userRepoStub{users: make(map[int64]domain.User)}),
			Locations: usecase.NewLocationService(&locationRepoStub{locations: []domain.Location{{ID: 1, Name: "Gorky Park", Active: true}}}),
		},
	})
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestReadyEndpointReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router, err := httproutes.Register(httproutes.Dependencies{
		Config: &config.AppConfig{App: config.AppSettings{Env: "test"}},
		Logger: zap.NewNop(),
		DatabaseCheck: func(_ context.Context) error {
			return errors.New("connection refused")
		},
	})
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}

	rr := doJSON(t, router, http.MethodGet, "/readyz", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

func TestAssignmentLifecycleOverHTTP(t *testing.T) {
	router := testRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/events/1/assignments", map[string]any{
		"user_id": 100,
		"role":    "run_director",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for first assignment, got %d: %s", rr.Code, rr.Body.String())
	}

	// Same user, same role: declined idempotently.
	rr = doJSON(t, router, http.MethodPost, "/api/v1/events/1/assignments", map[string]any{
		"user_id": 100,
		"role":    "run_director",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rr.Code)
	}

	var dup struct {
		Assigned bool   `json:"assigned"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &dup); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dup.Assigned || dup.Reason != "already_assigned_same_role" {
		t.Fatalf("unexpected duplicate response: %+v", dup)
	}

	// Another user cannot take the unique role.
	rr = doJSON(t, router, http.MethodPost, "/api/v1/events/1/assignments", map[string]any{
		"user_id": 200,
		"role":    "run_director",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for taken unique role, got %d", rr.Code)
	}

	// Unknown role maps to 404.
	rr = doJSON(t, router, http.MethodPost, "/api/v1/events/1/assignments", map[string]any{
		"user_id": 200,
		"role":    "tail_runner",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown role, got %d", rr.Code)
	}

	// Removal frees the slot.
	rr = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/events/1/assignments/%d", 100), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for unassign, got %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPost, "/api/v1/events/1/assignments", map[string]any{
		"user_id": 200,
		"role":    "run_director",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected freed role to accept, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRosterEndpoint(t *testing.T) {
	router := testRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/v1/events/1/roster", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var payload struct {
		EventID int64 `json:"event_id"`
		Filled  int   `json:"filled"`
		Entries []struct {
			Role     string `json:"role"`
			Assignee string `json:"assignee"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if payload.EventID != 1 || payload.Filled != 1 || len(payload.Entries) != 2 {
		t.Fatalf("unexpected roster payload: %+v", payload)
	}

	// Missing events yield 404, not an empty roster.
	rr = doJSON(t, router, http.MethodGet, "/api/v1/events/99/roster", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown event, got %d", rr.Code)
	}
}

func TestEventAndUserEndpoints(t *testing.T) {
	router := testRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/v1/events", map[string]any{
		"location_id": 1,
		"date":        "2026-08-22",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for event resolution, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, http.MethodPost, "/api/v1/events", map[string]any{
		"location_id": 1,
		"date":        "22.08.2026",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rr.Code)
	}

	rr = doJSON(t, router, http.MethodPost, "/api/v1/users", map[string]any{
		"id":         42,
		"first_name": "Alice",
		"last_name":  "Brown",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for user registration, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, http.MethodGet, "/api/v1/locations", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for locations, got %d", rr.Code)
	}
}
