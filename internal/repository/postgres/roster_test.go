package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func TestRosterRepository_Roster(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewRosterRepository(mock)

	rows := pgxmock.NewRows([]string{"code", "name", "sort_id", "full_name", "handle"}).
		AddRow("run_director", "Run Director", 10, "Alice Brown", "alice").
		AddRow("marshal", "Marshal", 70, "", "").
		AddRow("timekeeper", "Timekeeper", 80, "Bob Green", "bob")

	mock.ExpectQuery(`SELECT .*FROM crew\.roles r LEFT JOIN crew\.volunteers v`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	entries, err := repo.Roster(context.Background(), 7)
	if err != nil {
		t.Fatalf("Roster returned error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected every catalogue role in the view, got %d", len(entries))
	}
	if entries[1].RoleCode != "marshal" || entries[1].Assignee != "" {
		t.Fatalf("expected unfilled marshal slot, got %+v", entries[1])
	}
	if entries[2].Assignee != "Bob Green" || entries[2].Handle != "bob" {
		t.Fatalf("expected filled timekeeper slot, got %+v", entries[2])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
