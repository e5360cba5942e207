package leads

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "Unknown", "+15551234567", "", pgxmock.AnyArg(), "TBD", "sms").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewPostgresRepository(mock)
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{
		Phone:     "+15551234567",
		Source:    "sms",
		Responses: map[string]any{"input": "hi", "reply": "hello"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if lead.Name != "Unknown" || lead.AppointmentDate != "TBD" {
		t.Errorf("defaults not applied: %+v", lead)
	}
	if !lead.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v", lead.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "name", "phone", "email", "responses", "appointment_date", "source", "created_at"}).
		AddRow("lead-1", "Pat", "+15551234567", "pat@example.com", []byte(`{"input":"hi"}`), "TBD", "sms", now)
	mock.ExpectQuery("SELECT (.+) FROM leads").WithArgs("lead-1").WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	lead, err := repo.GetByID(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if lead.Name != "Pat" {
		t.Errorf("name = %q", lead.Name)
	}
	if lead.Responses["input"] != "hi" {
		t.Errorf("responses = %v", lead.Responses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "name", "phone", "email", "responses", "appointment_date", "source", "created_at"})
	mock.ExpectQuery("SELECT (.+) FROM leads").WithArgs("missing").WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrLeadNotFound {
		t.Errorf("err = %v, want ErrLeadNotFound", err)
	}
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "name", "phone", "email", "responses", "appointment_date", "source", "created_at"}).
		AddRow("lead-1", "Pat", "+1", "", []byte(`{}`), "TBD", "sms", now).
		AddRow("lead-2", "Sam", "+2", "", []byte(`{}`), "TBD", "web", now)
	mock.ExpectQuery("SELECT (.+) FROM leads").WithArgs(50, 0).WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	found, err := repo.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(found) != 2 || found[1].Name != "Sam" {
		t.Errorf("leads = %+v", found)
	}
}
