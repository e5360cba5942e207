package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB is the slice of pgx the repository uses; satisfied by *pgxpool.Pool
// and by pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores leads in the relational database. Responses are
// kept as jsonb so SMS transcripts and arbitrary tool parameters land in
// one column.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: database required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	responses, err := json.Marshal(req.Responses)
	if err != nil {
		return nil, fmt.Errorf("leads: encode responses: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, phone, email, responses, appointment_date, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Phone,
		req.Email,
		responses,
		req.AppointmentDate,
		req.Source,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:              id.String(),
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Responses:       req.Responses,
		AppointmentDate: req.AppointmentDate,
		Source:          req.Source,
		CreatedAt:       createdAt,
	}, nil
}

// GetByID fetches one lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, name, phone, email, responses, appointment_date, source, created_at
		FROM leads
		WHERE id = $1
	`
	lead, err := scanLead(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, name, phone, email, responses, appointment_date, source, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	var responses []byte
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&responses,
		&lead.AppointmentDate,
		&lead.Source,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &lead.Responses); err != nil {
			return nil, fmt.Errorf("decode responses: %w", err)
		}
	}
	return &lead, nil
}
