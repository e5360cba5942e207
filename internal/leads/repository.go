package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, limit, offset int) ([]*Lead, error)
}

// InMemoryRepository stores leads in memory. Used in tests and when no
// database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Create stores a new lead in memory.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Responses:       req.Responses,
		AppointmentDate: req.AppointmentDate,
		Source:          req.Source,
		CreatedAt:       time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.order = append(r.order, lead.ID)
	r.mu.Unlock()

	return lead, nil
}

// GetByID retrieves a lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// List returns leads in insertion order, newest last.
func (r *InMemoryRepository) List(ctx context.Context, limit, offset int) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset >= len(r.order) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(r.order) {
		end = len(r.order)
	}

	out := make([]*Lead, 0, end-offset)
	for _, id := range r.order[offset:end] {
		out = append(out, r.leads[id])
	}
	return out, nil
}
