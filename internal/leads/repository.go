package leads

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for application storage
type Repository interface {
	Create(ctx context.Context, req *CreateApplicationRequest) (*Application, error)
	GetByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, filter ListFilter) ([]*Application, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Application, error)
}

// InMemoryRepository is an in-memory Repository used by tests and local dev.
type InMemoryRepository struct {
	mu   sync.RWMutex
	apps map[string]*Application
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{apps: make(map[string]*Application)}
}

// Create stores a new application with status "new".
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateApplicationRequest) (*Application, error) {
	app := &Application{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		Email:     strings.TrimSpace(req.Email),
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusNew,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.apps[app.ID] = app
	r.mu.Unlock()

	return app, nil
}

// GetByID retrieves an application by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

// List returns applications newest first, honoring the filter.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Application, error) {
	r.mu.RLock()
	all := make([]*Application, 0, len(r.apps))
	for _, app := range r.apps {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		all = append(all, app)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(all) {
			return []*Application{}, nil
		}
		all = all[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

// UpdateStatus transitions an application's status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Application, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	app.Status = status
	return app, nil
}

// Count returns the number of stored applications. Test helper.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}
