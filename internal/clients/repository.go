package clients

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for client storage.
type Repository interface {
	FindByNumber(ctx context.Context, number string) (*Client, error)
	Create(ctx context.Context, number, name string) (*Client, error)
	UpdateName(ctx context.Context, id int64, name string) error
}

// InMemoryRepository keeps clients in a process-local map. It backs
// tests and the no-database development mode.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	byNumber map[string]*Client
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byNumber: make(map[string]*Client)}
}

// FindByNumber returns the client with the given normalized number.
func (r *InMemoryRepository) FindByNumber(ctx context.Context, number string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byNumber[number]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// Create inserts a new client. The number must be unique.
func (r *InMemoryRepository) Create(ctx context.Context, number, name string) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byNumber[number]; ok {
		copied := *c
		return &copied, nil
	}
	r.nextID++
	c := &Client{
		ID:        r.nextID,
		Name:      name,
		Number:    number,
		CreatedAt: time.Now().UTC(),
	}
	r.byNumber[number] = c
	copied := *c
	return &copied, nil
}

// UpdateName changes the client's display name.
func (r *InMemoryRepository) UpdateName(ctx context.Context, id int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.byNumber {
		if c.ID == id {
			c.Name = name
			return nil
		}
	}
	return ErrNotFound
}
