package appointments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the interface for appointment storage. Create
// must enforce the (barber, slot label) uniqueness itself and report
// ErrSlotTaken, so callers never rely on an earlier read still being
// valid.
type Repository interface {
	FindByClient(ctx context.Context, clientID int64) ([]Appointment, error)
	FindBySlot(ctx context.Context, barber, slotLabel string) (*Appointment, error)
	Create(ctx context.Context, clientID int64, contact, barber, slotLabel string) (*Appointment, error)
	Delete(ctx context.Context, id, ownerClientID int64) error
	List(ctx context.Context) ([]Appointment, error)
}

type slotKey struct {
	barber string
	slot   string
}

// InMemoryRepository keeps appointments in a process-local map with
// the same uniqueness guarantee as the database index.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*Appointment
	bySlot map[slotKey]int64
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:   make(map[int64]*Appointment),
		bySlot: make(map[slotKey]int64),
	}
}

// FindByClient returns the client's appointments ordered by id.
func (r *InMemoryRepository) FindByClient(ctx context.Context, clientID int64) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, a := range r.byID {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindBySlot returns the appointment holding (barber, slotLabel), or
// ErrNotFound.
func (r *InMemoryRepository) FindBySlot(ctx context.Context, barber, slotLabel string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlot[slotKey{barber, slotLabel}]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r.byID[id]
	return &copied, nil
}

// Create books the slot, failing with ErrSlotTaken if it is held.
func (r *InMemoryRepository) Create(ctx context.Context, clientID int64, contact, barber, slotLabel string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey{barber, slotLabel}
	if _, taken := r.bySlot[key]; taken {
		return nil, ErrSlotTaken
	}
	r.nextID++
	a := &Appointment{
		ID:        r.nextID,
		ClientID:  clientID,
		Contact:   contact,
		Barber:    barber,
		SlotLabel: slotLabel,
		CreatedAt: time.Now().UTC(),
	}
	r.byID[a.ID] = a
	r.bySlot[key] = a.ID
	copied := *a
	return &copied, nil
}

// Delete removes the appointment if it belongs to the client.
func (r *InMemoryRepository) Delete(ctx context.Context, id, ownerClientID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.ClientID != ownerClientID {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.bySlot, slotKey{a.Barber, a.SlotLabel})
	return nil
}

// List returns every appointment ordered by id.
func (r *InMemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
