package clients

import (
	"context"
	"errors"

	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

// Resolver maps raw contact strings to durable client records,
// creating one on first contact.
type Resolver struct {
	repo   Repository
	logger *logging.Logger
}

// NewResolver creates a resolver over the given repository.
func NewResolver(repo Repository, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{repo: repo, logger: logger}
}

// Resolve normalizes the contact and returns the matching client,
// creating one with the unknown-name sentinel on first contact.
func (r *Resolver) Resolve(ctx context.Context, rawContact string) (*Client, error) {
	number := NormalizeContact(rawContact)
	if number == "" {
		return nil, ErrEmptyNumber
	}

	client, err := r.repo.FindByNumber(ctx, number)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	client, err = r.repo.Create(ctx, number, UnknownName)
	if err != nil {
		return nil, err
	}
	r.logger.Info("new client created", "number", number, "id", client.ID)
	return client, nil
}
