package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"+55 (11) 99999-9999", "5511999999999"},
		{"5511999999999", "5511999999999"},
		{"whatsapp:+5511988887777", "5511988887777"},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeContact(tt.raw))
	}
}

func TestResolveCreatesOnFirstContact(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := NewResolver(repo, logging.Default())
	ctx := context.Background()

	client, err := resolver.Resolve(ctx, "+55 (11) 99999-9999")
	require.NoError(t, err)
	assert.Equal(t, "5511999999999", client.Number)
	assert.Equal(t, UnknownName, client.Name)
	assert.False(t, client.HasName())
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := NewResolver(repo, logging.Default())
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "5511999999999")
	require.NoError(t, err)

	// Different formatting, same digits: must hit the same record.
	second, err := resolver.Resolve(ctx, "+55 11 99999-9999")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolveKeepsExistingName(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := NewResolver(repo, logging.Default())
	ctx := context.Background()

	client, err := resolver.Resolve(ctx, "5511999999999")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateName(ctx, client.ID, "Maria"))

	again, err := resolver.Resolve(ctx, "5511999999999")
	require.NoError(t, err)
	assert.Equal(t, "Maria", again.Name)
	assert.True(t, again.HasName())
}

func TestResolveRejectsDigitlessContact(t *testing.T) {
	repo := NewInMemoryRepository()
	resolver := NewResolver(repo, logging.Default())

	_, err := resolver.Resolve(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, ErrEmptyNumber)
}
