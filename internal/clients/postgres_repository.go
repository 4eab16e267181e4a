package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores clients in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("clients: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// FindByNumber fetches a client by normalized phone number.
func (r *PostgresRepository) FindByNumber(ctx context.Context, number string) (*Client, error) {
	query := `
		SELECT id, name, number, created_at
		FROM clients
		WHERE number = $1
	`
	var c Client
	err := r.db.QueryRow(ctx, query, number).Scan(&c.ID, &c.Name, &c.Number, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("clients: select by number failed: %w", err)
	}
	return &c, nil
}

// Create inserts a new client row.
func (r *PostgresRepository) Create(ctx context.Context, number, name string) (*Client, error) {
	query := `
		INSERT INTO clients (name, number)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	var (
		id        int64
		createdAt time.Time
	)
	if err := r.db.QueryRow(ctx, query, name, number).Scan(&id, &createdAt); err != nil {
		return nil, fmt.Errorf("clients: insert failed: %w", err)
	}
	return &Client{ID: id, Name: name, Number: number, CreatedAt: createdAt}, nil
}

// UpdateName changes the client's display name.
func (r *PostgresRepository) UpdateName(ctx context.Context, id int64, name string) error {
	tag, err := r.db.Exec(ctx, `UPDATE clients SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("clients: update name failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
