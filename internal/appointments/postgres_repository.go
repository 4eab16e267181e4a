package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres error code raised by the unique
// index on (barber, slot_label).
const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// FindByClient returns the client's appointments ordered by id.
func (r *PostgresRepository) FindByClient(ctx context.Context, clientID int64) ([]Appointment, error) {
	query := `
		SELECT id, client_id, contact, barber, slot_label, created_at
		FROM appointments
		WHERE client_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: select by client failed: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// FindBySlot returns the appointment holding (barber, slotLabel), or
// ErrNotFound.
func (r *PostgresRepository) FindBySlot(ctx context.Context, barber, slotLabel string) (*Appointment, error) {
	query := `
		SELECT id, client_id, contact, barber, slot_label, created_at
		FROM appointments
		WHERE barber = $1 AND slot_label = $2
	`
	var a Appointment
	err := r.db.QueryRow(ctx, query, barber, slotLabel).
		Scan(&a.ID, &a.ClientID, &a.Contact, &a.Barber, &a.SlotLabel, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select by slot failed: %w", err)
	}
	return &a, nil
}

// Create books the slot. The unique index reports the conflict, so a
// concurrent booking of the same slot fails here rather than
// silently double-booking.
func (r *PostgresRepository) Create(ctx context.Context, clientID int64, contact, barber, slotLabel string) (*Appointment, error) {
	query := `
		INSERT INTO appointments (client_id, contact, barber, slot_label)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	var (
		id        int64
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, query, clientID, contact, barber, slotLabel).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	return &Appointment{
		ID:        id,
		ClientID:  clientID,
		Contact:   contact,
		Barber:    barber,
		SlotLabel: slotLabel,
		CreatedAt: createdAt,
	}, nil
}

// Delete removes the appointment if it belongs to the client.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerClientID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND client_id = $2`,
		id, ownerClientID,
	)
	if err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every appointment ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	query := `
		SELECT id, client_id, contact, barber, slot_label, created_at
		FROM appointments
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: select all failed: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.ClientID, &a.Contact, &a.Barber, &a.SlotLabel, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows failed: %w", err)
	}
	return out, nil
}
