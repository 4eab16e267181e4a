// Package schedule enumerates bookable slots for a barber over a
// rolling window of days.
//
// Slots are identified by the display label "dd/mm HH:MM". The label
// carries no year, so a seven-day window crossing a month boundary is
// unambiguous but a window longer than a month would not be. That
// matches the original service and is accepted.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barbearia-digital/booking-agent/internal/appointments"
)

// Ledger is the read side of the booking ledger the engine consults.
type Ledger interface {
	FindBySlot(ctx context.Context, barber, slotLabel string) (*appointments.Appointment, error)
}

// Engine computes free slots for a barber.
type Engine struct {
	ledger     Ledger
	labels     []string
	daysAhead  int
	maxResults int
	now        func() time.Time
}

// New creates an availability engine over the ledger. labels are the
// daily time labels in presentation order; daysAhead includes today.
func New(ledger Ledger, labels []string, daysAhead, maxResults int) *Engine {
	return &Engine{
		ledger:     ledger,
		labels:     labels,
		daysAhead:  daysAhead,
		maxResults: maxResults,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests use it to pin the window.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Available returns up to maxResults free slot labels for the barber,
// day-major then label order, starting today. It is a point-in-time
// snapshot of the ledger, not a reservation.
func (e *Engine) Available(ctx context.Context, barber string) ([]string, error) {
	today := e.now()
	var free []string
	for i := 0; i < e.daysAhead; i++ {
		day := today.AddDate(0, 0, i)
		for _, label := range e.labels {
			slot := fmt.Sprintf("%s %s", day.Format("02/01"), label)
			_, err := e.ledger.FindBySlot(ctx, barber, slot)
			if err == nil {
				continue // booked
			}
			if !errors.Is(err, appointments.ErrNotFound) {
				return nil, fmt.Errorf("schedule: availability check failed: %w", err)
			}
			free = append(free, slot)
			if len(free) == e.maxResults {
				return free, nil
			}
		}
	}
	return free, nil
}
