package chat

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/barbearia-digital/booking-agent/internal/appointments"
	"github.com/barbearia-digital/booking-agent/internal/clients"
	"github.com/barbearia-digital/booking-agent/internal/observability/metrics"
	"github.com/barbearia-digital/booking-agent/internal/schedule"
	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

const lockShards = 64

// Config wires the engine's collaborators.
type Config struct {
	Resolver     *clients.Resolver
	Clients      clients.Repository
	Ledger       appointments.Repository
	Availability *schedule.Engine
	Sessions     SessionStore
	Barbers      []string
	// MinNameLength is the shortest accepted client name, in runes.
	MinNameLength int
	Logger        *logging.Logger
	Metrics       *metrics.ChatMetrics
	Tracer        trace.Tracer
}

// Engine is the conversation state machine. One HandleMessage call
// per inbound message; messages from the same caller are serialized
// by a striped per-caller lock, so a caller's dialogue is a strict
// sequence even under concurrent delivery.
type Engine struct {
	resolver     *clients.Resolver
	clients      clients.Repository
	ledger       appointments.Repository
	availability *schedule.Engine
	sessions     SessionStore
	barbers      []string
	minNameLen   int
	logger       *logging.Logger
	metrics      *metrics.ChatMetrics
	tracer       trace.Tracer

	locks [lockShards]sync.Mutex
}

// NewEngine creates the conversation engine.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("barbearia.internal.chat")
	}
	minNameLen := cfg.MinNameLength
	if minNameLen <= 0 {
		minNameLen = 2
	}
	return &Engine{
		resolver:     cfg.Resolver,
		clients:      cfg.Clients,
		ledger:       cfg.Ledger,
		availability: cfg.Availability,
		sessions:     cfg.Sessions,
		barbers:      cfg.Barbers,
		minNameLen:   minNameLen,
		logger:       logger,
		metrics:      cfg.Metrics,
		tracer:       tracer,
	}
}

// HandleMessage processes one inbound message and returns the reply.
// On a storage failure it returns an error and leaves the session
// untouched, so retrying the same message is safe.
func (e *Engine) HandleMessage(ctx context.Context, text, rawContact string) (string, error) {
	number := clients.NormalizeContact(rawContact)
	if number == "" {
		return "", clients.ErrEmptyNumber
	}

	lock := e.lockFor(number)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	defer func() {
		e.metrics.ObserveHandleLatency(time.Since(start).Seconds())
	}()

	ctx, span := e.tracer.Start(ctx, "chat.handle_message")
	defer span.End()

	client, err := e.resolver.Resolve(ctx, rawContact)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	sess, err := e.sessions.Get(ctx, number)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	if sess == nil {
		return e.startConversation(ctx, number, client)
	}

	span.SetAttributes(attribute.String("chat.state", sess.State.String()))
	e.metrics.ObserveMessage(sess.State.String())

	switch sess.State {
	case StateMainMenu:
		return e.handleMainMenu(ctx, text, number, client, sess)
	case StateAwaitingName:
		return e.handleAwaitingName(ctx, text, number, client, sess)
	case StateChoosingBarber:
		return e.handleChoosingBarber(ctx, text, number, client, sess)
	case StateChoosingSlot:
		return e.handleChoosingSlot(ctx, text, number, client, sess)
	case StateAwaitingCancelID:
		return e.handleAwaitingCancelID(ctx, text, number, client, sess)
	default:
		// Corrupt or stale state tag: recover by resetting.
		e.reset(ctx, number, client.ID)
		return msgMainMenu(client.Name, client.HasName()), nil
	}
}

// startConversation initializes the session on a caller's first
// message. Known clients land on the main menu; new ones are asked
// for their name first.
func (e *Engine) startConversation(ctx context.Context, number string, client *clients.Client) (string, error) {
	sess := &Session{ClientID: client.ID, State: StateMainMenu}
	if client.HasName() {
		if err := e.sessions.Put(ctx, number, sess); err != nil {
			return "", err
		}
		return msgWelcomeBack(client.Name), nil
	}
	sess.State = StateAwaitingName
	if err := e.sessions.Put(ctx, number, sess); err != nil {
		return "", err
	}
	return msgAskName, nil
}

func (e *Engine) handleMainMenu(ctx context.Context, text, number string, client *clients.Client, sess *Session) (string, error) {
	switch strings.TrimSpace(text) {
	case "1":
		sess.State = StateChoosingBarber
		if err := e.sessions.Put(ctx, number, sess); err != nil {
			return "", err
		}
		return msgChooseBarber(e.barbers), nil
	case "2":
		appts, err := e.ledger.FindByClient(ctx, client.ID)
		if err != nil {
			return "", err
		}
		if len(appts) == 0 {
			return msgNoAppointments, nil
		}
		return msgAppointmentsList(appts), nil
	case "3":
		sess.State = StateAwaitingCancelID
		if err := e.sessions.Put(ctx, number, sess); err != nil {
			return "", err
		}
		return msgAskCancelID, nil
	case "4":
		return msgAttendant, nil
	default:
		return msgMainMenu(client.Name, client.HasName()), nil
	}
}

func (e *Engine) handleAwaitingName(ctx context.Context, text, number string, client *clients.Client, sess *Session) (string, error) {
	name := titleCase(strings.TrimSpace(text))
	if utf8.RuneCountInString(name) < e.minNameLen {
		return msgInvalidName, nil
	}

	// Persist before advancing: if the write fails the caller stays
	// in AwaitingName and can simply resend.
	if err := e.clients.UpdateName(ctx, client.ID, name); err != nil {
		return "", err
	}

	sess.State = StateChoosingBarber
	if err := e.sessions.Put(ctx, number, sess); err != nil {
		return "", err
	}
	return msgChooseBarberNamed(name, e.barbers), nil
}

func (e *Engine) handleChoosingBarber(ctx context.Context, text, number string, client *clients.Client, sess *Session) (string, error) {
	idx, ok := menuIndex(text, len(e.barbers))
	if !ok {
		if digitsOnly(text) == "" {
			return msgDigitsOnlyBarb, nil
		}
		return msgInvalidBarber, nil
	}

	barber := e.barbers[idx]
	slots, err := e.availability.Available(ctx, barber)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		e.reset(ctx, number, client.ID)
		return msgNoSlots, nil
	}

	sess.Barber = barber
	sess.OfferedSlots = slots
	sess.State = StateChoosingSlot
	if err := e.sessions.Put(ctx, number, sess); err != nil {
		return "", err
	}
	return msgChooseSlot(slots), nil
}

func (e *Engine) handleChoosingSlot(ctx context.Context, text, number string, client *clients.Client, sess *Session) (string, error) {
	idx, ok := menuIndex(text, len(sess.OfferedSlots))
	if !ok {
		if digitsOnly(text) == "" {
			return msgDigitsOnlySlot, nil
		}
		return msgInvalidSlot, nil
	}

	slot := sess.OfferedSlots[idx]
	appt, err := e.ledger.Create(ctx, client.ID, client.Number, sess.Barber, slot)
	if errors.Is(err, appointments.ErrSlotTaken) {
		// Lost the race between offer and confirmation: the offer
		// list is stale, so discard it.
		e.metrics.ObserveSlotConflict()
		e.logger.Info("slot taken between offer and confirmation",
			"number", number, "barber", sess.Barber, "slot", slot)
		e.reset(ctx, number, client.ID)
		return msgSlotTaken, nil
	}
	if err != nil {
		return "", err
	}

	e.metrics.ObserveBooking()
	e.logger.Info("appointment booked",
		"id", appt.ID, "number", number, "barber", appt.Barber, "slot", appt.SlotLabel)
	e.reset(ctx, number, client.ID)
	return msgBookingConfirmed(slot, appt.Barber, appt.ID), nil
}

func (e *Engine) handleAwaitingCancelID(ctx context.Context, text, number string, client *clients.Client, sess *Session) (string, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return msgInvalidCancelID, nil
	}

	err = e.ledger.Delete(ctx, id, client.ID)
	if errors.Is(err, appointments.ErrNotFound) {
		return msgCancelNotFound, nil
	}
	if err != nil {
		return "", err
	}

	e.metrics.ObserveCancellation()
	e.logger.Info("appointment cancelled", "id", id, "number", number)
	e.reset(ctx, number, client.ID)
	return msgCancelConfirmed(id), nil
}

// reset puts the caller back on the main menu. The durable action has
// already committed by the time reset runs, so a failure here is
// logged rather than surfaced.
func (e *Engine) reset(ctx context.Context, number string, clientID int64) {
	if err := e.sessions.Reset(ctx, number, clientID); err != nil {
		e.logger.Warn("failed to reset session", "number", number, "error", err)
	}
}

func (e *Engine) lockFor(number string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(number))
	return &e.locks[h.Sum32()%lockShards]
}

// menuIndex interprets text as a 1-based menu choice. Non-digit
// characters are stripped first; an empty result is invalid input,
// not zero.
func menuIndex(text string, size int) (int, bool) {
	digits := digitsOnly(text)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	idx := n - 1
	if idx < 0 || idx >= size {
		return 0, false
	}
	return idx, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}
