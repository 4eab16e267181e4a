package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbearia-digital/booking-agent/internal/appointments"
	"github.com/barbearia-digital/booking-agent/internal/clients"
	"github.com/barbearia-digital/booking-agent/internal/schedule"
	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

var testBarbers = []string{"João", "Carlos", "Marcos"}

type testEnv struct {
	engine   *Engine
	clients  *clients.InMemoryRepository
	ledger   *appointments.InMemoryRepository
	sessions *InMemorySessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clientsRepo := clients.NewInMemoryRepository()
	ledger := appointments.NewInMemoryRepository()
	availability := schedule.New(ledger, []string{"09:00", "09:30", "10:00"}, 2, 5).
		WithClock(func() time.Time {
			return time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
		})
	sessions := NewInMemorySessionStore(time.Hour)
	engine := NewEngine(Config{
		Resolver:      clients.NewResolver(clientsRepo, logging.Default()),
		Clients:       clientsRepo,
		Ledger:        ledger,
		Availability:  availability,
		Sessions:      sessions,
		Barbers:       testBarbers,
		MinNameLength: 2,
		Logger:        logging.Default(),
	})
	return &testEnv{engine: engine, clients: clientsRepo, ledger: ledger, sessions: sessions}
}

func (env *testEnv) send(t *testing.T, number, text string) string {
	t.Helper()
	reply, err := env.engine.HandleMessage(context.Background(), text, number)
	require.NoError(t, err)
	return reply
}

func TestFullBookingAndCancelScenario(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511999999999"

	// First contact: unknown client is asked for a name.
	reply := env.send(t, caller, "oi")
	assert.Contains(t, reply, "qual é o seu nome?")

	// Name goes straight to barber choice, never back to the menu.
	reply = env.send(t, caller, "Maria")
	assert.Contains(t, reply, "Perfeito, Maria!")
	assert.Contains(t, reply, "1️⃣ - João")

	// Barber choice offers up to 5 slots.
	reply = env.send(t, caller, "1")
	assert.Contains(t, reply, "Escolha um dos horários disponíveis:")
	assert.Contains(t, reply, "1️⃣ - 31/08 09:00")
	assert.Contains(t, reply, "5️⃣ - 01/09 09:30")
	assert.NotContains(t, reply, "01/09 10:00", "cap is 5 slots")

	// Slot choice books and returns the appointment id.
	reply = env.send(t, caller, "1")
	assert.Contains(t, reply, "✅ Agendamento confirmado!")
	assert.Contains(t, reply, "📅 Data/Hora: 31/08 09:00")
	assert.Contains(t, reply, "🆔 ID do agendamento: 1")

	// Back on the menu: cancel flow.
	reply = env.send(t, caller, "3")
	assert.Contains(t, reply, "Digite o ID do agendamento")

	reply = env.send(t, caller, "1")
	assert.Contains(t, reply, "✅ Agendamento ID 1 cancelado com sucesso!")

	// The cancelled slot is offered again.
	env.send(t, caller, "1")
	reply = env.send(t, caller, "1")
	assert.Contains(t, reply, "1️⃣ - 31/08 09:00")
}

func TestKnownClientGetsWelcomeBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client, err := env.clients.Create(ctx, "5511988887777", "Pedro")
	require.NoError(t, err)
	require.True(t, client.HasName())

	reply := env.send(t, "5511988887777", "oi")
	assert.Contains(t, reply, "👋 Olá novamente, Pedro!")

	// The next message is already interpreted as a menu choice.
	reply = env.send(t, "5511988887777", "4")
	assert.Contains(t, reply, "Um atendente irá entrar em contato")
}

func TestNameValidation(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511977776666"

	env.send(t, caller, "oi")
	reply := env.send(t, caller, "M")
	assert.Contains(t, reply, "nome válido")

	// Still awaiting the name; a lower-case one gets title-cased.
	reply = env.send(t, caller, "maria clara")
	assert.Contains(t, reply, "Perfeito, Maria Clara!")

	client, err := env.clients.FindByNumber(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "Maria Clara", client.Name)
}

func TestInvalidBarberChoiceKeepsState(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511966665555"

	env.send(t, caller, "oi")
	env.send(t, caller, "Ana")

	// Only 3 barbers configured.
	reply := env.send(t, caller, "9")
	assert.Equal(t, "Escolha inválida. Digite o número correspondente ao barbeiro.", reply)

	reply = env.send(t, caller, "teste")
	assert.Equal(t, "Digite apenas o número correspondente ao barbeiro.", reply)

	// A valid choice still works: state never left ChoosingBarber.
	reply = env.send(t, caller, "2")
	assert.Contains(t, reply, "Escolha um dos horários disponíveis:")
}

func TestInvalidSlotChoiceKeepsState(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511955554444"

	env.send(t, caller, "oi")
	env.send(t, caller, "Ana")
	env.send(t, caller, "1")

	reply := env.send(t, caller, "99")
	assert.Equal(t, "Escolha inválida. Digite o número do horário disponível:", reply)

	reply = env.send(t, caller, "amanhã")
	assert.Equal(t, "Digite apenas o número do horário.", reply)

	reply = env.send(t, caller, "2")
	assert.Contains(t, reply, "✅ Agendamento confirmado!")
}

func TestListAppointments(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511944443333"

	env.send(t, caller, "oi")
	env.send(t, caller, "Bia")

	env.send(t, caller, "1") // offered slots, ChoosingSlot
	env.send(t, caller, "1") // booked, back on menu
	reply := env.send(t, caller, "2")
	assert.Contains(t, reply, "Seus agendamentos:")
	assert.Contains(t, reply, "ID 1: 31/08 09:00 com João")
}

func TestNoAppointmentsMessage(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511922221111"

	_, err := env.clients.Create(context.Background(), caller, "Rui")
	require.NoError(t, err)

	env.send(t, caller, "oi")
	reply := env.send(t, caller, "2")
	assert.Contains(t, reply, "Você não possui agendamentos ativos.")
}

func TestCancelValidation(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511911110000"

	env.send(t, caller, "oi")
	env.send(t, caller, "Leo")
	env.send(t, caller, "1")
	env.send(t, caller, "1") // booked id 1

	// A second caller books id 2 and cannot be cancelled by the first.
	const other = "5511900009999"
	env.send(t, other, "oi")
	env.send(t, other, "Gui")
	env.send(t, other, "1")
	env.send(t, other, "1") // second free slot, id 2

	env.send(t, caller, "3")
	reply := env.send(t, caller, "abc")
	assert.Equal(t, "ID inválido. Digite o número do agendamento a cancelar.", reply)

	reply = env.send(t, caller, "2")
	assert.Equal(t, "Agendamento não encontrado ou não pertence a você. Tente novamente:", reply)

	// The foreign appointment survived.
	list, err := env.ledger.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	reply = env.send(t, caller, "1")
	assert.Contains(t, reply, "cancelado com sucesso")
}

func TestConcurrentBookingOfSameSlot(t *testing.T) {
	env := newTestEnv(t)
	callers := []string{"5511900000001", "5511900000002"}

	// Drive both callers to ChoosingSlot with the same offer list.
	for i, caller := range callers {
		env.send(t, caller, "oi")
		env.send(t, caller, fmt.Sprintf("Cliente %d", i+1))
		reply := env.send(t, caller, "1")
		require.Contains(t, reply, "1️⃣ - 31/08 09:00")
	}

	// Both confirm slot 1 concurrently.
	replies := make([]string, len(callers))
	errs := make([]error, len(callers))
	var wg sync.WaitGroup
	for i, caller := range callers {
		wg.Add(1)
		go func(i int, caller string) {
			defer wg.Done()
			replies[i], errs[i] = env.engine.HandleMessage(context.Background(), "1", caller)
		}(i, caller)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var confirmed, conflicted int
	for _, reply := range replies {
		switch {
		case strings.Contains(reply, "✅ Agendamento confirmado!"):
			confirmed++
		case strings.Contains(reply, "Esse horário acabou de ser agendado."):
			conflicted++
		default:
			t.Fatalf("unexpected reply: %q", reply)
		}
	}
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, conflicted)

	list, err := env.ledger.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1, "exactly one appointment for the contested slot")
}

func TestNoSlotsResetsToMenu(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Fully book Marcos over the whole window.
	for day := 0; day < 2; day++ {
		date := time.Date(2026, 8, 31+day, 0, 0, 0, 0, time.UTC)
		for _, label := range []string{"09:00", "09:30", "10:00"} {
			slot := fmt.Sprintf("%s %s", date.Format("02/01"), label)
			_, err := env.ledger.Create(ctx, 99, "999", "Marcos", slot)
			require.NoError(t, err)
		}
	}

	const caller = "5511900001234"
	env.send(t, caller, "oi")
	env.send(t, caller, "Ivo")
	reply := env.send(t, caller, "3") // Marcos
	assert.Contains(t, reply, "Nenhum horário disponível")

	// Back on the main menu.
	reply = env.send(t, caller, "4")
	assert.Contains(t, reply, "Um atendente irá entrar em contato")
}

func TestUnknownStateResets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const caller = "5511900005678"

	client, err := env.clients.Create(ctx, caller, "Davi")
	require.NoError(t, err)
	require.NoError(t, env.sessions.Put(ctx, caller, &Session{ClientID: client.ID, State: State(42)}))

	reply := env.send(t, caller, "qualquer coisa")
	assert.Contains(t, reply, "👋 Olá, Davi!")

	sess, err := env.sessions.Get(ctx, caller)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, StateMainMenu, sess.State)
}

func TestUnrecognizedMenuInputShowsMenu(t *testing.T) {
	env := newTestEnv(t)
	const caller = "5511900009012"

	env.send(t, caller, "oi")
	env.send(t, caller, "Noé")
	env.send(t, caller, "1")
	env.send(t, caller, "1") // booked, back at menu

	reply := env.send(t, caller, "bom dia")
	assert.Contains(t, reply, "👋 Olá, Noé!")
	assert.Contains(t, reply, "1️⃣ - Agendar horário")
}

type failingNameRepo struct {
	clients.Repository
	fail bool
}

func (r *failingNameRepo) UpdateName(ctx context.Context, id int64, name string) error {
	if r.fail {
		return errors.New("database unavailable")
	}
	return r.Repository.UpdateName(ctx, id, name)
}

func TestNameUpdateFailureDoesNotAdvanceState(t *testing.T) {
	clientsRepo := clients.NewInMemoryRepository()
	failing := &failingNameRepo{Repository: clientsRepo, fail: true}
	ledger := appointments.NewInMemoryRepository()
	availability := schedule.New(ledger, []string{"09:00"}, 1, 5)
	engine := NewEngine(Config{
		Resolver:      clients.NewResolver(failing, logging.Default()),
		Clients:       failing,
		Ledger:        ledger,
		Availability:  availability,
		Sessions:      NewInMemorySessionStore(time.Hour),
		Barbers:       testBarbers,
		MinNameLength: 2,
		Logger:        logging.Default(),
	})

	ctx := context.Background()
	const caller = "5511900003456"

	_, err := engine.HandleMessage(ctx, "oi", caller)
	require.NoError(t, err)

	_, err = engine.HandleMessage(ctx, "Maria", caller)
	require.Error(t, err, "storage failure must surface")

	// Retry after the storage recovers: still in AwaitingName.
	failing.fail = false
	reply, err := engine.HandleMessage(ctx, "Maria", caller)
	require.NoError(t, err)
	assert.Contains(t, reply, "Perfeito, Maria!")
}

func TestCallersDoNotShareSessions(t *testing.T) {
	env := newTestEnv(t)

	env.send(t, "5511900007001", "oi")
	env.send(t, "5511900007002", "oi")
	env.send(t, "5511900007001", "Alice")

	// Second caller is still naming themselves.
	reply := env.send(t, "5511900007002", "Bruno")
	assert.Contains(t, reply, "Perfeito, Bruno!")
}

func TestMenuIndexParsing(t *testing.T) {
	tests := []struct {
		text string
		size int
		idx  int
		ok   bool
	}{
		{"1", 3, 0, true},
		{" 2 ", 3, 1, true},
		{"3️⃣", 3, 2, true}, // emoji keycap carries the digit
		{"0", 3, 0, false},
		{"4", 3, 0, false},
		{"abc", 3, 0, false},
		{"", 3, 0, false},
		{"999999999999999999999999", 3, 0, false},
	}
	for _, tt := range tests {
		idx, ok := menuIndex(tt.text, tt.size)
		if ok != tt.ok || idx != tt.idx {
			t.Errorf("menuIndex(%q, %d) = (%d, %v), want (%d, %v)", tt.text, tt.size, idx, ok, tt.idx, tt.ok)
		}
	}
}
