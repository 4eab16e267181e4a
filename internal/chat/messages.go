package chat

import (
	"fmt"
	"strings"

	"github.com/barbearia-digital/booking-agent/internal/appointments"
)

// Reply texts sent to callers. Kept in one place so the dialogue
// reads consistently; all user-facing copy is Portuguese.

const menuOptions = "1️⃣ - Agendar horário\n" +
	"2️⃣ - Ver meus agendamentos\n" +
	"3️⃣ - Cancelar agendamento\n" +
	"4️⃣ - Falar com atendente"

const (
	msgAskName         = "👋 Olá! Bem-vindo à barbearia!\n\nPara começar, qual é o seu nome?"
	msgInvalidName     = "Por favor, informe um nome válido:"
	msgDigitsOnlyBarb  = "Digite apenas o número correspondente ao barbeiro."
	msgInvalidBarber   = "Escolha inválida. Digite o número correspondente ao barbeiro."
	msgDigitsOnlySlot  = "Digite apenas o número do horário."
	msgInvalidSlot     = "Escolha inválida. Digite o número do horário disponível:"
	msgNoSlots         = "Nenhum horário disponível para esse barbeiro esta semana. Voltando ao menu principal."
	msgSlotTaken       = "Esse horário acabou de ser agendado. Por favor, tente novamente.\nVoltando ao menu."
	msgAskCancelID     = "Digite o ID do agendamento que deseja cancelar:"
	msgCancelNotFound  = "Agendamento não encontrado ou não pertence a você. Tente novamente:"
	msgInvalidCancelID = "ID inválido. Digite o número do agendamento a cancelar."
	msgAttendant       = "Um atendente irá entrar em contato em breve. Obrigado!"
	msgNoAppointments  = "Você não possui agendamentos ativos.\n\n" + menuOptions
)

func msgWelcomeBack(name string) string {
	return fmt.Sprintf("👋 Olá novamente, %s!\n\nEscolha uma opção:\n%s", name, menuOptions)
}

func msgMainMenu(name string, hasName bool) string {
	if hasName {
		return fmt.Sprintf("👋 Olá, %s!\n\nEscolha uma opção:\n%s", name, menuOptions)
	}
	return "Escolha uma opção:\n" + menuOptions
}

func msgChooseBarber(barbers []string) string {
	return "Escolha um barbeiro:\n" + numberedList(barbers)
}

func msgChooseBarberNamed(name string, barbers []string) string {
	return fmt.Sprintf("Perfeito, %s! Escolha um barbeiro:\n%s", name, numberedList(barbers))
}

func msgChooseSlot(slots []string) string {
	return "Escolha um dos horários disponíveis:\n" + numberedList(slots)
}

func msgBookingConfirmed(slotLabel, barber string, id int64) string {
	return fmt.Sprintf(
		"✅ Agendamento confirmado!\n\n📅 Data/Hora: %s\n👨‍💼 Barbeiro: %s\n🆔 ID do agendamento: %d\n\n"+
			"1️⃣ - Agendar outro horário\n"+
			"2️⃣ - Ver meus agendamentos\n"+
			"3️⃣ - Cancelar agendamento\n"+
			"4️⃣ - Falar com atendente",
		slotLabel, barber, id,
	)
}

func msgCancelConfirmed(id int64) string {
	return fmt.Sprintf("✅ Agendamento ID %d cancelado com sucesso!\n\n%s", id, menuOptions)
}

func msgAppointmentsList(appts []appointments.Appointment) string {
	lines := make([]string, 0, len(appts))
	for _, a := range appts {
		lines = append(lines, fmt.Sprintf("ID %d: %s com %s", a.ID, a.SlotLabel, a.Barber))
	}
	return fmt.Sprintf("Seus agendamentos:\n%s\n\n%s", strings.Join(lines, "\n"), menuOptions)
}

func numberedList(items []string) string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d️⃣ - %s", i+1, item))
	}
	return strings.Join(lines, "\n")
}
