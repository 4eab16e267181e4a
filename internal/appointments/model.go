package appointments

import "time"

// Appointment is a booked slot with a barber. SlotLabel is the
// display string "dd/mm HH:MM" offered during the conversation, not a
// real timestamp.
type Appointment struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"cliente_id"`
	Contact   string    `json:"contato"`
	Barber    string    `json:"barbeiro"`
	SlotLabel string    `json:"horario"`
	CreatedAt time.Time `json:"criado_em"`
}
