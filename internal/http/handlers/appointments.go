package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/barbearia-digital/booking-agent/internal/appointments"
	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

// AppointmentsHandler exposes the full appointment listing for
// administration.
type AppointmentsHandler struct {
	ledger appointments.Repository
	logger *logging.Logger
}

// NewAppointmentsHandler creates the admin listing handler.
func NewAppointmentsHandler(ledger appointments.Repository, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{ledger: ledger, logger: logger}
}

type appointmentsResponse struct {
	Agendamentos []appointments.Appointment `json:"agendamentos"`
}

// List handles GET /agendamentos.
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.ledger.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "erro interno do servidor", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []appointments.Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointmentsResponse{Agendamentos: appts})
}
