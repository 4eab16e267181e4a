package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barbearia-digital/booking-agent/internal/appointments"
	"github.com/barbearia-digital/booking-agent/internal/clients"
	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

// ClientsHandler exposes client lookup for support staff.
type ClientsHandler struct {
	clients clients.Repository
	ledger  appointments.Repository
	logger  *logging.Logger
}

// NewClientsHandler creates the client lookup handler.
func NewClientsHandler(clientsRepo clients.Repository, ledger appointments.Repository, logger *logging.Logger) *ClientsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClientsHandler{clients: clientsRepo, ledger: ledger, logger: logger}
}

type clientResponse struct {
	Cliente      *clients.Client            `json:"cliente"`
	Agendamentos []appointments.Appointment `json:"agendamentos"`
}

// GetClient handles GET /cliente/{numero}: the client record plus
// their appointments. The path parameter accepts any formatting the
// caller uses; it is normalized to digits.
func (h *ClientsHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	number := clients.NormalizeContact(chi.URLParam(r, "numero"))
	if number == "" {
		http.Error(w, "número inválido", http.StatusBadRequest)
		return
	}

	client, err := h.clients.FindByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			http.Error(w, "cliente não encontrado", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load client", "error", err, "number", number)
		http.Error(w, "erro interno do servidor", http.StatusInternalServerError)
		return
	}

	appts, err := h.ledger.FindByClient(r.Context(), client.ID)
	if err != nil {
		h.logger.Error("failed to load appointments", "error", err, "client_id", client.ID)
		http.Error(w, "erro interno do servidor", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []appointments.Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clientResponse{Cliente: client, Agendamentos: appts})
}
