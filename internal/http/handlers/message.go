package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

// ChatEngine is the conversation core behind the message endpoint.
type ChatEngine interface {
	HandleMessage(ctx context.Context, text, rawContact string) (string, error)
}

// MessageRequest is the inbound message payload.
type MessageRequest struct {
	Mensagem string `json:"mensagem"`
	UserID   string `json:"user_id"`
}

// MessageResponse carries the chatbot's reply.
type MessageResponse struct {
	Resposta string `json:"resposta"`
	Status   string `json:"status"`
}

// MessageHandler handles POST /mensagem.
type MessageHandler struct {
	engine ChatEngine
	logger *logging.Logger
}

// NewMessageHandler creates the message endpoint handler.
func NewMessageHandler(engine ChatEngine, logger *logging.Logger) *MessageHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &MessageHandler{engine: engine, logger: logger}
}

// Handle validates the payload and forwards it to the engine. Empty
// message or caller id never reach the core.
func (h *MessageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode message request", "error", err)
		http.Error(w, "corpo da requisição inválido", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Mensagem) == "" {
		http.Error(w, "mensagem não pode estar vazia", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		http.Error(w, "user_id não pode estar vazio", http.StatusBadRequest)
		return
	}

	reply, err := h.engine.HandleMessage(r.Context(), req.Mensagem, req.UserID)
	if err != nil {
		h.logger.Error("failed to process message", "error", err, "user_id", req.UserID)
		http.Error(w, "erro interno do servidor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Resposta: reply, Status: "success"})
}
