package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wapanel/golang_services/internal/ledger_service/app"
	"github.com/wapanel/golang_services/internal/ledger_service/domain"
)

// MessageSender charges a business user and records the outbound message.
type MessageSender interface {
	Consume(ctx context.Context, businessUserID string, input app.SendMessageInput) (*domain.Message, error)
}

// MessageReader looks up previously sent messages.
type MessageReader interface {
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
}

// MessageHandler handles HTTP requests for sending and fetching messages.
type MessageHandler struct {
	ledger   MessageSender
	queries  MessageReader
	logger   *slog.Logger
	validate *validator.Validate
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(ledger MessageSender, queries MessageReader, logger *slog.Logger, validate *validator.Validate) *MessageHandler {
	return &MessageHandler{
		ledger:   ledger,
		queries:  queries,
		logger:   logger.With("component", "message_handler"),
		validate: validate,
	}
}

// RegisterRoutes sets up the routing for message operations.
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/messages/send", h.SendMessage)
	r.Get("/messages/{messageID}", h.GetMessage)
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO SendMessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	message, err := h.ledger.Consume(ctx, reqDTO.BusinessUserID, app.SendMessageInput{
		Mode:           domain.DeliveryMode(reqDTO.Mode),
		SenderNumber:   reqDTO.SenderNumber,
		ReceiverNumber: reqDTO.ReceiverNumber,
		MessageType:    domain.MessageType(reqDTO.MessageType),
		TemplateName:   reqDTO.TemplateName,
		Body:           reqDTO.Body,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Message send request failed",
			"business_user_id", reqDTO.BusinessUserID, "mode", reqDTO.Mode, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	message, err := h.queries.GetMessage(r.Context(), messageID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message)
}
