package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/courier/internal/authz"
	"github.com/vedran77/courier/internal/service"
	"github.com/vedran77/courier/internal/transport/http/middleware"
	"github.com/vedran77/courier/pkg/validator"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageInput struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUsername(r.Context())

	var input sendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateSendMessage(input.ToUsername, input.Body); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	msg, err := h.messageService.Send(r.Context(), caller, input.ToUsername, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRecipient):
			writeError(w, http.StatusUnprocessableEntity, "INVALID_RECIPIENT", "Recipient does not exist")
		case errors.Is(err, service.ErrInvalidSender):
			writeError(w, http.StatusUnprocessableEntity, "INVALID_SENDER", "Sender does not exist")
		case errors.Is(err, service.ErrEmptyBody):
			writeError(w, http.StatusBadRequest, "MISSING_BODY", "Message body is required")
		default:
			log.Printf("ERROR send message: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUsername(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	msg, err := h.messageService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Message not found")
		} else {
			log.Printf("ERROR get message: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	if !authz.CanViewMessage(caller, msg) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

// MarkRead fetches the message and consults the guard before the read-state
// transition is attempted.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUsername(r.Context())
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	msg, err := h.messageService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Message not found")
		} else {
			log.Printf("ERROR mark read: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	if !authz.CanMarkRead(caller, msg) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the recipient can mark a message read")
		return
	}

	updated, err := h.messageService.MarkRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Message not found")
		} else {
			log.Printf("ERROR mark read: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": updated})
}
