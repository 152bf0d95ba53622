package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/vedran77/courier/internal/authz"
	"github.com/vedran77/courier/internal/service"
	"github.com/vedran77/courier/internal/transport/http/middleware"
)

type UserHandler struct {
	userService    *service.UserService
	messageService *service.MessageService
}

func NewUserHandler(userService *service.UserService, messageService *service.MessageService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		messageService: messageService,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		log.Printf("ERROR list users: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUsername(r.Context())
	target := r.PathValue("username")

	if !authz.CanViewUserDetail(caller, target) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only view your own profile")
		return
	}

	user, err := h.userService.Get(r.Context(), target)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		} else {
			log.Printf("ERROR get user: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// MessagesFrom returns the thread of messages the user has sent.
func (h *UserHandler) MessagesFrom(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUsername(r.Context())
	target := r.PathValue("username")

	if !authz.CanViewUserDetail(caller, target) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only view your own messages")
		return
	}

	messages, err := h.messageService.ThreadFrom(r.Context(), target)
	if err != nil {
		log.Printf("ERROR messages from: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// MessagesTo returns the thread of messages the user has received.
func (h *UserHandler) MessagesTo(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUsername(r.Context())
	target := r.PathValue("username")

	if !authz.CanViewUserDetail(caller, target) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only view your own messages")
		return
	}

	messages, err := h.messageService.ThreadTo(r.Context(), target)
	if err != nil {
		log.Printf("ERROR messages to: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
