package handler

import (
	"net/http"

	"github.com/mcoot/matchawards/internal/api/request"
	"github.com/mcoot/matchawards/internal/api/response"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
)

// MessagingHandler handles player feedback and inboxes
type MessagingHandler struct {
	authService *auth.Service
	messaging   *messaging.Service
}

// NewMessagingHandler creates a new messaging handler
func NewMessagingHandler(authService *auth.Service, messagingService *messaging.Service) *MessagingHandler {
	return &MessagingHandler{
		authService: authService,
		messaging:   messagingService,
	}
}

// Feedback handles POST /api/v1/feedback
func (h *MessagingHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req request.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.authService.Authenticate(r.Context(), req.Shirt(), req.PIN); err != nil {
		WriteError(w, err)
		return
	}

	msg, err := h.messaging.SendFeedback(r.Context(), req.Shirt(), req.DisplayName, req.Text, req.Anonymous)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MessageFromModel(msg))
}

// Inbox handles POST /api/v1/inbox
// Credentials travel in the body so the PIN stays out of URLs and logs.
func (h *MessagingHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	var req request.InboxRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.authService.Authenticate(r.Context(), req.Shirt(), req.PIN); err != nil {
		WriteError(w, err)
		return
	}

	msgs, err := h.messaging.GetMessagesFor(r.Context(), req.Shirt())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessagesFromModel(msgs))
}
