package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/web/middleware"
	"github.com/mcoot/matchawards/internal/web/templates/pages"
)

// MessagesHandler handles player feedback and the player inbox
type MessagesHandler struct {
	authService *auth.Service
	messaging   *messaging.Service
}

// NewMessagesHandler creates a new MessagesHandler
func NewMessagesHandler(authService *auth.Service, messagingService *messaging.Service) *MessagesHandler {
	return &MessagesHandler{
		authService: authService,
		messaging:   messagingService,
	}
}

// FeedbackPage renders the feedback form
func (h *MessagesHandler) FeedbackPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Feedback(pages.FeedbackData{PageData: pageData(r, "Feedback")}))
}

// SendFeedback handles the feedback form
func (h *MessagesHandler) SendFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, pages.Feedback(pages.FeedbackData{PageData: pageData(r, "Feedback"), Error: "Invalid form data"}))
		return
	}

	data := pages.FeedbackData{
		PageData:    pageData(r, "Feedback"),
		ShirtNumber: strings.TrimSpace(r.FormValue("shirt_number")),
		DisplayName: r.FormValue("display_name"),
		Text:        r.FormValue("text"),
		Anonymous:   formBool(r, "anonymous"),
	}

	shirt, ok := formShirt(r)
	if !ok {
		data.Error = "Shirt number and PIN are required."
		render(w, r, pages.Feedback(data))
		return
	}
	if _, err := h.authService.Authenticate(r.Context(), shirt, r.FormValue("pin")); err != nil {
		data.Error = userMessage(err)
		render(w, r, pages.Feedback(data))
		return
	}
	if _, err := h.messaging.SendFeedback(r.Context(), shirt, data.DisplayName, data.Text, data.Anonymous); err != nil {
		data.Error = userMessage(err)
		render(w, r, pages.Feedback(data))
		return
	}

	middleware.SetFlash(w, "success", "Thanks, the coach got your message.")
	http.Redirect(w, r, "/feedback", http.StatusSeeOther)
}

// InboxPage renders the inbox login form
func (h *MessagesHandler) InboxPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Inbox(pages.InboxData{PageData: pageData(r, "Inbox")}))
}

// Inbox shows the messages addressed to the authenticated player
func (h *MessagesHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, pages.Inbox(pages.InboxData{PageData: pageData(r, "Inbox"), Error: "Invalid form data"}))
		return
	}

	data := pages.InboxData{
		PageData:    pageData(r, "Inbox"),
		ShirtNumber: strings.TrimSpace(r.FormValue("shirt_number")),
	}
	shirt, ok := formShirt(r)
	if !ok {
		data.Error = "Shirt number and PIN are required."
		render(w, r, pages.Inbox(data))
		return
	}
	if _, err := h.authService.Authenticate(r.Context(), shirt, r.FormValue("pin")); err != nil {
		data.Error = userMessage(err)
		render(w, r, pages.Inbox(data))
		return
	}

	msgs, err := h.messaging.GetMessagesFor(r.Context(), shirt)
	if err != nil {
		data.Error = userMessage(err)
		render(w, r, pages.Inbox(data))
		return
	}
	data.Loaded = true
	data.Messages = msgs
	render(w, r, pages.Inbox(data))
}
