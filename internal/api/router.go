package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchawards/internal/api/handler"
	"github.com/mcoot/matchawards/internal/api/middleware"
	"github.com/mcoot/matchawards/internal/api/response"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/tally"
	"github.com/mcoot/matchawards/internal/services/voting"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	Gate             *auth.Gate
	VotingController *voting.Controller
	TallyService     *tally.Service
	RosterService    *roster.Service
	MessagingService *messaging.Service
	Hubs             *events.HubManager
	// SecureCookies marks the admin cookie Secure (production)
	SecureCookies bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	hubs := cfg.Hubs
	if hubs == nil {
		hubs = events.NewHubManager(cfg.Logger)
	}

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.SecureCookies)
	votingHandler := handler.NewVotingHandler(cfg.VotingController, cfg.RosterService)
	messagingHandler := handler.NewMessagingHandler(cfg.AuthService, cfg.MessagingService)
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.VotingController, cfg.TallyService, cfg.RosterService, cfg.MessagingService, hubs)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Player routes authenticate with shirt number + PIN in the body
	api.HandleFunc("/ballot", votingHandler.Ballot).Methods(http.MethodGet)
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/pin", authHandler.ChangePIN).Methods(http.MethodPost)
	api.HandleFunc("/votes", votingHandler.Cast).Methods(http.MethodPost)
	api.HandleFunc("/feedback", messagingHandler.Feedback).Methods(http.MethodPost)
	api.HandleFunc("/inbox", messagingHandler.Inbox).Methods(http.MethodPost)

	// Coach routes (admin gate)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Admin(cfg.Gate))
	admin.HandleFunc("/standings", adminHandler.Standings).Methods(http.MethodGet)
	admin.HandleFunc("/players", adminHandler.Players).Methods(http.MethodGet)
	admin.HandleFunc("/messages", adminHandler.Messages).Methods(http.MethodGet)
	admin.HandleFunc("/events", adminHandler.Events).Methods(http.MethodGet)
	admin.HandleFunc("/resync", adminHandler.Resync).Methods(http.MethodPost)
	admin.HandleFunc("/new-match", adminHandler.NewMatch).Methods(http.MethodPost)
	admin.HandleFunc("/seed", adminHandler.Seed).Methods(http.MethodPost)
	admin.HandleFunc("/players/{shirt:[0-9]+}/reset-pin", adminHandler.ResetPIN).Methods(http.MethodPost)
	admin.HandleFunc("/players/{shirt:[0-9]+}/bonus", adminHandler.Bonus).Methods(http.MethodPost)
	admin.HandleFunc("/players/{shirt:[0-9]+}/notes", adminHandler.Note).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
