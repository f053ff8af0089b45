package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/tally"
	"github.com/mcoot/matchawards/internal/services/voting"
	"github.com/mcoot/matchawards/internal/web/handler"
	"github.com/mcoot/matchawards/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	Gate             *auth.Gate
	VotingController *voting.Controller
	TallyService     *tally.Service
	RosterService    *roster.Service
	MessagingService *messaging.Service
	Hubs             *events.HubManager
	SecureCookies    bool
	StaticDir        string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	flashMiddleware := middleware.Flash()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	hubs := cfg.Hubs
	if hubs == nil {
		hubs = events.NewHubManager(cfg.Logger)
	}

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.VotingController, cfg.RosterService, cfg.SecureCookies)
	messagesHandler := handler.NewMessagesHandler(cfg.AuthService, cfg.MessagingService)
	adminHandler := handler.NewAdminHandler(
		cfg.AuthService, cfg.Gate, cfg.VotingController, cfg.TallyService,
		cfg.RosterService, cfg.MessagingService, hubs, cfg.Logger,
	)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Coach routes. Registered first so /admin never falls through to the public subrouter.
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(flashMiddleware)
	admin.Use(middleware.Admin(cfg.Gate))
	admin.HandleFunc("", adminHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/events", adminHandler.Events).Methods(http.MethodGet)
	admin.HandleFunc("/new-match", adminHandler.NewMatch).Methods(http.MethodPost)
	admin.HandleFunc("/resync", adminHandler.Resync).Methods(http.MethodPost)
	admin.HandleFunc("/seed", adminHandler.Seed).Methods(http.MethodPost)
	admin.HandleFunc("/players/{shirt:[0-9]+}/reset-pin", adminHandler.ResetPIN).Methods(http.MethodPost)
	admin.HandleFunc("/players/{shirt:[0-9]+}/bonus", adminHandler.Bonus).Methods(http.MethodPost)
	admin.HandleFunc("/players/{shirt:[0-9]+}/notes", adminHandler.Note).Methods(http.MethodPost)

	// Player routes. Credentials travel with each form post.
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(middleware.DetectAdmin(cfg.Gate))
	public.HandleFunc("/", playerHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", playerHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/pin", playerHandler.ChangePIN).Methods(http.MethodPost)
	public.HandleFunc("/vote", playerHandler.Vote).Methods(http.MethodPost)
	public.HandleFunc("/success", playerHandler.Success).Methods(http.MethodGet)
	public.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	public.HandleFunc("/feedback", messagesHandler.FeedbackPage).Methods(http.MethodGet)
	public.HandleFunc("/feedback", messagesHandler.SendFeedback).Methods(http.MethodPost)
	public.HandleFunc("/inbox", messagesHandler.InboxPage).Methods(http.MethodGet)
	public.HandleFunc("/inbox", messagesHandler.Inbox).Methods(http.MethodPost)

	return r
}
