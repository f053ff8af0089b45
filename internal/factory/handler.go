package factory

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/matchawards/internal/api"
	"github.com/mcoot/matchawards/internal/web"
)

// HandlerOptions configures the combined HTTP handler
type HandlerOptions struct {
	Logger *slog.Logger
	// SecureCookies marks the admin cookie Secure (production)
	SecureCookies bool
	StaticDir     string
}

// Handler mounts the JSON API, the Prometheus endpoint and the web UI on one mux
func (a *App) Handler(opts HandlerOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           opts.Logger,
		AuthService:      a.AuthService,
		Gate:             a.Gate,
		VotingController: a.Voting,
		TallyService:     a.Tally,
		RosterService:    a.Roster,
		MessagingService: a.Messaging,
		Hubs:             a.Hubs,
		SecureCookies:    opts.SecureCookies,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           opts.Logger,
		AuthService:      a.AuthService,
		Gate:             a.Gate,
		VotingController: a.Voting,
		TallyService:     a.Tally,
		RosterService:    a.Roster,
		MessagingService: a.Messaging,
		Hubs:             a.Hubs,
		SecureCookies:    opts.SecureCookies,
		StaticDir:        opts.StaticDir,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", a.Metrics.Handler())
	mux.Handle("/", webRouter)
	return mux
}
