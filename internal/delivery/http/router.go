package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"donationtracker/internal/delivery/http/controllers"
	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/delivery/http/middleware"
	"donationtracker/internal/domain"
	"donationtracker/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth      *controllers.AuthController
	Events    *controllers.EventController
	Donations *controllers.DonationController
	Users     *controllers.UserController
}

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	Logger      *slog.Logger
	AuthService domain.AuthService
	// TokenLimiter throttles the token endpoints. Nil disables throttling.
	TokenLimiter       *middleware.RateLimiter
	CORSAllowedOrigins []string
	// MediaRoot and MediaURL serve locally stored images. Empty MediaRoot serves nothing.
	MediaRoot string
	MediaURL  string
	// Ping reports whether the database is reachable.
	Ping func(ctx context.Context) error
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(opts.AuthService, opts.Logger)
	staff := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdminOrHR(next))
	}

	// Auth
	mux.HandleFunc("POST /token/{$}", opts.TokenLimiter.Limit(c.Auth.ObtainToken))
	mux.HandleFunc("POST /token/refresh/{$}", opts.TokenLimiter.Limit(c.Auth.RefreshToken))

	// Events
	mux.HandleFunc("GET /events/{$}", auth(c.Events.ListEvents))
	mux.HandleFunc("POST /events/{$}", staff(c.Events.CreateEvent))
	mux.HandleFunc("GET /events/{id}/{$}", auth(c.Events.GetEvent))
	mux.HandleFunc("PUT /events/{id}/{$}", staff(c.Events.UpdateEvent))
	mux.HandleFunc("PATCH /events/{id}/{$}", staff(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}/{$}", staff(c.Events.DeleteEvent))

	// Donations
	mux.HandleFunc("GET /events/{event_id}/donations/{$}", auth(c.Donations.ListDonations))
	mux.HandleFunc("POST /events/{event_id}/donations/{$}", auth(c.Donations.CreateDonation))
	mux.HandleFunc("GET /donations/summary/{$}", auth(c.Donations.Summary))

	// Users
	mux.HandleFunc("GET /user/{$}", auth(c.Users.GetProfile))

	// Operations
	mux.HandleFunc("GET /healthz", healthz(opts.Ping))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)
	if opts.MediaRoot != "" {
		prefix := mediaPrefix(opts.MediaURL)
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(opts.MediaRoot))))
	}

	var handler http.Handler = metrics.HTTPMiddleware(mux)
	handler = middleware.LoggingMiddleware(opts.Logger, handler)
	return middleware.CORS(opts.CORSAllowedOrigins, handler)
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// mediaPrefix returns the path part of the media URL with surrounding slashes.
func mediaPrefix(mediaURL string) string {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = "/" + strings.Trim(p, "/") + "/"
	if p == "//" {
		return "/media/"
	}
	return p
}
