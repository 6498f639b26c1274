// Package server exposes the dashboard session as a local JSON API.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/render"

	"github.com/Tiliavir/hourglass/internal/clockify"
	"github.com/Tiliavir/hourglass/internal/dashboard"
	"github.com/Tiliavir/hourglass/internal/report"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins for browser clients. Defaults to local dev servers.
	AllowedOrigins []string
	// Now is used to pick the default week. Defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	session *dashboard.Session
	logger  *slog.Logger
	now     func() time.Time
}

// NewRouter builds the API routes over session.
func NewRouter(session *dashboard.Session, logger *slog.Logger, opts Options) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &handler{session: session, logger: logger, now: opts.Now}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/periods", h.periods)
		r.Post("/login", h.login)
		r.Get("/me", h.me)
		r.Get("/stats", h.stats)
		r.Get("/report", h.report)
	})
	return r
}

// ErrResponse is the JSON body of every failed request.
type ErrResponse struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	ErrorText      string `json:"error"`
}

// Render satisfies render.Renderer.
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errResponse(status int, err error) render.Renderer {
	return &ErrResponse{Err: err, HTTPStatusCode: status, ErrorText: err.Error()}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrBadRange):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNotLoggedIn), errors.Is(err, clockify.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, dashboard.ErrStale):
		return http.StatusConflict
	case errors.Is(err, report.ErrNoEntries):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	_ = render.Render(w, r, errResponse(status, err))
}
