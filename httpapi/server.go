package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authgate "github.com/authgate-dev/authgate"
	"github.com/authgate-dev/authgate/middleware"
)

// DefaultExcludedPaths are the endpoints that must stay reachable without
// authentication for the service to be usable: the public pages and the
// endpoints that establish or recover credentials.
var DefaultExcludedPaths = []string{
	"/",
	"/status",
	"/users",
	"/sessions",
	"/reset_password",
	"/metrics",
}

// Server serves the authentication HTTP API.
type Server struct {
	svc        *authgate.Service
	cookieName string
	logger     *slog.Logger
}

// NewServer creates a server over the given service. cookieName names the
// session cookie; a nil logger defaults to slog's.
func NewServer(svc *authgate.Service, cookieName string, logger *slog.Logger) *Server {
	if cookieName == "" {
		cookieName = authgate.DefaultSessionCookieName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:        svc,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Handler returns the routed handler with the request gate applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Gate(s.svc.Strategy()))

	r.Get("/", s.handleWelcome)
	r.Get("/status", s.handleStatus)
	r.Post("/users", s.handleRegister)
	r.Post("/sessions", s.handleLogin)
	r.Delete("/sessions", s.handleLogout)
	r.Get("/profile", s.handleProfile)
	r.Post("/reset_password", s.handleResetRequest)
	r.Put("/reset_password", s.handleResetApply)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
