// Package httpapi serves the REST surface: password and Google sign-in, the
// token-gated profile, and account management under /api/users.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rcornejom06/authcore/internal/logging"
	"github.com/rcornejom06/authcore/internal/server/identity"
	"github.com/rcornejom06/authcore/internal/server/services"
)

// IdentityProvider is an OAuth provider the callback can resolve through.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (identity.Profile, error)
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	users           *services.UserService
	google          IdentityProvider
	frontendURL     string
	shutdownTimeout time.Duration
}

// NewHTTPServer builds the server. google may be nil, in which case the Google
// routes are not registered.
func NewHTTPServer(address string, l logging.Logger, us *services.UserService, google IdentityProvider, frontendURL string, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         address,
		logger:          l.With("module", "http_server"),
		users:           us,
		google:          google,
		frontendURL:     frontendURL,
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	a.Handle("/profile", s.requireAuth(http.HandlerFunc(s.handleProfile))).Methods(http.MethodGet)
	if s.google != nil {
		a.HandleFunc("/google", s.handleGoogleStart).Methods(http.MethodGet)
		a.HandleFunc("/google/callback", s.handleGoogleCallback).Methods(http.MethodGet)
	}

	u := r.PathPrefix("/api/users").Subrouter()
	u.Use(s.requireAuth)
	u.HandleFunc("", s.handleListUsers).Methods(http.MethodGet)
	u.HandleFunc("", s.handleCreateUser).Methods(http.MethodPost)
	u.HandleFunc("/{id}", s.handleGetUser).Methods(http.MethodGet)
	u.HandleFunc("/{id}", s.handleUpdateUser).Methods(http.MethodPut)
	u.HandleFunc("/{id}", s.handleDeleteUser).Methods(http.MethodDelete)

	return s.recoverPanics(requestID(s.accessLog(s.cors(r))))
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "authcore API", "status": "ok"})
}
