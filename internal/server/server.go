package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Routes builds the HTTP handler with all endpoints registered.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/token", s.handleToken).Methods("POST")
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/verify-email", s.handleVerifyEmail).Methods("GET")
	r.HandleFunc("/users/me", s.handleMe).Methods("GET")
	r.HandleFunc("/forgot-password", s.handleForgotPassword).Methods("POST")
	r.HandleFunc("/reset-password", s.handleResetPassword).Methods("POST")

	r.HandleFunc("/login/google", s.handleLoginGoogle).Methods("GET")
	r.HandleFunc("/login/github", s.handleLoginGithub).Methods("GET")
	r.HandleFunc("/auth/google/callback", s.handleGoogleCallback).Methods("GET")
	r.HandleFunc("/auth/github/callback", s.handleGithubCallback).Methods("GET")

	return chainMiddlewares(r, s.withCORS, s.withLogging)
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("suite api listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
