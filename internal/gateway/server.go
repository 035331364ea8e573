package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clifton/internal/agent"
	"clifton/internal/history"
)

type Server struct {
	runner   agent.Runner
	sessions *history.Store
	router   chi.Router
	srv      *http.Server
}

func NewServer(runner agent.Runner, sessions *history.Store) *Server {
	s := &Server{
		runner:   runner,
		sessions: sessions,
		router:   chi.NewRouter(),
	}
	s.router.Use(middleware.Recoverer)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Post("/v1/chat", s.handleChat)
	s.router.Get("/v1/sessions", s.handleListSessions)
	s.router.Get("/healthz", s.handleHealthz)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
