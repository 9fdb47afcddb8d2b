// Package server exposes the REST and WebSocket surface.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"maestro/pkg/auth"
	"maestro/pkg/config"
	"maestro/pkg/llm"
	"maestro/pkg/monitor"
	"maestro/pkg/store"
	"maestro/pkg/tools"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Server wires the HTTP surface to the engine, stores and providers.
type Server struct {
	cfg      *config.Config
	sys      *config.SystemConfig
	store    *store.Store
	selector *llm.Selector
	registry *tools.Registry
	authn    *auth.Authenticator
	monitor  monitor.Monitor
	hub      *Hub

	httpServer *http.Server
}

// New creates the server. mon may be nil.
func New(cfg *config.Config, sys *config.SystemConfig, st *store.Store, selector *llm.Selector, registry *tools.Registry, mon monitor.Monitor) *Server {
	s := &Server{
		cfg:      cfg,
		sys:      sys,
		store:    st,
		selector: selector,
		registry: registry,
		authn:    auth.NewAuthenticator(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
		monitor:  mon,
		hub:      NewHub(),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(s.cors)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/chat", s.handleChat)

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", s.handleListAgents)
				r.Post("/", s.handleCreateAgent)
				r.Get("/{id}", s.handleGetAgent)
				r.Put("/{id}", s.handleUpdateAgent)
				r.Delete("/{id}", s.handleDeleteAgent)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", s.handleListTeams)
				r.Post("/", s.handleCreateTeam)
				r.Get("/{id}", s.handleGetTeam)
				r.Put("/{id}", s.handleUpdateTeam)
				r.Delete("/{id}", s.handleDeleteTeam)
				r.Post("/{id}/execute", s.handleExecuteTeam)
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", s.handleListConversations)
				r.Get("/{id}", s.handleGetConversation)
				r.Get("/{id}/turns", s.handleListTurns)
				r.Delete("/{id}", s.handleDeleteConversation)
			})

			r.Route("/lists", func(r chi.Router) {
				r.Get("/", s.handleListItems)
				r.Post("/", s.handleCreateListItem)
				r.Put("/{id}", s.handleUpdateListItem)
				r.Delete("/{id}", s.handleDeleteListItem)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/ws", s.handleWS)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	slog.Info("🚀 Server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes websocket sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.httpServer.Shutdown(ctx)
}
