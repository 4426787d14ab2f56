package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"castboard/internal/auth"
	"castboard/internal/broadcast"
	"castboard/internal/content"
	"castboard/internal/dispatch"
	"castboard/internal/eventlog"
	"castboard/internal/geoip"
	"castboard/internal/reconcile"
	"castboard/internal/registry"
	"castboard/internal/restart"
	"castboard/internal/store"
)

type Server struct {
	router chi.Router
	store  *store.Store

	screens *registry.ScreenRegistry
	admins  *registry.AdminRegistry

	dispatcher  *dispatch.Dispatcher
	broadcaster *broadcast.Coordinator
	provider    *content.Provider
	reconcilers *reconcile.Manager
	restarter   *restart.Coordinator
	events      *eventlog.Log
	geoResolver *geoip.Resolver
	authService *auth.Service

	corsOrigin string
}

func NewServer(s *store.Store, screens *registry.ScreenRegistry, admins *registry.AdminRegistry, opts ...Option) *Server {
	srv := &Server{
		router:  chi.NewRouter(),
		store:   s,
		screens: screens,
		admins:  admins,
	}
	for _, o := range opts {
		o(srv)
	}
	if srv.dispatcher == nil {
		srv.dispatcher = dispatch.New(screens)
	}
	if srv.broadcaster == nil {
		srv.broadcaster = broadcast.New(screens, admins)
	}
	srv.router.Use(middleware.Logger)
	srv.router.Use(middleware.Recoverer)
	srv.routes()
	return srv
}

type Option func(*Server)

func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(s *Server) { s.dispatcher = d }
}

func WithBroadcaster(b *broadcast.Coordinator) Option {
	return func(s *Server) { s.broadcaster = b }
}

func WithContentProvider(p *content.Provider) Option {
	return func(s *Server) { s.provider = p }
}

func WithReconcilers(m *reconcile.Manager) Option {
	return func(s *Server) { s.reconcilers = m }
}

func WithRestarter(r *restart.Coordinator) Option {
	return func(s *Server) { s.restarter = r }
}

func WithEventLog(l *eventlog.Log) Option {
	return func(s *Server) { s.events = l }
}

func WithGeoResolver(r *geoip.Resolver) Option {
	return func(s *Server) { s.geoResolver = r }
}

func WithAuth(a *auth.Service) Option {
	return func(s *Server) { s.authService = a }
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
