package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"shortlink/internal/analytics"
	"shortlink/internal/config"
	"shortlink/internal/http/handlers/link/create"
	"shortlink/internal/http/handlers/link/stats"
	"shortlink/internal/http/handlers/link/upsert"
	"shortlink/internal/http/handlers/middlewares/logger"
	"shortlink/internal/http/handlers/redirect"
	"shortlink/internal/http/handlers/system/getping"
	"shortlink/internal/resolver"
	"shortlink/internal/storage"
)

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	log        *zerolog.Logger
	cfg        config.Config
}

func NewServer(log *zerolog.Logger, cfg config.Config, store storage.LinkStore, sink analytics.Sink) (*Server, error) {
	if cfg.ServerAddress == "" {
		return nil, errors.New("server address cannot be empty")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if store == nil {
		return nil, errors.New("link store cannot be nil")
	}
	if sink == nil {
		return nil, errors.New("analytics sink cannot be nil")
	}

	res, err := resolver.New(store, log, resolver.Options{
		SlugRegex:     cfg.SlugRegex,
		ReserveSlug:   cfg.ReserveSlug,
		CaseSensitive: cfg.CaseSensitive,
		CacheTTL:      cfg.LinkCacheTTL,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: mux.NewRouter(),
		log:    log,
		cfg:    cfg,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.setupRoutes(res, store, sink)
	return s, nil
}

func (s *Server) setupRoutes(res *resolver.Resolver, store storage.LinkStore, sink analytics.Sink) {
	slugPattern := regexp.MustCompile(s.cfg.SlugRegex)

	s.router.Use(logger.MiddlewareLogging(s.log))

	s.router.HandleFunc("/ping", getping.HandlerPing(store)).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/link/create", create.Handler(store, slugPattern, s.cfg.CaseSensitive, s.log)).Methods("POST")
	api.HandleFunc("/link/upsert", upsert.Handler(store, slugPattern, s.cfg.CaseSensitive, s.log)).Methods("POST")
	api.HandleFunc("/link/stats", stats.Handler(sink, s.cfg.CaseSensitive, s.log)).Methods("GET")

	// Everything else is a candidate short link, the root included.
	redirectHandler := redirect.New(res, sink, s.log, redirect.Options{
		HomeURL:             s.cfg.HomeURL,
		StatusCode:          s.cfg.RedirectStatusCode,
		RedirectWithQuery:   s.cfg.RedirectWithQuery,
		DisableBotAccessLog: s.cfg.DisableBotAccessLog,
		AnalyticsTimeout:    s.cfg.AnalyticsTimeout,
	})
	s.router.PathPrefix("/").Handler(redirectHandler).Methods("GET", "HEAD")
}

func (s *Server) Start(ctx context.Context) error {
	s.log.Info().Str("address", s.cfg.ServerAddress).Msg("Starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
