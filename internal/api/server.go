// Package api serves the BibleHere engine over HTTP: a JSON REST API plus
// a WebSocket feed of history and reload events.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
	"github.com/FocuswithJustin/BibleHere/internal/server"
)

// shutdownTimeout bounds the drain of in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the REST API over one engine.
type Server struct {
	cfg      Config
	engine   *engine.Engine
	hub      *Hub
	limiter  *RateLimiter
	upgrader *websocket.Upgrader
	started  time.Time
	handler  http.Handler
}

// New validates cfg and builds the handler chain.
func New(cfg Config, eng *engine.Engine) (*Server, error) {
	if err := ValidateAuthConfig(cfg.Auth); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
			return nil, fmt.Errorf("TLS enabled but cert or key file not specified")
		}
		if _, err := os.Stat(cfg.TLS.CertFile); err != nil {
			return nil, fmt.Errorf("TLS cert file not found: %w", err)
		}
		if _, err := os.Stat(cfg.TLS.KeyFile); err != nil {
			return nil, fmt.Errorf("TLS key file not found: %w", err)
		}
	}

	s := &Server{
		cfg:      cfg,
		engine:   eng,
		hub:      NewHub(),
		upgrader: newUpgrader(cfg.AllowedOrigins),
		started:  time.Now(),
	}
	s.handler = s.buildHandler()
	return s, nil
}

// buildHandler wraps the routes, innermost first: security headers, auth,
// rate limiting, CORS, then request id and logging.
func (s *Server) buildHandler() http.Handler {
	var handler http.Handler = server.SecurityHeadersMiddleware(server.APICSPConfig(), s.routes())

	if s.cfg.Auth.Enabled {
		handler = AuthMiddleware(s.cfg.Auth, handler)
		logging.SecurityEvent("authentication_configured", "api",
			"enabled", true,
			"note", "API key required")
	} else {
		logging.SecurityEvent("authentication_configured", "api",
			"enabled", false,
			"note", "all requests allowed")
	}

	if s.cfg.RateLimitRequests > 0 {
		s.limiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: s.cfg.RateLimitRequests,
			BurstSize:         s.cfg.RateLimitBurst,
		})
		handler = s.limiter.Middleware(handler)
		logging.Info("rate limiting enabled",
			"requests_per_minute", s.cfg.RateLimitRequests,
			"burst_size", s.limiter.config.BurstSize)
	}

	handler = server.CORSMiddleware(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*)")
	}

	return logging.CombinedMiddleware(handler)
}

// Handler returns the complete middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the WebSocket hub, for broadcasting events from outside the
// request path such as corpus reloads.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close stops background work started by New.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests and returns nil.
func (s *Server) ListenAndServe(ctx context.Context) error {
	defer s.Close()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	protocol, wsProtocol := "http", "ws"
	if s.cfg.TLS.Enabled {
		protocol, wsProtocol = "https", "wss"
		logging.Info("TLS enabled", "cert_file", s.cfg.TLS.CertFile)
	} else {
		logging.Warn("TLS disabled - using plain HTTP",
			"recommendation", "consider using TLS or reverse proxy for production")
	}
	logging.ServerStartup("rest_api", protocol, s.cfg.Port, "websocket_protocol", wsProtocol)

	errc := make(chan error, 1)
	go func() {
		if s.cfg.TLS.Enabled {
			errc <- srv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			errc <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// routes registers every endpoint.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /versions", s.handleVersions)
	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /resolve", s.handleResolve)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /suggest", s.handleSuggest)
	mux.HandleFunc("GET /passage", s.handlePassage)
	mux.HandleFunc("GET /votd", s.handleVerseOfDay)
	mux.HandleFunc("GET /verses/random", s.handleRandomVerse)
	mux.HandleFunc("GET /xrefs/types", s.handleCrossRefTypes)
	mux.HandleFunc("GET /xrefs/verse/{id}", s.handleVerseCrossRefs)
	mux.HandleFunc("GET /xrefs/chapter/{book}/{chapter}", s.handleChapterCrossRefs)
	mux.HandleFunc("GET /commentaries", s.handleCommentaryInfo)
	mux.HandleFunc("GET /commentaries/search", s.handleCommentarySearch)
	mux.HandleFunc("GET /commentaries/verse/{id}", s.handleVerseCommentaries)
	mux.HandleFunc("GET /commentaries/chapter/{book}/{chapter}", s.handleChapterCommentaries)
	mux.HandleFunc("GET /strongs/search", s.handleStrongSearch)
	mux.HandleFunc("GET /strongs/language/{language}", s.handleStrongLanguage)
	mux.HandleFunc("GET /strongs/verse/{id}", s.handleVerseStrongNumbers)
	mux.HandleFunc("GET /strongs/{number}", s.handleStrongNumber)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("DELETE /history", s.handleClearHistory)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.serveWebSocket(s.upgrader, w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	})

	return mux
}
