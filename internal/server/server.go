package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/xsistens/voiced/internal/engine"
	"github.com/xsistens/voiced/internal/queue"
	"github.com/xsistens/voiced/internal/voiceconfig"
)

// Server is the daemon's HTTP surface: loopback-only, three routes plus
// OPTIONS, fronted by a CORS/rate-limit/logging middleware chain.
type Server struct {
	cfg            *voiceconfig.Snapshot
	q              *queue.Queue
	selectedEngine engine.Kind
	limiter        *rateLimiter
	router         *mux.Router
	httpServer     *http.Server
}

// New builds a Server bound to cfg, the shared audio queue, and the
// engine selected at start-up (surfaced only in /health).
func New(cfg *voiceconfig.Snapshot, q *queue.Queue, selectedEngine engine.Kind) *Server {
	s := &Server{
		cfg:            cfg,
		q:              q,
		selectedEngine: selectedEngine,
		limiter:        newRateLimiter(),
		router:         mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/notify", s.handleNotify).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/pai", s.handlePai).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
}

func (s *Server) handler() http.Handler {
	var h http.Handler = s.router
	h = s.rateLimitMiddleware(h)
	h = corsMiddleware(h)
	h = loggingMiddleware(h)
	return h
}

// ListenAndServe binds to localhost:<cfg.Port> and serves until ctx is
// cancelled, at which point it shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
