// Package web is the wide shell: a sidebar page in the browser, kept in sync
// with the presenter over a WebSocket.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/eventbus"
	"coursedesk/modules/ui/core"

	"go.uber.org/zap"
)

//go:embed static/index.html
var staticFS embed.FS

// Server is the HTTP/WebSocket server for the wide shell
type Server struct {
	mu sync.RWMutex

	cfg       *config.WebConfig
	presenter core.Presenter
	bus       *eventbus.Bus
	hub       *WSHub
	logger    *zap.Logger

	httpServer *http.Server
	listener   net.Listener

	// State
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a new server
func NewServer(cfg *config.WebConfig, presenter core.Presenter, bus *eventbus.Bus, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultWebConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ping := time.Duration(cfg.PingSeconds) * time.Second
	return &Server{
		cfg:       cfg,
		presenter: presenter,
		bus:       bus,
		hub:       NewWSHub(presenter, bus, ping, logger),
		logger:    logger,
	}
}

// Start listens on the configured address and serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var hubCtx context.Context
	hubCtx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.hub.Run(hubCtx)
	}()
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server", zap.Error(err))
		}
	}()

	s.logger.Info("web shell listening", zap.String("url", "http://"+ln.Addr().String()))
	return nil
}

// Stop shuts the server down and disconnects every client
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	httpServer := s.httpServer
	s.mu.Unlock()

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	err := httpServer.Shutdown(ctx)
	cancel()
	s.wg.Wait()
	return err
}

// IsRunning returns whether the server is running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the address the server listens on, or ""
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *WSHub {
	return s.hub
}

// Handler creates the HTTP handler with all routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)

	// API routes
	mux.HandleFunc("GET /api/frame", s.handleFrame)
	mux.HandleFunc("GET /api/routes", s.handleRoutes)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	return corsMiddleware(mux)
}

// handleRoot serves the page
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleHealth is a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeViewModel(w, core.VMFrame)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.writeViewModel(w, core.VMRoutes)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bus.GetHistory(historyDefault))
}

func (s *Server) writeViewModel(w http.ResponseWriter, vt core.ViewModelType) {
	vm, err := s.presenter.GetViewModel(vt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
