package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/pokerequity/equity"
	"github.com/lox/pokerequity/poker"
)

// Calculator is the part of equity.Calculator the server needs.
type Calculator interface {
	Calculate(hands []string, board string, variant poker.Variant, iterations int) (*equity.OddsResult, error)
}

// Server answers equity requests over WebSocket
type Server struct {
	addr          string
	calc          Calculator
	maxIterations int
	upgrader      websocket.Upgrader
	logger        *log.Logger

	mu          sync.Mutex
	httpServer  *http.Server
	connections map[*websocket.Conn]struct{}
}

// NewServer creates a new WebSocket server. Requests asking for more than
// maxIterations trials are rejected.
func NewServer(addr string, calc Calculator, maxIterations int, logger *log.Logger) *Server {
	return &Server{
		addr:          addr,
		calc:          calc,
		maxIterations: maxIterations,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes open connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.track(conn, true)
	defer s.track(conn, false)
	defer conn.Close()

	s.logger.Debug("Client connected", "remote", conn.RemoteAddr())
	for {
		_, r, err := conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Read failed", "error", err)
			}
			return
		}

		var reply any
		var req CalculateRequest
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			s.logger.Warn("Malformed request", "remote", conn.RemoteAddr(), "error", err)
			reply = errorResponse(req.ID, &requestError{msg: fmt.Sprintf("malformed request: %v", err)})
		} else {
			reply = s.handleRequest(req)
		}

		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("Write failed", "error", err)
			return
		}
	}
}

// handleRequest runs one calculation and returns the message to send back.
func (s *Server) handleRequest(req CalculateRequest) any {
	if req.Type != TypeCalculate {
		return errorResponse(req.ID, &requestError{msg: fmt.Sprintf("unknown message type %q", req.Type)})
	}
	if req.Iterations > s.maxIterations {
		return errorResponse(req.ID, &requestError{
			msg: fmt.Sprintf("iterations %d exceeds the limit of %d", req.Iterations, s.maxIterations),
		})
	}
	variant, err := poker.ParseVariant(req.Variant)
	if err != nil {
		return errorResponse(req.ID, &requestError{msg: err.Error()})
	}

	result, err := s.calc.Calculate(req.Hands, req.Board, variant, req.Iterations)
	if err != nil {
		s.logger.Debug("Rejected request", "id", req.ID, "error", err)
		return errorResponse(req.ID, err)
	}

	s.logger.Info("Calculated odds",
		"id", req.ID,
		"players", len(result.Players),
		"iterations", result.Iterations,
		"elapsed", result.Elapsed)
	return &OddsResponse{Type: TypeOdds, ID: req.ID, Result: result}
}

func (s *Server) track(conn *websocket.Conn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.connections[conn] = struct{}{}
	} else {
		delete(s.connections, conn)
	}
}
