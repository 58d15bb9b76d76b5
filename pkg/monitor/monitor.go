// Package monitor exposes a read-only HTTP view over the aggregator's
// iteration progress and the coordinator's worker registry — no
// authentication, no mutation endpoints, consistent with its role as an
// observability surface rather than a control surface.
package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/syncfl/control-plane/pkg/aggregator"
	"github.com/syncfl/control-plane/pkg/coordinator"
)

// APIResponse is the envelope every endpoint responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// IterationEvent is broadcast over the /ws stream each time a barrier
// completes.
type IterationEvent struct {
	Iteration int32     `json:"iteration"`
	Timestamp time.Time `json:"timestamp"`
}

// Config controls the dashboard's listen address and allowed browser
// origins.
type Config struct {
	Port           int
	Production     bool
	AllowedOrigins []string
}

// Server serves the dashboard's HTTP and WebSocket endpoints over an
// aggregator and/or a coordinator. Either may be nil if that process
// isn't colocated with the dashboard.
type Server struct {
	agg   *aggregator.Aggregator
	coord *coordinator.Coordinator
	cfg   Config

	router   *mux.Router
	upgrader websocket.Upgrader

	subsLock sync.Mutex
	subs     map[chan IterationEvent]struct{}
}

// New builds a dashboard server. Call NotifyIteration after every
// completed barrier to feed the /ws stream.
func New(agg *aggregator.Aggregator, coord *coordinator.Coordinator, cfg Config) *Server {
	s := &Server{
		agg:   agg,
		coord: coord,
		cfg:   cfg,
		router: mux.NewRouter(),
		subs:   make(map[chan IterationEvent]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if !cfg.Production {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range cfg.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/iteration", s.handleIteration).Methods("GET")
	api.HandleFunc("/workers", s.handleWorkers).Methods("GET")
	api.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
}

// Start blocks serving HTTP on cfg.Port behind rs/cors.
func (s *Server) Start() error {
	allowedOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if s.cfg.Production {
		allowedOrigins = s.cfg.AllowedOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	log.Printf("📊 monitor dashboard listening on %s", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, map[string]interface{}{"status": "healthy", "timestamp": time.Now()})
}

func (s *Server) handleIteration(w http.ResponseWriter, r *http.Request) {
	if s.agg == nil {
		s.sendError(w, http.StatusNotFound, "no aggregator attached to this dashboard", nil)
		return
	}
	iteration := s.agg.CurrentIteration()
	received, aggregated := s.agg.CheckSyncStatus(iteration)
	s.sendSuccess(w, map[string]interface{}{
		"iteration":        iteration,
		"workers_received": received,
		"aggregated":       aggregated,
	})
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	if s.coord == nil {
		s.sendError(w, http.StatusNotFound, "no coordinator attached to this dashboard", nil)
		return
	}
	s.sendSuccess(w, s.coord.ListWorkers())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan IterationEvent, 16)
	s.subsLock.Lock()
	s.subs[events] = struct{}{}
	s.subsLock.Unlock()
	defer func() {
		s.subsLock.Lock()
		delete(s.subs, events)
		s.subsLock.Unlock()
		close(events)
	}()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("monitor: websocket write error: %v", err)
			return
		}
	}
}

// NotifyIteration broadcasts a completed barrier to every connected
// WebSocket subscriber. Non-blocking: a slow subscriber drops events
// rather than stalling the caller.
func (s *Server) NotifyIteration(iteration int32) {
	event := IterationEvent{Iteration: iteration, Timestamp: time.Now()}
	s.subsLock.Lock()
	defer s.subsLock.Unlock()
	for ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func (s *Server) sendError(w http.ResponseWriter, statusCode int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message})
}
