// Package web serves the workspace graph over HTTP for the graph subcommand:
// JSON endpoints for the graph and scheme listings, plus a server-sent-events
// stream notifying clients when the graph is regenerated.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/xcgen/xcgen/pkg/graph"
	"github.com/xcgen/xcgen/pkg/logging"
	"github.com/xcgen/xcgen/pkg/model"
)

// Server exposes a graph over HTTP
type Server struct {
	router *mux.Router

	mu    sync.RWMutex
	graph *model.Graph

	subMu       sync.Mutex
	subscribers map[string]chan string
}

// NewServer creates a server with no graph loaded yet
func NewServer() *Server {
	s := &Server{
		router:      mux.NewRouter(),
		subscribers: make(map[string]chan string),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/schemes", s.handleSchemes).Methods("GET")
	s.router.HandleFunc("/events", s.handleEvents).Methods("GET")
}

// SetGraph replaces the served graph and notifies subscribers
func (s *Server) SetGraph(g *model.Graph) {
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()
	s.broadcast("graph_updated")
}

// Start runs the HTTP server on the given port, blocking
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("serving workspace graph", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "graph not loaded", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, g)
}

// schemeInfo is the wire form of a scheme listing entry
type schemeInfo struct {
	Name      string `json:"name"`
	Buildable bool   `json:"buildable"`
	Runnable  bool   `json:"runnable"`
	Entry     bool   `json:"entry"`
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "graph not loaded", http.StatusServiceUnavailable)
		return
	}

	infos := make([]schemeInfo, 0)
	for _, scheme := range g.Schemes() {
		_, _, buildable := graph.BuildableTarget(g, scheme)
		_, _, runnable := graph.RunnableTarget(g, scheme)
		infos = append(infos, schemeInfo{
			Name:      scheme.Name,
			Buildable: buildable,
			Runnable:  runnable,
			Entry:     buildable && !scheme.Internal,
		})
	}
	writeJSON(w, infos)
}

// handleEvents streams regeneration notifications as server-sent events
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := uuid.New().String()
	events := s.subscribe(id)
	defer s.unsubscribe(id)

	logging.Debug("sse client connected", "id", id)
	fmt.Fprintf(w, "data: %q\n\n", "connected")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %q\n\n", event)
			flusher.Flush()
		}
	}
}

func (s *Server) subscribe(id string) chan string {
	ch := make(chan string, 10)
	s.subMu.Lock()
	s.subscribers[id] = ch
	s.subMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(id string) {
	s.subMu.Lock()
	delete(s.subscribers, id)
	s.subMu.Unlock()
}

// broadcast sends an event to every subscriber without blocking
func (s *Server) broadcast(event string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			logging.Warn("dropping event for slow subscriber", "id", id)
		}
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encoding response", "error", err)
	}
}
