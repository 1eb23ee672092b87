package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/namdoan/escrowd/internal/ledger"
)

// Pinger reports reachability of an infrastructure dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the ledger operations over HTTP.
type Server struct {
	svc    *ledger.Service
	deps   map[string]Pinger
	server *http.Server
}

// NewServer creates the HTTP server. deps maps dependency names to health
// pingers reported by /healthz.
func NewServer(svc *ledger.Service, port int, deps map[string]Pinger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		svc:  svc,
		deps: deps,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: requestLogger(mux),
		},
	}

	mux.HandleFunc("POST /v1/events", s.handleCreate)
	mux.HandleFunc("GET /v1/events/{id}", s.handleGetEvent)
	mux.HandleFunc("POST /v1/events/{id}/reservations", s.handleReserve)
	mux.HandleFunc("POST /v1/events/{id}/checkins", s.handleCheckIn)
	mux.HandleFunc("POST /v1/events/{id}/checkins/all", s.handleCheckInAll)
	mux.HandleFunc("POST /v1/events/{id}/settlement", s.handleSettle)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler returns the server's handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	report := make(map[string]string, len(s.deps))
	for name, dep := range s.deps {
		if err := dep.Ping(r.Context()); err != nil {
			report[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			report[name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
