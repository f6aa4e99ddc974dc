// Package server sets up the HTTP router, middleware, and request handlers.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/howard-nolan/geminibridge/internal/metrics"
	"github.com/howard-nolan/geminibridge/internal/request"
)

// Requester is the slice of the gemini client the handlers need. An
// interface here (instead of the concrete *gemini.Client) lets tests
// exercise the handlers with a stub that never goes near the network.
type Requester interface {
	MakeRequest(ctx context.Context, req *request.Request) (*request.Result, error)
}

// Server holds the HTTP router and the dependencies handlers need.
type Server struct {
	router  chi.Router
	client  Requester
	metrics *metrics.Metrics
}

// New creates a Server, wires up routes and middleware, and returns it
// ready to use as an http.Handler.
func New(client Requester, m *metrics.Metrics) *Server {
	s := &Server{client: client, metrics: m}
	s.routes()
	return s
}

// routes builds the chi router with all middleware and route definitions,
// gathered in one method so the routing table is easy to scan.
func (s *Server) routes() {
	r := chi.NewRouter()

	// middleware.Logger prints a line per request (method, path, status,
	// duration); middleware.Recoverer turns handler panics into 500s
	// instead of crashing the process.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/v1/generate", s.handleGenerate)
	r.Post("/v1/embeddings", s.handleEmbeddings)

	s.router = r
}

// ServeHTTP makes Server satisfy http.Handler by delegating to chi.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
