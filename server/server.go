package server

import (
	"fmt"
	"net/http"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/hubenschmidt/go-chromastore/monitor"
	"github.com/hubenschmidt/go-chromastore/tools"
)

// Config configures a new Server instance.
type Config struct {
	Store     chroma.VectorStore
	Registry  *tools.Registry   // Optional: defaults to a fresh registry per server
	Collector monitor.Collector // Optional: defaults to an in-memory collector
}

// Server exposes a vector store over HTTP.
type Server struct {
	store     chroma.VectorStore
	registry  *tools.Registry
	collector monitor.Collector
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: store is required", core.ErrInvalidConfig)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = tools.NewRegistry()
	}
	tools.RegisterStoreTools(registry, cfg.Store)

	collector := cfg.Collector
	if collector == nil {
		collector = monitor.NewInMemoryCollector()
	}

	return &Server{
		store:     cfg.Store,
		registry:  registry,
		collector: collector,
	}, nil
}

// Handler returns an http.Handler for the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /texts", s.handleAddTexts)
	mux.HandleFunc("POST /query", s.handleQuery)

	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /tools/{name}", s.handleToolExecute)

	mux.HandleFunc("GET /metrics/summary", s.handleMetricsSummary)

	return corsMiddleware(mux)
}
