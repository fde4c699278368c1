package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hubenschmidt/go-chromastore/chroma"
	"github.com/hubenschmidt/go-chromastore/core"
	"github.com/hubenschmidt/go-chromastore/monitor"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleAddTexts(w http.ResponseWriter, r *http.Request) {
	var req AddTextsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := []chroma.Option{chroma.WithMetadatas(req.Metadatas)}
	if len(req.IDs) > 0 {
		opts = append(opts, chroma.WithIDs(req.IDs...))
	}
	if req.Namespace != nil {
		opts = append(opts, chroma.WithNamespace(*req.Namespace))
	}
	if req.BatchSize > 0 {
		opts = append(opts, chroma.WithBatchSize(req.BatchSize))
	}

	start := time.Now()
	ids, err := s.store.AddTexts(r.Context(), req.Texts, opts...)
	s.record(monitor.OpAddTexts, req.Namespace, len(req.Texts), start, err)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AddTextsResponse{IDs: ids})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var opts []chroma.Option
	if req.Namespace != nil {
		opts = append(opts, chroma.WithNamespace(*req.Namespace))
	}

	start := time.Now()
	docs, err := s.store.GetMatchingText(r.Context(), req.Query, req.TopK, opts...)
	s.record(monitor.OpGetMatchingText, req.Namespace, len(docs), start, err)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{Documents: docs})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Schemas())
}

func (s *Server) handleToolExecute(w http.ResponseWriter, r *http.Request) {
	args, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := s.registry.Execute(r.Context(), r.PathValue("name"), json.RawMessage(args))
	if errors.Is(err, core.ErrToolNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ToolResponse{Result: out})
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Summary())
}

func (s *Server) record(op string, namespace *string, count int, start time.Time, err error) {
	m := monitor.OpMetrics{
		Op:       op,
		Count:    count,
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if namespace != nil {
		m.Namespace = *namespace
	} else if d, ok := s.store.(interface{ Namespace() string }); ok {
		m.Namespace = d.Namespace()
	}
	if err != nil {
		m.Error = err.Error()
	}
	s.collector.Record(m)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, core.ErrMissingTextField):
		writeError(w, http.StatusBadGateway, err)
	default:
		log.Printf("[server] Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
