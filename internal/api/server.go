package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"docrag/internal/adapter/cache"
	"docrag/internal/domain"
	"docrag/internal/port"
	"docrag/internal/usecase"
)

const (
	maxUploadBytes  = 32 << 20
	shutdownTimeout = 10 * time.Second
)

// Server exposes the QA pipeline over HTTP.
type Server struct {
	query  *usecase.QueryUseCase
	ingest *usecase.IngestUseCase
	store  port.ChunkStore
	cache  *cache.QueryCache
	log    *slog.Logger

	httpSrv *http.Server
}

func NewServer(query *usecase.QueryUseCase, ingest *usecase.IngestUseCase, store port.ChunkStore, queryCache *cache.QueryCache, log *slog.Logger) *Server {
	return &Server{
		query:  query,
		ingest: ingest,
		store:  store,
		cache:  queryCache,
		log:    log,
	}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /documents/{name}", s.handleDeleteDocument)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	s.log.Info("http server listening", "addr", addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"total_chunks": count,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req domain.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	resp, err := s.query.Answer(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyQuestion) {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.log.Error("query failed", "question", req.Question, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !s.ingest.Supports(name) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", name))
		return
	}

	// Extractors work on paths, so the upload is staged to a temp file
	// named after the original document.
	dir, err := os.MkdirTemp("", "docrag-upload-*")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	dst.Close()

	result, err := s.ingest.IngestFile(r.Context(), path)
	if err != nil {
		s.log.Error("ingestion failed", "document", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	found := false
	for _, d := range docs {
		if d.Name == name {
			found = true
			break
		}
	}
	if !found {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("document not found: %s", name))
		return
	}

	if err := s.store.DeleteDocument(r.Context(), name); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.cache != nil {
		s.cache.Clear()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
