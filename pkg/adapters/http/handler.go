// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package http is the HTTP adapter: routing, request/response marshalling and
// auth delegation around the extraction pipeline.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/skillscore/extraction-gw/pkg/auth"
	"github.com/skillscore/extraction-gw/pkg/core/api"
	"github.com/skillscore/extraction-gw/pkg/core/config"
	"github.com/skillscore/extraction-gw/pkg/core/services"
	"github.com/skillscore/extraction-gw/pkg/filestore"
	"github.com/skillscore/extraction-gw/pkg/observability/logging"
	"github.com/skillscore/extraction-gw/pkg/upload"
)

// Handler implements the HTTP adapter
type Handler struct {
	service    *services.ExtractionService
	store      filestore.DocumentStore
	questions  api.QuestionClient
	generation config.GenerationConfig
	uploads    *upload.Validator
	authn      auth.Provider
	logger     *logging.Logger
	mux        *http.ServeMux
}

// New creates a new HTTP handler. questions may be nil when generation is not
// configured; the questions endpoint then returns 503. generation supplies the
// per-request question count bounds.
func New(service *services.ExtractionService, store filestore.DocumentStore, questions api.QuestionClient, generation config.GenerationConfig, uploads *upload.Validator, authn auth.Provider, logger *logging.Logger) *Handler {
	h := &Handler{
		service:    service,
		store:      store,
		questions:  questions,
		generation: generation,
		uploads:    uploads,
		authn:      authn,
		logger:     logger,
		mux:        http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Extraction API
	h.mux.HandleFunc("POST /v1/extract", h.requireAuth(h.handleExtract))
	h.mux.HandleFunc("POST /v1/validate", h.requireAuth(h.handleValidate))
	h.mux.HandleFunc("GET /v1/formats", h.requireAuth(h.handleFormats))

	// Stored documents API
	h.mux.HandleFunc("POST /v1/files", h.requireAuth(h.handleUploadDocument))
	h.mux.HandleFunc("GET /v1/files", h.requireAuth(h.handleListDocuments))
	h.mux.HandleFunc("GET /v1/files/{id}", h.requireAuth(h.handleGetDocument))
	h.mux.HandleFunc("GET /v1/files/{id}/content", h.requireAuth(h.handleGetDocumentContent))
	h.mux.HandleFunc("DELETE /v1/files/{id}", h.requireAuth(h.handleDeleteDocument))

	// Question generation delegation
	h.mux.HandleFunc("POST /v1/questions", h.requireAuth(h.handleQuestions))

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// requireAuth delegates bearer-token verification to the configured provider.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.authn == nil {
			next(w, r)
			return
		}

		ctx, err := h.authn.Authenticate(r.Context(), r)
		if err != nil {
			h.logger.Warn("Authentication failed", "path", r.URL.Path, "error", err)
			w.Header().Set("WWW-Authenticate", "Bearer")
			h.writeError(w, http.StatusUnauthorized, "authentication_error", "Invalid or expired authentication token")
			return
		}

		next(w, r.WithContext(ctx))
	}
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "extraction-gw",
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"type":    errType,
			"message": message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// generateID generates a unique ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	rand.Read(b)
	return prefix + hex.EncodeToString(b)
}
