// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/skillscore/extraction-gw/pkg/core/schema"
	"github.com/skillscore/extraction-gw/pkg/core/services"
	"github.com/skillscore/extraction-gw/pkg/extractor"
	"github.com/skillscore/extraction-gw/pkg/upload"
)

// handleExtract handles POST /v1/extract: multipart upload in, extraction
// result out. Extraction runs synchronously on the request's bytes; nothing
// is stored.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	filename, content, contentType, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	if _, err := h.uploads.Validate(filename, content, contentType); err != nil {
		h.writeUploadError(w, err)
		return
	}

	result, err := h.service.Extract(r.Context(), content, filename)
	if err != nil {
		h.writeExtractionError(w, filename, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleValidate handles POST /v1/validate.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req schema.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	writeJSON(w, http.StatusOK, h.service.ValidateContent(req.Text))
}

// handleFormats handles GET /v1/formats.
func (h *Handler) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.FormatsResponse{
		SupportedFormats: h.service.SupportedFormats(),
	})
}

// readUpload parses the multipart form and returns the uploaded file. On
// failure it writes the error response and reports !ok.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (filename string, content []byte, contentType string, ok bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.logger.Error("Failed to parse multipart form", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return "", nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "File is required")
		return "", nil, "", false
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read file content", "error", err)
		h.writeError(w, http.StatusInternalServerError, "read_error", "Failed to read file content")
		return "", nil, "", false
	}

	return header.Filename, content, header.Header.Get("Content-Type"), true
}

// writeUploadError maps upload validation failures to client errors.
func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upload.ErrNoFilename):
		h.writeError(w, http.StatusBadRequest, "invalid_request", "No filename provided")
	case errors.Is(err, upload.ErrTypeNotAllowed):
		h.writeError(w, http.StatusBadRequest, "unsupported_format", err.Error())
	case errors.Is(err, upload.ErrFileTooLarge):
		h.writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
}

// writeExtractionError maps pipeline failures onto the HTTP taxonomy:
// unsupported format and corrupt document are client errors, anything else is
// a server error.
func (h *Handler) writeExtractionError(w http.ResponseWriter, filename string, err error) {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		h.writeError(w, http.StatusBadRequest, "unsupported_format", err.Error())
	case errors.Is(err, extractor.ErrCorruptDocument):
		h.writeError(w, http.StatusBadRequest, "corrupt_document", err.Error())
	case errors.Is(err, services.ErrExtractionFailed):
		h.logger.Error("Extraction failed", "filename", filename, "error", err)
		h.writeError(w, http.StatusInternalServerError, "extraction_error", err.Error())
	default:
		h.logger.Error("Extraction failed", "filename", filename, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
