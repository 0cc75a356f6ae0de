// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/skillscore/extraction-gw/pkg/auth"
	"github.com/skillscore/extraction-gw/pkg/core/schema"
	"github.com/skillscore/extraction-gw/pkg/filestore"
	"github.com/skillscore/extraction-gw/pkg/upload"
)

// handleUploadDocument handles POST /v1/files: validate, store, return
// metadata. The original bytes are stored as-is; extraction happens only on
// demand via /v1/extract.
func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	filename, content, contentType, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	info, err := h.uploads.Validate(filename, content, contentType)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	ownerID, _ := auth.UserID(r.Context())
	if ownerID == "" {
		ownerID = "anonymous"
	}

	doc := &filestore.Document{
		ID:          generateID("doc_"),
		OwnerID:     ownerID,
		Filename:    info.Filename,
		StoragePath: upload.StoragePath(ownerID, info.Filename),
		MimeType:    info.ContentType,
		Hash:        info.Hash,
		Bytes:       info.Size,
		Content:     content,
		CreatedAt:   time.Now(),
	}

	if err := h.store.Put(r.Context(), doc); err != nil {
		h.logger.Error("Failed to store document", "error", err)
		h.writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	h.logger.Info("Document uploaded", "document_id", doc.ID, "filename", doc.Filename, "bytes", doc.Bytes)

	writeJSON(w, http.StatusOK, toSchemaDocument(doc))
}

// handleListDocuments handles GET /v1/files, scoped to the caller.
func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserID(r.Context())

	docs, err := h.store.List(r.Context(), ownerID, 50)
	if err != nil {
		h.logger.Error("Failed to list documents", "error", err)
		h.writeError(w, http.StatusInternalServerError, "list_error", err.Error())
		return
	}

	out := make([]schema.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toSchemaDocument(doc))
	}

	writeJSON(w, http.StatusOK, schema.DocumentList{Object: "list", Data: out})
}

// handleGetDocument handles GET /v1/files/{id}.
func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.getDocument(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSchemaDocument(doc))
}

// handleGetDocumentContent handles GET /v1/files/{id}/content.
func (h *Handler) handleGetDocumentContent(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.getDocument(w, r)
	if !ok {
		return
	}

	content, err := h.store.GetContent(r.Context(), doc.ID)
	if err != nil {
		h.logger.Error("Failed to read document content", "document_id", doc.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// handleDeleteDocument handles DELETE /v1/files/{id}.
func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.getDocument(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), doc.ID); err != nil {
		h.logger.Error("Failed to delete document", "document_id", doc.ID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, schema.DeletedDocument{
		ID:      doc.ID,
		Object:  "document.deleted",
		Deleted: true,
	})
}

// getDocument fetches the path's document and enforces ownership. On failure
// it writes the error response and reports !ok.
func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) (*filestore.Document, bool) {
	id := r.PathValue("id")

	doc, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, filestore.ErrDocumentNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Document not found")
		} else {
			h.logger.Error("Failed to get document", "document_id", id, "error", err)
			h.writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		}
		return nil, false
	}

	if ownerID, ok := auth.UserID(r.Context()); ok && doc.OwnerID != ownerID {
		h.writeError(w, http.StatusNotFound, "not_found", "Document not found")
		return nil, false
	}

	return doc, true
}

func toSchemaDocument(doc *filestore.Document) schema.Document {
	return schema.Document{
		ID:          doc.ID,
		Object:      "document",
		Filename:    doc.Filename,
		MimeType:    doc.MimeType,
		Bytes:       doc.Bytes,
		Hash:        doc.Hash,
		StoragePath: doc.StoragePath,
		CreatedAt:   doc.CreatedAt.Unix(),
	}
}
