// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package filestore defines pluggable storage for uploaded source documents.
// Only the original bytes and their metadata are stored; extracted text is
// never persisted.
package filestore

import (
	"context"
	"errors"
	"time"
)

// ErrDocumentNotFound is returned when a document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Document is a stored upload with metadata and content.
type Document struct {
	ID          string
	OwnerID     string
	Filename    string
	StoragePath string
	MimeType    string
	Hash        string
	Bytes       int64
	Content     []byte // populated for Put input; nil for Get output
	CreatedAt   time.Time
}

// DocumentStore is the interface for document storage backends.
type DocumentStore interface {
	// Put stores a new document. The ID must be unique.
	Put(ctx context.Context, doc *Document) error
	// Get returns document metadata; Content is nil.
	Get(ctx context.Context, id string) (*Document, error)
	// GetContent returns the raw stored bytes.
	GetContent(ctx context.Context, id string) ([]byte, error)
	// Delete removes the document and its content.
	Delete(ctx context.Context, id string) error
	// List returns up to limit documents, newest first, optionally filtered
	// by owner.
	List(ctx context.Context, ownerID string, limit int) ([]*Document, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}
