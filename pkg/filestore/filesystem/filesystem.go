// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/skillscore/extraction-gw/pkg/filestore"
)

// compile-time check
var _ filestore.DocumentStore = (*Store)(nil)

// docMetadata is the on-disk representation stored in metadata.json.
type docMetadata struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	MimeType    string    `json:"mime_type"`
	Hash        string    `json:"hash"`
	Bytes       int64     `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store implements filestore.DocumentStore backed by a local filesystem.
//
// Layout:
//
//	<baseDir>/<doc_id>/content        raw document bytes
//	<baseDir>/<doc_id>/metadata.json  JSON metadata sidecar
type Store struct {
	baseDir string
}

// New creates a filesystem-backed Store, creating baseDir if it does not exist.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Put writes the document content and metadata to disk atomically.
func (s *Store) Put(_ context.Context, doc *filestore.Document) error {
	dir := filepath.Join(s.baseDir, doc.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	// temp file + rename keeps readers from seeing partial writes
	contentPath := filepath.Join(dir, "content")
	tmpContent := contentPath + ".tmp"
	if err := os.WriteFile(tmpContent, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := os.Rename(tmpContent, contentPath); err != nil {
		return fmt.Errorf("rename content: %w", err)
	}

	meta := docMetadata{
		ID:          doc.ID,
		OwnerID:     doc.OwnerID,
		Filename:    doc.Filename,
		StoragePath: doc.StoragePath,
		MimeType:    doc.MimeType,
		Hash:        doc.Hash,
		Bytes:       doc.Bytes,
		CreatedAt:   doc.CreatedAt,
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	metaPath := filepath.Join(dir, "metadata.json")
	tmpMeta := metaPath + ".tmp"
	if err := os.WriteFile(tmpMeta, metaBytes, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(tmpMeta, metaPath); err != nil {
		return fmt.Errorf("rename metadata: %w", err)
	}

	return nil
}

// Get returns document metadata (Content is nil).
func (s *Store) Get(_ context.Context, id string) (*filestore.Document, error) {
	meta, err := s.readMetadata(id)
	if err != nil {
		return nil, err
	}
	return meta.toDocument(), nil
}

// GetContent returns the raw stored bytes.
func (s *Store) GetContent(_ context.Context, id string) ([]byte, error) {
	contentPath := filepath.Join(s.baseDir, id, "content")
	data, err := os.ReadFile(contentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("read content: %w", err)
	}
	return data, nil
}

// Delete removes the document directory and all its contents.
func (s *Store) Delete(_ context.Context, id string) error {
	dir := filepath.Join(s.baseDir, id)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
		}
		return fmt.Errorf("stat document dir: %w", err)
	}
	return os.RemoveAll(dir)
}

// List returns up to limit documents, newest first, optionally by owner.
func (s *Store) List(_ context.Context, ownerID string, limit int) ([]*filestore.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read base dir: %w", err)
	}

	var all []*filestore.Document
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue // skip corrupt entries
		}
		if ownerID != "" && meta.OwnerID != ownerID {
			continue
		}
		all = append(all, meta.toDocument())
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Close is a no-op for the filesystem store.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// readMetadata reads and unmarshals the metadata.json for a document ID.
func (s *Store) readMetadata(id string) (*docMetadata, error) {
	metaPath := filepath.Join(s.baseDir, id, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta docMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &meta, nil
}

func (m *docMetadata) toDocument() *filestore.Document {
	return &filestore.Document{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Filename:    m.Filename,
		StoragePath: m.StoragePath,
		MimeType:    m.MimeType,
		Hash:        m.Hash,
		Bytes:       m.Bytes,
		CreatedAt:   m.CreatedAt,
	}
}
