// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/skillscore/extraction-gw/pkg/filestore"
)

// compile-time check
var _ filestore.DocumentStore = (*Store)(nil)

// Store is an in-memory document store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*filestore.Document
}

// New creates a new in-memory document store.
func New() *Store {
	return &Store{
		docs: make(map[string]*filestore.Document),
	}
}

// Put stores a new document.
func (s *Store) Put(_ context.Context, doc *filestore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}

	s.docs[doc.ID] = doc
	return nil
}

// Get returns document metadata (Content is nil).
func (s *Store) Get(_ context.Context, id string) (*filestore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[id]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
	}

	cp := *doc
	cp.Content = nil
	return &cp, nil
}

// GetContent returns the raw stored bytes.
func (s *Store) GetContent(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[id]
	if !exists {
		return nil, fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
	}

	return doc.Content, nil
}

// Delete removes a document.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
	}

	delete(s.docs, id)
	return nil
}

// List returns up to limit documents, newest first, optionally by owner.
func (s *Store) List(_ context.Context, ownerID string, limit int) ([]*filestore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	all := make([]*filestore.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if ownerID != "" && doc.OwnerID != ownerID {
			continue
		}
		cp := *doc
		cp.Content = nil
		all = append(all, &cp)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
