// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package filestoretest provides a shared conformance test suite for
// filestore.DocumentStore implementations. Each backend calls
// RunConformanceTests from its own _test.go file.
package filestoretest

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillscore/extraction-gw/pkg/filestore"
)

// RunConformanceTests exercises a DocumentStore implementation against the
// shared contract. The newStore function is called once per sub-test to
// provide an isolated store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) filestore.DocumentStore) {
	t.Helper()

	newDoc := func(id, owner string) *filestore.Document {
		return &filestore.Document{
			ID:          id,
			OwnerID:     owner,
			Filename:    "notes.txt",
			StoragePath: "users/" + owner + "/documents/" + id + "_notes.txt",
			MimeType:    "text/plain",
			Hash:        "deadbeef",
			Bytes:       5,
			Content:     []byte("hello"),
			CreatedAt:   time.Now().Truncate(time.Millisecond),
		}
	}

	t.Run("PutAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := newDoc("doc_abc123", "user_1")
		if err := store.Put(ctx, doc); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, err := store.Get(ctx, doc.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}

		if got.ID != doc.ID || got.OwnerID != doc.OwnerID || got.Filename != doc.Filename ||
			got.StoragePath != doc.StoragePath || got.MimeType != doc.MimeType ||
			got.Hash != doc.Hash || got.Bytes != doc.Bytes {
			t.Errorf("Get returned unexpected metadata: %+v", got)
		}

		// Content must be nil from Get (metadata-only)
		if got.Content != nil {
			t.Errorf("expected Content to be nil from Get, got %d bytes", len(got.Content))
		}
	})

	t.Run("GetContent", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := newDoc("doc_content", "user_1")
		if err := store.Put(ctx, doc); err != nil {
			t.Fatalf("Put: %v", err)
		}

		content, err := store.GetContent(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetContent: %v", err)
		}
		if !bytes.Equal(content, []byte("hello")) {
			t.Errorf("GetContent = %q, want %q", content, "hello")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		_, err := store.Get(context.Background(), "doc_nope")
		if !errors.Is(err, filestore.ErrDocumentNotFound) {
			t.Errorf("Get missing: err = %v, want ErrDocumentNotFound", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		doc := newDoc("doc_del", "user_1")
		if err := store.Put(ctx, doc); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.Delete(ctx, doc.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := store.Get(ctx, doc.ID); !errors.Is(err, filestore.ErrDocumentNotFound) {
			t.Errorf("Get after delete: err = %v, want ErrDocumentNotFound", err)
		}
		if err := store.Delete(ctx, doc.ID); !errors.Is(err, filestore.ErrDocumentNotFound) {
			t.Errorf("second Delete: err = %v, want ErrDocumentNotFound", err)
		}
	})

	t.Run("ListByOwner", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		for i, seed := range []struct{ id, owner string }{
			{"doc_a", "user_1"},
			{"doc_b", "user_2"},
			{"doc_c", "user_1"},
		} {
			doc := newDoc(seed.id, seed.owner)
			doc.CreatedAt = doc.CreatedAt.Add(time.Duration(i) * time.Second)
			if err := store.Put(ctx, doc); err != nil {
				t.Fatalf("Put %s: %v", seed.id, err)
			}
		}

		docs, err := store.List(ctx, "user_1", 10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("List returned %d documents, want 2", len(docs))
		}
		// newest first
		if docs[0].ID != "doc_c" || docs[1].ID != "doc_a" {
			t.Errorf("List order = [%s, %s], want [doc_c, doc_a]", docs[0].ID, docs[1].ID)
		}
	})
}
