// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/skillscore/extraction-gw/pkg/filestore"
)

// compile-time check
var _ filestore.DocumentStore = (*Store)(nil)

// Options configures the S3 backend.
type Options struct {
	Bucket   string // required
	Region   string // e.g. "us-east-1"
	Prefix   string // key prefix, e.g. "documents/"
	Endpoint string // custom endpoint for MinIO compatibility
}

// docMetadata is the JSON sidecar stored alongside each document in S3.
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

// Store implements filestore.DocumentStore backed by S3 (or MinIO).
//
// Object layout:
//
//	<prefix><doc_id>/content
//	<prefix><doc_id>/metadata.json
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3-backed Store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 filestore: bucket is required")
	}

	optFns := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	return &Store{
		client: s3.NewFromConfig(cfg, s3Opts...),
		bucket: opts.Bucket,
		prefix: opts.Prefix,
	}, nil
}

func (s *Store) contentKey(id string) string {
	return s.prefix + id + "/content"
}

func (s *Store) metadataKey(id string) string {
	return s.prefix + id + "/metadata.json"
}

// Put uploads both content and metadata.json to S3.
func (s *Store) Put(ctx context.Context, doc *filestore.Document) error {
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

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.contentKey(doc.ID)),
		Body:        bytes.NewReader(doc.Content),
		ContentType: aws.String(doc.MimeType),
	})
	if err != nil {
		return fmt.Errorf("put content: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.metadataKey(doc.ID)),
		Body:        bytes.NewReader(metaBytes),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put metadata: %w", err)
	}

	return nil
}

// Get returns document metadata (Content is nil).
func (s *Store) Get(ctx context.Context, id string) (*filestore.Document, error) {
	meta, err := s.readMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	return meta.toDocument(), nil
}

// GetContent returns the raw stored bytes from S3.
func (s *Store) GetContent(ctx context.Context, id string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.contentKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read content body: %w", err)
	}
	return data, nil
}

// Delete removes both the content and metadata objects.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.readMetadata(ctx, id); err != nil {
		return err
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3types.Delete{
			Objects: []s3types.ObjectIdentifier{
				{Key: aws.String(s.contentKey(id))},
				{Key: aws.String(s.metadataKey(id))},
			},
			Quiet: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

// List returns up to limit documents, newest first, optionally by owner.
func (s *Store) List(ctx context.Context, ownerID string, limit int) ([]*filestore.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var ids []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, cp := range page.CommonPrefixes {
			// "<prefix><doc_id>/" -> doc_id
			dir := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), s.prefix), "/")
			if dir != "" {
				ids = append(ids, dir)
			}
		}
	}

	var all []*filestore.Document
	for _, id := range ids {
		meta, err := s.readMetadata(ctx, id)
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

// Close is a no-op; the S3 client has no persistent connections to release.
func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) readMetadata(ctx context.Context, id string) (*docMetadata, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.metadataKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("document %s: %w", id, filestore.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read metadata body: %w", err)
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

// isNotFound reports whether err is an S3 "no such key" style error.
func isNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *s3types.NotFound
	return errors.As(err, &notFound)
}
