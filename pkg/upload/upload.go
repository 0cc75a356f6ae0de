// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package upload pre-validates incoming files and builds safe storage paths.
// The extraction pipeline does not rely on this having run: it re-rejects
// unrecognized extensions on its own.
package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/skillscore/extraction-gw/pkg/core/config"
)

var (
	// ErrNoFilename is returned when the upload carries no filename.
	ErrNoFilename = errors.New("no filename provided")
	// ErrTypeNotAllowed is returned for extensions outside the allowed list.
	ErrTypeNotAllowed = errors.New("file type not allowed")
	// ErrFileTooLarge is returned when the content exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// FileInfo describes a validated upload.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
	Extension   string
	Hash        string
}

// Validator checks uploads against the configured limits before they reach
// the extraction pipeline or the document store.
type Validator struct {
	maxFileSize int64
	allowed     map[string]bool
}

// NewValidator creates a Validator from upload configuration.
func NewValidator(cfg config.UploadConfig) *Validator {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &Validator{
		maxFileSize: cfg.MaxFileSize,
		allowed:     allowed,
	}
}

// Validate checks filename and content against the limits and returns the
// upload's metadata. declaredType is used when the extension has no known
// MIME mapping.
func (v *Validator) Validate(filename string, content []byte, declaredType string) (FileInfo, error) {
	if filename == "" {
		return FileInfo{}, ErrNoFilename
	}

	ext := fileExt(filename)
	if !v.allowed[ext] {
		return FileInfo{}, fmt.Errorf("%w: %q", ErrTypeNotAllowed, ext)
	}

	size := int64(len(content))
	if size > v.maxFileSize {
		return FileInfo{}, fmt.Errorf("%w: %d bytes (maximum %d)", ErrFileTooLarge, size, v.maxFileSize)
	}

	contentType := mime.TypeByExtension("." + ext)
	if contentType == "" {
		contentType = declaredType
	}

	return FileInfo{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Extension:   ext,
		Hash:        ContentHash(content),
	}, nil
}

// fileExt returns the lowercase extension after the last dot, without the dot.
func fileExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ContentHash returns the SHA-256 hex digest of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// safeChars are the only characters kept by SanitizeFilename.
const safeChars = "-_.() abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SanitizeFilename strips path separators and unsafe characters and caps the
// name at 100 characters while preserving the extension.
func SanitizeFilename(filename string) string {
	var sb strings.Builder
	for _, r := range filename {
		if strings.ContainsRune(safeChars, r) {
			sb.WriteRune(r)
		}
	}
	sanitized := sb.String()

	if len(sanitized) > 100 {
		ext := filepath.Ext(sanitized)
		name := strings.TrimSuffix(sanitized, ext)
		if len(name) > 95 {
			name = name[:95]
		}
		sanitized = name + ext
	}

	if sanitized == "" {
		return "unnamed_file"
	}
	return sanitized
}

// StoragePath builds the per-user object key for an uploaded document:
// users/{user_id}/documents/{file_id}_{sanitized_name}.
func StoragePath(userID, filename string) string {
	return fmt.Sprintf("users/%s/documents/%s_%s", userID, uuid.NewString(), SanitizeFilename(filename))
}

// UserIDFromPath recovers the owning user ID from a storage path built by
// StoragePath.
func UserIDFromPath(path string) (string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) >= 2 && parts[0] == "users" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}
