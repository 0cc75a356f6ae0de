// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// Document is the API representation of a stored upload. Only the original
// bytes are stored; extracted text is never persisted.
type Document struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	Filename    string `json:"filename"`
	MimeType    string `json:"mime_type"`
	Bytes       int64  `json:"bytes"`
	Hash        string `json:"hash"`
	StoragePath string `json:"storage_path"`
	CreatedAt   int64  `json:"created_at"`
}

// DocumentList is the body of GET /v1/files.
type DocumentList struct {
	Object string     `json:"object"`
	Data   []Document `json:"data"`
}

// DeletedDocument is the body returned after a delete.
type DeletedDocument struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
