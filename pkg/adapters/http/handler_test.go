// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skillscore/extraction-gw/pkg/auth"
	"github.com/skillscore/extraction-gw/pkg/auth/static"
	"github.com/skillscore/extraction-gw/pkg/core/api"
	"github.com/skillscore/extraction-gw/pkg/core/config"
	"github.com/skillscore/extraction-gw/pkg/core/schema"
	"github.com/skillscore/extraction-gw/pkg/core/services"
	"github.com/skillscore/extraction-gw/pkg/filestore/memory"
	"github.com/skillscore/extraction-gw/pkg/observability/logging"
	"github.com/skillscore/extraction-gw/pkg/upload"
)

// fakeQuestionClient returns canned questions or a fixed error.
type fakeQuestionClient struct {
	questions []schema.Question
	err       error
	lastReq   api.GenerateRequest
}

func (f *fakeQuestionClient) GenerateQuestions(_ context.Context, req api.GenerateRequest) ([]schema.Question, error) {
	f.lastReq = req
	return f.questions, f.err
}

type handlerOptions struct {
	authn      auth.Provider
	questions  api.QuestionClient
	generation config.GenerationConfig
	uploadCfg  config.UploadConfig
}

func newTestHandler(t *testing.T, opts handlerOptions) *Handler {
	t.Helper()

	if opts.uploadCfg.MaxFileSize == 0 {
		opts.uploadCfg = config.UploadConfig{
			MaxFileSize:       1024 * 1024,
			AllowedExtensions: []string{"pdf", "docx", "txt", "jpg", "jpeg", "png"},
		}
	}

	logger := logging.Discard()
	service := services.NewExtractionService(config.ExtractionConfig{}, logger)
	return New(service, memory.New(), opts.questions, opts.generation, upload.NewValidator(opts.uploadCfg), opts.authn, logger)
}

// multipartUpload builds a multipart request body with one file part.
func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

// errorType extracts the error.type field from an error response body.
func errorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error.Type
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestExtractEndpoint(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	body, contentType := multipartUpload(t, "greeting.txt", []byte("Hello World"))
	req := httptest.NewRequest("POST", "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result schema.ExtractionResult
	decodeBody(t, rec, &result)
	if !result.Success || result.Text != "Hello World" || result.WordCount != 2 || result.CharCount != 11 {
		t.Errorf("result = %+v", result)
	}
	if result.FileType != "txt" {
		t.Errorf("FileType = %q, want %q", result.FileType, "txt")
	}
}

func TestExtractEndpointErrors(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	tests := []struct {
		name       string
		filename   string
		content    []byte
		wantStatus int
		wantType   string
	}{
		{
			name:       "disallowed extension",
			filename:   "payload.exe",
			content:    []byte("x"),
			wantStatus: http.StatusBadRequest,
			wantType:   "unsupported_format",
		},
		{
			name:       "corrupt pdf",
			filename:   "broken.pdf",
			content:    []byte("not a pdf at all"),
			wantStatus: http.StatusBadRequest,
			wantType:   "corrupt_document",
		},
		{
			name:       "corrupt docx",
			filename:   "broken.docx",
			content:    []byte("not a zip"),
			wantStatus: http.StatusBadRequest,
			wantType:   "corrupt_document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.filename, tt.content)
			req := httptest.NewRequest("POST", "/v1/extract", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := errorType(t, rec); got != tt.wantType {
				t.Errorf("error type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestExtractEndpointMissingFile(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "no file part")
	mw.Close()

	req := httptest.NewRequest("POST", "/v1/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExtractEndpointFileTooLarge(t *testing.T) {
	h := newTestHandler(t, handlerOptions{
		uploadCfg: config.UploadConfig{
			MaxFileSize:       64,
			AllowedExtensions: []string{"txt"},
		},
	})

	body, contentType := multipartUpload(t, "big.txt", bytes.Repeat([]byte("a"), 256))
	req := httptest.NewRequest("POST", "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if got := errorType(t, rec); got != "file_too_large" {
		t.Errorf("error type = %q", got)
	}
}

func TestValidateEndpoint(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	t.Run("short text rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/validate", strings.NewReader(`{"text":"too short"}`))
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var verdict schema.ValidationVerdict
		decodeBody(t, rec, &verdict)
		if verdict.Valid {
			t.Error("2 words should not be valid")
		}
		if !strings.Contains(verdict.Reason, "minimum 50 words") {
			t.Errorf("Reason = %q", verdict.Reason)
		}
	})

	t.Run("valid text carries counts", func(t *testing.T) {
		payload, _ := json.Marshal(schema.ValidateRequest{Text: strings.Repeat("word ", 60)})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/validate", bytes.NewReader(payload)))

		var verdict schema.ValidationVerdict
		decodeBody(t, rec, &verdict)
		if !verdict.Valid || verdict.WordCount != 60 {
			t.Errorf("verdict = %+v", verdict)
		}
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/validate", strings.NewReader("{")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestFormatsEndpoint(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/formats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body schema.FormatsResponse
	decodeBody(t, rec, &body)
	if len(body.SupportedFormats) != 6 {
		t.Errorf("SupportedFormats = %v, want 6 entries", body.SupportedFormats)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	// Upload.
	body, contentType := multipartUpload(t, "essay.txt", []byte("document body"))
	req := httptest.NewRequest("POST", "/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	var doc schema.Document
	decodeBody(t, rec, &doc)
	if doc.ID == "" || !strings.HasPrefix(doc.ID, "doc_") {
		t.Fatalf("document ID = %q", doc.ID)
	}
	if doc.Filename != "essay.txt" || doc.Bytes != int64(len("document body")) {
		t.Errorf("document = %+v", doc)
	}
	if !strings.HasPrefix(doc.StoragePath, "users/anonymous/documents/") {
		t.Errorf("StoragePath = %q", doc.StoragePath)
	}

	// Metadata.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/files/"+doc.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Raw content round-trips.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/files/"+doc.ID+"/content", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("content status = %d", rec.Code)
	}
	if rec.Body.String() != "document body" {
		t.Errorf("content = %q", rec.Body.String())
	}

	// Listed.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/files", nil))
	var list schema.DocumentList
	decodeBody(t, rec, &list)
	if len(list.Data) != 1 || list.Data[0].ID != doc.ID {
		t.Errorf("list = %+v", list)
	}

	// Delete.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("DELETE", "/v1/files/"+doc.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	var deleted schema.DeletedDocument
	decodeBody(t, rec, &deleted)
	if !deleted.Deleted || deleted.ID != doc.ID {
		t.Errorf("deleted = %+v", deleted)
	}

	// Gone.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/files/"+doc.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}
}

func TestDocumentOwnership(t *testing.T) {
	h := newTestHandler(t, handlerOptions{authn: static.New("sekret")})

	asUser := func(req *http.Request, user string) {
		req.Header.Set("Authorization", "Bearer sekret")
		req.Header.Set("X-Forwarded-User", user)
	}

	body, contentType := multipartUpload(t, "private.txt", []byte("alice's notes"))
	req := httptest.NewRequest("POST", "/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	asUser(req, "alice")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d", rec.Code)
	}
	var doc schema.Document
	decodeBody(t, rec, &doc)

	// Another user cannot see it.
	req = httptest.NewRequest("GET", "/v1/files/"+doc.ID, nil)
	asUser(req, "bob")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user get status = %d, want 404", rec.Code)
	}

	// The owner still can.
	req = httptest.NewRequest("GET", "/v1/files/"+doc.ID, nil)
	asUser(req, "alice")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get status = %d, want 200", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h := newTestHandler(t, handlerOptions{authn: static.New("sekret")})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/formats", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Error("missing WWW-Authenticate header")
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/formats", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/formats", nil)
		req.Header.Set("Authorization", "Bearer sekret")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestQuestionsEndpoint(t *testing.T) {
	longText := strings.TrimSpace(strings.Repeat("word ", 60))

	t.Run("unconfigured backend yields 503", func(t *testing.T) {
		h := newTestHandler(t, handlerOptions{})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", strings.NewReader(`{"text":"x"}`)))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("invalid content rejected before delegation", func(t *testing.T) {
		fake := &fakeQuestionClient{}
		h := newTestHandler(t, handlerOptions{questions: fake})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", strings.NewReader(`{"text":"too short"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if got := errorType(t, rec); got != "invalid_content" {
			t.Errorf("error type = %q", got)
		}
		if fake.lastReq.Text != "" {
			t.Error("backend must not be called for invalid content")
		}
	})

	t.Run("defaults applied and questions returned", func(t *testing.T) {
		fake := &fakeQuestionClient{questions: []schema.Question{
			{Type: "mcq", Prompt: "Q?", Choices: []string{"a", "b", "c", "d"}, Answer: "a"},
		}}
		h := newTestHandler(t, handlerOptions{questions: fake})

		payload, _ := json.Marshal(schema.QuestionsRequest{Text: longText})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", bytes.NewReader(payload)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if fake.lastReq.MCQCount != 3 || fake.lastReq.ShortAnswerCount != 2 {
			t.Errorf("default counts = %d/%d, want 3/2", fake.lastReq.MCQCount, fake.lastReq.ShortAnswerCount)
		}
		if fake.lastReq.Difficulty != "medium" {
			t.Errorf("default difficulty = %q, want medium", fake.lastReq.Difficulty)
		}
		var resp schema.QuestionsResponse
		decodeBody(t, rec, &resp)
		if len(resp.Questions) != 1 {
			t.Errorf("questions = %+v", resp.Questions)
		}
	})

	t.Run("configured bounds override built-in defaults", func(t *testing.T) {
		fake := &fakeQuestionClient{}
		h := newTestHandler(t, handlerOptions{
			questions: fake,
			generation: config.GenerationConfig{
				DefaultMCQCount:         1,
				DefaultShortAnswerCount: 1,
				MaxQuestionsPerRequest:  4,
			},
		})

		payload, _ := json.Marshal(schema.QuestionsRequest{Text: longText})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", bytes.NewReader(payload)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if fake.lastReq.MCQCount != 1 || fake.lastReq.ShortAnswerCount != 1 {
			t.Errorf("configured defaults = %d/%d, want 1/1", fake.lastReq.MCQCount, fake.lastReq.ShortAnswerCount)
		}

		// 3+2 exceeds the configured cap of 4 despite being under the
		// built-in cap of 10.
		payload, _ = json.Marshal(schema.QuestionsRequest{Text: longText, MCQCount: 3, ShortAnswerCount: 2})
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", bytes.NewReader(payload)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "maximum 4 per request") {
			t.Errorf("body = %s, want configured cap in message", rec.Body.String())
		}
	})

	t.Run("too many questions rejected", func(t *testing.T) {
		h := newTestHandler(t, handlerOptions{questions: &fakeQuestionClient{}})
		payload, _ := json.Marshal(schema.QuestionsRequest{Text: longText, MCQCount: 8, ShortAnswerCount: 5})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", bytes.NewReader(payload)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid difficulty rejected", func(t *testing.T) {
		h := newTestHandler(t, handlerOptions{questions: &fakeQuestionClient{}})
		payload, _ := json.Marshal(schema.QuestionsRequest{Text: longText, Difficulty: "impossible"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", bytes.NewReader(payload)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("backend failure maps to 502", func(t *testing.T) {
		h := newTestHandler(t, handlerOptions{questions: &fakeQuestionClient{err: errors.New("backend down")}})
		payload, _ := json.Marshal(schema.QuestionsRequest{Text: longText})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/questions", bytes.NewReader(payload)))
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", rec.Code)
		}
		if got := errorType(t, rec); got != "generation_error" {
			t.Errorf("error type = %q", got)
		}
	})
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, handlerOptions{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("DELETE", "/v1/extract", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
