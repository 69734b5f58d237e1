package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestUploadDocumentHappyPath(t *testing.T) {
	var requests int32
	var gotFilename, gotCategory string
	var gotBytes int

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/documents/upload" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&requests, 1)
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(f); err != nil {
			t.Errorf("read file part: %v", err)
		}
		gotBytes = buf.Len()
		gotFilename = hdr.Filename
		gotCategory = r.FormValue("category")
		_ = json.NewEncoder(w).Encode(Document{
			ID:               42,
			Filename:         "uuid_policy.pdf",
			OriginalFilename: hdr.Filename,
			FileType:         "pdf",
			FileSize:         int64(gotBytes),
			UploadedAt:       time.Now().UTC(),
			Category:         gotCategory,
		})
	}))

	// 2 MB policy.pdf against the default 50 MB ceiling passes
	// validation and issues exactly one request.
	path := writeTempFile(t, "policy.pdf", 2<<20)
	doc, err := client.UploadDocument(context.Background(), path, "Benefits", UploadPolicy{})
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Fatalf("expected exactly 1 upload request, got %d", n)
	}
	if doc.ID != 42 {
		t.Fatalf("expected id 42, got %d", doc.ID)
	}
	if gotFilename != "policy.pdf" {
		t.Fatalf("expected filename policy.pdf, got %q", gotFilename)
	}
	if gotCategory != "Benefits" {
		t.Fatalf("expected category Benefits, got %q", gotCategory)
	}
	if gotBytes != 2<<20 {
		t.Fatalf("expected 2MB body, got %d bytes", gotBytes)
	}
}

func TestUploadValidationNeverHitsNetwork(t *testing.T) {
	var requests int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.Error(w, "should not be called", http.StatusInternalServerError)
	}))

	tests := []struct {
		name string
		path string
	}{
		{"disallowed extension", writeTempFile(t, "malware.exe", 10)},
		{"no extension", writeTempFile(t, "README", 10)},
		{"oversize", writeTempFile(t, "big.pdf", 51<<20)}, // 51 MB vs 50 MB ceiling
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.UploadDocument(context.Background(), tt.path, "", UploadPolicy{})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if n := atomic.LoadInt32(&requests); n != 0 {
		t.Fatalf("validation failures must not reach the network, got %d requests", n)
	}
}

func TestListDocumentsCategoryFilter(t *testing.T) {
	var gotCategory string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			http.NotFound(w, r)
			return
		}
		gotCategory = r.URL.Query().Get("category")
		_ = json.NewEncoder(w).Encode([]Document{
			{ID: 1, OriginalFilename: "handbook.pdf", FileType: "pdf"},
		})
	}))

	docs, err := client.ListDocuments(context.Background(), "Onboarding")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if gotCategory != "Onboarding" {
		t.Fatalf("expected category query Onboarding, got %q", gotCategory)
	}
	if len(docs) != 1 || docs[0].OriginalFilename != "handbook.pdf" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}

func TestDocumentStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/7/status" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(ProcessingStatus{Status: StatusCompleted, Progress: 100, Message: "ok", NumChunks: 12})
	}))

	st, err := client.DocumentStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("DocumentStatus: %v", err)
	}
	if !st.Terminal() || st.Status != StatusCompleted || st.NumChunks != 12 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestStatusTerminality(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{StatusQueued, false},
		{StatusProcessing, false},
		{StatusUnknown, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}
	for _, tt := range tests {
		st := ProcessingStatus{Status: tt.status}
		if st.Terminal() != tt.terminal {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, st.Terminal(), tt.terminal)
		}
	}
}

func TestDeleteDocument(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "deleted", "doc_id": 3})
	}))
	if err := client.DeleteDocument(context.Background(), 3); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/documents/3" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestViewAndDownloadURLs(t *testing.T) {
	client := New("http://localhost:8000")
	if got := client.ViewURL(5); got != "http://localhost:8000/documents/5/view" {
		t.Fatalf("ViewURL = %q", got)
	}
	if got := client.DownloadURL(5); got != "http://localhost:8000/documents/5/download" {
		t.Fatalf("DownloadURL = %q", got)
	}
}

func TestDownloadDocumentWritesBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/9/download" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("file-bytes"))
	}))
	var buf bytes.Buffer
	if err := client.DownloadDocument(context.Background(), 9, &buf); err != nil {
		t.Fatalf("DownloadDocument: %v", err)
	}
	if buf.String() != "file-bytes" {
		t.Fatalf("unexpected body %q", buf.String())
	}
}
