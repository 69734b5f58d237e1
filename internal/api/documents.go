package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// ListDocuments retrieves documents, optionally filtered by pillar
// category. The backend returns them newest first.
func (c *Client) ListDocuments(ctx context.Context, category string) ([]Document, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": {category}}
	}
	var docs []Document
	if err := c.do(ctx, http.MethodGet, c.endpoint("/documents", query), nil, "", &docs); err != nil {
		return nil, wrapOp(err, "ListDocuments")
	}
	return docs, nil
}

// UploadDocument validates the file against the policy and, when it
// passes, posts it as multipart form data to /documents/upload. The
// backend stores the file, creates the document record synchronously,
// and queues background processing; callers should hand the returned
// document to a poller to track that processing.
func (c *Client) UploadDocument(ctx context.Context, path, category string, policy UploadPolicy) (*Document, error) {
	if err := policy.CheckFile(path); err != nil {
		return nil, wrapOp(err, "UploadDocument")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("UploadDocument: open file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeUploadForm(mw, f, filepath.Base(path), category)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	var doc Document
	if err := c.do(ctx, http.MethodPost, c.endpoint("/documents/upload", nil), pr, mw.FormDataContentType(), &doc); err != nil {
		return nil, wrapOp(err, "UploadDocument")
	}
	return &doc, nil
}

func writeUploadForm(mw *multipart.Writer, r io.Reader, filename, category string) error {
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if category != "" {
		if err := mw.WriteField("category", category); err != nil {
			return fmt.Errorf("write category field: %w", err)
		}
	}
	return nil
}

// DocumentStatus queries the background-processing status of one
// document. The backend answers {"status": "unknown"} for ids it has
// no record of, which callers should treat as non-terminal.
func (c *Client) DocumentStatus(ctx context.Context, id int) (ProcessingStatus, error) {
	var st ProcessingStatus
	path := fmt.Sprintf("/documents/%d/status", id)
	if err := c.do(ctx, http.MethodGet, c.endpoint(path, nil), nil, "", &st); err != nil {
		return ProcessingStatus{}, wrapOp(err, "DocumentStatus")
	}
	return st, nil
}

// DeleteDocument removes a document and its derived data.
func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	path := fmt.Sprintf("/documents/%d", id)
	return wrapOp(c.do(ctx, http.MethodDelete, c.endpoint(path, nil), nil, "", nil), "DeleteDocument")
}

// DownloadDocument streams a document's bytes into w.
func (c *Client) DownloadDocument(ctx context.Context, id int, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.DownloadURL(id), nil, "")
	if err != nil {
		return wrapOp(err, "DownloadDocument")
	}
	resp, err := c.send(req)
	if err != nil {
		return wrapOp(err, "DownloadDocument")
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("DownloadDocument: copy body: %w", err)
	}
	return nil
}

// ViewURL returns the inline-view URL for a document. The view and
// download endpoints are meant to be opened directly rather than
// fetched through the client.
func (c *Client) ViewURL(id int) string {
	return c.baseURL + "/documents/" + strconv.Itoa(id) + "/view"
}

// DownloadURL returns the attachment-download URL for a document.
func (c *Client) DownloadURL(id int) string {
	return c.baseURL + "/documents/" + strconv.Itoa(id) + "/download"
}
