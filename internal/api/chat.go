package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ChatRequest is one question for the document assistant. History is
// sent along so the backend can answer follow-ups in context; an
// optional attachment is ingested before the question is answered.
type ChatRequest struct {
	Query          string
	History        []ChatMessage
	AttachmentPath string
}

// buildChatForm assembles the multipart body the chat endpoint
// expects: query, optional history JSON, stream flag, optional file.
func buildChatForm(req ChatRequest, stream bool) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("query", req.Query); err != nil {
		return nil, "", fmt.Errorf("write query field: %w", err)
	}
	if len(req.History) > 0 {
		b, err := json.Marshal(req.History)
		if err != nil {
			return nil, "", fmt.Errorf("marshal history: %w", err)
		}
		if err := mw.WriteField("history", string(b)); err != nil {
			return nil, "", fmt.Errorf("write history field: %w", err)
		}
	}
	if stream {
		if err := mw.WriteField("stream", "true"); err != nil {
			return nil, "", fmt.Errorf("write stream field: %w", err)
		}
	}
	if req.AttachmentPath != "" {
		f, err := os.Open(req.AttachmentPath)
		if err != nil {
			return nil, "", fmt.Errorf("open attachment: %w", err)
		}
		defer f.Close()
		part, err := mw.CreateFormFile("file", filepath.Base(req.AttachmentPath))
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", fmt.Errorf("copy attachment: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// Chat asks the assistant a question and waits for the full answer.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatAnswer, error) {
	body, contentType, err := buildChatForm(req, false)
	if err != nil {
		return nil, wrapOp(err, "Chat")
	}
	var out ChatAnswer
	if err := c.do(ctx, http.MethodPost, c.endpoint("/chat", nil), body, contentType, &out); err != nil {
		return nil, wrapOp(err, "Chat")
	}
	return &out, nil
}

// ChatStream asks the assistant a question and delivers the answer as
// it is generated. onChunk is called once per server-sent chunk; the
// caller accumulates chunks into the growing answer. The stream ends
// when the server closes it or sends a chunk marked done.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, onChunk func(StreamChunk)) error {
	body, contentType, err := buildChatForm(req, true)
	if err != nil {
		return wrapOp(err, "ChatStream")
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/chat", nil), body, contentType)
	if err != nil {
		return wrapOp(err, "ChatStream")
	}
	resp, err := c.send(httpReq)
	if err != nil {
		return wrapOp(err, "ChatStream")
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		var chunk StreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Debug("chat stream: skipping malformed event", "err", err)
			continue
		}
		onChunk(chunk)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ChatStream: read stream: %w", err)
	}
	return nil
}
