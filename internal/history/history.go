// Package history persists the chat transcript between CLI
// invocations as a JSON file in the state directory.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hrnexus/hrnexus-cli/internal/api"
	"github.com/hrnexus/hrnexus-cli/internal/utils"
)

// FileName is the transcript file inside the state directory.
const FileName = "chat_history.json"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry. Timestamps round-trip through the
// file as RFC 3339.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a timestamped message with a fresh identifier.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Transcript is an ordered chat history bound to a file.
type Transcript struct {
	path     string
	logger   *slog.Logger
	Messages []Message
}

// Load reads the transcript at path. A missing file yields an empty
// transcript; a corrupt one is discarded with a debug log, since the
// transcript is a convenience, not a record.
func Load(path string, logger *slog.Logger) (*Transcript, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Transcript{path: path, logger: logger}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if err := json.Unmarshal(b, &t.Messages); err != nil {
		logger.Debug("history file corrupt, starting empty", "path", path, "err", err)
		t.Messages = nil
	}
	return t, nil
}

// LoadDefault loads ~/.hrnexus/chat_history.json.
func LoadDefault(logger *slog.Logger) (*Transcript, error) {
	dir, err := utils.StateDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, FileName), logger)
}

// Append adds a message to the in-memory transcript.
func (t *Transcript) Append(role, content string) Message {
	m := NewMessage(role, content)
	t.Messages = append(t.Messages, m)
	return m
}

// Save writes the transcript back to its file atomically. The file is
// indented so users can read and hand-prune it.
func (t *Transcript) Save() error {
	b, err := json.MarshalIndent(t.Messages, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := utils.WriteFileAtomic(t.path, b); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Clear empties the transcript and removes its file.
func (t *Transcript) Clear() error {
	t.Messages = nil
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}

// ChatHistory converts the transcript to the role/content pairs the
// chat endpoint accepts.
func (t *Transcript) ChatHistory() []api.ChatMessage {
	out := make([]api.ChatMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		out = append(out, api.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
